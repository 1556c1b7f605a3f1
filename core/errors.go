package core

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// NotFoundError is returned when a command is neither a builtin nor an
// executable on the PATH.
type NotFoundError struct {
	Argv []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: command not found", e.name())
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func (e *NotFoundError) name() string {
	if len(e.Argv) == 0 {
		return ""
	}
	return e.Argv[0]
}

// ChildError is returned when an external program couldn't be started or its
// standard streams failed. A non-zero exit status is not a ChildError.
type ChildError struct {
	Argv []string
	Err  error
}

func (e *ChildError) Error() string {
	name := ""
	if len(e.Argv) > 0 {
		name = e.Argv[0]
	}
	return fmt.Sprintf("%s: %v", name, e.Err)
}

func (e *ChildError) Unwrap() error {
	return e.Err
}

// describePathError renders a filesystem error the way shells report them.
func describePathError(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "No such file or directory"
	case errors.Is(err, fs.ErrPermission):
		return "Permission denied"
	case errors.Is(err, syscall.ENOTDIR):
		return "Not a directory"
	case errors.Is(err, syscall.EISDIR):
		return "Is a directory"
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}

package core

import (
	"io/fs"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

// CommandKind classifies a command name.
type CommandKind int

const (
	KindNotFound CommandKind = iota
	KindBuiltin
	KindExternal
)

func (k CommandKind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindExternal:
		return "external"
	default:
		return "not found"
	}
}

// Resolution is the outcome of looking up a command name.
type Resolution struct {
	Name string
	Kind CommandKind
	// Path is the executable for KindExternal.
	Path string
	// Builtin is the handler for KindBuiltin.
	Builtin Builtin
}

// IsBuiltin reports whether name is handled inside the shell.
func (s *Session) IsBuiltin(name string) bool {
	_, ok := s.builtins[name]
	return ok
}

// Resolve looks name up as a builtin first and then on the PATH.
func (s *Session) Resolve(name string) Resolution {
	if builtin, ok := s.builtins[name]; ok {
		return Resolution{Name: name, Kind: KindBuiltin, Builtin: builtin}
	}

	path, err := LookPath(s.Fs, s.getenv(EnvPath), name)
	if err != nil {
		return Resolution{Name: name, Kind: KindNotFound}
	}
	return Resolution{Name: name, Kind: KindExternal, Path: path}
}

func findExecutable(fsys afero.Fs, file string) error {
	d, err := fsys.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); m.IsRegular() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// pathList. If file contains a slash, it is tried directly and the PATH is not
// consulted. The result may be an absolute path or a path relative to the
// current directory.
func LookPath(fsys afero.Fs, pathList, file string) (string, error) {
	if file == "" {
		return "", ErrNotFound
	}
	if strings.Contains(file, "/") {
		err := findExecutable(fsys, file)
		if err == nil {
			return file, nil
		}
		return "", err
	}
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(fsys, path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// CommandsWithPrefix lists the builtins and PATH executables whose names
// start with prefix, sorted and without duplicates.
func (s *Session) CommandsWithPrefix(prefix string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if !seen[name] && strings.HasPrefix(name, prefix) {
			seen[name] = true
			out = append(out, name)
		}
	}

	for name := range s.builtins {
		add(name)
	}

	for _, dir := range filepath.SplitList(s.getenv(EnvPath)) {
		if dir == "" {
			dir = "."
		}
		// Unreadable directories are skipped like a failed lookup would be.
		entries, err := afero.ReadDir(s.Fs, dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !strings.HasPrefix(entry.Name(), prefix) {
				continue
			}
			if findExecutable(s.Fs, filepath.Join(dir, entry.Name())) == nil {
				add(entry.Name())
			}
		}
	}

	sort.Strings(out)
	return out
}

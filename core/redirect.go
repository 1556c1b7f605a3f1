package core

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/josephlewis42/relaysh/core/shell"
)

// RunCommand executes a single command, sending the redirected stream to a
// file once the command finishes.
func (s *Session) RunCommand(argv shell.Command, redirect *shell.Redirect) (int, error) {
	stdout, stderr := s.Stdout, s.Stderr
	captured := &bytes.Buffer{}
	if redirect != nil {
		switch redirect.Stream {
		case shell.Stdout:
			stdout = captured
		case shell.Stderr:
			stderr = captured
		}
	}

	var (
		status int
		runErr error
	)

	res := s.Resolve(argv.Name())
	switch res.Kind {
	case KindBuiltin:
		s.recordRun(argv, res, "")
		out := res.Builtin.Main(s, argv)
		writeOutput(stdout, stderr, out)
		status = out.Status

	case KindExternal:
		s.recordRun(argv, res, "")
		proc, err := Launch(res.Path, argv, Stdio{Stdin: s.Stdin, Stdout: stdout, Stderr: stderr})
		if err != nil {
			status, runErr = 126, err
			break
		}
		status, runErr = proc.Wait()

	default:
		status, runErr = 127, &NotFoundError{Argv: argv}
	}

	// The target is created even when the stream stayed empty.
	if redirect != nil {
		if err := s.writeRedirect(redirect, captured.Bytes()); err != nil {
			fmt.Fprintf(s.Stderr, "%s: %s\n", redirect.Path, describePathError(err))
			status = 1
		}
	}

	return status, runErr
}

// writeOutput copies a builtin's output to its streams. A failed write to the
// terminal has nowhere to be reported, so the builtin's status stands.
func writeOutput(stdout, stderr io.Writer, out Output) {
	_, _ = io.WriteString(stdout, out.Stdout)
	_, _ = io.WriteString(stderr, out.Stderr)
}

func (s *Session) writeRedirect(redirect *shell.Redirect, data []byte) error {
	flags := os.O_CREATE | os.O_WRONLY
	if redirect.Mode == shell.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	fd, err := s.Fs.OpenFile(redirect.Path, flags, 0644)
	if err != nil {
		return err
	}

	if _, err := fd.Write(data); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

package core

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"
)

// Stdio selects the standard streams of a launched program.
type Stdio struct {
	// Input, when non-nil, is written to a pipe on the program's stdin which
	// is then closed so the program sees end of input. Stdin is ignored.
	Input []byte

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Process is a running external program.
type Process struct {
	Argv []string

	cmd  *exec.Cmd
	done chan struct{}

	// Set before done is closed.
	waitErr  error
	inputErr error
}

// Launch starts the executable at path with the given argument vector.
// argv[0] is passed through as the program's name.
func Launch(path string, argv []string, stdio Stdio) (*Process, error) {
	cmd := &exec.Cmd{
		Path:   path,
		Args:   argv,
		Stdout: stdio.Stdout,
		Stderr: stdio.Stderr,
	}

	var stdin io.WriteCloser
	if stdio.Input != nil {
		pipe, err := cmd.StdinPipe()
		if err != nil {
			return nil, &ChildError{Argv: argv, Err: err}
		}
		stdin = pipe
	} else {
		cmd.Stdin = stdio.Stdin
	}

	if err := cmd.Start(); err != nil {
		if stdin != nil {
			stdin.Close()
		}
		return nil, &ChildError{Argv: argv, Err: err}
	}

	proc := &Process{
		Argv: argv,
		cmd:  cmd,
		done: make(chan struct{}),
	}

	if stdin != nil {
		proc.inputErr = feedInput(stdin, stdio.Input)
	}

	go proc.wait()
	return proc, nil
}

// feedInput writes data to the program and closes its stdin. A program may
// exit without reading everything, so a broken pipe isn't a failure.
func feedInput(w io.WriteCloser, data []byte) error {
	_, err := w.Write(data)
	closeErr := w.Close()
	if err == nil {
		err = closeErr
	}
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}

func (p *Process) wait() {
	p.waitErr = p.cmd.Wait()
	close(p.done)
}

// Done is closed exactly once, when the program has exited and its output
// has been copied.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the program exits and returns its status. The error is
// a *ChildError if the program's standard streams failed; a non-zero exit
// is reported only through the status.
func (p *Process) Wait() (int, error) {
	<-p.Done()

	status := exitStatus(p.cmd.ProcessState)

	var exitErr *exec.ExitError
	switch {
	case p.waitErr != nil && !errors.As(p.waitErr, &exitErr):
		return status, &ChildError{Argv: p.Argv, Err: p.waitErr}
	case p.inputErr != nil:
		return status, &ChildError{Argv: p.Argv, Err: p.inputErr}
	default:
		return status, nil
	}
}

// exitStatus maps a finished process to a shell status, 128+N for a
// program killed by signal N.
func exitStatus(state *os.ProcessState) int {
	if state == nil {
		return -1
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}

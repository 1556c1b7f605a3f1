package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/josephlewis42/relaysh/core/history"
	"github.com/josephlewis42/relaysh/core/logger"
	"github.com/josephlewis42/relaysh/core/shell"
	"github.com/spf13/afero"
)

const (
	EnvHome = "HOME"
	EnvPath = "PATH"
)

// Session is the state shared by the builtins and the executor for the
// lifetime of one shell.
type Session struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Fs holds history files and redirection targets.
	Fs afero.Fs
	// Getenv looks up environment variables.
	Getenv func(key string) string

	History *history.History
	// HistFile is the history file named by HISTFILE, empty if unset.
	HistFile string

	Events logger.EventRecorder

	builtins   map[string]Builtin
	lastStatus int
	exited     bool
	exitCode   int
}

// NewSession creates a session attached to the host filesystem and
// environment.
func NewSession(stdin io.Reader, stdout, stderr io.Writer) *Session {
	return &Session{
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		Fs:       afero.NewOsFs(),
		Getenv:   os.Getenv,
		History:  history.New(),
		Events:   logger.NewNopLogger().Sessionless(),
		builtins: AllBuiltins,
	}
}

func (s *Session) getenv(key string) string {
	if s.Getenv == nil {
		return os.Getenv(key)
	}
	return s.Getenv(key)
}

func (s *Session) record(event logger.LogType) {
	if s.Events == nil {
		return
	}
	_ = s.Events.Record(event)
}

// LastStatus is the exit status of the most recent command.
func (s *Session) LastStatus() int {
	return s.lastStatus
}

// Exited reports whether the exit builtin ran and the code it requested.
func (s *Session) Exited() (code int, ok bool) {
	return s.exitCode, s.exited
}

func (s *Session) exit(code int) {
	s.exited = true
	s.exitCode = code
}

// LoadHistory seeds the history list from HistFile. A missing file isn't an
// error.
func (s *Session) LoadHistory() error {
	if s.HistFile == "" {
		return nil
	}

	err := s.History.Load(s.Fs, s.HistFile)
	switch {
	case err == nil, errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		s.recordHistoryFailure("read", s.HistFile, err)
		return err
	}
}

func (s *Session) recordHistoryFailure(operation, path string, err error) {
	s.record(&logger.HistoryIO{
		Operation: operation,
		Path:      path,
		Error:     err.Error(),
	})
}

// RunLine executes one line of input and returns its exit status.
func (s *Session) RunLine(line string) int {
	if strings.TrimSpace(line) == "" {
		return s.lastStatus
	}
	s.History.Add(line)

	parsed, err := shell.Parse(line)
	switch {
	case errors.Is(err, shell.ErrEmptyLine):
		return s.lastStatus
	case err != nil:
		fmt.Fprintf(s.Stderr, "relaysh: %v\n", err)
		s.lastStatus = 2
		return s.lastStatus
	}

	release := holdInterrupts()
	defer release()

	var status int
	if len(parsed.Pipeline) == 1 {
		status, err = s.RunCommand(parsed.Pipeline[0], parsed.Redirect)
	} else {
		status, err = s.RunPipeline(parsed.Pipeline)
	}
	if err != nil {
		s.reportError(err)
	}

	s.lastStatus = status
	return status
}

// reportError prints the single diagnostic line for a failed command and
// logs it.
func (s *Session) reportError(err error) {
	var (
		notFound *NotFoundError
		child    *ChildError
	)
	switch {
	case errors.As(err, &notFound):
		s.record(&logger.UnknownCommand{Command: notFound.Argv})
	case errors.As(err, &child):
		s.record(&logger.ChildFailure{Command: child.Argv, ExitCode: -1, Error: child.Err.Error()})
	}

	fmt.Fprintln(s.Stderr, err)
}

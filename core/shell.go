package core

import (
	"io"
	"log"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/josephlewis42/relaysh/core/config"
)

// Shell is the interactive read-eval loop around a Session.
type Shell struct {
	Session  *Session
	Readline *readline.Instance
}

// NewShell creates a line editor for the session using the prompt and
// recall settings from the configuration.
func NewShell(session *Session, configuration *config.Configuration) (*Shell, error) {
	cfg := &readline.Config{
		Prompt:          Prompt(configuration),
		HistoryLimit:    configuration.HistoryLimit,
		AutoComplete:    &Completer{Session: session},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          session.Stdout,
		Stderr:          session.Stderr,
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	// Lines loaded from HISTFILE are available to up-arrow recall.
	for _, line := range session.History.Entries() {
		if err := rl.SaveHistory(line); err != nil {
			log.Printf("Couldn't restore history: %v", err)
			break
		}
	}

	return &Shell{
		Session:  session,
		Readline: rl,
	}, nil
}

// Prompt renders the configured prompt.
func Prompt(configuration *config.Configuration) string {
	if configuration.ColorPrompt {
		return color.New(color.FgGreen, color.Bold).Sprint(configuration.Prompt)
	}
	return configuration.Prompt
}

// Run reads and executes lines until the exit builtin runs or input ends,
// then returns the exit code.
func (s *Shell) Run() int {
	release := holdInterrupts()
	defer release()

	for {
		if code, ok := s.Session.Exited(); ok {
			return code
		}

		line, err := s.Readline.Readline()

		switch {
		case err == readline.ErrInterrupt:
			// Ctrl-C drops the line being edited.
			continue

		case err == io.EOF:
			s.exit()

		case err != nil:
			log.Printf("Error readline: %v", err)
			s.exit()

		default:
			s.Session.RunLine(line)
		}
	}
}

// exit runs the exit builtin so HISTFILE is flushed on end of input too.
func (s *Shell) exit() {
	out := Exit(s.Session, []string{"exit"})
	io.WriteString(s.Session.Stderr, out.Stderr)
}

func (s *Shell) Close() error {
	return s.Readline.Close()
}

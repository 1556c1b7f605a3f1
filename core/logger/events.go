package logger

// LogEntry is a single line in the event log. Exactly one of the event
// fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	RunCommand     *RunCommand     `json:"run_command,omitempty"`
	UnknownCommand *UnknownCommand `json:"unknown_command,omitempty"`
	Pipeline       *Pipeline       `json:"pipeline,omitempty"`
	ChildFailure   *ChildFailure   `json:"child_failure,omitempty"`
	HistoryIO      *HistoryIO      `json:"history_io,omitempty"`
	Session        *Session        `json:"session,omitempty"`
}

// LogType is implemented by every event that can be stored in a LogEntry.
type LogType interface {
	setOn(le *LogEntry)
}

// GetLogType returns the event held by the entry or nil if it has none.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.RunCommand != nil:
		return le.RunCommand
	case le.UnknownCommand != nil:
		return le.UnknownCommand
	case le.Pipeline != nil:
		return le.Pipeline
	case le.ChildFailure != nil:
		return le.ChildFailure
	case le.HistoryIO != nil:
		return le.HistoryIO
	case le.Session != nil:
		return le.Session
	default:
		return nil
	}
}

// RunCommand is logged for every command that gets executed.
type RunCommand struct {
	Command      []string `json:"command"`
	ResolvedPath string   `json:"resolved_path,omitempty"`
	Builtin      bool     `json:"builtin,omitempty"`
	// Strategy is the pipeline strategy, empty for single commands.
	Strategy string `json:"strategy,omitempty"`
}

func (e *RunCommand) setOn(le *LogEntry) { le.RunCommand = e }

// UnknownCommand is logged when a command can't be resolved.
type UnknownCommand struct {
	Command []string `json:"command"`
}

func (e *UnknownCommand) setOn(le *LogEntry) { le.UnknownCommand = e }

// Pipeline is logged when a multi-stage pipeline starts.
type Pipeline struct {
	Stages   int    `json:"stages"`
	Strategy string `json:"strategy"`
}

func (e *Pipeline) setOn(le *LogEntry) { le.Pipeline = e }

// ChildFailure is logged when an external program couldn't be started, its
// I/O failed or it exited with a non-zero status.
type ChildFailure struct {
	Command  []string `json:"command"`
	ExitCode int      `json:"exit_code"`
	Error    string   `json:"error,omitempty"`
}

func (e *ChildFailure) setOn(le *LogEntry) { le.ChildFailure = e }

// HistoryIO is logged when reading or writing a history file fails.
type HistoryIO struct {
	Operation string `json:"operation"`
	Path      string `json:"path"`
	Error     string `json:"error"`
}

func (e *HistoryIO) setOn(le *LogEntry) { le.HistoryIO = e }

const (
	SessionStart = "start"
	SessionExit  = "exit"
)

// Session marks the start and end of a shell session.
type Session struct {
	Event    string `json:"event"`
	ExitCode int    `json:"exit_code,omitempty"`
}

func (e *Session) setOn(le *LogEntry) { le.Session = e }

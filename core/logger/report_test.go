package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	buf := &bytes.Buffer{}
	session := NewJsonLinesLogRecorder(buf).NewSession()

	events := []LogType{
		&Session{Event: SessionStart},
		&RunCommand{Command: []string{"echo", "hi"}, Builtin: true},
		&RunCommand{Command: []string{"ls"}, ResolvedPath: "/bin/ls"},
		&RunCommand{Command: []string{"ls", "-l"}, ResolvedPath: "/bin/ls"},
		&Pipeline{Stages: 2, Strategy: "sequential-relay"},
		&UnknownCommand{Command: []string{"nosuchcmd"}},
		&ChildFailure{Command: []string{"false"}, ExitCode: 1},
		&ChildFailure{Command: []string{"false"}, ExitCode: 1},
		&HistoryIO{Operation: "read", Path: "/nope", Error: "file does not exist"},
		&Session{Event: SessionExit, ExitCode: 3},
	}
	for _, event := range events {
		assert.Nil(t, session.Record(event))
	}
	// Garbage that still decodes as an object.
	buf.WriteString("{\"timestamp_micros\": 1}\n")

	report := NewReport()
	assert.Nil(t, ReadJSONLinesLog(buf, report.Update))

	assert.Equal(t, 11, report.LogEntries)
	assert.Equal(t, 1, report.Sessions)
	assert.Equal(t, 1, report.InvalidEntries.Get("<nil>"))
	assert.Equal(t, 2, report.RunCommand.CommandNames.Get("ls"))
	assert.Equal(t, 1, report.RunCommand.Kinds.Get("builtin"))
	assert.Equal(t, 2, report.RunCommand.Kinds.Get("external"))
	assert.Equal(t, 1, report.RunCommand.Strategies.Get("sequential-relay"))
	assert.Equal(t, 1, report.UnknownCommand.CommandNames.Get("nosuchcmd"))
	assert.Equal(t, 2, report.ChildFailure.Failures.Get("false", "1"))
	assert.Equal(t, 1, report.HistoryIO.Failures.Get("read", "/nope"))
}

func TestReadJSONLinesLog_invalid(t *testing.T) {
	buf := bytes.NewBufferString("{\"timestamp_micros\": 1}\nnot json\n")

	count := 0
	err := ReadJSONLinesLog(buf, func(*LogEntry) { count++ })
	assert.NotNil(t, err)
	assert.Equal(t, 1, count)
}

func TestPathCounter_MarshalJSON(t *testing.T) {
	ctr := NewPathCounter("command", "exit_code")
	ctr.Increment("grep", "1")
	ctr.Increment("false", "1")
	ctr.Increment("false", "1")

	out, err := json.Marshal(ctr)
	assert.Nil(t, err)
	assert.JSONEq(t, `[
		{"count": 2, "event": {"command": "false", "exit_code": "1"}},
		{"count": 1, "event": {"command": "grep", "exit_code": "1"}}
	]`, string(out))

	empty, err := json.Marshal(NewPathCounter("a"))
	assert.Nil(t, err)
	assert.Equal(t, "[]", string(empty))
}

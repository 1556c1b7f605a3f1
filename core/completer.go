package core

import (
	"strings"

	"github.com/abiosoft/readline"
)

// Completer completes the command name at the start of a line from the
// builtins and the executables on the PATH.
type Completer struct {
	Session *Session
}

var _ readline.AutoCompleter = (*Completer)(nil)

// Do returns the candidate suffixes for the word before the cursor and the
// length of that word. A unique match gets a trailing space.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	prefix := string(line[:pos])
	if strings.TrimLeft(prefix, " ") != prefix || strings.Contains(prefix, " ") {
		return nil, 0
	}

	matches := c.Session.CommandsWithPrefix(prefix)
	out := make([][]rune, 0, len(matches))
	for _, match := range matches {
		suffix := strings.TrimPrefix(match, prefix)
		if len(matches) == 1 {
			suffix += " "
		}
		out = append(out, []rune(suffix))
	}

	return out, len([]rune(prefix))
}

package shell

import "fmt"

// Stream identifies which output of a command a redirection captures.
type Stream int

const (
	Stdout Stream = 1
	Stderr Stream = 2
)

func (s Stream) String() string {
	switch s {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return fmt.Sprintf("stream(%d)", int(s))
	}
}

// Mode is how a redirection target is opened.
type Mode int

const (
	Truncate Mode = iota
	Append
)

func (m Mode) String() string {
	if m == Append {
		return "append"
	}
	return "truncate"
}

// Redirect sends one output stream of a single command to a file.
type Redirect struct {
	Stream Stream
	Mode   Mode
	Path   string
}

var redirectOperators = map[string]Redirect{
	">":   {Stream: Stdout, Mode: Truncate},
	"1>":  {Stream: Stdout, Mode: Truncate},
	">>":  {Stream: Stdout, Mode: Append},
	"1>>": {Stream: Stdout, Mode: Append},
	"2>":  {Stream: Stderr, Mode: Truncate},
	"2>>": {Stream: Stderr, Mode: Append},
}

// IsRedirectOperator reports whether tok is one of the supported operators.
func IsRedirectOperator(tok string) bool {
	_, ok := redirectOperators[tok]
	return ok
}

// ExtractRedirect finds the first redirection operator in tokens.
//
// The returned command is everything before the operator and the token
// following it is the target path. Anything after the path is ignored. If the
// operator is the last token there is no target and the redirect is nil, but
// the operator is still cut from the command.
func ExtractRedirect(tokens []string) ([]string, *Redirect) {
	for i, tok := range tokens {
		op, ok := redirectOperators[tok]
		if !ok {
			continue
		}

		command := tokens[:i:i]
		if i+1 >= len(tokens) {
			return command, nil
		}

		op.Path = tokens[i+1]
		return command, &op
	}

	return tokens, nil
}

package shell

import (
	"errors"
	"fmt"
)

// PipeOperator separates the stages of a pipeline.
const PipeOperator = "|"

// Command is a program name followed by its arguments.
type Command []string

// Name is the program name of the command.
func (c Command) Name() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Args are the arguments after the program name.
func (c Command) Args() []string {
	if len(c) < 2 {
		return nil
	}
	return c[1:]
}

// Pipeline is one or more commands whose outputs feed the next one's input.
type Pipeline []Command

// Line is a fully parsed input line.
type Line struct {
	Pipeline Pipeline

	// Redirect is only ever set when the pipeline has a single stage.
	Redirect *Redirect
}

// SyntaxError is returned for lines that can't be turned into a pipeline.
type SyntaxError struct {
	Token string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error near unexpected token `%s'", e.Token)
}

// ErrEmptyLine is returned by Parse for lines without any words.
var ErrEmptyLine = errors.New("empty line")

// SplitPipeline breaks tokens into stages on the pipe operator. A pipeline
// with k operators always has k+1 stages, so an empty stage is a syntax error.
func SplitPipeline(tokens []string) (Pipeline, error) {
	var (
		out     Pipeline
		current Command
	)

	for _, tok := range tokens {
		if tok != PipeOperator {
			current = append(current, tok)
			continue
		}

		if len(current) == 0 {
			return nil, &SyntaxError{Token: PipeOperator}
		}
		out = append(out, current)
		current = nil
	}

	if len(current) == 0 {
		if len(out) == 0 {
			return nil, ErrEmptyLine
		}
		return nil, &SyntaxError{Token: PipeOperator}
	}

	return append(out, current), nil
}

// Parse tokenizes a line and builds the pipeline it describes.
//
// The first redirection operator and its target are extracted from the whole
// line before it is split on pipes, and everything after the target is
// dropped. The redirection only applies when a single command remains; in a
// pipeline it's ignored because intermediate stdout is always a pipe.
func Parse(line string) (*Line, error) {
	tokens := Tokenize(line)
	cmd, redirect := ExtractRedirect(tokens)
	switch {
	case len(cmd) < len(tokens) && redirect == nil:
		return nil, &SyntaxError{Token: "newline"}
	case len(cmd) == 0 && len(tokens) > 0:
		return nil, &SyntaxError{Token: tokens[0]}
	}

	stages, err := SplitPipeline(cmd)
	if err != nil {
		return nil, err
	}

	out := &Line{Pipeline: stages}
	if len(stages) == 1 {
		out.Redirect = redirect
	}
	return out, nil
}

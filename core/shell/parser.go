// Package shell turns a raw input line into the pieces the executor needs:
// tokens, pipeline stages and an optional output redirection.
//
// The quoting rules are a subset of
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
// (2.2 Quoting). There is no expansion of any kind.
package shell

import (
	"strings"
)

type quoteState int

const (
	quoteNone quoteState = iota
	quoteSingle
	quoteDouble
)

// Tokenize splits a line into words.
//
// Outside quotes a backslash escapes the next character and spaces separate
// words. Inside single quotes everything is literal. Inside double quotes a
// backslash only escapes '"' and '\'; before any other character it is kept.
//
// Unterminated quotes are not an error, the rest of the line (spaces
// included) becomes part of the last word.
func Tokenize(line string) []string {
	var (
		tokens  []string
		current strings.Builder
		state   = quoteNone
		escaped bool
	)

	// A word that consisted only of quotes ('') is empty and dropped, matching
	// the accumulator flush rule.
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, ch := range line {
		if escaped {
			if state == quoteDouble && ch != '"' && ch != '\\' {
				current.WriteRune('\\')
			}
			current.WriteRune(ch)
			escaped = false
			continue
		}

		switch state {
		case quoteSingle:
			if ch == '\'' {
				state = quoteNone
			} else {
				current.WriteRune(ch)
			}

		case quoteDouble:
			switch ch {
			case '"':
				state = quoteNone
			case '\\':
				escaped = true
			default:
				current.WriteRune(ch)
			}

		default:
			switch ch {
			case ' ':
				flush()
			case '\'':
				state = quoteSingle
			case '"':
				state = quoteDouble
			case '\\':
				escaped = true
			default:
				current.WriteRune(ch)
			}
		}
	}

	// A trailing lone backslash has nothing to escape, keep it.
	if escaped {
		current.WriteRune('\\')
	}
	flush()

	return tokens
}

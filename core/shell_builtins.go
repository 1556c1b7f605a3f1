package core

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pborman/getopt/v2"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]Builtin)

// Output is what a builtin produced. The executor decides where the text
// goes: the terminal, the next pipeline stage or a redirection target.
type Output struct {
	Stdout string
	Stderr string
	Status int
}

type Builtin interface {
	Main(s *Session, args []string) Output
}

type BuiltinFunc func(s *Session, args []string) Output

func (f BuiltinFunc) Main(s *Session, args []string) Output {
	return f(s, args)
}

var _ Builtin = (BuiltinFunc)(nil)

// BuiltinNames returns the names of the registered builtins in sorted order.
func BuiltinNames() []string {
	var names []string
	for name := range AllBuiltins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func failf(status int, format string, a ...interface{}) Output {
	return Output{Stderr: fmt.Sprintf(format, a...) + "\n", Status: status}
}

// Echo writes its arguments separated by spaces.
func Echo(s *Session, args []string) Output {
	return Output{Stdout: strings.Join(args[1:], " ") + "\n"}
}

// Exit quits the shell after flushing unsaved history to HISTFILE.
func Exit(s *Session, args []string) Output {
	var out Output
	switch len(args) {
	case 1:
	case 2:
		code, err := strconv.Atoi(args[1])
		if err != nil {
			out = failf(2, "%s: %s: numeric argument required", args[0], args[1])
		} else {
			out.Status = code
		}
	default:
		return failf(1, "%s: too many arguments", args[0])
	}

	if s.HistFile != "" && len(s.History.Unsaved()) > 0 {
		if err := s.History.AppendFile(s.Fs, s.HistFile); err != nil {
			s.recordHistoryFailure("append", s.HistFile, err)
			out.Stderr += fmt.Sprintf("%s: %s: %s\n", args[0], s.HistFile, describePathError(err))
		}
	}

	s.exit(out.Status)
	return out
}

// Type describes how each name would be interpreted as a command.
func Type(s *Session, args []string) Output {
	var out Output
	w := &strings.Builder{}
	for _, name := range args[1:] {
		res := s.Resolve(name)
		switch res.Kind {
		case KindBuiltin:
			fmt.Fprintf(w, "%s is a shell builtin\n", name)
		case KindExternal:
			fmt.Fprintf(w, "%s is %s\n", name, res.Path)
		default:
			fmt.Fprintf(w, "%s: not found\n", name)
			out.Status = 1
		}
	}
	out.Stdout = w.String()
	return out
}

// Pwd prints the working directory.
func Pwd(s *Session, args []string) Output {
	wd, err := os.Getwd()
	if err != nil {
		return failf(1, "%s: %s", args[0], describePathError(err))
	}
	return Output{Stdout: wd + "\n"}
}

// Cd is the cd shell builtin
func Cd(s *Session, args []string) Output {
	var dir string
	switch len(args) {
	case 1:
		dir = "~"
	case 2:
		dir = args[1]
	default:
		return failf(1, "%s: too many arguments", args[0])
	}

	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home := s.getenv(EnvHome)
		if home == "" {
			return failf(1, "%s: HOME not set", args[0])
		}
		dir = home + dir[1:]
	}

	if err := os.Chdir(dir); err != nil {
		return failf(1, "%s: %s: %s", args[0], dir, describePathError(err))
	}
	return Output{}
}

// History lists or manipulates the session's history. The file options
// take an optional FILE operand and default to HISTFILE.
func History(s *Session, args []string) Output {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history list by deleting all the entries")
	readHist := opts.Bool('r', "read the history file and append its lines to the history list")
	writeHist := opts.Bool('w', "write the history list to the history file")
	appendHist := opts.Bool('a', "append the lines entered this session to the history file")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil {
		return failf(2, "%s: %s", args[0], err)
	}

	if *helpOpt {
		w := &strings.Builder{}
		fmt.Fprintln(w, "usage: history [-c] [N]")
		fmt.Fprintln(w, "   or: history -r|-w|-a [FILE]")
		fmt.Fprintln(w, "Display or manipulate the history list.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "FILE defaults to $HISTFILE.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		return Output{Stdout: w.String()}
	}

	fileOps := []struct {
		operation string
		chosen    bool
		run       func(string) error
	}{
		{"read", *readHist, func(p string) error { return s.History.ReadFile(s.Fs, p) }},
		{"write", *writeHist, func(p string) error { return s.History.WriteFile(s.Fs, p) }},
		{"append", *appendHist, func(p string) error { return s.History.AppendFile(s.Fs, p) }},
	}

	var chosen []int
	for i, op := range fileOps {
		if op.chosen {
			chosen = append(chosen, i)
		}
	}

	rest := opts.Args()
	switch {
	case len(chosen) > 1:
		return failf(2, "%s: cannot use more than one of -r, -w and -a", args[0])
	case len(chosen) == 1:
		if len(rest) > 1 {
			return failf(2, "%s: too many arguments", args[0])
		}
		if *clear {
			s.History.Clear()
		}

		op := fileOps[chosen[0]]
		path := s.HistFile
		if len(rest) == 1 {
			path = rest[0]
		}
		if path == "" {
			return failf(1, "%s: HISTFILE not set", args[0])
		}
		if err := op.run(path); err != nil {
			s.recordHistoryFailure(op.operation, path, err)
			return failf(1, "%s: %s: %s", args[0], path, describePathError(err))
		}
		return Output{}
	case *clear:
		s.History.Clear()
		return Output{}
	}

	n := -1
	switch len(rest) {
	case 0:
	case 1:
		limit, err := strconv.Atoi(rest[0])
		if err != nil || limit < 0 {
			return failf(2, "%s: %s: numeric argument required", args[0], rest[0])
		}
		n = limit
	default:
		return failf(2, "%s: too many arguments", args[0])
	}

	return Output{Stdout: s.History.Listing(n)}
}

func init() {
	AllBuiltins["echo"] = BuiltinFunc(Echo)
	AllBuiltins["exit"] = BuiltinFunc(Exit)
	AllBuiltins["type"] = BuiltinFunc(Type)
	AllBuiltins["pwd"] = BuiltinFunc(Pwd)
	AllBuiltins["cd"] = BuiltinFunc(Cd)
	AllBuiltins["history"] = BuiltinFunc(History)
}

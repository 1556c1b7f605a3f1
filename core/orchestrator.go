package core

import (
	"bytes"
	"os"

	"github.com/josephlewis42/relaysh/core/logger"
	"github.com/josephlewis42/relaysh/core/shell"
)

const (
	StrategySequentialRelay = "sequential-relay"
	StrategyConcurrentPiped = "concurrent-piped"
)

// Strategy runs every stage of a pipeline and returns the status of the
// last one.
type Strategy interface {
	Name() string
	Run(s *Session, pipeline shell.Pipeline) (int, error)
}

// SelectStrategy relays buffered output between stages when any of them is
// a builtin, and connects the stages with OS pipes otherwise.
func SelectStrategy(s *Session, pipeline shell.Pipeline) Strategy {
	for _, stage := range pipeline {
		if s.IsBuiltin(stage.Name()) {
			return SequentialRelay{}
		}
	}
	return ConcurrentPiped{}
}

// RunPipeline executes a pipeline of two or more commands.
func (s *Session) RunPipeline(pipeline shell.Pipeline) (int, error) {
	if len(pipeline) == 0 {
		return s.lastStatus, nil
	}

	strategy := SelectStrategy(s, pipeline)
	s.record(&logger.Pipeline{Stages: len(pipeline), Strategy: strategy.Name()})

	return strategy.Run(s, pipeline)
}

func (s *Session) recordRun(argv []string, res Resolution, strategy string) {
	s.record(&logger.RunCommand{
		Command:      argv,
		ResolvedPath: res.Path,
		Builtin:      res.Kind == KindBuiltin,
		Strategy:     strategy,
	})
}

// SequentialRelay runs one stage at a time. Each stage's standard output is
// captured in full and handed to the next stage as its input.
type SequentialRelay struct{}

var _ Strategy = SequentialRelay{}

func (SequentialRelay) Name() string {
	return StrategySequentialRelay
}

func (r SequentialRelay) Run(s *Session, pipeline shell.Pipeline) (int, error) {
	var (
		input  []byte
		status int
	)

	for i, stage := range pipeline {
		last := i == len(pipeline)-1

		res := s.Resolve(stage.Name())
		switch res.Kind {
		case KindBuiltin:
			s.recordRun(stage, res, r.Name())
			out := res.Builtin.Main(s, stage)
			status = out.Status
			if !last {
				input = []byte(out.Stdout)
				out.Stdout = ""
			}
			writeOutput(s.Stdout, s.Stderr, out)

		case KindExternal:
			s.recordRun(stage, res, r.Name())

			stdio := Stdio{Stdin: s.Stdin, Stderr: s.Stderr}
			if i > 0 {
				// Always attach a pipe so a stage after an empty one sees
				// end of input rather than the terminal.
				stdio.Input = input
				if stdio.Input == nil {
					stdio.Input = []byte{}
				}
			}

			captured := &bytes.Buffer{}
			if last {
				stdio.Stdout = s.Stdout
			} else {
				stdio.Stdout = captured
			}

			proc, err := Launch(res.Path, stage, stdio)
			if err != nil {
				return 126, err
			}
			if status, err = proc.Wait(); err != nil {
				return status, err
			}
			input = captured.Bytes()

		default:
			return 127, &NotFoundError{Argv: stage}
		}
	}

	return status, nil
}

// ConcurrentPiped starts every stage at once with each stage's stdout
// connected to the next stage's stdin through an OS pipe.
type ConcurrentPiped struct{}

var _ Strategy = ConcurrentPiped{}

func (ConcurrentPiped) Name() string {
	return StrategyConcurrentPiped
}

func (c ConcurrentPiped) Run(s *Session, pipeline shell.Pipeline) (int, error) {
	// Nothing is started unless every stage resolves.
	resolved := make([]Resolution, len(pipeline))
	for i, stage := range pipeline {
		res := s.Resolve(stage.Name())
		if res.Kind != KindExternal {
			return 127, &NotFoundError{Argv: stage}
		}
		resolved[i] = res
	}

	var pipeEnds []*os.File
	closePipes := func() {
		for _, f := range pipeEnds {
			f.Close()
		}
		pipeEnds = nil
	}

	readers := make([]*os.File, len(pipeline)-1)
	writers := make([]*os.File, len(pipeline)-1)
	for i := range readers {
		r, w, err := os.Pipe()
		if err != nil {
			closePipes()
			return 1, &ChildError{Argv: pipeline[i], Err: err}
		}
		readers[i], writers[i] = r, w
		pipeEnds = append(pipeEnds, r, w)
	}

	procs := make([]*Process, 0, len(pipeline))
	for i, stage := range pipeline {
		stdio := Stdio{Stdin: s.Stdin, Stdout: s.Stdout, Stderr: s.Stderr}
		if i > 0 {
			stdio.Stdin = readers[i-1]
		}
		if i < len(pipeline)-1 {
			stdio.Stdout = writers[i]
		}

		s.recordRun(stage, resolved[i], c.Name())
		proc, err := Launch(resolved[i].Path, stage, stdio)
		if err != nil {
			// Started stages see end of input or a broken pipe and exit.
			closePipes()
			s.reap(procs)
			return 126, err
		}
		procs = append(procs, proc)
	}

	// The children hold their own copies of the pipe ends; the parent's must
	// be closed or readers never see end of input.
	closePipes()

	last := procs[len(procs)-1]
	s.reap(procs[:len(procs)-1])
	return last.Wait()
}

// reap waits on upstream stages in the background and logs their failures.
func (s *Session) reap(procs []*Process) {
	for _, proc := range procs {
		go func(proc *Process) {
			status, err := proc.Wait()
			switch {
			case err != nil:
				s.record(&logger.ChildFailure{Command: proc.Argv, ExitCode: status, Error: err.Error()})
			case status != 0:
				s.record(&logger.ChildFailure{Command: proc.Argv, ExitCode: status})
			}
		}(proc)
	}
}

package dashboard

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"
)

// Suite orchestrates a sequence of setup steps with TUI or streaming output.
type Suite struct {
	title string
	specs []StepSpec
}

// NewSuite creates a suite with the given title.
func NewSuite(title string) *Suite {
	return &Suite{title: title}
}

// AddStep appends a command to the sequence.
func (s *Suite) AddStep(group, name, dir string, env []string, exe string, args ...string) *Suite {
	s.specs = append(s.specs, StepSpec{
		Group: group,
		Name:  name,
		Dir:   dir,
		Env:   env,
		Exe:   exe,
		Args:  args,
	})
	return s
}

// Run executes the steps. Uses the TUI if stdout is a terminal, otherwise
// streams prefixed output. Returns an error if any step fails.
func (s *Suite) Run(ctx context.Context) error {
	return s.RunWithOutput(ctx, os.Stdout)
}

// RunWithOutput executes the steps with a custom output writer.
func (s *Suite) RunWithOutput(ctx context.Context, w io.Writer) error {
	if len(s.specs) == 0 {
		return nil
	}

	isTTY := false
	if f, ok := w.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}

	var code int
	var err error
	if isTTY {
		code, err = RunDashboard(ctx, s.title, s.specs)
		if err != nil {
			return err
		}
	} else {
		code = RunNonTTY(ctx, s.specs, w)
	}
	if code != 0 {
		return &SuiteError{ExitCode: code}
	}
	return nil
}

// SuiteError indicates one or more steps failed.
type SuiteError struct {
	ExitCode int
}

func (e *SuiteError) Error() string {
	return "one or more setup steps failed"
}

// Package dashboard renders environment setup steps either as an
// interactive terminal dashboard or as prefixed streaming output,
// depending on whether stdout is a terminal.
package dashboard

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"
	"time"
)

// StepStatus represents runtime state.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepSuccess
	StepFailed
	StepSkipped
)

const outputBufferLines = 50000

// StepSpec describes one command of a setup sequence.
type StepSpec struct {
	Group string
	Name  string
	Dir   string
	Env   []string
	Exe   string
	Args  []string
}

// Step represents execution state.
type Step struct {
	Spec       StepSpec
	Status     StepStatus
	ExitCode   int
	StartedAt  time.Time
	FinishedAt time.Time
	Output     []string
	mu         sync.Mutex
}

// StepUpdate describes runtime changes for the TUI and streaming renderers.
type StepUpdate struct {
	Index      int
	Status     StepStatus
	Line       string
	ExitCode   int
	StartedAt  time.Time
	FinishedAt time.Time
}

// StartSteps runs the steps in order, one at a time, streaming updates.
// Environment setup is sequential: a virtual environment must exist before
// anything installs into it, so a failed step skips the rest.
func StartSteps(ctx context.Context, specs []StepSpec) ([]*Step, <-chan StepUpdate) {
	updates := make(chan StepUpdate)
	steps := make([]*Step, len(specs))
	for i, spec := range specs {
		steps[i] = &Step{Spec: spec, Status: StepPending, ExitCode: -1}
	}

	go func() {
		defer close(updates)
		failed := false
		for i, step := range steps {
			if failed {
				step.Status = StepSkipped
				updates <- StepUpdate{Index: i, Status: StepSkipped}
				continue
			}
			runStep(ctx, i, step, updates)
			if step.Status == StepFailed {
				failed = true
			}
		}
	}()

	return steps, updates
}

func runStep(ctx context.Context, index int, step *Step, updates chan<- StepUpdate) {
	cmd := exec.CommandContext(ctx, step.Spec.Exe, step.Spec.Args...)
	cmd.Dir = step.Spec.Dir
	cmd.Env = step.Spec.Env
	stdout, _ := cmd.StdoutPipe()
	stderr, _ := cmd.StderrPipe()

	step.StartedAt = time.Now()
	step.Status = StepRunning
	updates <- StepUpdate{Index: index, Status: StepRunning, StartedAt: step.StartedAt}

	merged := make(chan string)
	var streamsWG sync.WaitGroup
	streamsWG.Add(2)
	go readStream(&streamsWG, stdout, merged)
	go readStream(&streamsWG, stderr, merged)

	err := cmd.Start()

	go func() {
		streamsWG.Wait()
		close(merged)
	}()

	for line := range merged {
		// The renderer appends the line when it processes the update, so
		// the buffer is not written twice.
		updates <- StepUpdate{Index: index, Status: StepRunning, Line: line}
	}

	if err == nil {
		err = cmd.Wait()
	}
	step.FinishedAt = time.Now()
	if err != nil {
		step.Status = StepFailed
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			step.ExitCode = exitErr.ExitCode()
		} else {
			step.ExitCode = 1
		}
	} else {
		step.Status = StepSuccess
		step.ExitCode = 0
	}
	updates <- StepUpdate{Index: index, Status: step.Status, ExitCode: step.ExitCode, FinishedAt: step.FinishedAt}
}

func readStream(wg *sync.WaitGroup, r io.Reader, merged chan<- string) {
	defer wg.Done()
	if r == nil {
		return
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		merged <- scanner.Text()
	}
}

func (s *Step) appendLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Output = append(s.Output, line)
	if len(s.Output) > outputBufferLines {
		s.Output = s.Output[len(s.Output)-outputBufferLines:]
	}
}

// GetOutput returns a copy of the output lines (thread-safe).
func (s *Step) GetOutput() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]string, len(s.Output))
	copy(result, s.Output)
	return result
}

// Duration returns elapsed time.
func (s *Step) Duration() time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

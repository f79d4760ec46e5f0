package venv

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/LamaAni/yapenv/internal/logging"
	"github.com/LamaAni/yapenv/pkg/format"
)

// Runner executes external commands on behalf of the virtual environment
// operations. The indirection keeps command construction testable without
// spawning interpreters.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands as child processes with the configured stdio
// streams. Zero-value fields fall back to the calling process's streams and
// environment.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Env    []string
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.Env = r.Env
	logging.Default().Debugf("Executing: %s %s", name, strings.Join(format.QuoteArgs(args...), " "))
	return cmd.Run()
}

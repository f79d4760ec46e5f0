package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/LamaAni/yapenv/internal/logging"
	"github.com/LamaAni/yapenv/pkg/venv"
)

// runShell replaces the process with an interactive shell that has the
// virtual environment activated.
func runShell(args []string, stdin io.Reader, stderr io.Writer) error {
	fs := flag.NewFlagSet("yapenv shell", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonOptions
	keepCwd := fs.Bool("keep-current-directory", false, "Don't move into the source directory")
	fs.BoolVar(keepCwd, "k", *keepCwd, "Shorthand for --keep-current-directory")
	common.register(fs, false)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	doc, err := common.loadConfig(loadConfigOptions{importRequirements: true})
	if err != nil {
		return err
	}

	if !doc.HasVirtualEnvironment() {
		logging.Default().Warnf("Virtual env not found")
		if !confirm(stdin, stderr, "Create?") {
			logging.Default().Infof("Aborted")
			return nil
		}
		runner := &venv.ExecRunner{Stderr: stderr}
		if err := venv.Create(context.Background(), doc, runner); err != nil {
			return err
		}
	}

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "sh"
	}
	dir := workDir(doc.SourceDirectory, *keepCwd)
	env := append(venv.Env(doc, os.Environ()), "YAPENV_SHELL=1")
	logging.Default().Infof("Starting shell with virtual environment @ %s", doc.VenvPath())
	return venv.Handover(dir, env, shell)
}

// runExec replaces the process with a command running inside the virtual
// environment.
func runExec(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("yapenv run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonOptions
	keepCwd := fs.Bool("keep-current-directory", false, "Don't move into the source directory")
	// Long flags only: a shorthand like -e would collide with flags of the
	// command being run.
	common.register(fs, true)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	command := fs.Args()
	if len(command) == 0 {
		fmt.Fprintln(stderr, "Usage: yapenv run [options] <command> [args...]")
		return errUsage
	}

	doc, err := common.loadConfig(loadConfigOptions{importRequirements: true})
	if err != nil {
		return err
	}
	if !doc.HasVirtualEnvironment() {
		return fmt.Errorf("could not find virtual environment @ %s", doc.VenvPath())
	}

	dir := workDir(doc.SourceDirectory, *keepCwd)
	return venv.Handover(dir, venv.Env(doc, os.Environ()), command...)
}

func workDir(sourceDir string, keepCwd bool) string {
	if !keepCwd {
		return sourceDir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return sourceDir
	}
	return cwd
}

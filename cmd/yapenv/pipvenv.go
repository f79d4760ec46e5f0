package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/LamaAni/yapenv/internal/logging"
	"github.com/LamaAni/yapenv/pkg/format"
	"github.com/LamaAni/yapenv/pkg/venv"
)

func runPip(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Usage: yapenv pip <args|install> [options] [packages...]")
		return errUsage
	}
	switch args[0] {
	case "args":
		return runPipArgs(args[1:], stdout, stderr)
	case "install":
		return runPipInstall(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "yapenv pip: unknown subcommand %q\n", args[0])
		return errUsage
	}
}

// runPipArgs prints the pip install argument vector the config produces.
func runPipArgs(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("yapenv pip args", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonOptions
	var fmtOpts formatOptions
	common.register(fs, false)
	fmtOpts.register(fs, format.FormatCLI, false)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	doc, err := common.loadConfig(loadConfigOptions{importRequirements: true})
	if err != nil {
		return err
	}
	quoted := format.QuoteArgs(venv.PipInstallArgs(doc, fs.Args()...)...)
	return fmtOpts.print(stdout, anyStrings(quoted), false)
}

// runPipInstall runs pip install inside the virtual environment.
func runPipInstall(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("yapenv pip install", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonOptions
	common.register(fs, false)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	doc, err := common.loadConfig(loadConfigOptions{importRequirements: true})
	if err != nil {
		return err
	}
	if !doc.HasVirtualEnvironment() {
		return fmt.Errorf("could not find virtual environment @ %s", doc.VenvPath())
	}
	logging.Default().Infof("Running pip install in venv @ %s", doc.VenvPath())
	runner := &venv.ExecRunner{Stdout: stdout, Stderr: stderr}
	return venv.Install(context.Background(), doc, runner, fs.Args()...)
}

func runVirtualenv(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Usage: yapenv virtualenv <args|create> [options]")
		return errUsage
	}
	switch args[0] {
	case "args":
		return runVirtualenvArgs(args[1:], stdout, stderr)
	case "create":
		return runVirtualenvCreate(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "yapenv virtualenv: unknown subcommand %q\n", args[0])
		return errUsage
	}
}

// runVirtualenvArgs prints the virtualenv argument vector the config
// produces.
func runVirtualenvArgs(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("yapenv virtualenv args", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonOptions
	var fmtOpts formatOptions
	common.register(fs, false)
	fmtOpts.register(fs, format.FormatCLI, false)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	doc, err := common.loadConfig(loadConfigOptions{importRequirements: true})
	if err != nil {
		return err
	}
	quoted := format.QuoteArgs(venv.VirtualenvArgs(doc)...)
	return fmtOpts.print(stdout, anyStrings(quoted), false)
}

// runVirtualenvCreate creates the virtual environment.
func runVirtualenvCreate(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("yapenv virtualenv create", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonOptions
	common.register(fs, false)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	doc, err := common.loadConfig(loadConfigOptions{importRequirements: true})
	if err != nil {
		return err
	}
	runner := &venv.ExecRunner{Stdout: stdout, Stderr: stderr}
	return venv.Create(context.Background(), doc, runner)
}

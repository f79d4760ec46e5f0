// yapenv manages Python virtual environments from cascading configuration
// files discovered up the directory tree.
//
// Usage:
//
//	yapenv init                  # write a config file and build the environment
//	yapenv install               # create the venv and install the requirements
//	yapenv config view           # print the resolved configuration
//	yapenv shell                 # start a shell with the venv activated
//	yapenv run -- python app.py  # run a command inside the venv
//
// Configuration is resolved by merging the config files of the working
// directory with its parents (when "inherit: true" is set), optionally
// overlaying a named environment profile.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/LamaAni/yapenv/internal/logging"
	"github.com/LamaAni/yapenv/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	cmd, rest := args[0], args[1:]

	var err error
	switch cmd {
	case "-h", "--help", "help":
		printUsage(stdout)
		return 0
	case "version":
		fmt.Fprintln(stdout, version.Version)
		return 0
	case "config":
		err = runConfig(rest, stdout, stderr)
	case "requirements":
		err = runRequirements(rest, stdout, stderr)
	case "pip":
		err = runPip(rest, stdout, stderr)
	case "virtualenv":
		err = runVirtualenv(rest, stdout, stderr)
	case "install":
		err = runInstall(rest, stdin, stdout, stderr)
	case "delete":
		err = runDelete(rest, stdin, stderr)
	case "init":
		err = runInit(rest, stdin, stdout, stderr)
	case "shell":
		err = runShell(rest, stdin, stderr)
	case "run":
		err = runExec(rest, stderr)
	default:
		fmt.Fprintf(stderr, "yapenv: unknown command %q\n\n", cmd)
		printUsage(stderr)
		return 2
	}

	if err != nil {
		if isUsageError(err) {
			return 2
		}
		if fullErrors(args) {
			fmt.Fprintf(stderr, "%+v\n", err)
		}
		logging.Default().Errorf("%v", err)
		return 1
	}
	return 0
}

// fullErrors reports whether the raw error should be printed in addition to
// the log line. Checked against the raw argument list so it works even when
// flag parsing itself failed.
func fullErrors(args []string) bool {
	for _, a := range args {
		if a == "--full-errors" {
			return true
		}
	}
	return os.Getenv("YAPENV_FULL_ERRORS") == "true"
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `yapenv %s - Yet Another Python Environment manager

Usage: yapenv <command> [options]

Commands:
  init          Initialize the yapenv configuration in a folder
  install       Create the virtual environment and install the requirements
  delete        Delete the virtual environment installation
  shell         Start a shell with the virtual environment activated
  run           Run a command inside the virtual environment
  config        Inspect the resolved configuration (view, get)
  requirements  Package requirements of the config (export, freeze)
  pip           Pip commands through yapenv (args, install)
  virtualenv    Virtualenv commands through yapenv (args, create)
  version       Show the yapenv version

Run 'yapenv <command> -h' for command options.
`, version.Version)
}

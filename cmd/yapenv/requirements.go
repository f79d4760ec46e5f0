package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/LamaAni/yapenv/pkg/format"
	"github.com/LamaAni/yapenv/pkg/venv"
)

func runRequirements(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Usage: yapenv requirements <export|freeze> [options]")
		return errUsage
	}
	switch args[0] {
	case "export":
		return runRequirementsExport(args[1:], stdout, stderr)
	case "freeze":
		return runRequirementsFreeze(args[1:], stderr)
	default:
		fmt.Fprintf(stderr, "yapenv requirements: unknown subcommand %q\n", args[0])
		return errUsage
	}
}

// runRequirementsExport prints the fully expanded package specifier list.
func runRequirementsExport(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("yapenv requirements export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonOptions
	var fmtOpts formatOptions
	common.register(fs, false)
	fmtOpts.register(fs, format.FormatList, true)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	doc, err := common.loadConfig(loadConfigOptions{importRequirements: true})
	if err != nil {
		return err
	}
	return fmtOpts.print(stdout, anyStrings(doc.PackageSpecifiers()), true)
}

// runRequirementsFreeze replaces the process with pip freeze inside the
// virtual environment.
func runRequirementsFreeze(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("yapenv requirements freeze", flag.ContinueOnError)
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
	env := venv.Env(doc, os.Environ())
	return venv.Handover(doc.SourceDirectory, env, venv.VenvPython(doc), "-m", "pip", "freeze")
}

func anyStrings(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

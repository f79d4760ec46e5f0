package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/LamaAni/yapenv/pkg/format"
)

func runConfig(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Usage: yapenv config <view|get> [options] [paths...]")
		return errUsage
	}
	switch args[0] {
	case "view":
		return runConfigView(args[1:], stdout, stderr)
	case "get":
		return runConfigGet(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "yapenv config: unknown subcommand %q\n", args[0])
		return errUsage
	}
}

func runConfigView(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("yapenv config view", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonOptions
	var fmtOpts formatOptions
	resolve := fs.Bool("resolve", false, "Resolve requirement file imports")
	common.register(fs, false)
	fmtOpts.register(fs, format.FormatYAML, true)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	return printConfigValues(stdout, &common, &fmtOpts, nil, *resolve, false, false)
}

func runConfigGet(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("yapenv config get", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonOptions
	var fmtOpts formatOptions
	resolve := fs.Bool("resolve", false, "Resolve requirement file imports")
	allowNull := fs.Bool("allow-null", false, "Return null values")
	allowMissing := fs.Bool("allow-missing", false, "Don't error on missing values, print nothing")
	common.register(fs, false)
	fmtOpts.register(fs, format.FormatYAML, true)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	return printConfigValues(stdout, &common, &fmtOpts, fs.Args(), *resolve, *allowNull, *allowMissing)
}

// printConfigValues prints the whole resolved document, or the values at
// the given collection paths (e.g. "a.b[0].c").
func printConfigValues(
	stdout io.Writer,
	common *commonOptions,
	fmtOpts *formatOptions,
	paths []string,
	resolve, allowNull, allowMissing bool,
) error {
	doc, err := common.loadConfig(loadConfigOptions{importRequirements: resolve})
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		return fmtOpts.print(stdout, doc.ToMap(), true)
	}

	values, err := doc.Find(paths...)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		if allowMissing {
			return nil
		}
		return fmt.Errorf("the dictionary path(s) were not found in the config, searched: %s", strings.Join(paths, ", "))
	}
	if !allowNull {
		for _, v := range values {
			if v == nil {
				return fmt.Errorf("found null values in path(s): %s", strings.Join(paths, ", "))
			}
		}
	}

	// A single requested path prints as a bare value.
	if len(paths) < 2 {
		return printSingleValue(stdout, fmtOpts, values[0])
	}
	return fmtOpts.print(stdout, anySlice(values), true)
}

func printSingleValue(stdout io.Writer, fmtOpts *formatOptions, v any) error {
	switch v.(type) {
	case map[string]any, []any:
		return fmtOpts.print(stdout, v, true)
	case nil:
		fmt.Fprintln(stdout, "null")
		return nil
	default:
		fmt.Fprintln(stdout, v)
		return nil
	}
}

func anySlice(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = "null"
			continue
		}
		out[i] = v
	}
	return out
}

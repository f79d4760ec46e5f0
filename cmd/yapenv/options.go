package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/LamaAni/yapenv/internal/logging"
	"github.com/LamaAni/yapenv/pkg/config"
	"github.com/LamaAni/yapenv/pkg/format"
)

// errUsage wraps flag parsing failures so run can exit with a usage code
// without logging the error twice.
var errUsage = errors.New("usage")

func isUsageError(err error) bool {
	return errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp)
}

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// commonOptions are the flags every subcommand shares: where to resolve
// from and how.
type commonOptions struct {
	cwd              string
	environment      string
	extraConfigFiles stringList
	envFile          string
	inheritDepth     int
	ignoreMissingEnv bool
	fullErrors       bool
	logLevel         string
}

func (o *commonOptions) register(fs *flag.FlagSet, longArgsOnly bool) {
	fs.StringVar(&o.cwd, "cwd", ".", "Resolve the configuration from this path")
	fs.StringVar(&o.environment, "environment", "", "Name of the environment profile to overlay")
	if !longArgsOnly {
		fs.StringVar(&o.environment, "e", "", "Shorthand for --environment")
		fs.StringVar(&o.environment, "env", "", "Shorthand for --environment")
	}
	fs.Var(&o.extraConfigFiles, "extra-config-file", "Extra config filename or glob pattern (repeatable)")
	defaultEnvFile := os.Getenv("YAPENV_ENV_FILE")
	if defaultEnvFile == "" {
		defaultEnvFile = ".env"
	}
	fs.StringVar(&o.envFile, "env-file", defaultEnvFile, "Local dotenv file to load before resolving")
	fs.IntVar(&o.inheritDepth, "inherit-depth", -1, "Max number of config parents to inherit (0 to disable, -1 inf)")
	fs.BoolVar(&o.ignoreMissingEnv, "ignore-missing-env", false, "Do not fail if the environment profile was not found")
	fs.BoolVar(&o.fullErrors, "full-errors", false, "Print full errors")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig resolves the configuration for the common options. The local
// dotenv file is loaded first so it can influence resolution (e.g. config
// search paths); the resolved document's own env_file is loaded after.
type loadConfigOptions struct {
	importRequirements bool
	ignoreEnvironment  bool
	inheritDepth       *int
}

func (o *commonOptions) loadConfig(lo loadConfigOptions) (*config.Document, error) {
	if o.logLevel != "" {
		logging.Default().SetLevel(logging.ParseLevel(o.logLevel))
	}

	loadDotenv(o.envFile)

	opts := config.DefaultLoadOptions()
	if !lo.ignoreEnvironment {
		opts.Environment = o.environment
	}
	opts.MaxInheritDepth = o.inheritDepth
	if lo.inheritDepth != nil {
		opts.MaxInheritDepth = *lo.inheritDepth
	}
	opts.ExpandImports = lo.importRequirements
	opts.IgnoreMissingEnvironment = o.ignoreMissingEnv
	opts.SearchPaths = append(config.DefaultSearchPaths(), o.extraConfigFiles...)

	doc, err := config.Load(o.cwd, opts)
	if err != nil {
		return nil, err
	}

	if doc.EnvFile != "" {
		loadDotenv(doc.ResolveFromSource(doc.EnvFile))
	}
	return doc, nil
}

// loadDotenv loads a dotenv file into the process environment without
// overriding variables that are already set. A missing file is fine.
func loadDotenv(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	if info, err := os.Stat(abs); err != nil || info.IsDir() {
		return
	}
	logging.Default().Debugf("Loading environment variables from: %s", abs)
	if err := godotenv.Load(abs); err != nil {
		logging.Default().Warnf("Failed to load env file %s: %v", abs, err)
	}
}

// formatOptions are the flags of the printing subcommands.
type formatOptions struct {
	format  string
	noQuote bool
}

func (o *formatOptions) register(fs *flag.FlagSet, def format.PrintFormat, allowQuote bool) {
	o.format = string(def)
	fs.StringVar(&o.format, "format", string(def), "Output format: list, cli, yaml or json")
	if allowQuote {
		fs.BoolVar(&o.noQuote, "no-quote", false, "Do not quote cli arguments")
	}
}

func (o *formatOptions) print(w io.Writer, val any, quote bool) error {
	f, err := format.Parse(o.format)
	if err != nil {
		return err
	}
	out, err := format.Sprint(f, val, quote && !o.noQuote)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)
	return nil
}

// parseFlags runs fs.Parse and maps failures onto errUsage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return flag.ErrHelp
		}
		return errUsage
	}
	return nil
}

// confirm prompts on stderr and reads a y/n answer from stdin.
func confirm(stdin io.Reader, stderr io.Writer, prompt string) bool {
	fmt.Fprintf(stderr, "%s (y/n) ", prompt)
	var answer string
	if _, err := fmt.Fscanln(stdin, &answer); err != nil {
		return false
	}
	return strings.EqualFold(answer, "y")
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/LamaAni/yapenv/internal/dashboard"
	"github.com/LamaAni/yapenv/internal/logging"
	"github.com/LamaAni/yapenv/pkg/config"
	"github.com/LamaAni/yapenv/pkg/venv"
)

// runInstall creates the virtual environment if needed and installs the
// configured requirements, rendering the steps through the dashboard.
func runInstall(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("yapenv install", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonOptions
	reset := fs.Bool("reset", false, "Reset the virtual environment")
	force := fs.Bool("force", false, "Do not confirm the operation")
	fs.BoolVar(reset, "r", *reset, "Shorthand for --reset")
	fs.BoolVar(force, "f", *force, "Shorthand for --force")
	common.register(fs, false)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	doc, err := common.loadConfig(loadConfigOptions{importRequirements: true})
	if err != nil {
		return err
	}
	return installEnvironment(doc, fs.Args(), *reset, *force, stdin, stdout, stderr)
}

func installEnvironment(
	doc *config.Document,
	packages []string,
	reset, force bool,
	stdin io.Reader,
	stdout, stderr io.Writer,
) error {
	log := logging.Default()

	if reset && doc.HasVirtualEnvironment() {
		if !force && !confirmDelete(doc, stdin, stderr) {
			log.Infof("Aborted")
			return nil
		}
		if err := venv.Delete(doc); err != nil {
			return err
		}
	}

	createNeeded := !doc.HasVirtualEnvironment()
	specs := doc.PackageSpecifiers()
	if len(packages) > 0 {
		specs = packages
	}

	suite := dashboard.NewSuite("yapenv install @ " + doc.SourceDirectory)
	if createNeeded {
		argv := append([]string{"-m", "virtualenv"}, venv.VirtualenvArgs(doc)...)
		suite.AddStep("virtualenv", "create", doc.SourceDirectory, nil, venv.Python(doc), argv...)
	}
	if len(specs) > 0 {
		argv := append([]string{"-m", "pip"}, venv.PipInstallArgs(doc, packages...)...)
		suite.AddStep("pip", "install", doc.SourceDirectory, nil, venv.VenvPython(doc), argv...)
	} else {
		log.Warnf("No requirements found in config. Skipping pip install")
	}

	if err := suite.RunWithOutput(context.Background(), stdout); err != nil {
		return err
	}
	if createNeeded {
		if err := venv.LinkPipConfig(doc); err != nil {
			return err
		}
	}
	log.Infof("Success")
	return nil
}

func runDelete(args []string, stdin io.Reader, stderr io.Writer) error {
	fs := flag.NewFlagSet("yapenv delete", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonOptions
	force := fs.Bool("force", false, "Do not confirm the operation")
	fs.BoolVar(force, "f", *force, "Shorthand for --force")
	common.register(fs, false)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	doc, err := common.loadConfig(loadConfigOptions{importRequirements: false})
	if err != nil {
		return err
	}
	if doc.HasVirtualEnvironment() && !*force && !confirmDelete(doc, stdin, stderr) {
		logging.Default().Infof("Aborted")
		return nil
	}
	return venv.Delete(doc)
}

func confirmDelete(doc *config.Document, stdin io.Reader, stderr io.Writer) bool {
	logging.Default().Warnf("You are about to delete the virtual environment @ %s", doc.VenvPath())
	return confirm(stdin, stderr, "WARNING: are you sure?")
}

// runInit writes a fresh configuration into the working directory and, by
// default, builds the environment from it.
func runInit(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("yapenv init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonOptions
	var setConfigArgs stringList
	pythonVersion := fs.String("python-version", "", "Use this python version (empty leaves the template value)")
	fs.StringVar(pythonVersion, "p", "", "Shorthand for --python-version")
	configFilename := fs.String("config-filename", "", "Override the configuration filename")
	fs.StringVar(configFilename, "c", "", "Shorthand for --config-filename")
	force := fs.Bool("force", false, "Do not confirm the operation")
	fs.BoolVar(force, "f", *force, "Shorthand for --force")
	noInstall := fs.Bool("no-install", false, "Do not install after initializing")
	noRequirementFiles := fs.Bool("no-requirement-files", false, "Do not initialize with requirement files")
	reset := fs.Bool("reset", false, "Delete current configuration and reset it")
	initDepth := fs.Int("init-depth", 0, "Number of parent folders to inherit the init config from, -1 inf")
	fs.Var(&setConfigArgs, "set-config-args", `Set config values from a JSON dict, e.g. '{"inherit": true}' (repeatable)`)
	common.register(fs, false)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	mergeWith := map[string]any{}
	for _, arg := range setConfigArgs {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(arg), &parsed); err != nil {
			return fmt.Errorf("all merge arguments must be passed as json dictionaries, could not parse %q: %w", arg, err)
		}
		var err error
		if mergeWith, err = config.Merge(mergeWith, parsed); err != nil {
			return err
		}
		logging.Default().Infof("Merging with args from %s", arg)
	}

	doc, err := common.loadConfig(loadConfigOptions{
		importRequirements: false,
		ignoreEnvironment:  true,
		inheritDepth:       initDepth,
	})
	if err != nil {
		return err
	}

	if !*noInstall && *reset && doc.HasVirtualEnvironment() {
		if !*force && !confirmDelete(doc, stdin, stderr) {
			logging.Default().Infof("Aborted")
			return nil
		}
	}

	if _, err := venv.Init(doc, venv.InitOptions{
		ConfigFilename:      *configFilename,
		PythonVersion:       *pythonVersion,
		MergeWithCurrent:    !*reset,
		AddRequirementFiles: !*noRequirementFiles,
		MergeWith:           mergeWith,
	}); err != nil {
		return err
	}

	if !*noInstall {
		// Reload so the written config participates in resolution.
		doc, err = common.loadConfig(loadConfigOptions{importRequirements: true})
		if err != nil {
			return err
		}
		if err := installEnvironment(doc, nil, *reset, true, stdin, stdout, stderr); err != nil {
			return err
		}
	}

	logging.Default().Infof("Virtual environment initialized @ %s", doc.SourceDirectory)
	return nil
}

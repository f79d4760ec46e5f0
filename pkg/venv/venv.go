// Package venv creates, populates and removes the virtual environment a
// resolved configuration describes. It builds the virtualenv and pip
// argument vectors from the document and runs them through a Runner, so the
// command shapes stay testable without a Python interpreter on hand.
package venv

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/LamaAni/yapenv/internal/logging"
	"github.com/LamaAni/yapenv/pkg/config"
)

// DefaultPython is the interpreter used to create the environment when the
// configuration names neither an executable nor a version.
const DefaultPython = "python3"

// Python returns the interpreter invoked to create the virtual environment.
func Python(doc *config.Document) string {
	if doc.PythonExecutable != "" {
		return doc.PythonExecutable
	}
	if doc.PythonVersion != "" {
		return "python" + doc.PythonVersion
	}
	return DefaultPython
}

// VenvPython returns the interpreter inside the virtual environment.
func VenvPython(doc *config.Document) string {
	return doc.ResolveFromVenv("bin", "python")
}

// VirtualenvArgs returns the arguments passed to the virtualenv module when
// creating the environment: the interpreter selector, the configured extra
// arguments and the absolute environment path.
func VirtualenvArgs(doc *config.Document) []string {
	var args []string
	if sel := pythonSelector(doc); sel != "" {
		args = append(args, "--python", sel)
	}
	args = append(args, doc.VirtualenvArgs...)
	return append(args, doc.VenvPath())
}

// PipInstallArgs returns the arguments passed to the pip module to install
// packages. When no explicit packages are given the document's requirement
// list is installed instead.
func PipInstallArgs(doc *config.Document, packages ...string) []string {
	args := append([]string{"install"}, doc.PipInstallArgs...)
	if len(packages) == 0 {
		packages = doc.PackageSpecifiers()
	}
	return append(args, packages...)
}

// Create builds the virtual environment and, if the configuration names a
// pip config file, links it into the environment.
func Create(ctx context.Context, doc *config.Document, r Runner) error {
	logging.Default().Infof("Creating virtual environment @ %s", doc.VenvPath())
	argv := append([]string{"-m", "virtualenv"}, VirtualenvArgs(doc)...)
	if err := r.Run(ctx, doc.SourceDirectory, Python(doc), argv...); err != nil {
		return err
	}
	return LinkPipConfig(doc)
}

// Install runs pip inside the virtual environment. With no explicit
// packages it installs the document's requirements, after expanding
// requirement-file imports.
func Install(ctx context.Context, doc *config.Document, r Runner, packages ...string) error {
	if len(packages) == 0 {
		if err := doc.LoadRequirements(); err != nil {
			return err
		}
		if len(doc.PackageSpecifiers()) == 0 {
			return errors.New("no requirements found in config, nothing to install")
		}
	}
	argv := append([]string{"-m", "pip"}, PipInstallArgs(doc, packages...)...)
	return r.Run(ctx, doc.SourceDirectory, VenvPython(doc), argv...)
}

// Delete removes the virtual environment directory. Deleting an environment
// that does not exist is a no-op.
func Delete(doc *config.Document) error {
	if !doc.HasVirtualEnvironment() {
		logging.Default().Warnf("No virtual environment @ %s", doc.VenvPath())
		return nil
	}
	logging.Default().Infof("Deleting virtual environment @ %s", doc.VenvPath())
	return os.RemoveAll(doc.VenvPath())
}

// Env returns base with the virtual environment activated: VIRTUAL_ENV set,
// the environment's bin directory prepended to PATH and PYTHONHOME cleared.
func Env(doc *config.Document, base []string) []string {
	binDir := doc.ResolveFromVenv("bin")
	out := make([]string, 0, len(base)+2)
	pathSeen := false
	for _, kv := range base {
		key, val, _ := strings.Cut(kv, "=")
		switch key {
		case "VIRTUAL_ENV", "PYTHONHOME":
			continue
		case "PATH":
			pathSeen = true
			out = append(out, "PATH="+binDir+string(os.PathListSeparator)+val)
		default:
			out = append(out, kv)
		}
	}
	if !pathSeen {
		out = append(out, "PATH="+binDir)
	}
	return append(out, "VIRTUAL_ENV="+doc.VenvPath())
}

func pythonSelector(doc *config.Document) string {
	if doc.PythonExecutable != "" {
		return doc.PythonExecutable
	}
	return doc.PythonVersion
}

// LinkPipConfig symlinks the configured pip config file to pip.conf inside
// the environment, replacing a previous link. A document without a
// pip_config_path is a no-op.
func LinkPipConfig(doc *config.Document) error {
	if doc.PipConfigPath == "" {
		return nil
	}
	src := doc.ResolveFromSource(doc.PipConfigPath)
	dst := doc.ResolveFromVenv("pip.conf")
	if _, err := os.Stat(src); err != nil {
		logging.Default().Warnf("pip config file not found, skipping link: %s", src)
		return nil
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	logging.Default().Debugf("Linking pip config %s -> %s", src, dst)
	return os.Symlink(src, dst)
}

package venv

import (
	"embed"
	"encoding/json"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LamaAni/yapenv/internal/logging"
	"github.com/LamaAni/yapenv/pkg/config"
)

//go:embed templates/*.yaml
var templatesFS embed.FS

// InitOptions controls how Init composes the written configuration file.
type InitOptions struct {
	// ConfigFilename overrides the name of the written file. Empty selects
	// the first default search pattern.
	ConfigFilename string

	// PythonVersion, when set, overrides the template's python version.
	PythonVersion string

	// MergeWithCurrent folds the active resolved configuration into the
	// template before writing.
	MergeWithCurrent bool

	// AddRequirementFiles adds requirement-file imports to the template and
	// touches the imported files on disk.
	AddRequirementFiles bool

	// MergeWith is folded in last, on top of everything else.
	MergeWith map[string]any
}

// Init writes a fresh configuration file into the document's source
// directory, composed from the embedded templates, the current
// configuration and explicit overrides. It returns the path of the written
// file.
func Init(doc *config.Document, opts InitOptions) (string, error) {
	merged, err := loadTemplate("templates/config.yaml")
	if err != nil {
		return "", err
	}
	if opts.AddRequirementFiles {
		reqs, err := loadTemplate("templates/config_with_requirements.yaml")
		if err != nil {
			return "", err
		}
		if merged, err = config.Merge(merged, reqs); err != nil {
			return "", err
		}
	}
	if opts.MergeWithCurrent {
		if merged, err = config.Merge(merged, doc.ToMap()); err != nil {
			return "", err
		}
	}
	if opts.MergeWith != nil {
		if merged, err = config.Merge(merged, opts.MergeWith); err != nil {
			return "", err
		}
	}

	if err := canonicalizeRequirements(merged); err != nil {
		return "", err
	}
	if opts.PythonVersion != "" {
		merged["python_version"] = opts.PythonVersion
	}

	// Resolution artifacts must never land in a written file.
	delete(merged, "source_path")
	delete(merged, "source_directory")
	if s, ok := merged["python_executable"].(string); ok && s != "" {
		delete(merged, "python_version")
	}

	filename := opts.ConfigFilename
	if filename == "" {
		filename = config.DefaultSearchPaths()[0]
	}
	path := doc.ResolveFromSource(filename)

	data, err := marshalConfig(filename, merged)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	logging.Default().Infof("Initialized config file @ %s", path)

	if opts.AddRequirementFiles {
		for _, name := range []string{"requirements.txt", "requirements.dev.txt"} {
			if err := touch(doc.ResolveFromSource(name)); err != nil {
				return "", err
			}
		}
		logging.Default().Infof("Initialized requirement files")
	}
	return path, nil
}

func loadTemplate(name string) (map[string]any, error) {
	data, err := templatesFS.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func canonicalizeRequirements(raw map[string]any) error {
	v, ok := raw["requirements"]
	if !ok || v == nil {
		return nil
	}
	reqs, err := config.NormalizeRequirements(v)
	if err != nil {
		return err
	}
	reqs = config.UniqueRequirements(reqs)
	out := make([]any, len(reqs))
	for i, r := range reqs {
		out[i] = r.ToMap()
	}
	raw["requirements"] = out
	return nil
}

func marshalConfig(filename string, raw map[string]any) ([]byte, error) {
	if strings.HasSuffix(filename, ".json") {
		return json.MarshalIndent(raw, "", "  ")
	}
	return yaml.Marshal(raw)
}

// touch creates path as an empty file if it does not already exist.
func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

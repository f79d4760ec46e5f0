package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Default values applied when a resolved document leaves a field unset.
const (
	DefaultVenvDirectory = ".venv"
	DefaultEnvFile       = ".env"
)

// Document is a fully resolved configuration: the result of discovering,
// merging and rebasing every level of the inheritance chain. Recognized
// fields are typed and validated at construction; the full raw mapping is
// retained for open-schema access via Find and ToMap.
type Document struct {
	// SourceDirectory is the resolved project root. It is set once by Load
	// and never by a merge source.
	SourceDirectory string

	// SourcePath is the file the dominant raw document was loaded from.
	// It only matters during resolution; after the merge it is informational.
	SourcePath string

	PythonVersion    string
	PythonExecutable string
	VenvDirectory    string
	EnvFile          string
	PipConfigPath    string
	PipInstallArgs   []string
	VirtualenvArgs   []string
	Requirements     []Requirement

	raw map[string]any
}

// newDocument validates the merged raw mapping and builds the typed view.
// sourceDir becomes the document's source_directory, overriding anything a
// merge source may have written.
func newDocument(raw map[string]any, sourceDir string) (*Document, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	raw["source_directory"] = sourceDir

	doc := &Document{
		SourceDirectory: sourceDir,
		VenvDirectory:   DefaultVenvDirectory,
		EnvFile:         DefaultEnvFile,
		raw:             raw,
	}

	var err error
	if doc.SourcePath, err = stringField(raw, "source_path"); err != nil {
		return nil, err
	}
	if doc.PythonVersion, err = stringField(raw, "python_version"); err != nil {
		return nil, err
	}
	if doc.PythonExecutable, err = stringField(raw, "python_executable"); err != nil {
		return nil, err
	}
	if doc.PipConfigPath, err = stringField(raw, "pip_config_path"); err != nil {
		return nil, err
	}
	if v, err := stringField(raw, "venv_directory"); err != nil {
		return nil, err
	} else if v != "" {
		doc.VenvDirectory = v
	}
	if v, err := stringField(raw, "env_file"); err != nil {
		return nil, err
	} else if v != "" {
		doc.EnvFile = v
	}
	if doc.PipInstallArgs, err = stringListField(raw, "pip_install_args"); err != nil {
		return nil, err
	}
	if doc.VirtualenvArgs, err = stringListField(raw, "virtualenv_args"); err != nil {
		return nil, err
	}
	if doc.Requirements, err = parseRequirementList(raw["requirements"]); err != nil {
		return nil, err
	}
	return doc, nil
}

// VenvPath returns the absolute path of the virtual environment directory.
func (d *Document) VenvPath() string {
	if filepath.IsAbs(d.VenvDirectory) {
		return d.VenvDirectory
	}
	return filepath.Join(d.SourceDirectory, d.VenvDirectory)
}

// ResolveFromSource joins parts onto the source directory, leaving already
// absolute paths untouched.
func (d *Document) ResolveFromSource(parts ...string) string {
	return resolveFrom(d.SourceDirectory, parts)
}

// ResolveFromVenv joins parts onto the virtual environment directory.
func (d *Document) ResolveFromVenv(parts ...string) string {
	return resolveFrom(d.VenvPath(), parts)
}

// HasVirtualEnvironment reports whether the venv directory exists.
func (d *Document) HasVirtualEnvironment() bool {
	info, err := os.Stat(d.VenvPath())
	return err == nil && info.IsDir()
}

// EnvironmentNames returns the names of the environment profiles the
// document retains after the merge.
func (d *Document) EnvironmentNames() []string {
	envs, ok := d.raw["environments"].(map[string]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(envs))
	for name := range envs {
		names = append(names, name)
	}
	return names
}

// LoadRequirements expands requirement-file imports into inline package
// entries and deduplicates the list in place. Expansion reads from disk;
// imports whose file does not exist contribute nothing. Calling it on an
// already expanded document is a no-op.
func (d *Document) LoadRequirements() error {
	if len(d.Requirements) == 0 {
		return nil
	}
	expanded, err := expandImports(d.Requirements, d.SourceDirectory)
	if err != nil {
		return err
	}
	d.Requirements = UniqueRequirements(expanded)
	d.raw["requirements"] = requirementsToRaw(d.Requirements)
	return nil
}

// PackageSpecifiers returns the package entries of the requirement list,
// skipping unexpanded imports.
func (d *Document) PackageSpecifiers() []string {
	var specs []string
	for _, r := range d.Requirements {
		if r.Package != "" {
			specs = append(specs, r.Package)
		}
	}
	return specs
}

// ToMap returns a deep copy of the document as a plain mapping, with the
// requirement list in canonical form. The copy is safe to mutate and to
// serialize.
func (d *Document) ToMap() map[string]any {
	out := deepCopyMap(d.raw)
	if len(d.Requirements) > 0 || d.raw["requirements"] != nil {
		out["requirements"] = requirementsToRaw(d.Requirements)
	}
	return out
}

func resolveFrom(root string, parts []string) string {
	joined := filepath.Join(parts...)
	if filepath.IsAbs(joined) {
		return joined
	}
	return filepath.Join(root, joined)
}

func stringField(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &SchemaError{Key: key, Reason: fmt.Sprintf("expected a string, got %T", v)}
	}
	return s, nil
}

func stringListField(raw map[string]any, key string) ([]string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &SchemaError{Key: key, Reason: fmt.Sprintf("expected a sequence, got %T", v)}
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		switch val := entry.(type) {
		case string:
			out = append(out, val)
		case int, int64, float64, bool:
			out = append(out, fmt.Sprint(val))
		default:
			return nil, &SchemaError{Key: key, Reason: fmt.Sprintf("expected scalar entries, got %T", entry)}
		}
	}
	return out, nil
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, entry := range val {
			out[i] = deepCopyValue(entry)
		}
		return out
	default:
		return v
	}
}

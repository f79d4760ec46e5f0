package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LamaAni/yapenv/internal/logging"
)

// FileFormat selects the parser used for config files whose extension is
// not recognized.
type FileFormat string

// Supported config file formats.
const (
	FormatYAML FileFormat = "yaml"
	FormatJSON FileFormat = "json"
)

// LoadOptions controls a single resolution call. Start from
// DefaultLoadOptions and override fields as needed; the zero value is not
// meaningful (MaxInheritDepth 0 would keep only the starting level).
type LoadOptions struct {
	// Environment is the profile name to overlay onto every level that
	// defines it under "environments". Empty means no overlay.
	Environment string

	// MaxInheritDepth truncates the inheritance chain to depth+1 levels,
	// counted child-first. -1 means unbounded.
	MaxInheritDepth int

	// ExpandImports loads requirement-file imports from disk after the
	// merge and deduplicates the requirement list.
	ExpandImports bool

	// IgnoreMissingEnvironment tolerates an Environment that no level in
	// the chain defines.
	IgnoreMissingEnvironment bool

	// SearchPaths are the candidate config filenames and glob patterns per
	// directory level. Defaults to DefaultSearchPaths().
	SearchPaths []string

	// DefaultFormat parses files without a recognized extension.
	DefaultFormat FileFormat
}

// DefaultLoadOptions returns the options Load assumes when a caller has no
// overrides: unbounded inheritance, imports expanded.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		MaxInheritDepth: -1,
		ExpandImports:   true,
		DefaultFormat:   FormatYAML,
	}
}

// level is one directory's merged configuration during resolution.
type level struct {
	dir string
	doc map[string]any
}

// Load resolves the configuration for path. When path is a file it becomes
// its own single-file level and its parent directory is the first tree
// level; when it is a directory (or does not exist) resolution starts
// there. See the package documentation for the pipeline.
func Load(path string, opts LoadOptions) (*Document, error) {
	if len(opts.SearchPaths) == 0 {
		opts.SearchPaths = DefaultSearchPaths()
	}
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = FormatYAML
	}
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	logging.Default().Debugf("Reading configuration, starting from %s", abs)

	var chain []level
	sourceDir := abs
	walking := true

	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		doc, err := loadFile(abs, opts.DefaultFormat)
		if err != nil {
			return nil, err
		}
		sourceDir = filepath.Dir(abs)
		chain = append(chain, level{dir: sourceDir, doc: doc})
		walking = docInherit(doc)
	}

	if walking {
		dir := sourceDir
		for {
			doc, err := loadLevel(dir, opts.SearchPaths, opts.DefaultFormat)
			if err != nil {
				return nil, err
			}
			chain = append(chain, level{dir: dir, doc: doc})
			if !docInherit(doc) {
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				// Filesystem root always stops the walk.
				break
			}
			dir = parent
		}
	}

	// Depth truncation applies before overlay, rebase and reversal so the
	// count is child-first.
	if opts.MaxInheritDepth >= 0 && len(chain) > opts.MaxInheritDepth+1 {
		chain = chain[:opts.MaxInheritDepth+1]
	}

	environmentFound := false
	for i := range chain {
		if opts.Environment != "" {
			overlaid, found, err := overlayEnvironment(chain[i].doc, opts.Environment)
			if err != nil {
				return nil, err
			}
			if found {
				chain[i].doc = overlaid
				environmentFound = true
			}
		}
		rebased, err := absolutizeImports(chain[i].doc, chain[i].dir)
		if err != nil {
			return nil, err
		}
		chain[i].doc = rebased
	}
	if opts.Environment != "" && !environmentFound && !opts.IgnoreMissingEnvironment {
		return nil, &EnvironmentNotFoundError{Name: opts.Environment}
	}

	merged := chain[0].doc
	for _, lvl := range chain[1:] {
		if merged, err = mergeInherited(merged, lvl.doc); err != nil {
			return nil, err
		}
	}

	if err := cleanRequirements(merged, sourceDir); err != nil {
		return nil, err
	}

	doc, err := newDocument(merged, sourceDir)
	if err != nil {
		return nil, err
	}
	if opts.ExpandImports {
		if err := doc.LoadRequirements(); err != nil {
			return nil, err
		}
	}
	logging.Default().Debugf("Configuration loaded from %d level(s)", len(chain))
	return doc, nil
}

// loadLevel merges the sibling config files of one directory into a single
// document. The first declared file wins scalar conflicts, achieved by
// folding the files in reverse order. A file declaring
// "inherit_siblings: false" is the last one included.
func loadLevel(dir string, patterns []string, def FileFormat) (map[string]any, error) {
	paths, err := candidatePaths(dir, patterns)
	if err != nil {
		return nil, err
	}
	var docs []map[string]any
	for _, path := range paths {
		doc, err := loadFile(path, def)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
		if !docInheritSiblings(doc) {
			break
		}
	}
	merged := map[string]any{}
	for i := len(docs) - 1; i >= 0; i-- {
		if merged, err = Merge(merged, docs[i]); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// loadFile parses a single config file into a raw document and stamps its
// source_path. An empty file is an empty document.
func loadFile(path string, def FileFormat) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed any
	switch {
	case strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml"):
		err = yaml.Unmarshal(data, &parsed)
	case strings.HasSuffix(path, ".json"):
		err = unmarshalJSON(data, &parsed)
	case def == FormatJSON:
		err = unmarshalJSON(data, &parsed)
	default:
		err = yaml.Unmarshal(data, &parsed)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if parsed == nil {
		parsed = map[string]any{}
	}
	doc, ok := parsed.(map[string]any)
	if !ok {
		return nil, &ParseError{Path: path, Err: errors.New("document root is not a mapping")}
	}
	doc["source_path"] = path
	logging.Default().Debugf("Loaded config file: %s", path)
	return doc, nil
}

func unmarshalJSON(data []byte, out *any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// docInherit reports whether resolution continues to the parent directory.
// Anything but an explicit true stops the walk.
func docInherit(doc map[string]any) bool {
	v, _ := doc["inherit"].(bool)
	return v
}

// docInheritSiblings reports whether later sibling files still participate
// in the level merge. Defaults to true.
func docInheritSiblings(doc map[string]any) bool {
	if v, ok := doc["inherit_siblings"].(bool); ok {
		return v
	}
	return true
}

// overlayEnvironment deep-merges the named profile onto the level document,
// profile values winning. Returns the document unchanged when the level
// does not define the profile.
func overlayEnvironment(doc map[string]any, name string) (map[string]any, bool, error) {
	envsVal, ok := doc["environments"]
	if !ok || envsVal == nil {
		return doc, false, nil
	}
	envs, ok := envsVal.(map[string]any)
	if !ok {
		return nil, false, &SchemaError{Key: "environments", Reason: "must be a mapping"}
	}
	profileVal, ok := envs[name]
	if !ok {
		return doc, false, nil
	}
	profile, ok := profileVal.(map[string]any)
	if !ok {
		return nil, false, &SchemaError{Key: "environments." + name, Reason: "must be a mapping"}
	}
	merged, err := Merge(doc, profile)
	if err != nil {
		return nil, false, err
	}
	return merged, true, nil
}

// absolutizeImports rewrites relative import paths against the directory of
// the level that declared them, so the entries stay addressable after
// levels from different directories are folded together. Absolute paths
// pass through untouched, which keeps the rebase idempotent.
func absolutizeImports(doc map[string]any, dir string) (map[string]any, error) {
	list, ok := doc["requirements"].([]any)
	if !ok || len(list) == 0 {
		return doc, nil
	}
	rebased := make([]any, len(list))
	changed := false
	for i, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			rebased[i] = entry
			continue
		}
		imp := rawImportPath(m)
		if imp == "" || filepath.IsAbs(imp) {
			rebased[i] = entry
			continue
		}
		rewritten := copyMap(m)
		delete(rewritten, "import_path")
		rewritten["import"] = filepath.Join(dir, imp)
		rebased[i] = rewritten
		changed = true
	}
	if !changed {
		return doc, nil
	}
	out := copyMap(doc)
	out["requirements"] = rebased
	return out, nil
}

func rawImportPath(m map[string]any) string {
	if imp, ok := m["import"].(string); ok {
		return imp
	}
	if imp, ok := m["import_path"].(string); ok {
		return imp
	}
	return ""
}

// cleanRequirements canonicalizes the merged document's requirement lists:
// absolute import paths become relative to the resolved source directory
// and duplicates are removed, in the document itself and in every retained
// environment profile.
func cleanRequirements(doc map[string]any, sourceDir string) error {
	cleaned, err := canonicalRequirements(doc["requirements"], sourceDir)
	if err != nil {
		return err
	}
	if cleaned != nil {
		doc["requirements"] = cleaned
	}
	envs, ok := doc["environments"].(map[string]any)
	if !ok {
		return nil
	}
	for name, profileVal := range envs {
		profile, ok := profileVal.(map[string]any)
		if !ok {
			continue
		}
		cleaned, err := canonicalRequirements(profile["requirements"], sourceDir)
		if err != nil {
			return err
		}
		if cleaned != nil {
			rewritten := copyMap(profile)
			rewritten["requirements"] = cleaned
			envs[name] = rewritten
		}
	}
	return nil
}

func canonicalRequirements(v any, sourceDir string) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	reqs, err := parseRequirementList(v)
	if err != nil {
		return nil, err
	}
	for i := range reqs {
		if reqs[i].Import == "" || !filepath.IsAbs(reqs[i].Import) {
			continue
		}
		rel, err := filepath.Rel(sourceDir, reqs[i].Import)
		if err != nil {
			return nil, err
		}
		reqs[i].Import = rel
	}
	return requirementsToRaw(UniqueRequirements(reqs)), nil
}

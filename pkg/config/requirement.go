package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Requirement is a single entry in a document's requirement list: either a
// pip package specifier or an import of a requirements file. Exactly one of
// Package or Import is set.
type Requirement struct {
	// Package is a pip package specifier, e.g. "pyyaml==6.0".
	Package string

	// Import is a path to a requirements file, relative to the resolved
	// source directory.
	Import string
}

// packageNameRE matches the leading package-name token of a specifier.
var packageNameRE = regexp.MustCompile(`^[\w._-]+`)

// lineCommentRE strips inline "#" comments from requirement file lines.
var lineCommentRE = regexp.MustCompile(`#.*`)

// ParseRequirement converts a raw document value into a Requirement. A bare
// string is shorthand for a package specifier; mappings carry a "package"
// or "import" key. Anything else is a schema error.
func ParseRequirement(v any) (Requirement, error) {
	switch val := v.(type) {
	case string:
		spec := strings.TrimSpace(val)
		if spec == "" {
			return Requirement{}, &SchemaError{Key: "requirements", Reason: "empty requirement specifier"}
		}
		return Requirement{Package: spec}, nil
	case map[string]any:
		req := Requirement{}
		if pkg, ok := val["package"].(string); ok {
			req.Package = strings.TrimSpace(pkg)
		}
		if imp, ok := val["import"].(string); ok {
			req.Import = imp
		} else if imp, ok := val["import_path"].(string); ok {
			// Accepted alias from older configs.
			req.Import = imp
		}
		if (req.Package == "") == (req.Import == "") {
			return Requirement{}, &SchemaError{
				Key:    "requirements",
				Reason: "a requirement must set exactly one of 'package' or 'import'",
			}
		}
		return req, nil
	default:
		return Requirement{}, &SchemaError{
			Key:    "requirements",
			Reason: "a requirement must be a string or a mapping",
		}
	}
}

// IdentityKey returns the deduplication key: the leading package-name token
// for package entries, or the marked import path for imports. Two distinct
// import paths are never duplicates of each other.
func (r Requirement) IdentityKey() string {
	if r.Import != "" {
		return "import: " + r.Import
	}
	if name := packageNameRE.FindString(strings.TrimSpace(r.Package)); name != "" {
		return name
	}
	return r.Package
}

// ToMap returns the canonical mapping form of the entry.
func (r Requirement) ToMap() map[string]any {
	if r.Import != "" {
		return map[string]any{"import": r.Import}
	}
	return map[string]any{"package": r.Package}
}

// NormalizeRequirements parses a raw "requirements" value into validated
// entries.
func NormalizeRequirements(v any) ([]Requirement, error) {
	return parseRequirementList(v)
}

// UniqueRequirements removes duplicate entries by identity key, keeping the
// last occurrence of each so a later, more specific declaration overrides
// an earlier one.
func UniqueRequirements(reqs []Requirement) []Requirement {
	seen := make(map[string]bool, len(reqs))
	kept := make([]Requirement, 0, len(reqs))
	for i := len(reqs) - 1; i >= 0; i-- {
		key := reqs[i].IdentityKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, reqs[i])
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}

// parseRequirementList validates and converts a raw "requirements" value.
func parseRequirementList(v any) ([]Requirement, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &SchemaError{Key: "requirements", Reason: "must be a sequence"}
	}
	reqs := make([]Requirement, 0, len(list))
	for _, entry := range list {
		req, err := ParseRequirement(entry)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func requirementsToRaw(reqs []Requirement) []any {
	raw := make([]any, len(reqs))
	for i, r := range reqs {
		raw[i] = r.ToMap()
	}
	return raw
}

// expandImports replaces each import entry with the package specifiers read
// from its requirements file, inserted in file order at the entry's
// position. Relative paths resolve against rootDir. A missing file is
// skipped silently; expanding a list without imports is a no-op.
func expandImports(reqs []Requirement, rootDir string) ([]Requirement, error) {
	expanded := make([]Requirement, 0, len(reqs))
	for _, req := range reqs {
		if req.Import == "" {
			expanded = append(expanded, req)
			continue
		}
		path := req.Import
		if !filepath.IsAbs(path) {
			path = filepath.Join(rootDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// Requirement file not created yet, e.g. right after init.
				continue
			}
			return nil, err
		}
		expanded = append(expanded, parseRequirementsFile(data)...)
	}
	return expanded, nil
}

// parseRequirementsFile parses newline-delimited package specifiers,
// dropping "#" comments and blank lines.
func parseRequirementsFile(data []byte) []Requirement {
	cleaned := lineCommentRE.ReplaceAllString(string(data), "")
	var reqs []Requirement
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		reqs = append(reqs, Requirement{Package: line})
	}
	return reqs
}

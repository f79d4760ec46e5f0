package config

import (
	"regexp"
	"strconv"
	"strings"
)

// collectionPartRE splits a path segment into its key name and optional
// sequence index, e.g. "b[2]" -> ("b", 2), "[0]" -> ("", 0).
var collectionPartRE = regexp.MustCompile(`^(.*?)(\[([0-9]+)\])?$`)

// Find looks up dot-separated collection paths (e.g. "a.b[0].c") in the
// document and returns the values that exist, in path order. Empty path
// segments are ignored. Paths that reference a mapping key on a sequence
// (or vice versa) are schema errors; paths that simply do not exist are
// skipped.
func (d *Document) Find(paths ...string) ([]any, error) {
	var results []any
	for _, path := range paths {
		v, found, err := lookupPath(d.raw, path)
		if err != nil {
			return nil, err
		}
		if found {
			results = append(results, v)
		}
	}
	return results, nil
}

func lookupPath(val any, path string) (any, bool, error) {
	found := false
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			continue
		}
		groups := collectionPartRE.FindStringSubmatch(part)
		name := groups[1]
		if name != "" {
			m, ok := val.(map[string]any)
			if !ok {
				return nil, false, &SchemaError{Key: path, Reason: part + " references a mapping key but the parent is not a mapping"}
			}
			if val, ok = m[name]; !ok {
				return nil, false, nil
			}
			found = true
		}
		if groups[3] != "" {
			index, err := strconv.Atoi(groups[3])
			if err != nil {
				return nil, false, &SchemaError{Key: path, Reason: "invalid sequence index in " + part}
			}
			list, ok := val.([]any)
			if !ok {
				return nil, false, &SchemaError{Key: path, Reason: part + " references a sequence but the parent is not a sequence"}
			}
			if index >= len(list) {
				return nil, false, nil
			}
			val = list[index]
			found = true
		}
	}
	return val, found, nil
}

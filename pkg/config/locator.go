package config

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// SearchPathsEnvVar overrides the default config filename list with a
// whitespace or comma separated list of filenames and glob patterns.
const SearchPathsEnvVar = "YAPENV_CONFIG_FILES"

var defaultSearchPaths = []string{".yapenv.yaml", ".yapenv.yml", ".yapenv", ".yapenv.json"}

var searchPathSplitRE = regexp.MustCompile(`[\s,]+`)

// DefaultSearchPaths returns the candidate config filenames, honoring
// SearchPathsEnvVar. The result is a fresh slice on every call so callers
// can append without sharing state.
func DefaultSearchPaths() []string {
	raw := strings.TrimSpace(os.Getenv(SearchPathsEnvVar))
	if raw == "" {
		out := make([]string, len(defaultSearchPaths))
		copy(out, defaultSearchPaths)
		return out
	}
	var paths []string
	for _, part := range searchPathSplitRE.Split(raw, -1) {
		if part != "" {
			paths = append(paths, part)
		}
	}
	return paths
}

// candidatePaths returns the existing config files in dir matching the
// patterns, in pattern-declaration order. Glob patterns expand to all
// matches, sorted for determinism; literal names yield at most one path.
// No matches is not an error.
func candidatePaths(dir string, patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		if strings.ContainsAny(pattern, "*?[") {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				return nil, err
			}
			sort.Strings(matches)
			for _, match := range matches {
				if isRegularFile(match) {
					paths = append(paths, match)
				}
			}
			continue
		}
		path := filepath.Join(dir, pattern)
		if isRegularFile(path) {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

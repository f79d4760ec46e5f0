package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSearchPaths_When_EnvVarUnset(t *testing.T) {
	assert.Equal(t, []string{".yapenv.yaml", ".yapenv.yml", ".yapenv", ".yapenv.json"}, DefaultSearchPaths())
}

func TestDefaultSearchPaths_When_EnvVarSet_SplitsOnSeparators(t *testing.T) {
	t.Setenv(SearchPathsEnvVar, "first.yaml, second.yaml\nthird.yaml")

	assert.Equal(t, []string{"first.yaml", "second.yaml", "third.yaml"}, DefaultSearchPaths())
}

func TestCandidatePaths_When_LiteralPatterns_KeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{".yapenv.yml", ".yapenv.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	paths, err := candidatePaths(dir, DefaultSearchPaths())

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, ".yapenv.yaml"),
		filepath.Join(dir, ".yapenv.yml"),
	}, paths)
}

func TestCandidatePaths_When_GlobPattern_ExpandsSorted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.env.yaml", "a.env.yaml", "skip.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	paths, err := candidatePaths(dir, []string{"*.env.yaml"})

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.env.yaml"),
		filepath.Join(dir, "b.env.yaml"),
	}, paths)
}

func TestCandidatePaths_When_DirectoryMatches_Skipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".yapenv"), 0o755))

	paths, err := candidatePaths(dir, DefaultSearchPaths())

	require.NoError(t, err)
	assert.Empty(t, paths)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_VenvPath_When_RelativeAndAbsolute(t *testing.T) {
	t.Parallel()

	rel, err := newDocument(map[string]any{"venv_directory": "envs/dev"}, "/src/proj")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/src/proj", "envs/dev"), rel.VenvPath())

	abs, err := newDocument(map[string]any{"venv_directory": "/opt/venv"}, "/src/proj")
	require.NoError(t, err)
	assert.Equal(t, "/opt/venv", abs.VenvPath())
}

func TestDocument_SourceDirectory_When_MergeSourceSetsIt_LoaderWins(t *testing.T) {
	t.Parallel()

	doc, err := newDocument(map[string]any{"source_directory": "/somewhere/else"}, "/src/proj")
	require.NoError(t, err)

	assert.Equal(t, "/src/proj", doc.SourceDirectory)
	assert.Equal(t, "/src/proj", doc.ToMap()["source_directory"])
}

func TestDocument_When_FieldHasWrongType_ReturnsSchemaError(t *testing.T) {
	t.Parallel()

	var schemaErr *SchemaError

	_, err := newDocument(map[string]any{"python_version": 3.11}, "/src")
	assert.ErrorAs(t, err, &schemaErr)

	_, err = newDocument(map[string]any{"pip_install_args": "not-a-list"}, "/src")
	assert.ErrorAs(t, err, &schemaErr)
}

func TestDocument_LoadRequirements_When_CalledTwice_IsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "req.txt"), []byte("imported-pkg==1.0\n"), 0o644))

	doc, err := newDocument(map[string]any{
		"requirements": []any{"inline-pkg==1.0", map[string]any{"import": "req.txt"}},
	}, dir)
	require.NoError(t, err)

	require.NoError(t, doc.LoadRequirements())
	first := doc.PackageSpecifiers()
	require.NoError(t, doc.LoadRequirements())

	assert.Equal(t, []string{"inline-pkg==1.0", "imported-pkg==1.0"}, first)
	assert.Equal(t, first, doc.PackageSpecifiers())
}

func TestDocument_ToMap_When_Mutated_DoesNotAffectDocument(t *testing.T) {
	t.Parallel()

	doc, err := newDocument(map[string]any{
		"python_version": "3.11",
		"environments":   map[string]any{"dev": map[string]any{"a": 1}},
	}, "/src")
	require.NoError(t, err)

	m := doc.ToMap()
	m["python_version"] = "changed"
	m["environments"].(map[string]any)["dev"].(map[string]any)["a"] = 99

	again := doc.ToMap()
	assert.Equal(t, "3.11", again["python_version"])
	assert.Equal(t, 1, again["environments"].(map[string]any)["dev"].(map[string]any)["a"])
}

func TestDocument_Find_When_NestedCollectionPaths(t *testing.T) {
	t.Parallel()

	doc, err := newDocument(map[string]any{
		"python_version": "3.11",
		"requirements":   []any{map[string]any{"package": "pkg==1.0"}},
		"environments": map[string]any{
			"dev": map[string]any{"pip_install_args": []any{"--pre"}},
		},
	}, "/src")
	require.NoError(t, err)

	got, err := doc.Find("python_version", "requirements[0].package", "environments.dev.pip_install_args[0]")

	require.NoError(t, err)
	assert.Equal(t, []any{"3.11", "pkg==1.0", "--pre"}, got)
}

func TestDocument_Find_When_PathMissing_Skipped(t *testing.T) {
	t.Parallel()

	doc, err := newDocument(map[string]any{"python_version": "3.11"}, "/src")
	require.NoError(t, err)

	got, err := doc.Find("no_such_key", "python_version", "requirements[4]")

	require.NoError(t, err)
	assert.Equal(t, []any{"3.11"}, got)
}

func TestDocument_Find_When_IndexingAMapping_ReturnsSchemaError(t *testing.T) {
	t.Parallel()

	doc, err := newDocument(map[string]any{
		"environments": map[string]any{"dev": map[string]any{}},
	}, "/src")
	require.NoError(t, err)

	_, err = doc.Find("environments[0]")

	var schemaErr *SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequirement_When_StringShorthand(t *testing.T) {
	t.Parallel()

	req, err := ParseRequirement("requests>=2.28,<3")

	require.NoError(t, err)
	assert.Equal(t, "requests>=2.28,<3", req.Package)
	assert.Empty(t, req.Import)
}

func TestParseRequirement_When_MappingForms(t *testing.T) {
	t.Parallel()

	pkg, err := ParseRequirement(map[string]any{"package": "numpy==1.26"})
	require.NoError(t, err)
	assert.Equal(t, "numpy==1.26", pkg.Package)

	imp, err := ParseRequirement(map[string]any{"import": "requirements.txt"})
	require.NoError(t, err)
	assert.Equal(t, "requirements.txt", imp.Import)

	// import_path is accepted as an alias for import.
	alias, err := ParseRequirement(map[string]any{"import_path": "dev.txt"})
	require.NoError(t, err)
	assert.Equal(t, "dev.txt", alias.Import)
}

func TestParseRequirement_When_Invalid_ReturnsSchemaError(t *testing.T) {
	t.Parallel()

	var schemaErr *SchemaError

	_, err := ParseRequirement(map[string]any{"package": "a", "import": "b"})
	assert.ErrorAs(t, err, &schemaErr)

	_, err = ParseRequirement(map[string]any{})
	assert.ErrorAs(t, err, &schemaErr)

	_, err = ParseRequirement(42)
	assert.ErrorAs(t, err, &schemaErr)
}

func TestRequirement_IdentityKey_When_VersionSpecifiersDiffer(t *testing.T) {
	t.Parallel()

	a := Requirement{Package: "pkg==1.0"}
	b := Requirement{Package: "pkg==2.0"}
	c := Requirement{Package: "other-pkg==1.0"}

	assert.Equal(t, a.IdentityKey(), b.IdentityKey())
	assert.NotEqual(t, a.IdentityKey(), c.IdentityKey())

	// Two different imports are never duplicates of each other.
	i := Requirement{Import: "a.txt"}
	j := Requirement{Import: "b.txt"}
	assert.NotEqual(t, i.IdentityKey(), j.IdentityKey())
}

func TestUniqueRequirements_When_DuplicateIdentities_LastOccurrenceWins(t *testing.T) {
	t.Parallel()

	out := UniqueRequirements([]Requirement{
		{Package: "pkg==1.0"},
		{Package: "other==1.0"},
		{Package: "pkg==2.0"},
	})

	assert.Equal(t, []Requirement{
		{Package: "other==1.0"},
		{Package: "pkg==2.0"},
	}, out)
}

func TestExpandImports_When_FileExists_InsertsInPlace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := "# dev tools\nblack==24.1\n\nisort==5.13  # sorted imports\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dev.txt"), []byte(content), 0o644))

	out, err := expandImports([]Requirement{
		{Package: "requests"},
		{Import: "dev.txt"},
		{Package: "numpy"},
	}, dir)

	require.NoError(t, err)
	assert.Equal(t, []Requirement{
		{Package: "requests"},
		{Package: "black==24.1"},
		{Package: "isort==5.13"},
		{Package: "numpy"},
	}, out)
}

func TestExpandImports_When_FileMissing_SkipsEntry(t *testing.T) {
	t.Parallel()

	out, err := expandImports([]Requirement{
		{Package: "requests"},
		{Import: "no-such-file.txt"},
	}, t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, []Requirement{{Package: "requests"}}, out)
}

func TestExpandImports_When_NoImports_IsNoOp(t *testing.T) {
	t.Parallel()

	reqs := []Requirement{{Package: "a"}, {Package: "b"}}
	out, err := expandImports(reqs, t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, reqs, out)
}

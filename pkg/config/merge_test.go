package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_When_SourceScalarWins(t *testing.T) {
	t.Parallel()

	out, err := Merge(
		map[string]any{"x": 1, "y": 3},
		map[string]any{"x": 2},
	)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 2, "y": 3}, out)
}

func TestMerge_When_SequencesConcatenate(t *testing.T) {
	t.Parallel()

	out, err := Merge(
		map[string]any{"requirements": []any{"a"}},
		map[string]any{"requirements": []any{"b"}},
	)

	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, out["requirements"])
}

func TestMerge_When_NestedMapsMergeRecursively(t *testing.T) {
	t.Parallel()

	out, err := Merge(
		map[string]any{"environments": map[string]any{"dev": map[string]any{"a": 1}}},
		map[string]any{"environments": map[string]any{"dev": map[string]any{"b": 2}, "ci": map[string]any{}}},
	)

	require.NoError(t, err)
	envs := out["environments"].(map[string]any)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, envs["dev"])
	assert.Contains(t, envs, "ci")
}

func TestMerge_When_MapMeetsSequence_ReturnsSchemaError(t *testing.T) {
	t.Parallel()

	_, err := Merge(
		map[string]any{"requirements": map[string]any{"a": 1}},
		map[string]any{"requirements": []any{"b"}},
	)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "requirements", schemaErr.Key)
}

func TestMerge_When_Called_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	target := map[string]any{"list": []any{"a"}, "nested": map[string]any{"k": 1}}
	source := map[string]any{"list": []any{"b"}, "nested": map[string]any{"k": 2}}

	out, err := Merge(target, source)
	require.NoError(t, err)
	out["nested"].(map[string]any)["k"] = 99
	out["list"] = append(out["list"].([]any), "c")

	assert.Equal(t, []any{"a"}, target["list"])
	assert.Equal(t, 1, target["nested"].(map[string]any)["k"])
	assert.Equal(t, []any{"b"}, source["list"])
	assert.Equal(t, 2, source["nested"].(map[string]any)["k"])
}

func TestMergeInherited_When_ChildScalarWins(t *testing.T) {
	t.Parallel()

	out, err := mergeInherited(
		map[string]any{"python_version": "3.11"},
		map[string]any{"python_version": "3.9", "venv_directory": ".venv"},
	)

	require.NoError(t, err)
	assert.Equal(t, "3.11", out["python_version"])
	assert.Equal(t, ".venv", out["venv_directory"])
}

func TestMergeInherited_When_SequencesAccumulateChildFirst(t *testing.T) {
	t.Parallel()

	out, err := mergeInherited(
		map[string]any{"requirements": []any{"a"}},
		map[string]any{"requirements": []any{"b"}},
	)

	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, out["requirements"])
}

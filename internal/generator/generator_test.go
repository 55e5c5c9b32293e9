package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/restmatch/internal/config"
	"github.com/mcncl/restmatch/internal/matcher"
	"github.com/mcncl/restmatch/internal/parser"
	"github.com/mcncl/restmatch/internal/pattern"
)

func scaffold(t *testing.T, body string) string {
	t.Helper()
	value, err := parser.ParseString(body)
	require.NoError(t, err)
	src, err := NewGenerator(nil).Scaffold(value)
	require.NoError(t, err)
	return src
}

func TestScaffold_Scalars(t *testing.T) {
	assert.Equal(t, "42", scaffold(t, "42"))
	assert.Equal(t, `"hello"`, scaffold(t, `"hello"`))
	// No literal form for these in the grammar
	assert.Equal(t, "_", scaffold(t, "true"))
	assert.Equal(t, "_", scaffold(t, "null"))
	assert.Equal(t, "_", scaffold(t, "3.14"))
}

func TestScaffold_Object(t *testing.T) {
	src := scaffold(t, `{"name": "X", "age": 30}`)
	// Keys sorted for deterministic output
	assert.Equal(t, "{\n    age: 30,\n    name: \"X\",\n}", src)
}

func TestScaffold_VolatileStringsBecomeBindings(t *testing.T) {
	src := scaffold(t, `{"id": "550e8400-e29b-41d4-a716-446655440000", "created_at": "2023-05-20T14:56:23Z"}`)
	assert.Contains(t, src, "id: id as string")
	assert.Contains(t, src, "created_at: created_at as string")
}

func TestScaffold_QuotedFieldNames(t *testing.T) {
	src := scaffold(t, `{"content-type": "application/json"}`)
	assert.Contains(t, src, `"content-type": "application/json"`)
}

func TestScaffold_BindingNameCollisions(t *testing.T) {
	src := scaffold(t, `[
		{"id": "550e8400-e29b-41d4-a716-446655440000"},
		{"id": "650e8400-e29b-41d4-a716-446655440000"}
	]`)
	assert.Contains(t, src, "id as string")
	assert.Contains(t, src, "id_2 as string")
}

func TestScaffold_OutputMatchesItsInput(t *testing.T) {
	bodies := []string{
		`{"id": "550e8400-e29b-41d4-a716-446655440000", "name": "Grace Hopper", "year_of_birth": 1943}`,
		`[{"id": 1, "tags": ["a", "b"]}, {"id": 2, "tags": []}]`,
		`{"nested": {"deeply": {"value": null, "flag": true, "pi": 3.14}}}`,
	}

	for _, body := range bodies {
		value, err := parser.ParseString(body)
		require.NoError(t, err)

		src, err := NewGenerator(nil).Scaffold(value)
		require.NoError(t, err)

		compiled, err := pattern.Compile(src)
		require.NoError(t, err, "scaffolded pattern must compile: %s", src)
		assert.NoError(t, matcher.Match(value, compiled.Match), "scaffolded pattern must match its input: %s", src)
	}
}

func TestScaffold_Deterministic(t *testing.T) {
	body := `{"b": 1, "a": 2, "c": {"z": [1, 2], "y": "x"}}`
	first := scaffold(t, body)
	second := scaffold(t, body)
	assert.Equal(t, first, second)
}

func TestScaffold_LiteralsWhenVolatileDisabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Scaffold.BindVolatile = false

	value, err := parser.ParseString(`{"id": "550e8400-e29b-41d4-a716-446655440000"}`)
	require.NoError(t, err)
	src, err := NewGenerator(cfg).Scaffold(value)
	require.NoError(t, err)
	assert.Contains(t, src, `id: "550e8400-e29b-41d4-a716-446655440000"`)
}

package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/restmatch/internal/errors"
	"github.com/mcncl/restmatch/internal/models"
)

func TestCompile_StripsBindings(t *testing.T) {
	compiled, err := Compile(`{id: id as string, name: "X"}`)
	require.NoError(t, err)

	// The matching pattern must not constrain structure at binding
	// positions.
	require.Equal(t, models.Object, compiled.Match.Kind)
	assert.Equal(t, models.Any, compiled.Match.Fields[0].Pat.Kind)
	assert.Equal(t, models.String, compiled.Match.Fields[1].Pat.Kind)
}

func TestCompile_BindingOrderIsPreOrder(t *testing.T) {
	compiled, err := Compile(`{name: n as string, age: a as int}`)
	require.NoError(t, err)

	require.Len(t, compiled.Bindings, 2)
	assert.Equal(t, "n", compiled.Bindings[0].Name)
	assert.Equal(t, "a", compiled.Bindings[1].Name)
}

func TestCompile_NestedPaths(t *testing.T) {
	compiled, err := Compile(`[{id: x as int}, {id: y as int}]`)
	require.NoError(t, err)

	require.Len(t, compiled.Bindings, 2)
	assert.Equal(t, []models.PathStep{models.IndexStep(0), models.FieldStep("id")}, compiled.Bindings[0].Path)
	assert.Equal(t, []models.PathStep{models.IndexStep(1), models.FieldStep("id")}, compiled.Bindings[1].Path)
}

func TestCompile_DeeplyNestedPath(t *testing.T) {
	compiled, err := Compile(`{users: [{roles: [r as string, _]}]}`)
	require.NoError(t, err)

	require.Len(t, compiled.Bindings, 1)
	b := compiled.Bindings[0]
	assert.Equal(t, "r", b.Name)
	assert.Equal(t, []models.PathStep{
		models.FieldStep("users"),
		models.IndexStep(0),
		models.FieldStep("roles"),
		models.IndexStep(0),
	}, b.Path)
	assert.Equal(t, "$.users[0].roles[0]", models.PathString(b.Path))
}

func TestCompile_RootBindingHasEmptyPath(t *testing.T) {
	compiled, err := Compile("whole as int")
	require.NoError(t, err)

	require.Len(t, compiled.Bindings, 1)
	assert.Empty(t, compiled.Bindings[0].Path)
	assert.Equal(t, "$", models.PathString(compiled.Bindings[0].Path))
}

func TestCompile_WildcardBindsNothing(t *testing.T) {
	compiled, err := Compile(`[_, _, {a: _}]`)
	require.NoError(t, err)
	assert.Empty(t, compiled.Bindings)
}

func TestCompile_DuplicateBindingName(t *testing.T) {
	_, err := Compile(`{a: v as int, b: v as int}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDuplicateBinding)
}

func TestCompile_Idempotent(t *testing.T) {
	src := `{users: [{id, name: "X", tags: t as [string]}], total: 1}`

	first, err := Compile(src)
	require.NoError(t, err)
	second, err := Compile(src)
	require.NoError(t, err)

	assert.Equal(t, first.Match, second.Match)
	assert.Equal(t, first.Bindings, second.Bindings)
}

func TestCompile_SiblingPathsDoNotAlias(t *testing.T) {
	// Sibling bindings share a path prefix; each record must own an
	// independent copy.
	compiled, err := Compile(`{a: x as int, b: y as int}`)
	require.NoError(t, err)

	require.Len(t, compiled.Bindings, 2)
	assert.Equal(t, []models.PathStep{models.FieldStep("a")}, compiled.Bindings[0].Path)
	assert.Equal(t, []models.PathStep{models.FieldStep("b")}, compiled.Bindings[1].Path)
}

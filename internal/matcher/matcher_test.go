package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/restmatch/internal/errors"
	"github.com/mcncl/restmatch/internal/models"
	"github.com/mcncl/restmatch/internal/parser"
	"github.com/mcncl/restmatch/internal/pattern"
)

func mustValue(t *testing.T, src string) models.JSONValue {
	t.Helper()
	v, err := parser.ParseString(src)
	require.NoError(t, err)
	return v
}

func mustCompile(t *testing.T, src string) *pattern.Compiled {
	t.Helper()
	c, err := pattern.Compile(src)
	require.NoError(t, err)
	return c
}

func TestMatch_Literals(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		pattern string
		wantErr error
	}{
		{name: "integer equal", value: "42", pattern: "42"},
		{name: "integer from float", value: "42.0", pattern: "42"},
		{name: "negative integer", value: "-7", pattern: "-7"},
		{name: "integer unequal", value: "41", pattern: "42", wantErr: errors.ErrTypeMismatch},
		{name: "fractional number", value: "42.5", pattern: "42", wantErr: errors.ErrIntegerConversion},
		{name: "string for integer", value: `"42"`, pattern: "42", wantErr: errors.ErrTypeMismatch},
		{name: "string equal", value: `"John Doe"`, pattern: `"John Doe"`},
		{name: "string unequal", value: `"Jane Doe"`, pattern: `"John Doe"`, wantErr: errors.ErrTypeMismatch},
		{name: "number for string", value: "42", pattern: `"42"`, wantErr: errors.ErrTypeMismatch},
		{name: "wildcard null", value: "null", pattern: "_"},
		{name: "wildcard object", value: `{"a": 1}`, pattern: "_"},
		{name: "null for integer", value: "null", pattern: "42", wantErr: errors.ErrTypeMismatch},
		{name: "bool for string", value: "true", pattern: `"true"`, wantErr: errors.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled := mustCompile(t, tt.pattern)
			err := Match(mustValue(t, tt.value), compiled.Match)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeMismatch), "got %v", err)
		})
	}
}

func TestMatch_IntegerUnequalIsNotConversion(t *testing.T) {
	compiled := mustCompile(t, "42")
	err := Match(mustValue(t, "41"), compiled.Match)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errors.ErrIntegerConversion)
}

func TestMatch_ArrayExactLength(t *testing.T) {
	compiled := mustCompile(t, "[_, _]")

	assert.NoError(t, Match(mustValue(t, "[1, 2]"), compiled.Match))

	err := Match(mustValue(t, "[1, 2, 3]"), compiled.Match)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrLengthMismatch)
	assert.Contains(t, err.Error(), "pattern has 2 elements, value has 3")

	err = Match(mustValue(t, "[1]"), compiled.Match)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrLengthMismatch)
}

func TestMatch_ArrayPositional(t *testing.T) {
	compiled := mustCompile(t, `[42, "x", _]`)
	assert.NoError(t, Match(mustValue(t, `[42, "x", {"ignored": true}]`), compiled.Match))

	err := Match(mustValue(t, `[42, "y", null]`), compiled.Match)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$[1]")
}

func TestMatch_ObjectExhaustiveBothWays(t *testing.T) {
	// Value field not named in the pattern
	compiled := mustCompile(t, "{a: 1}")
	err := Match(mustValue(t, `{"a": 1, "b": 2}`), compiled.Match)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "b" present in value but not matched in pattern`)

	// Pattern field absent from the value
	compiled = mustCompile(t, "{a: 1, b: _}")
	err = Match(mustValue(t, `{"a": 1}`), compiled.Match)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "b" matched in pattern but not found in JSON`)
}

func TestMatch_ObjectFieldOrderIrrelevantInValue(t *testing.T) {
	compiled := mustCompile(t, `{name: "X", age: 1}`)
	assert.NoError(t, Match(mustValue(t, `{"age": 1, "name": "X"}`), compiled.Match))
}

func TestMatch_NestedFailurePath(t *testing.T) {
	compiled := mustCompile(t, `{users: [{id: 1}, {id: 2}]}`)
	err := Match(mustValue(t, `{"users": [{"id": 1}, {"id": 3}]}`), compiled.Match)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$.users[1].id")
}

func TestMatch_TypeMismatchVariants(t *testing.T) {
	compiled := mustCompile(t, "[_]")
	err := Match(mustValue(t, `"not an array"`), compiled.Match)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)

	compiled = mustCompile(t, "{a: _}")
	err = Match(mustValue(t, "[1]"), compiled.Match)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)
}

func TestMatch_RoundTripExhaustiveness(t *testing.T) {
	// A pattern built from the value's own shape with literals
	// replaced by wildcards always matches.
	values := []string{
		`{"id": 1, "tags": ["a", "b"], "meta": {"ok": true, "score": 1.5}}`,
		`[[1, 2], [], {"x": null}]`,
		`"scalar"`,
	}
	patterns := []string{
		`{id: _, tags: [_, _], meta: {ok: _, score: _}}`,
		`[[_, _], [], {x: _}]`,
		`_`,
	}

	for i := range values {
		compiled := mustCompile(t, patterns[i])
		assert.NoError(t, Match(mustValue(t, values[i]), compiled.Match), "case %d", i)
	}
}

func TestMatch_EmptyContainers(t *testing.T) {
	assert.NoError(t, Match(mustValue(t, "[]"), mustCompile(t, "[]").Match))
	assert.NoError(t, Match(mustValue(t, "{}"), mustCompile(t, "{}").Match))

	err := Match(mustValue(t, `{"a": 1}`), mustCompile(t, "{}").Match)
	require.Error(t, err)
}

func TestMatch_LargeIntegers(t *testing.T) {
	compiled := mustCompile(t, "9007199254740993")
	// Exceeds float64 precision; json.Number keeps it exact.
	assert.NoError(t, Match(mustValue(t, "9007199254740993"), compiled.Match))
}

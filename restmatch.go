// Package restmatch checks JSON response bodies against declarative
// structural patterns and extracts named, typed bindings from them.
//
// A pattern partially specifies the shape of a body: literals pin
// values down exactly, `_` ignores a position, and bindings capture a
// sub-value under a name for use in later requests of the same test.
//
//	id := ""
//	res, err := restmatch.Match(body, `{
//	    id,
//	    name: "Grace Hopper",
//	    year_of_birth: 1943,
//	    tags: tags as [string],
//	}`, restmatch.Var("id", &id))
//
// Object matching is exhaustive in both directions: a field named in
// the pattern must exist in the body, and a field present in the body
// must be named in the pattern. Arrays match exact lengths. Both rules
// exist to catch server response drift, not to be lenient about it.
package restmatch

import (
	"encoding/json"

	"github.com/mcncl/restmatch/internal/errors"
	"github.com/mcncl/restmatch/internal/matcher"
	"github.com/mcncl/restmatch/internal/models"
	"github.com/mcncl/restmatch/internal/parser"
	"github.com/mcncl/restmatch/internal/pattern"
)

// Pattern is a compiled pattern, ready to be matched against any
// number of values. Compilation happens once; matching and extraction
// never mutate the pattern, so a Pattern is safe for concurrent use.
type Pattern struct {
	src      string
	compiled *pattern.Compiled
}

// Compile parses and compiles a pattern source string.
func Compile(src string) (*Pattern, error) {
	compiled, err := pattern.Compile(src)
	if err != nil {
		return nil, err
	}
	return &Pattern{src: src, compiled: compiled}, nil
}

// MustCompile is Compile, panicking on error. Intended for package-level
// patterns whose source is a literal.
func MustCompile(src string) *Pattern {
	p, err := Compile(src)
	if err != nil {
		panic("restmatch: MustCompile(" + src + "): " + err.Error())
	}
	return p
}

// Source returns the pattern source text.
func (p *Pattern) Source() string { return p.src }

// BindingNames returns the names of the pattern's bindings in
// extraction order (pattern pre-order).
func (p *Pattern) BindingNames() []string {
	names := make([]string, len(p.compiled.Bindings))
	for i, b := range p.compiled.Bindings {
		names[i] = b.Name
	}
	return names
}

// Match checks value structurally against the pattern without
// extracting bindings.
func (p *Pattern) Match(value interface{}) error {
	v, err := toValue(value)
	if err != nil {
		return err
	}
	return matcher.Match(v, p.compiled.Match)
}

// Extract matches value against the pattern and, on success, extracts
// all bindings. Destinations supply result types for untyped bindings
// and receive the deserialized sub-values.
func (p *Pattern) Extract(value interface{}, dests ...Dest) (*Result, error) {
	v, err := toValue(value)
	if err != nil {
		return nil, err
	}

	destMap := make(map[string]interface{}, len(dests))
	for _, d := range dests {
		destMap[d.Name] = d.Ptr
	}

	// Binding errors are about the assertion, not the body, so they
	// are diagnosed before any matching happens.
	if err := matcher.ValidateDests(p.compiled.Bindings, destMap); err != nil {
		return nil, err
	}

	if err := matcher.Match(v, p.compiled.Match); err != nil {
		return nil, err
	}
	bound, err := matcher.Extract(v, p.compiled.Bindings, destMap)
	if err != nil {
		return nil, err
	}
	return newResult(bound), nil
}

// Dest names a destination pointer for one binding. Build with Var.
type Dest struct {
	Name string
	Ptr  interface{}
}

// Var binds the pattern binding name to a destination pointer. The
// pointed-to type drives deserialization of the bound sub-value, which
// makes it the type hint for bindings without an `as` annotation.
func Var(name string, ptr interface{}) Dest {
	return Dest{Name: name, Ptr: ptr}
}

// Match parses body as JSON, matches it against the pattern source and
// extracts bindings. This is the common entry point for asserting on a
// raw HTTP response body.
func Match(body []byte, patternSrc string, dests ...Dest) (*Result, error) {
	p, err := Compile(patternSrc)
	if err != nil {
		return nil, err
	}
	value, err := parser.ParseBytes(body)
	if err != nil {
		return nil, err
	}
	return p.Extract(value, dests...)
}

// MatchValue is Match for a value that is already deserialized: a
// decoded JSON tree, or any Go value that can round-trip through
// encoding/json.
func MatchValue(value interface{}, patternSrc string, dests ...Dest) (*Result, error) {
	p, err := Compile(patternSrc)
	if err != nil {
		return nil, err
	}
	return p.Extract(value, dests...)
}

// Result holds extracted bindings in pattern pre-order.
type Result struct {
	bound  []models.BoundValue
	byName map[string]interface{}
}

func newResult(bound []models.BoundValue) *Result {
	byName := make(map[string]interface{}, len(bound))
	for _, b := range bound {
		byName[b.Name] = b.Value
	}
	return &Result{bound: bound, byName: byName}
}

// Len returns the number of extracted bindings.
func (r *Result) Len() int { return len(r.bound) }

// Names returns the binding names in extraction order.
func (r *Result) Names() []string {
	names := make([]string, len(r.bound))
	for i, b := range r.bound {
		names[i] = b.Name
	}
	return names
}

// Value returns the extracted value for a binding name. Typed bindings
// yield string, int64, float64, bool or slices of those; untyped
// bindings yield the raw sub-value.
func (r *Result) Value(name string) (interface{}, bool) {
	v, ok := r.byName[name]
	return v, ok
}

// String returns a string binding, or "" if absent or not a string.
func (r *Result) String(name string) string {
	s, _ := r.byName[name].(string)
	return s
}

// Int returns an int binding, or 0 if absent or not an int.
func (r *Result) Int(name string) int64 {
	n, _ := r.byName[name].(int64)
	return n
}

// Float returns a float binding, or 0 if absent or not a float.
func (r *Result) Float(name string) float64 {
	f, _ := r.byName[name].(float64)
	return f
}

// Bool returns a bool binding, or false if absent or not a bool.
func (r *Result) Bool(name string) bool {
	b, _ := r.byName[name].(bool)
	return b
}

// IsSyntaxError reports whether err is a pattern syntax error.
func IsSyntaxError(err error) bool { return errors.IsType(err, errors.ErrorTypeSyntax) }

// IsBindingError reports whether err is a binding error (ambiguous or
// unknown binding).
func IsBindingError(err error) bool { return errors.IsType(err, errors.ErrorTypeBinding) }

// IsMismatchError reports whether err is a structural mismatch between
// value and pattern.
func IsMismatchError(err error) bool { return errors.IsType(err, errors.ErrorTypeMismatch) }

// IsConversionError reports whether err is a typed-conversion or body
// decoding error.
func IsConversionError(err error) bool { return errors.IsType(err, errors.ErrorTypeConversion) }

// toValue normalizes an arbitrary input into the internal value model.
// Already-normalized trees pass through; anything else round-trips
// through encoding/json with numbers preserved as json.Number.
func toValue(value interface{}) (models.JSONValue, error) {
	switch value.(type) {
	case nil, bool, string, json.Number, models.JSONObject, models.JSONArray:
		return value, nil
	case []byte:
		return nil, errors.NewInputError("raw []byte body passed as a value; use Match instead of MatchValue", nil)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, errors.NewConversionError("value cannot be represented as JSON", err)
	}
	return parser.ParseBytes(raw)
}

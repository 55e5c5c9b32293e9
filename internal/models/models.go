package models

import "fmt"

// JSONValue is a generic type to represent any JSON value.
// This can be a string, json.Number, boolean, null, object, or array.
type JSONValue interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// PatternKind discriminates the variants of a Pattern node.
type PatternKind int

const (
	// Any matches any value and binds nothing. Produced by the `_`
	// wildcard and by bindings once their annotation is stripped.
	Any PatternKind = iota
	// Integer matches a Number whose integral value equals the literal.
	Integer
	// String matches a String equal to the literal.
	String
	// Array matches an array of exactly the same length, element-wise.
	Array
	// Object matches an object with exactly the same field set.
	Object
	// Binding matches any value and records an extraction point.
	Binding
)

func (k PatternKind) String() string {
	switch k {
	case Any:
		return "wildcard"
	case Integer:
		return "integer"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	case Binding:
		return "binding"
	default:
		return fmt.Sprintf("PatternKind(%d)", int(k))
	}
}

// Pattern is one node of a compiled pattern tree. Exactly the fields
// relevant to Kind are populated; the rest stay zero. Patterns are
// immutable once built.
type Pattern struct {
	Kind PatternKind

	// Integer literal value, when Kind == Integer.
	Int int64
	// String literal value, when Kind == String.
	Str string
	// Array element patterns, when Kind == Array.
	Elems []*Pattern
	// Object fields in declaration order, when Kind == Object.
	Fields []PatternField
	// Binding name and requested type, when Kind == Binding.
	Name string
	Type BindingType
}

// PatternField is a single `name: pattern` entry of an object pattern.
// Field order is the declaration order at the call site; it drives both
// the matching order and the binding order.
type PatternField struct {
	Name string
	Pat  *Pattern
}

// BindingTypeKind enumerates the scalar types a binding may request.
type BindingTypeKind int

const (
	// TypeNone marks an untyped binding; the requested type must be
	// inferred from a caller-supplied destination before extraction.
	TypeNone BindingTypeKind = iota
	TypeString
	TypeInt
	TypeFloat
	TypeBool
)

func (k BindingTypeKind) String() string {
	switch k {
	case TypeNone:
		return "untyped"
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return fmt.Sprintf("BindingTypeKind(%d)", int(k))
	}
}

// BindingType is the requested result type of a binding: a scalar or a
// homogeneous array of scalars.
type BindingType struct {
	Kind    BindingTypeKind
	IsArray bool
}

func (t BindingType) String() string {
	if t.IsArray {
		return "[" + t.Kind.String() + "]"
	}
	return t.Kind.String()
}

// PathStep is one descent step of an extraction path: either an index
// into an array or a field of an object.
type PathStep struct {
	// Field name; valid when Index < 0.
	Field string
	// Array index; negative when the step is a field descent.
	Index int
}

// FieldStep builds an object-field descent step.
func FieldStep(name string) PathStep { return PathStep{Field: name, Index: -1} }

// IndexStep builds an array-index descent step.
func IndexStep(i int) PathStep { return PathStep{Index: i} }

// IsField reports whether the step descends into an object field.
func (s PathStep) IsField() bool { return s.Index < 0 }

// PathString renders a path in the `$.users[1].id` notation used by
// mismatch and conversion diagnostics.
func PathString(path []PathStep) string {
	out := "$"
	for _, s := range path {
		if s.IsField() {
			out += "." + s.Field
		} else {
			out += fmt.Sprintf("[%d]", s.Index)
		}
	}
	return out
}

// BindingRecord is one extraction point compiled from a pattern: the
// binding's name, the path from the value root to the bound sub-value,
// and the requested result type. Records are produced in pattern
// pre-order and extracted in the same order.
type BindingRecord struct {
	Name string
	Path []PathStep
	Type BindingType
}

// BoundValue is one extracted result: the binding's name and the
// converted value.
type BoundValue struct {
	Name  string
	Value interface{}
}

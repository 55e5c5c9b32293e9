package matcher

import (
	"encoding/json"
	"fmt"

	"github.com/mcncl/restmatch/internal/errors"
	"github.com/mcncl/restmatch/internal/models"
)

// Extract resolves each binding's extraction path against value and
// converts the sub-value to the binding's requested type. dests maps
// binding names to caller-supplied destination pointers; a destination
// both receives the converted value and supplies the type for untyped
// bindings.
//
// Extract must only be called after Match has confirmed a full
// structural match on the same value. A path that fails to resolve
// after a confirmed match is an internal defect and panics.
func Extract(value models.JSONValue, bindings []models.BindingRecord, dests map[string]interface{}) ([]models.BoundValue, error) {
	if err := ValidateDests(bindings, dests); err != nil {
		return nil, err
	}

	results := make([]models.BoundValue, 0, len(bindings))
	for _, b := range bindings {
		sub := resolve(value, b.Path)

		var bound interface{}
		if b.Type.Kind != models.TypeNone {
			converted, err := convert(sub, b.Type, b.Path)
			if err != nil {
				return nil, err
			}
			bound = converted
		} else {
			bound = sub
		}

		if dest := dests[b.Name]; dest != nil {
			if err := assign(sub, dest, b); err != nil {
				return nil, err
			}
		}

		results = append(results, models.BoundValue{Name: b.Name, Value: bound})
	}
	return results, nil
}

// ValidateDests checks the binding/destination pairing without looking
// at any value: every untyped binding needs a destination to supply
// its type, and every destination must name a binding. The pairing is
// a property of the assertion itself, so callers run this before
// matching; an ill-formed assertion fails the same way whether or not
// the body matches.
func ValidateDests(bindings []models.BindingRecord, dests map[string]interface{}) error {
	known := make(map[string]bool, len(bindings))
	for _, b := range bindings {
		known[b.Name] = true
		if b.Type.Kind == models.TypeNone && dests[b.Name] == nil {
			return errors.NewBindingError(
				fmt.Sprintf("binding %q has no `as` annotation and no destination", b.Name),
				errors.ErrAmbiguousBinding,
			)
		}
	}
	for name := range dests {
		if !known[name] {
			return errors.NewBindingError(
				fmt.Sprintf("destination %q does not occur in the pattern", name),
				errors.ErrUnknownBinding,
			)
		}
	}
	return nil
}

// resolve replays an extraction path over a value. The matcher has
// already confirmed the value's shape, so every step must succeed.
func resolve(value models.JSONValue, path []models.PathStep) models.JSONValue {
	current := value
	for _, step := range path {
		if step.IsField() {
			obj, ok := current.(models.JSONObject)
			if !ok {
				panic(fmt.Sprintf("restmatch: invariant violation: path step .%s into non-object %T after confirmed match", step.Field, current))
			}
			next, present := obj[step.Field]
			if !present {
				panic(fmt.Sprintf("restmatch: invariant violation: field %q missing after confirmed match", step.Field))
			}
			current = next
		} else {
			arr, ok := current.(models.JSONArray)
			if !ok {
				panic(fmt.Sprintf("restmatch: invariant violation: path step [%d] into non-array %T after confirmed match", step.Index, current))
			}
			if step.Index >= len(arr) {
				panic(fmt.Sprintf("restmatch: invariant violation: index %d out of range after confirmed match", step.Index))
			}
			current = arr[step.Index]
		}
	}
	return current
}

// convert turns a sub-value into the requested scalar or
// array-of-scalar type.
func convert(sub models.JSONValue, ty models.BindingType, path []models.PathStep) (interface{}, error) {
	if !ty.IsArray {
		return convertScalar(sub, ty.Kind, path)
	}

	arr, ok := sub.(models.JSONArray)
	if !ok {
		return nil, conversionFailure(path, fmt.Sprintf("cannot convert %s to %s", describeValue(sub), ty))
	}
	switch ty.Kind {
	case models.TypeString:
		out := make([]string, len(arr))
		for i, elem := range arr {
			v, err := convertScalar(elem, ty.Kind, append(path, models.IndexStep(i)))
			if err != nil {
				return nil, err
			}
			out[i] = v.(string)
		}
		return out, nil
	case models.TypeInt:
		out := make([]int64, len(arr))
		for i, elem := range arr {
			v, err := convertScalar(elem, ty.Kind, append(path, models.IndexStep(i)))
			if err != nil {
				return nil, err
			}
			out[i] = v.(int64)
		}
		return out, nil
	case models.TypeFloat:
		out := make([]float64, len(arr))
		for i, elem := range arr {
			v, err := convertScalar(elem, ty.Kind, append(path, models.IndexStep(i)))
			if err != nil {
				return nil, err
			}
			out[i] = v.(float64)
		}
		return out, nil
	case models.TypeBool:
		out := make([]bool, len(arr))
		for i, elem := range arr {
			v, err := convertScalar(elem, ty.Kind, append(path, models.IndexStep(i)))
			if err != nil {
				return nil, err
			}
			out[i] = v.(bool)
		}
		return out, nil
	default:
		return nil, conversionFailure(path, fmt.Sprintf("unknown binding type %s", ty))
	}
}

func convertScalar(sub models.JSONValue, kind models.BindingTypeKind, path []models.PathStep) (interface{}, error) {
	switch kind {
	case models.TypeString:
		s, ok := sub.(string)
		if !ok {
			return nil, conversionFailure(path, fmt.Sprintf("cannot convert %s to string", describeValue(sub)))
		}
		return s, nil
	case models.TypeInt:
		num, ok := sub.(json.Number)
		if !ok {
			return nil, conversionFailure(path, fmt.Sprintf("cannot convert %s to int", describeValue(sub)))
		}
		n, err := integralValue(num)
		if err != nil {
			return nil, conversionFailure(path, fmt.Sprintf("number %s has a fractional part", num.String()))
		}
		return n, nil
	case models.TypeFloat:
		num, ok := sub.(json.Number)
		if !ok {
			return nil, conversionFailure(path, fmt.Sprintf("cannot convert %s to float", describeValue(sub)))
		}
		f, err := num.Float64()
		if err != nil {
			return nil, conversionFailure(path, fmt.Sprintf("number %s does not fit in float64", num.String()))
		}
		return f, nil
	case models.TypeBool:
		b, ok := sub.(bool)
		if !ok {
			return nil, conversionFailure(path, fmt.Sprintf("cannot convert %s to bool", describeValue(sub)))
		}
		return b, nil
	default:
		return nil, conversionFailure(path, fmt.Sprintf("unknown scalar type %s", kind))
	}
}

// assign deserializes a sub-value into a caller-supplied destination
// pointer via an encoding/json round-trip, so struct, slice and
// uuid-like string destinations all work the same way.
func assign(sub models.JSONValue, dest interface{}, b models.BindingRecord) error {
	raw, err := json.Marshal(sub)
	if err != nil {
		return errors.NewConversionError(
			fmt.Sprintf("binding %q at %s: failed to re-encode sub-value", b.Name, models.PathString(b.Path)), err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return errors.NewConversionError(
			fmt.Sprintf("binding %q at %s: cannot deserialize %s into %T", b.Name, models.PathString(b.Path), describeValue(sub), dest), err)
	}
	return nil
}

func conversionFailure(path []models.PathStep, msg string) error {
	return errors.NewConversionError(fmt.Sprintf("at %s: %s", models.PathString(path), msg), nil)
}

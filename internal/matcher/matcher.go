// Package matcher implements structural matching of JSON values
// against compiled patterns, and typed extraction of bound sub-values.
package matcher

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/mcncl/restmatch/internal/errors"
	"github.com/mcncl/restmatch/internal/models"
)

// Match checks value against a type-stripped pattern. It fails fast:
// the first structural violation in traversal order (array positions
// ascending, object fields in declaration order) is returned and no
// further positions are inspected. A nil error means the value matches
// the pattern completely.
func Match(value models.JSONValue, pat *models.Pattern) error {
	return matchAt(value, pat, nil)
}

func matchAt(value models.JSONValue, pat *models.Pattern, path []models.PathStep) error {
	switch pat.Kind {
	case models.Any:
		return nil

	case models.Integer:
		num, ok := value.(json.Number)
		if !ok {
			return mismatch(path, fmt.Sprintf("expected integer %d, found %s", pat.Int, describeValue(value)), errors.ErrTypeMismatch)
		}
		n, err := integralValue(num)
		if err != nil {
			return errors.NewMismatchError(models.PathString(path),
				fmt.Sprintf("number %s is not an integer", num.String()),
				errors.ErrIntegerConversion)
		}
		if n != pat.Int {
			return mismatch(path, fmt.Sprintf("expected integer %d, found %d", pat.Int, n), nil)
		}
		return nil

	case models.String:
		s, ok := value.(string)
		if !ok {
			return mismatch(path, fmt.Sprintf("expected string %q, found %s", pat.Str, describeValue(value)), errors.ErrTypeMismatch)
		}
		if s != pat.Str {
			return mismatch(path, fmt.Sprintf("expected string %q, found %q", pat.Str, s), nil)
		}
		return nil

	case models.Array:
		arr, ok := value.(models.JSONArray)
		if !ok {
			return mismatch(path, fmt.Sprintf("expected an array, found %s", describeValue(value)), errors.ErrTypeMismatch)
		}
		if len(arr) != len(pat.Elems) {
			return errors.NewMismatchError(models.PathString(path),
				fmt.Sprintf("arrays do not have the same length: pattern has %d elements, value has %d", len(pat.Elems), len(arr)),
				errors.ErrLengthMismatch)
		}
		for i, elem := range pat.Elems {
			if err := matchAt(arr[i], elem, append(path, models.IndexStep(i))); err != nil {
				return err
			}
		}
		return nil

	case models.Object:
		obj, ok := value.(models.JSONObject)
		if !ok {
			return mismatch(path, fmt.Sprintf("expected an object, found %s", describeValue(value)), errors.ErrTypeMismatch)
		}

		// Both directions must be exhaustive: every pattern field in
		// the value, every value field in the pattern. This catches
		// server response drift in either direction.
		for _, field := range pat.Fields {
			if _, present := obj[field.Name]; !present {
				return mismatch(path, fmt.Sprintf("field %q matched in pattern but not found in JSON", field.Name), nil)
			}
		}
		if len(obj) != len(pat.Fields) {
			named := make(map[string]bool, len(pat.Fields))
			for _, field := range pat.Fields {
				named[field.Name] = true
			}
			extra := make([]string, 0, len(obj))
			for key := range obj {
				if !named[key] {
					extra = append(extra, key)
				}
			}
			sort.Strings(extra)
			return mismatch(path, fmt.Sprintf("field %q present in value but not matched in pattern", extra[0]), nil)
		}

		for _, field := range pat.Fields {
			if err := matchAt(obj[field.Name], field.Pat, append(path, models.FieldStep(field.Name))); err != nil {
				return err
			}
		}
		return nil

	default:
		return mismatch(path, fmt.Sprintf("unknown pattern kind %v", pat.Kind), nil)
	}
}

func mismatch(path []models.PathStep, msg string, sentinel error) error {
	return errors.NewMismatchError(models.PathString(path), msg, sentinel)
}

// integralValue converts a JSON number to int64, accepting floats with
// a zero fractional part (42.0 is the integer 42). Fractional numbers
// are an error.
func integralValue(num json.Number) (int64, error) {
	if n, err := num.Int64(); err == nil {
		return n, nil
	}
	f, err := num.Float64()
	if err != nil {
		return 0, errors.ErrIntegerConversion
	}
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, errors.ErrIntegerConversion
	}
	return int64(f), nil
}

// describeValue names a value's JSON type for diagnostics.
func describeValue(value models.JSONValue) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return fmt.Sprintf("boolean %t", v)
	case json.Number:
		return fmt.Sprintf("number %s", v.String())
	case string:
		return fmt.Sprintf("string %q", v)
	case models.JSONArray:
		return fmt.Sprintf("an array of %d elements", len(v))
	case models.JSONObject:
		return fmt.Sprintf("an object with %d fields", len(v))
	default:
		return fmt.Sprintf("%T", value)
	}
}

package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors"

	"github.com/mcncl/restmatch/internal/errors"
	"github.com/mcncl/restmatch/internal/models"
)

// Parse decodes a single JSON value from reader into the normalized
// value model. Numbers are kept as json.Number so that integer literals
// can be compared exactly later.
func Parse(reader io.Reader) (models.JSONValue, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	var root models.JSONValue
	if err := decoder.Decode(&root); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewConversionError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return nil, errors.NewConversionError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		return nil, errors.NewConversionError("failed to decode JSON", err)
	}

	// A body is exactly one JSON value. Anything but trailing
	// whitespace after it is rejected.
	if decoder.More() {
		var trailing interface{}
		if err := decoder.Decode(&trailing); err != nil {
			if !stderrors.Is(err, io.EOF) {
				return nil, errors.NewConversionError("invalid trailing data after first JSON value", err)
			}
		} else {
			return nil, errors.NewConversionError("multiple JSON values found at the root", errors.ErrMultipleJSON)
		}
	}

	return Normalize(root), nil
}

// Normalize converts raw decoded JSON types into the model types,
// recursively. Primitives pass through unchanged.
func Normalize(val models.JSONValue) models.JSONValue {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[key] = Normalize(value)
		}
		return obj
	case []interface{}:
		arr := make(models.JSONArray, len(v))
		for i, value := range v {
			arr[i] = Normalize(value)
		}
		return arr
	default:
		return v
	}
}

// ParseString parses a JSON value from a string.
func ParseString(jsonString string) (models.JSONValue, error) {
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseBytes parses a JSON value from a byte slice, the form an HTTP
// response body usually arrives in.
func ParseBytes(data []byte) (models.JSONValue, error) {
	return ParseString(string(data))
}

// ParseFile parses a JSON value from a file path.
func ParseFile(filePath string) (models.JSONValue, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	return Parse(file)
}

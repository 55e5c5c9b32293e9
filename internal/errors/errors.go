package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput        = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON       = errors.New("invalid JSON format")
	ErrMultipleJSON      = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrEmptyPattern      = errors.New("pattern is empty")
	ErrAmbiguousBinding  = errors.New("binding has no type annotation and no destination to infer one from")
	ErrDuplicateBinding  = errors.New("binding name appears more than once in the pattern")
	ErrFileNotFound      = errors.New("file not found")
	ErrInvalidFilePath   = errors.New("invalid file path")
	ErrNoInput           = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
	ErrUnknownBinding    = errors.New("destination names a binding that does not occur in the pattern")
	ErrTypeMismatch      = errors.New("value and pattern do not have the same type")
	ErrLengthMismatch    = errors.New("arrays do not have the same length")
	ErrIntegerConversion = errors.New("failed to convert number to int64")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput      ErrorType = "input"
	ErrorTypeSyntax     ErrorType = "syntax"
	ErrorTypeBinding    ErrorType = "binding"
	ErrorTypeMismatch   ErrorType = "mismatch"
	ErrorTypeConversion ErrorType = "conversion"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	// Check if target is also an *AppError and if the types match
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewSyntaxError creates a new error related to pattern parsing. The
// offset is the byte position in the pattern source where the parser
// stopped.
func NewSyntaxError(offset int, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeSyntax,
		Message: fmt.Sprintf("at offset %d: %s", offset, message),
	}
}

// NewBindingError creates a new error related to binding compilation
func NewBindingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeBinding,
		Message: message,
		Err:     err,
	}
}

// NewMismatchError creates a new error related to structural matching.
// The path locates the failing sub-value in `$.users[1].id` notation.
func NewMismatchError(path, message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeMismatch,
		Message: fmt.Sprintf("at %s: %s", path, message),
		Err:     err,
	}
}

// NewConversionError creates a new error related to typed extraction
// or body decoding
func NewConversionError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConversion,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Type == t
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeSyntax:
			return fmt.Sprintf("Pattern syntax error: %s", appErr.Message)
		case ErrorTypeBinding:
			return fmt.Sprintf("Binding error: %s", appErr.Message)
		case ErrorTypeMismatch:
			return fmt.Sprintf("Body does not match pattern: %s", appErr.Message)
		case ErrorTypeConversion:
			return fmt.Sprintf("Conversion error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON value."
	}
	if errors.Is(err, ErrEmptyPattern) {
		return "Error: The pattern is empty. Please provide a pattern expression."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}

package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyPath           = errors.New("path is empty")
	ErrInvalidPath         = errors.New("invalid path syntax")
	ErrValueNotFound       = errors.New("value cannot be found")
	ErrInvalidValueForType = errors.New("value does not match the required type for this key")
	ErrInvalidJSON         = errors.New("invalid JSON value")
	ErrFileNotFound        = errors.New("configuration file not found")
	ErrFileEmpty           = errors.New("configuration file is empty")
	ErrNotAnObject         = errors.New("configuration root must be a JSON object")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput      ErrorType = "input"
	ErrorTypePath       ErrorType = "path"
	ErrorTypeLookup     ErrorType = "lookup"
	ErrorTypeValue      ErrorType = "value"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeOutput     ErrorType = "output"
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

// NewPathError creates a new error related to path expression syntax
func NewPathError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypePath,
		Message: message,
		Err:     err,
	}
}

// NewLookupError creates a new error for paths that do not resolve
func NewLookupError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeLookup,
		Message: message,
		Err:     err,
	}
}

// NewValueError creates a new error related to value coercion
func NewValueError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeValue,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a new error for schema validation failures
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypePath:
			return fmt.Sprintf("Invalid path: %s", appErr.Message)
		case ErrorTypeLookup:
			return fmt.Sprintf("Lookup error: %s", appErr.Message)
		case ErrorTypeValue:
			return fmt.Sprintf("Invalid value: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeValidation:
			return fmt.Sprintf("Validation error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyPath) {
		return "Error: No path given. Please provide a configuration path, e.g. cli.packageManager."
	}
	if errors.Is(err, ErrInvalidPath) {
		return "Error: The path is not valid. Paths look like section.key or items[2].name."
	}
	if errors.Is(err, ErrValueNotFound) {
		return "Error: No value exists at the given path."
	}
	if errors.Is(err, ErrInvalidValueForType) {
		return "Error: The value does not have the type required for this key."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The value is not valid JSON."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: No configuration file could be found for this scope."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The configuration file is empty."
	}
	if errors.Is(err, ErrNotAnObject) {
		return "Error: The configuration file must contain a JSON object at the top level."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}

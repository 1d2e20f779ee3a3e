package errors

import (
	stderrors "errors"
	"fmt"
)

// Error types for different categories of failures
const (
	// Input errors
	ErrInputRead = "INPUT_READ_ERROR"
	ErrConfig    = "CONFIG_ERROR"

	// Shell errors
	ErrShellParse           = "SHELL_PARSE_ERROR"
	ErrUnsupportedConstruct = "UNSUPPORTED_CONSTRUCT"

	// Command errors
	ErrCommandResolution = "COMMAND_RESOLUTION_ERROR"
	ErrGrammar           = "GRAMMAR_ERROR"

	// Document errors
	ErrMalformedDirective = "MALFORMED_DIRECTIVE"

	// Internal errors
	ErrPlaceholder = "PLACEHOLDER_ERROR"
)

// HighlightError represents a structured error with type and context
type HighlightError struct {
	Type    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *HighlightError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows error unwrapping
func (e *HighlightError) Unwrap() error {
	return e.Cause
}

// New creates a new HighlightError
func New(errorType, message string) *HighlightError {
	return &HighlightError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// Newf creates a new HighlightError with a formatted message
func Newf(errorType, format string, args ...interface{}) *HighlightError {
	return New(errorType, fmt.Sprintf(format, args...))
}

// Wrap creates a new HighlightError wrapping an existing error
func Wrap(errorType, message string, cause error) *HighlightError {
	return &HighlightError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *HighlightError) WithContext(key string, value interface{}) *HighlightError {
	e.Context[key] = value
	return e
}

// GetContext returns context value by key
func (e *HighlightError) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}

// Helper functions for common error scenarios

// NewUnsupportedConstruct reports a shell construct the renderer cannot display
func NewUnsupportedConstruct(kind, line string) *HighlightError {
	return Newf(ErrUnsupportedConstruct, "unsupported %s when parsing %q", kind, line).
		WithContext("construct", kind).
		WithContext("line", line)
}

// NewCommandResolutionError reports that an argument vector did not match the rich grammar
func NewCommandResolutionError(binary string, argv []string, cause error) *HighlightError {
	return Wrap(ErrCommandResolution, fmt.Sprintf("could not resolve %s command", binary), cause).
		WithContext("binary", binary).
		WithContext("argv", argv)
}

// NewGrammarError creates a grammar loading error
func NewGrammarError(message string, cause error) *HighlightError {
	return Wrap(ErrGrammar, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *HighlightError {
	return Wrap(ErrConfig, message, cause)
}

// NewInputError creates an input-related error
func NewInputError(message string, cause error) *HighlightError {
	return Wrap(ErrInputRead, message, cause)
}

// TypeOf returns the type of the first HighlightError in the chain, or "" if there is none
func TypeOf(err error) string {
	var hlErr *HighlightError
	if stderrors.As(err, &hlErr) {
		return hlErr.Type
	}
	return ""
}

// IsErrorType checks if an error chain contains a HighlightError of a specific type
func IsErrorType(err error, errorType string) bool {
	var hlErr *HighlightError
	for err != nil {
		if !stderrors.As(err, &hlErr) {
			return false
		}
		if hlErr.Type == errorType {
			return true
		}
		err = hlErr.Cause
	}
	return false
}

// Package errors provides structured error types for proctex.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the library
//   - Machine-readable error codes for programmatic handling
//   - A clear split between graph configuration errors and runtime failures
//
// # Error Codes
//
// Codes fall into three categories:
//   - Configuration: malformed graph use (self-loops, duplicate sinks, missing
//     named inputs, cycles). These are fatal for the current generate call and
//     can only be fixed by correcting the graph.
//   - Input: invalid caller-supplied options (sizes, formats, presets, config files).
//   - Runtime: surface bounds violations, timeouts, cancellation, lookups.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingInput, "missing input %q", "value")
//	if errors.IsConfiguration(err) {
//	    // fix the graph
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "generation aborted after row %d", y)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Configuration errors: the graph itself is malformed.
const (
	ErrCodeInvalidGraph    Code = "INVALID_GRAPH"
	ErrCodeUnknownNode     Code = "UNKNOWN_NODE"
	ErrCodeUnknownLink     Code = "UNKNOWN_LINK"
	ErrCodeSelfLoop        Code = "SELF_LOOP"
	ErrCodeDuplicateSink   Code = "DUPLICATE_SINK"
	ErrCodeInvalidLinkName Code = "INVALID_LINK_NAME"
	ErrCodeMissingInput    Code = "MISSING_INPUT"
	ErrCodeInputArity      Code = "INPUT_ARITY"
	ErrCodeInvalidOperand  Code = "INVALID_OPERAND"
	ErrCodeGraphCycle      Code = "GRAPH_CYCLE"
)

// Input errors: caller-supplied options are invalid.
const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPreset Code = "INVALID_PRESET"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
)

// Runtime errors.
const (
	ErrCodeSurfaceBounds   Code = "SURFACE_BOUNDS"
	ErrCodeTimeout         Code = "TIMEOUT"
	ErrCodeCanceled        Code = "CANCELED"
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeInternal        Code = "INTERNAL_ERROR"
	ErrCodeUnsupported     Code = "UNSUPPORTED"
)

var configurationCodes = map[Code]bool{
	ErrCodeInvalidGraph:    true,
	ErrCodeUnknownNode:     true,
	ErrCodeUnknownLink:     true,
	ErrCodeSelfLoop:        true,
	ErrCodeDuplicateSink:   true,
	ErrCodeInvalidLinkName: true,
	ErrCodeMissingInput:    true,
	ErrCodeInputArity:      true,
	ErrCodeInvalidOperand:  true,
	ErrCodeGraphCycle:      true,
}

var inputCodes = map[Code]bool{
	ErrCodeInvalidInput:  true,
	ErrCodeInvalidFormat: true,
	ErrCodeInvalidPreset: true,
	ErrCodeInvalidConfig: true,
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if c, ok := e.Cause.(*Error); ok && c.Code == e.Code {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, c.text())
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// text is Error without the leading code.
func (e *Error) text() string {
	return strings.TrimPrefix(e.Error(), string(e.Code)+": ")
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Annotate wraps err with additional context while keeping its code.
// Errors without a code are wrapped as ErrCodeInternal.
func Annotate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	code := GetCode(err)
	if code == "" {
		code = ErrCodeInternal
	}
	return Wrap(code, err, format, args...)
}

// Is reports whether any *Error in err's chain carries the given code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsConfiguration reports whether err is a graph configuration error.
func IsConfiguration(err error) bool {
	return configurationCodes[GetCode(err)]
}

// IsInput reports whether err was caused by invalid caller input.
func IsInput(err error) bool {
	return inputCodes[GetCode(err)]
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}

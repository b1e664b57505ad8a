// Package errors provides structured error types for casetree.
//
// Failures are classified by a machine-readable [Code] so the CLI can print a
// short user message while callers can still branch on the category:
//   - input schema: INVALID_SCHEMA, INVALID_TIMESTAMP, INVALID_INPUT, INVALID_FORMAT, FILE_NOT_FOUND
//   - graph consistency: DUPLICATE_CASE, DANGLING_SOURCE, CYCLE
//   - rendering: NO_DATA, RENDER_FAILED
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSchema, "missing columns: %s", cols)
//	if errors.Is(err, errors.ErrCodeInvalidSchema) {
//	    // Handle schema error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRenderFailed, origErr, "render %s", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input schema errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidSchema    Code = "INVALID_SCHEMA"
	ErrCodeInvalidTimestamp Code = "INVALID_TIMESTAMP"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidOption    Code = "INVALID_OPTION"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

	// Graph consistency errors
	ErrCodeDuplicateCase  Code = "DUPLICATE_CASE"
	ErrCodeDanglingSource Code = "DANGLING_SOURCE"
	ErrCodeCycle          Code = "CYCLE"

	// Rendering errors
	ErrCodeNoData       Code = "NO_DATA"
	ErrCodeRenderFailed Code = "RENDER_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// Row errors keep their location prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var re *RowError
	if errors.As(err, &re) {
		return re.location() + ": " + UserMessage(re.Err)
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// RowError locates an input problem at a 1-based data row (header excluded).
type RowError struct {
	Row    int    // 1-based data row
	Column string // Column name, if known
	Err    error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("%s: %v", e.location(), e.Err)
}

func (e *RowError) location() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column %q", e.Row, e.Column)
	}
	return fmt.Sprintf("row %d", e.Row)
}

// Unwrap returns the underlying error.
func (e *RowError) Unwrap() error {
	return e.Err
}

// Package errors provides structured error types for dogviz.
//
// Every failure that aborts a run carries a machine-readable code so the CLI
// (and tests) can tell a missing input file from a malformed date without
// matching on message text.
//
// # Error Codes
//
//   - FILE_NOT_FOUND, MISSING_COLUMN: the input files do not have the expected shape
//   - INVALID_*: a value in an input file or the settings could not be accepted
//   - NO_DATA: an aggregation had nothing to normalize
//   - RENDER_FAILED, INTERNAL_ERROR: chart drawing or unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingColumn, "%s: column %q not found", path, name)
//	if errors.Is(err, errors.ErrCodeMissingColumn) {
//	    // ...
//	}
//
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input shape errors
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeMissingColumn Code = "MISSING_COLUMN"
	ErrCodeDuplicateID   Code = "DUPLICATE_ID"

	// Value errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidDate     Code = "INVALID_DATE"
	ErrCodeInvalidCategory Code = "INVALID_CATEGORY"
	ErrCodeInvalidValue    Code = "INVALID_VALUE"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Aggregation errors
	ErrCodeNoData Code = "NO_DATA"

	// Output errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
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

// UserMessage returns the message of the outermost *Error, followed by its
// cause when there is one. Non-structured errors are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

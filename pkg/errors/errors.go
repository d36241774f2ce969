// Package errors provides structured error types for rnagraph.
//
// Three error kinds matter to callers of the graph core:
//
//   - INVALID_STRUCTURE: the input cannot yield any valid graph (unmatched
//     brackets, disconnected chains, contradictory bpseq lines). Fatal to
//     the build that triggered it.
//   - GRAPH_INTEGRITY: an internal invariant was violated while building or
//     querying a graph. This points at a bug, not at bad input.
//   - NOT_FOUND: a queried position or element does not exist. This is the
//     only kind typical callers recover from.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidStructure, "unmatched %q at %d", c, i)
//	if errors.Is(err, errors.ErrCodeInvalidStructure) {
//	    // reject the input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "line %d", n)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidStructure Code = "INVALID_STRUCTURE"
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"

	// Lookup errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Network errors (cache and store backends)
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeGraphIntegrity Code = "GRAPH_INTEGRITY"
	ErrCodeInternal       Code = "INTERNAL_ERROR"
	ErrCodeUnsupported    Code = "UNSUPPORTED"
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

// UserMessage returns the error text without code prefixes. Messages of
// wrapped causes are joined with ": ".
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

// Structure returns a construction error: the input cannot yield a graph.
func Structure(format string, args ...any) *Error {
	return New(ErrCodeInvalidStructure, format, args...)
}

// Integrity returns a graph integrity error.
func Integrity(format string, args ...any) *Error {
	return New(ErrCodeGraphIntegrity, format, args...)
}

// NotFound returns a lookup error.
func NotFound(format string, args ...any) *Error {
	return New(ErrCodeNotFound, format, args...)
}

// IsRecoverable reports whether err is a lookup error that callers are
// expected to handle, such as probing a position outside the structure.
func IsRecoverable(err error) bool {
	return Is(err, ErrCodeNotFound)
}

// Package errors provides structured error types for IGitt.
//
// Provider adapters report local, state-derived failures (a label that is
// already present, a file that is missing from a diff, mutually exclusive
// search filters) through a small set of codes, so that callers can react to
// them without knowing which hosting service produced them.
//
// # Error Codes
//
// Codes are grouped by category:
//   - INVALID_*: argument validation failures
//   - ALREADY_EXISTS, DOESNT_EXIST: pre-checks against fetched remote state
//   - CONFIG_CONFLICT: mutually exclusive options, raised before any request
//   - UNMAPPED, UNSUPPORTED: enum translation misses and unhandled webhook events
//   - NOT_FOUND, UNAUTHORIZED, FORBIDDEN, CONFLICT_STATUS, NETWORK_ERROR: HTTP status classes
//
// Transport failures themselves are reported as *integrations.APIError, which
// carries the raw provider body and status code and maps onto the HTTP codes
// above.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeAlreadyExists, "%s already exists", name)
//	if errors.Is(err, errors.ErrCodeAlreadyExists) {
//	    // label was present
//	}
//
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"
	ErrCodeInvalidRepo  Code = "INVALID_REPO"

	// Remote state pre-checks
	ErrCodeAlreadyExists Code = "ALREADY_EXISTS"
	ErrCodeDoesntExist   Code = "DOESNT_EXIST"

	// Caller supplied options that cannot be combined
	ErrCodeConfigConflict Code = "CONFIG_CONFLICT"

	// Translation between abstract values and provider encodings
	ErrCodeUnmapped    Code = "UNMAPPED"
	ErrCodeUnsupported Code = "UNSUPPORTED"

	// HTTP status classes
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeUnauthorized   Code = "UNAUTHORIZED"
	ErrCodeForbidden      Code = "FORBIDDEN"
	ErrCodeConflictStatus Code = "CONFLICT_STATUS"
	ErrCodeNetwork        Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// coder is implemented by error types from other packages that classify
// themselves, such as HTTP API errors.
type coder interface {
	Code() Code
}

// Is reports whether any error in err's chain carries code, either as an
// *Error or through a Code() method.
func Is(err error, code Code) bool {
	if code == "" {
		return false
	}
	for ; err != nil; err = errors.Unwrap(err) {
		switch e := err.(type) {
		case *Error:
			if e.Code == code {
				return true
			}
		case coder:
			if e.Code() == code {
				return true
			}
		}
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

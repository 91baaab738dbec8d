// Package errors provides structured error types for pkgpulse.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the scanner
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - NETWORK_ERROR, TIMEOUT, HTTP_STATUS: Transport errors
//   - *_FAILED: Operation-level failures carrying the underlying cause
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPackage, "invalid package name: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidPackage) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeScanFailed, origErr, "failed to scan %s", pkg)
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
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"

	// Transport errors
	ErrCodeNetwork    Code = "NETWORK_ERROR"
	ErrCodeTimeout    Code = "TIMEOUT"
	ErrCodeHTTPStatus Code = "HTTP_STATUS"

	// Operation-level failures
	ErrCodeSearchFailed  Code = "SEARCH_FAILED"
	ErrCodeScanFailed    Code = "SCAN_FAILED"
	ErrCodeCompareFailed Code = "COMPARE_FAILED"

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

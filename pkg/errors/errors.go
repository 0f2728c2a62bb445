// Package errors provides structured error types for the LabelForge application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_ARCHIVE / *_CODEC: Archive parsing failures
//   - ROW_*: Per-row background resolution failures
//   - TOO_MANY_ROWS / PAYLOAD_TOO_LARGE: Limit violations
//   - INTERNAL_ERROR: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "at least one zone is required")
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeParseFailure, origErr, "decode background image")
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
	ErrCodeInvalidZone    Code = "INVALID_ZONE"
	ErrCodeInvalidMapping Code = "INVALID_MAPPING"
	ErrCodeInvalidMode    Code = "INVALID_MODE"

	// Parse failures (table, image, archive)
	ErrCodeParseFailure     Code = "PARSE_FAILURE"
	ErrCodeCorruptArchive   Code = "CORRUPT_ARCHIVE"
	ErrCodeUnsupportedCodec Code = "UNSUPPORTED_CODEC"
	ErrCodeEmptyArchive     Code = "EMPTY_ARCHIVE"

	// Row resolution failures
	ErrCodeRowImageMissing     Code = "ROW_IMAGE_MISSING"
	ErrCodeRowImageColumnEmpty Code = "ROW_IMAGE_COLUMN_EMPTY"
	ErrCodeInsufficientImages  Code = "INSUFFICIENT_IMAGES"

	// Limit violations
	ErrCodeTooManyRows     Code = "TOO_MANY_ROWS"
	ErrCodePayloadTooLarge Code = "PAYLOAD_TOO_LARGE"

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

// Detail returns the underlying cause's message, if any.
// Used by the API layer to populate the details field of error payloads.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Cause != nil {
		return e.Cause.Error()
	}
	return ""
}

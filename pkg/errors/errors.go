// Package errors provides coded errors for the seatmap host layer.
//
// The editor core never returns errors; rejected actions are no-ops. Codes
// appear where a layout crosses a boundary: strict decoding, the record
// stores, the CLI and the HTTP server, which maps each code to a status.
//
// # Error Codes
//
//   - INVALID_*: a layout, dimension, size or argument was rejected
//   - *NOT_FOUND: no such layout or resource
//   - STORAGE_ERROR: a record backend failed
//   - INTERNAL_ERROR, UNSUPPORTED: bugs and missing capabilities
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDimensions, "rows must be between %d and %d", lo, hi)
//	err = fmt.Errorf("resize: %w", err)
//	errors.Is(err, errors.ErrCodeInvalidDimensions) // true
//
// [Is] matches a code anywhere in the chain, so a storage error wrapping a
// missing layout satisfies both codes. [GetCode] reports the outermost.
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidLayout     Code = "INVALID_LAYOUT"
	ErrCodeInvalidDimensions Code = "INVALID_DIMENSIONS"
	ErrCodeInvalidSize       Code = "INVALID_SIZE"

	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeLayoutNotFound Code = "LAYOUT_NOT_FOUND"

	ErrCodeStorage Code = "STORAGE_ERROR"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a code, a message for people and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by code alone, which lets the standard
// library errors.Is compare against a code sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code and a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether any error in err's chain carries code.
func Is(err error, code Code) bool {
	return err != nil && errors.Is(err, &Error{Code: code})
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the outermost message without its code, or the
// plain error text for uncoded errors.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// ABOUTME: Error taxonomy shared by the orchestrator and every transport
// ABOUTME: Maps typed error codes to HTTP statuses and the response envelope
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure visible to clients
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeModel      Code = "MODEL_ERROR"
	CodeInternal   Code = "INTERNAL_ERROR"
)

// Status returns the HTTP status for the code
func (c Code) Status() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeModel:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Err keeps the underlying cause for logs.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail returns e with key set in Details
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

func newError(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

func Validation(format string, args ...any) *Error {
	return newError(CodeValidation, nil, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newError(CodeNotFound, nil, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(CodeConflict, nil, format, args...)
}

// Model wraps a generative-agent failure
func Model(err error, format string, args ...any) *Error {
	return newError(CodeModel, err, format, args...)
}

// Internal wraps an unexpected persistence or assembly failure
func Internal(err error, format string, args ...any) *Error {
	return newError(CodeInternal, err, format, args...)
}

// As extracts an *Error from err
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf classifies any error; unclassified errors are internal
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err carries code
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

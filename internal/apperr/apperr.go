// Package apperr defines the error taxonomy shared by services and
// handlers. Every failure that crosses the service boundary is one of
// these; raw store errors never leak to HTTP clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`

	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func Unauthenticated(message string) *Error {
	if message == "" {
		message = "authentication required"
	}
	return &Error{Status: http.StatusUnauthorized, Code: "unauthenticated", Message: message}
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "forbidden"
	}
	return &Error{Status: http.StatusForbidden, Code: "forbidden", Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "not_found", Message: resource + " not found"}
}

func InvalidInput(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "invalid_input", Message: message}
}

// InvalidState reports a violated lifecycle precondition, e.g. starting a
// sprint that is not in PLANNING.
func InvalidState(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "invalid_state", Message: message}
}

// Unexpected wraps a store or provider failure. The cause stays available
// for log lines via Error/Unwrap; the client-facing message never carries
// raw provider error text.
func Unexpected(err error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    "unexpected",
		Message: "internal error",
		cause:   err,
	}
}

// As unwraps err into *Error if possible.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Package apperr holds the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
)

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation error")
	// ErrConflict marks a uniqueness violation such as a duplicate email.
	ErrConflict = errors.New("conflict")
	// ErrAuth marks bad credentials or a missing session.
	ErrAuth = errors.New("authentication error")
	// ErrNotFound marks a missing record.
	ErrNotFound = errors.New("not found")
)

// Error carries a client-safe message next to its kind.
type Error struct {
	Kind    error
	Message string
}

// Error returns the client-safe message
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the kind to errors.Is
func (e *Error) Unwrap() error { return e.Kind }

// Validation reports malformed input
func Validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

// Conflict reports a uniqueness violation
func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

// Auth reports bad credentials or a missing session
func Auth(msg string) error { return &Error{Kind: ErrAuth, Message: msg} }

// NotFound reports a missing record
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// Status maps an error to the HTTP status it is reported with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text safe to show a client. Unclassified errors
// never leak their details.
func Message(err error) string {
	var appErr *Error // Look for a classified error anywhere in the chain
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

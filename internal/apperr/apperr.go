// Package apperr classifies errors that cross the service boundary so the
// HTTP layer can map them to status codes without inspecting messages.
package apperr

import (
	"errors"
	"net/http"
)

// Kind identifies an error category
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL_ERROR"
)

// FieldError is a single field-level validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries a client-safe message. Cause is for server-side logging only.
type Error struct {
	Kind    Kind
	Message string
	Details []FieldError
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// Validation creates a VALIDATION_ERROR with optional field details
func Validation(msg string, details ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NotFound creates a NOT_FOUND error for a named resource, e.g. NotFound("record")
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Conflict reports a duplicate of a unique value (username, station name)
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Internal wraps an unexpected failure. The message sent to clients is generic.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "An unexpected error occurred", Cause: cause}
}

// As extracts the *Error from err's chain, or nil
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	ae := As(err)
	return ae != nil && ae.Kind == kind
}

// HTTPStatus maps an error to its response status. Unclassified errors are 500.
// Conflicts are reported as 400, alongside validation failures.
func HTTPStatus(err error) int {
	ae := As(err)
	if ae == nil {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

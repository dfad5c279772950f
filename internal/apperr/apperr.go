// Package apperr defines the error taxonomy shared by services and handlers.
// Services wrap storage failures into one of these sentinels; handlers map
// them to HTTP statuses in a single place.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation      = errors.New("invalid request")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not authorized")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrInternal        = errors.New("internal error")
)

// Status maps a taxonomy error to its HTTP status code. Unknown errors are
// treated as internal failures.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for an error. Internal failures
// collapse to a generic message so storage details never leak.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "server error"
	}
	return err.Error()
}

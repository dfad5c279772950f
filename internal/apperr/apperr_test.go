package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrUnauthenticated, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{ErrInternal, http.StatusInternalServerError},
		{errors.New("driver: bad connection"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Errorf("Status(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestStatus_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("project %s: %w", "abc", ErrForbidden)
	if got := Status(wrapped); got != http.StatusForbidden {
		t.Errorf("Status(wrapped) = %d, want %d", got, http.StatusForbidden)
	}
}

func TestMessage_HidesInternalDetails(t *testing.T) {
	internal := errors.New("pq: connection reset by peer")
	if got := Message(internal); got != "server error" {
		t.Errorf("Expected internal details to be hidden, got %q", got)
	}

	wrapped := fmt.Errorf("email %w", ErrConflict)
	if got := Message(wrapped); got != "email already exists" {
		t.Errorf("Expected taxonomy message to pass through, got %q", got)
	}
}

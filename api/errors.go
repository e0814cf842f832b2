package api

import (
	"errors"
	"fmt"
)

// Common error types surfaced by the Nismart client
var (
	// ErrSessionExpired marks terminal auth failures: the session has been
	// cleared and the caller must re-authenticate.
	ErrSessionExpired = errors.New("session expired")

	// Request errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// Error is a failure response from the Nismart API. Message carries the
// server-provided error text when the body had one, so validation failures
// (insufficient balance, invalid amount) surface verbatim to the user.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("nismart: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("nismart: request failed (status %d)", e.StatusCode)
}

// Is maps well-known status codes onto the sentinel errors above so callers
// can use errors.Is without inspecting status codes directly.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == 401
	case ErrForbidden:
		return e.StatusCode == 403
	case ErrNotFound:
		return e.StatusCode == 404
	}
	return false
}

// SessionExpiredError marks a terminal auth failure: a refresh was attempted
// and rejected (or no usable token came back), so the session has been
// cleared and the caller must re-authenticate. It matches ErrSessionExpired
// under errors.Is.
type SessionExpiredError struct {
	Cause error
}

func (e *SessionExpiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session expired: %v", e.Cause)
	}
	return "session expired"
}

func (e *SessionExpiredError) Is(target error) bool {
	return target == ErrSessionExpired
}

func (e *SessionExpiredError) Unwrap() error {
	return e.Cause
}

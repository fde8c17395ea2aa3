// Package ecode defines the error kinds the storefront surfaces to clients
// and their HTTP status mapping.
package ecode

import (
	"errors"
	"fmt"
	"net/http"

	"shophub/utils"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("conflict")
)

// ValidationError names the offending input field so the caller can fix it
// and retry. Malformed filter values are rejected, never silently dropped.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func Validation(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// StoreError wraps a backing-store failure. Safe for the caller to retry
// after backoff; never retried internally.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

func Store(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// Status maps an error to its HTTP status code. Conflict is currently
// reported as 400 (duplicate email at signup is validation-equivalent).
func Status(err error) int {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Write sends the error as a JSON body with the mapped status. Store faults
// are reported generically; their detail stays in the server log.
func Write(w http.ResponseWriter, err error) {
	status := Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Server error"
	}
	utils.RespondWithError(w, status, msg)
}

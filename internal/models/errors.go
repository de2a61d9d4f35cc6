package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine errors so callers and the transaction layer
// can decide between surfacing, retrying and HTTP status mapping.
type ErrorKind string

const (
	ErrKindNotFound       ErrorKind = "not_found"
	ErrKindInvalidRequest ErrorKind = "invalid_request"
	ErrKindConflict       ErrorKind = "conflict"
	ErrKindInvalidState   ErrorKind = "invalid_state"
	ErrKindTransient      ErrorKind = "transient"
	ErrKindUnavailable    ErrorKind = "unavailable"
)

// AppError is the error type surfaced by the sale engine. Business errors
// (not found, invalid request, conflict, invalid state) are never retried;
// transient errors are retried by the transaction layer and escalate to
// unavailable once the retry budget is spent.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFound creates a not-found error for a missing or out-of-tenant entity
func NewNotFound(format string, args ...interface{}) *AppError {
	return &AppError{Kind: ErrKindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidRequest creates an invalid-request error
func NewInvalidRequest(format string, args ...interface{}) *AppError {
	return &AppError{Kind: ErrKindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// NewConflict creates a conflict error (seat taken for an overlapping leg)
func NewConflict(format string, args ...interface{}) *AppError {
	return &AppError{Kind: ErrKindConflict, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidState creates an invalid-state error for lifecycle violations
func NewInvalidState(format string, args ...interface{}) *AppError {
	return &AppError{Kind: ErrKindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// NewTransient wraps a store-level failure eligible for retry
func NewTransient(msg string, err error) *AppError {
	return &AppError{Kind: ErrKindTransient, Message: msg, Err: err}
}

// NewUnavailable is returned after the transient retry budget is exhausted
func NewUnavailable(msg string, err error) *AppError {
	return &AppError{Kind: ErrKindUnavailable, Message: msg, Err: err}
}

// KindOf extracts the error kind, defaulting to transient-free internal handling
func KindOf(err error) (ErrorKind, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsBusinessError reports whether err must never be retried
func IsBusinessError(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	switch k {
	case ErrKindNotFound, ErrKindInvalidRequest, ErrKindConflict, ErrKindInvalidState:
		return true
	}
	return false
}

package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation error")
	ErrStore             = errors.New("store error")
	ErrRemoteRejected    = errors.New("agent rejected the request")
	ErrRemoteUnreachable = errors.New("agent unreachable")
	ErrConflict          = errors.New("conflict")
)

// Kind is the stable error classification reported to tool callers.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindValidation        Kind = "validation_error"
	KindStore             Kind = "store_error"
	KindRemoteRejected    Kind = "remote_rejected"
	KindRemoteUnreachable Kind = "remote_unreachable"
	KindConflict          Kind = "conflict"
	KindInternal          Kind = "internal_error"
)

// KindOf classifies err against the sentinel errors.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrRemoteRejected):
		return KindRemoteRejected
	case errors.Is(err, ErrRemoteUnreachable):
		return KindRemoteUnreachable
	case errors.Is(err, ErrStore):
		return KindStore
	default:
		return KindInternal
	}
}

// RemoteRejectedError carries the status and body of a rejected agent call.
type RemoteRejectedError struct {
	StatusCode int
	Body       string
	Reason     string
}

func (e *RemoteRejectedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("agent rejected prepare request (status %d): %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("agent rejected prepare request with status %d", e.StatusCode)
}

func (e *RemoteRejectedError) Is(target error) bool {
	return target == ErrRemoteRejected
}

// NotFoundError names the missing entity.
func NotFoundError(entity, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, entity, id)
}

// ValidationError reports malformed caller input.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// StoreError wraps a persistence failure, keeping the cause inspectable.
func StoreError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

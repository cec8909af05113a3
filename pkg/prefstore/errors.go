package prefstore

import (
	"errors"
	"fmt"
)

// The store surfaces a closed set of error kinds so callers can handle each
// case explicitly instead of matching on message strings.

// TransientError wraps a network/availability failure. Safe to retry; existing
// local state must not be cleared because of it.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("preference store: %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermissionError signals an authorization failure. Callers must not retry.
type PermissionError struct {
	Op     string
	Reason string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("preference store: %s: permission denied: %s", e.Op, e.Reason)
}

// NotFoundError marks absence of a preference record. Absence is not a
// failure: readers map it to defaults, partial updates refuse it.
type NotFoundError struct {
	UserID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("preference store: no record for user %s", e.UserID)
}

// ValidationError flags malformed local input, caught before any remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("preference store: invalid %s: %s", e.Field, e.Reason)
}

func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

func IsPermission(err error) bool {
	var p *PermissionError
	return errors.As(err, &p)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

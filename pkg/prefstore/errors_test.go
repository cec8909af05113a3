package prefstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	transient := &TransientError{Op: "get", Err: errors.New("connection refused")}
	permission := &PermissionError{Op: "save", Reason: "insufficient_privilege"}
	notFound := &NotFoundError{UserID: "u1"}
	validation := &ValidationError{Field: "daily_minutes", Reason: "out of range"}

	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{"transient", transient, IsTransient},
		{"permission", permission, IsPermission},
		{"not found", notFound, IsNotFound},
		{"validation", validation, IsValidation},
	}

	all := []error{transient, permission, notFound, validation}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, err := range all {
				want := err == tt.err
				assert.Equal(t, want, tt.pred(err), "predicate %s on %T", tt.name, err)
			}
		})
	}
}

func TestPredicatesMatchWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading preferences: %w", &TransientError{Op: "get", Err: errors.New("timeout")})
	assert.True(t, IsTransient(wrapped))
	assert.False(t, IsNotFound(wrapped))
}

func TestTransientErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := &TransientError{Op: "get", Err: cause}
	assert.True(t, errors.Is(err, cause))
}

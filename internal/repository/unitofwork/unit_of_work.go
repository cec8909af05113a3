// Package unitofwork groups repository access behind an optional
// transaction boundary.
package unitofwork

import (
	"context"

	"learnpulse-be/internal/repository/contract"
)

// UnitOfWork hands out repositories bound to the same database handle.
// Outside Begin/Commit they run on the shared pool; between Begin and
// Commit every repository shares one transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ActivityRepository() contract.ActivityRepository
}

// RepositoryFactory creates a short-lived UnitOfWork per request.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

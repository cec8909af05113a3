package unitofwork

import (
	"context"
	"errors"

	"learnpulse-be/internal/repository/contract"
	"learnpulse-be/internal/repository/implementation"

	"gorm.io/gorm"
)

var (
	errTxStarted = errors.New("transaction already started")
	errNoTx      = errors.New("no active transaction")
)

type unitOfWork struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &unitOfWork{db: db}
}

// handle is the connection repositories run on: the transaction when one
// is open, the pool otherwise.
func (u *unitOfWork) handle() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return errTxStarted
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return errNoTx
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return errNoTx
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.handle())
}

func (u *unitOfWork) ActivityRepository() contract.ActivityRepository {
	return implementation.NewActivityRepository(u.handle())
}

type repositoryFactory struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &repositoryFactory{db: db}
}

// The unit of work is short lived per request; Begin binds the context.
func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return NewUnitOfWork(f.db)
}

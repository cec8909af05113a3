package implementation

import (
	"context"
	"errors"

	"learnpulse-be/internal/repository/specification"

	"gorm.io/gorm"
)

// applySpecs chains the given specifications onto a query.
func applySpecs(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// first runs a specification-filtered First query. A missing row returns
// (nil, nil) so callers distinguish absence from failure without
// re-checking gorm.ErrRecordNotFound everywhere.
func first[M any](ctx context.Context, db *gorm.DB, specs ...specification.Specification) (*M, error) {
	var row M
	query := applySpecs(db.WithContext(ctx), specs...)
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

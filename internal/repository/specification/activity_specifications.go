package specification

import (
	"time"

	"gorm.io/gorm"
)

// ReadSince keeps only read activity at or after the cutoff.
type ReadSince struct {
	Since time.Time
}

func (s ReadSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("read_at >= ?", s.Since)
}

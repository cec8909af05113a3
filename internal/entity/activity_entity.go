// FILE: internal/entity/activity_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReadActivity records a single completed read of a content item.
// Weekly stats are computed by counting rows in a trailing window.
type ReadActivity struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	ItemId    string
	ReadAt    time.Time
	CreatedAt time.Time
}

// SavedItem is a content item the user bookmarked for later.
type SavedItem struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	ItemId    string
	Title     string
	Category  string
	CreatedAt time.Time
}

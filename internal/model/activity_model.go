package model

import (
	"time"

	"github.com/google/uuid"
)

type ReadActivity struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index:idx_read_activities_user_read,priority:1"`
	ItemId    string    `gorm:"type:varchar(255);not null"`
	ReadAt    time.Time `gorm:"not null;index:idx_read_activities_user_read,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ReadActivity) TableName() string {
	return "read_activities"
}

type SavedItem struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_saved_items_user_item,priority:1"`
	ItemId    string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_saved_items_user_item,priority:2"`
	Title     string    `gorm:"type:varchar(255)"`
	Category  string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (SavedItem) TableName() string {
	return "saved_items"
}

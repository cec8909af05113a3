package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserPreference is the per-user learning configuration document. One row per
// user; partial updates touch individual columns so unrelated fields survive.
type UserPreference struct {
	UserId               uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Categories           datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	DailyMinutes         *int
	OnboardingCompleted  bool    `gorm:"default:false"`
	NotificationsEnabled bool    `gorm:"default:false"`
	NotificationTime     *string `gorm:"type:varchar(5)"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}

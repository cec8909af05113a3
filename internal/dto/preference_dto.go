// FILE: internal/dto/preference_dto.go
package dto

import "time"

type PreferencesResponse struct {
	Categories           []string   `json:"categories"`
	DailyMinutes         *int       `json:"daily_minutes"`
	OnboardingCompleted  bool       `json:"onboarding_completed"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	NotificationTime     *string    `json:"notification_time,omitempty"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

type SavePreferencesRequest struct {
	Categories           []string `json:"categories" validate:"required,min=1"`
	DailyMinutes         *int     `json:"daily_minutes"`
	OnboardingCompleted  bool     `json:"onboarding_completed"`
	NotificationsEnabled bool     `json:"notifications_enabled"`
	NotificationTime     *string  `json:"notification_time"`
}

// PatchPreferencesRequest updates only the fields present in the body.
type PatchPreferencesRequest struct {
	Categories           *[]string `json:"categories"`
	DailyMinutes         *int      `json:"daily_minutes"`
	OnboardingCompleted  *bool     `json:"onboarding_completed"`
	NotificationsEnabled *bool     `json:"notifications_enabled"`
	NotificationTime     *string   `json:"notification_time"`
}

type CustomCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

type CustomMinutesRequest struct {
	Minutes int `json:"minutes" validate:"required"`
}

type StatsResponse struct {
	WeeklyReadCount int `json:"weekly_read_count"`
	SavedCount      int `json:"saved_count"`
}

type RecordReadRequest struct {
	ItemId string `json:"item_id" validate:"required"`
}

type SaveItemRequest struct {
	ItemId   string `json:"item_id" validate:"required"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

type SavedItemResponse struct {
	ItemId    string    `json:"item_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

package prefstore

import (
	"context"
	"time"
)

// PreferenceSet is the per-user learning configuration document.
type PreferenceSet struct {
	Categories           []string   `json:"categories"`
	DailyMinutes         *int       `json:"daily_minutes,omitempty"`
	OnboardingCompleted  bool       `json:"onboarding_completed"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	NotificationTime     *string    `json:"notification_time,omitempty"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

// Defaults is the implicit document for users with no stored record.
func Defaults() PreferenceSet {
	return PreferenceSet{Categories: []string{}}
}

// Clone returns a deep copy; stored sets are treated as immutable snapshots.
// An empty Categories slice stays empty, it never collapses to nil: the
// defaults contract distinguishes "no categories chosen" from "no document".
func (p PreferenceSet) Clone() PreferenceSet {
	out := p
	if p.Categories != nil {
		out.Categories = make([]string, len(p.Categories))
		copy(out.Categories, p.Categories)
	}
	if p.DailyMinutes != nil {
		v := *p.DailyMinutes
		out.DailyMinutes = &v
	}
	if p.NotificationTime != nil {
		v := *p.NotificationTime
		out.NotificationTime = &v
	}
	if p.UpdatedAt != nil {
		v := *p.UpdatedAt
		out.UpdatedAt = &v
	}
	return out
}

// Patch carries a partial update; nil fields are left untouched by Update.
type Patch struct {
	Categories           *[]string
	DailyMinutes         *int
	OnboardingCompleted  *bool
	NotificationsEnabled *bool
	NotificationTime     *string
}

// IsEmpty reports whether the patch would write nothing.
func (p Patch) IsEmpty() bool {
	return p.Categories == nil &&
		p.DailyMinutes == nil &&
		p.OnboardingCompleted == nil &&
		p.NotificationsEnabled == nil &&
		p.NotificationTime == nil
}

// Store reads and writes one preference document per user.
//
// Get returns *NotFoundError when no record exists; callers map that to
// Defaults, they do not treat it as a failure. Save is a field-scoped upsert:
// it creates the record if absent and never erases unrelated fields of the
// user's row. Update writes only the fields present in the patch and returns
// *NotFoundError when no record exists yet. UpdatedAt is always assigned by
// the store; caller-provided values are ignored.
type Store interface {
	Get(ctx context.Context, userID string) (*PreferenceSet, error)
	Save(ctx context.Context, userID string, set PreferenceSet) (*PreferenceSet, error)
	Update(ctx context.Context, userID string, patch Patch) (*PreferenceSet, error)
}

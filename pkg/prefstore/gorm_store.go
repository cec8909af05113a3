package prefstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Columns Save and Update are allowed to touch. Anything else on the row
// (created_at, future columns) is out of this adapter's reach.
var preferenceColumns = []string{
	"categories",
	"daily_minutes",
	"onboarding_completed",
	"notifications_enabled",
	"notification_time",
	"updated_at",
}

// preferenceRow is the user_preferences table shape. It mirrors the
// migration model but is declared locally so the adapter stays free of
// dependencies on the application layers above it.
type preferenceRow struct {
	UserId               uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Categories           datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	DailyMinutes         *int
	OnboardingCompleted  bool      `gorm:"default:false"`
	NotificationsEnabled bool      `gorm:"default:false"`
	NotificationTime     *string   `gorm:"type:varchar(5)"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

func (preferenceRow) TableName() string {
	return "user_preferences"
}

func (r *preferenceRow) toSet() *PreferenceSet {
	updatedAt := r.UpdatedAt
	set := PreferenceSet{
		Categories:           append([]string{}, r.Categories...),
		DailyMinutes:         r.DailyMinutes,
		OnboardingCompleted:  r.OnboardingCompleted,
		NotificationsEnabled: r.NotificationsEnabled,
		NotificationTime:     r.NotificationTime,
		UpdatedAt:            &updatedAt,
	}
	return &set
}

func rowFromSet(userId uuid.UUID, set PreferenceSet) *preferenceRow {
	return &preferenceRow{
		UserId:               userId,
		Categories:           append([]string{}, set.Categories...),
		DailyMinutes:         set.DailyMinutes,
		OnboardingCompleted:  set.OnboardingCompleted,
		NotificationsEnabled: set.NotificationsEnabled,
		NotificationTime:     set.NotificationTime,
	}
}

// GormStore persists preference documents in Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, userID string) (*PreferenceSet, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	var row preferenceRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", uid).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{UserID: userID}
		}
		return nil, classify("get", err)
	}
	return row.toSet(), nil
}

func (s *GormStore) Save(ctx context.Context, userID string, set PreferenceSet) (*PreferenceSet, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	row := rowFromSet(uid, set)
	row.UpdatedAt = time.Now()

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(preferenceColumns),
	}).Create(row).Error
	if err != nil {
		return nil, classify("save", err)
	}
	return row.toSet(), nil
}

func (s *GormStore) Update(ctx context.Context, userID string, patch Patch) (*PreferenceSet, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.Get(ctx, userID)
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if patch.Categories != nil {
		updates["categories"] = datatypes.JSONSlice[string](*patch.Categories)
	}
	if patch.DailyMinutes != nil {
		updates["daily_minutes"] = *patch.DailyMinutes
	}
	if patch.OnboardingCompleted != nil {
		updates["onboarding_completed"] = *patch.OnboardingCompleted
	}
	if patch.NotificationsEnabled != nil {
		updates["notifications_enabled"] = *patch.NotificationsEnabled
	}
	if patch.NotificationTime != nil {
		updates["notification_time"] = *patch.NotificationTime
	}

	res := s.db.WithContext(ctx).Model(&preferenceRow{}).
		Where("user_id = ?", uid).
		Updates(updates)
	if res.Error != nil {
		return nil, classify("update", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &NotFoundError{UserID: userID}
	}
	return s.Get(ctx, userID)
}

func parseUserID(userID string) (uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, &ValidationError{Field: "user_id", Reason: "not a valid uuid"}
	}
	return uid, nil
}

// classify maps driver failures onto the store taxonomy. Postgres permission
// failures (42501) are terminal; everything else is assumed retryable.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42501" {
		return &PermissionError{Op: op, Reason: pgErr.Message}
	}
	return &TransientError{Op: op, Err: err}
}

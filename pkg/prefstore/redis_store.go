package prefstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each preference document in a Redis hash. HSET writes only
// the named fields, which gives the field-level merge semantics the document
// contract requires for free.
type RedisStore struct {
	rdb *redis.Client
}

const (
	fieldCategories           = "categories"
	fieldDailyMinutes         = "daily_minutes"
	fieldOnboardingCompleted  = "onboarding_completed"
	fieldNotificationsEnabled = "notifications_enabled"
	fieldNotificationTime     = "notification_time"
	fieldUpdatedAt            = "updated_at"
)

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func prefKey(userID string) string {
	return fmt.Sprintf("prefs:%s", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*PreferenceSet, error) {
	fields, err := s.rdb.HGetAll(ctx, prefKey(userID)).Result()
	if err != nil {
		return nil, &TransientError{Op: "get", Err: err}
	}
	if len(fields) == 0 {
		return nil, &NotFoundError{UserID: userID}
	}
	return decodeFields(fields)
}

func (s *RedisStore) Save(ctx context.Context, userID string, set PreferenceSet) (*PreferenceSet, error) {
	now := time.Now().UTC()
	values, err := encodeSet(set, now)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.HSet(ctx, prefKey(userID), values).Err(); err != nil {
		return nil, &TransientError{Op: "save", Err: err}
	}

	stored := set.Clone()
	stored.UpdatedAt = &now
	return &stored, nil
}

func (s *RedisStore) Update(ctx context.Context, userID string, patch Patch) (*PreferenceSet, error) {
	exists, err := s.rdb.Exists(ctx, prefKey(userID)).Result()
	if err != nil {
		return nil, &TransientError{Op: "update", Err: err}
	}
	if exists == 0 {
		return nil, &NotFoundError{UserID: userID}
	}
	if patch.IsEmpty() {
		return s.Get(ctx, userID)
	}

	values := map[string]interface{}{
		fieldUpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if patch.Categories != nil {
		raw, err := json.Marshal(*patch.Categories)
		if err != nil {
			return nil, &ValidationError{Field: fieldCategories, Reason: err.Error()}
		}
		values[fieldCategories] = string(raw)
	}
	if patch.DailyMinutes != nil {
		values[fieldDailyMinutes] = strconv.Itoa(*patch.DailyMinutes)
	}
	if patch.OnboardingCompleted != nil {
		values[fieldOnboardingCompleted] = strconv.FormatBool(*patch.OnboardingCompleted)
	}
	if patch.NotificationsEnabled != nil {
		values[fieldNotificationsEnabled] = strconv.FormatBool(*patch.NotificationsEnabled)
	}
	if patch.NotificationTime != nil {
		values[fieldNotificationTime] = *patch.NotificationTime
	}

	if err := s.rdb.HSet(ctx, prefKey(userID), values).Err(); err != nil {
		return nil, &TransientError{Op: "update", Err: err}
	}
	return s.Get(ctx, userID)
}

func encodeSet(set PreferenceSet, updatedAt time.Time) (map[string]interface{}, error) {
	raw, err := json.Marshal(set.Categories)
	if err != nil {
		return nil, &ValidationError{Field: fieldCategories, Reason: err.Error()}
	}
	values := map[string]interface{}{
		fieldCategories:           string(raw),
		fieldOnboardingCompleted:  strconv.FormatBool(set.OnboardingCompleted),
		fieldNotificationsEnabled: strconv.FormatBool(set.NotificationsEnabled),
		fieldUpdatedAt:            updatedAt.Format(time.RFC3339Nano),
	}
	if set.DailyMinutes != nil {
		values[fieldDailyMinutes] = strconv.Itoa(*set.DailyMinutes)
	}
	if set.NotificationTime != nil {
		values[fieldNotificationTime] = *set.NotificationTime
	}
	return values, nil
}

func decodeFields(fields map[string]string) (*PreferenceSet, error) {
	set := Defaults()

	if raw, ok := fields[fieldCategories]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &set.Categories); err != nil {
			return nil, &TransientError{Op: "decode", Err: err}
		}
	}
	if raw, ok := fields[fieldDailyMinutes]; ok && raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &TransientError{Op: "decode", Err: err}
		}
		set.DailyMinutes = &v
	}
	if raw, ok := fields[fieldOnboardingCompleted]; ok {
		set.OnboardingCompleted = raw == "true"
	}
	if raw, ok := fields[fieldNotificationsEnabled]; ok {
		set.NotificationsEnabled = raw == "true"
	}
	if raw, ok := fields[fieldNotificationTime]; ok && raw != "" {
		set.NotificationTime = &raw
	}
	if raw, ok := fields[fieldUpdatedAt]; ok && raw != "" {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err == nil {
			set.UpdatedAt = &ts
		}
	}
	return &set, nil
}

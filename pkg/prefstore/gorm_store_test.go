package prefstore

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceRowRoundTrip(t *testing.T) {
	uid := uuid.New()
	minutes := 20
	at := "08:30"
	set := PreferenceSet{
		Categories:           []string{"science", "custom:machine learning"},
		DailyMinutes:         &minutes,
		OnboardingCompleted:  true,
		NotificationsEnabled: true,
		NotificationTime:     &at,
	}

	row := rowFromSet(uid, set)
	row.UpdatedAt = time.Now()
	got := row.toSet()

	assert.Equal(t, set.Categories, got.Categories)
	assert.Equal(t, 20, *got.DailyMinutes)
	assert.True(t, got.OnboardingCompleted)
	assert.True(t, got.NotificationsEnabled)
	assert.Equal(t, "08:30", *got.NotificationTime)
	require.NotNil(t, got.UpdatedAt)
}

func TestPreferenceRowKeepsEmptyCategories(t *testing.T) {
	row := rowFromSet(uuid.New(), Defaults())
	require.NotNil(t, row.Categories)
	assert.Empty(t, row.Categories)

	got := row.toSet()
	require.NotNil(t, got.Categories)
	assert.Empty(t, got.Categories)
}

package prefstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMemoryStoreSaveThenGet(t *testing.T) {
	store := NewMemoryStore()
	pinned := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return pinned }

	minutes := 15
	saved, err := store.Save(context.Background(), "u1", PreferenceSet{
		Categories:          []string{"science", "history"},
		DailyMinutes:        &minutes,
		OnboardingCompleted: true,
	})
	require.NoError(t, err)
	require.NotNil(t, saved.UpdatedAt)
	assert.Equal(t, pinned, *saved.UpdatedAt)

	got, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"science", "history"}, got.Categories)
	assert.Equal(t, 15, *got.DailyMinutes)
	assert.True(t, got.OnboardingCompleted)
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	store := NewMemoryStore()

	done := true
	_, err := store.Update(context.Background(), "u1", Patch{OnboardingCompleted: &done})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMemoryStoreUpdatePartial(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Save(ctx, "u1", PreferenceSet{
		Categories:           []string{"science"},
		NotificationsEnabled: true,
	})
	require.NoError(t, err)

	// Patch only daily minutes; everything else must survive.
	minutes := 30
	got, err := store.Update(ctx, "u1", Patch{DailyMinutes: &minutes})
	require.NoError(t, err)
	assert.Equal(t, []string{"science"}, got.Categories)
	assert.Equal(t, 30, *got.DailyMinutes)
	assert.True(t, got.NotificationsEnabled)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Save(ctx, "u1", PreferenceSet{Categories: []string{"science"}})
	require.NoError(t, err)

	first, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	first.Categories[0] = "mutated"

	second, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"science"}, second.Categories)
}

package prefstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore wraps a MemoryStore and counts backend reads.
type countingStore struct {
	inner *MemoryStore

	mu   sync.Mutex
	gets int
}

func (s *countingStore) Get(ctx context.Context, userID string) (*PreferenceSet, error) {
	s.mu.Lock()
	s.gets++
	s.mu.Unlock()
	return s.inner.Get(ctx, userID)
}

func (s *countingStore) Save(ctx context.Context, userID string, set PreferenceSet) (*PreferenceSet, error) {
	return s.inner.Save(ctx, userID, set)
}

func (s *countingStore) Update(ctx context.Context, userID string, patch Patch) (*PreferenceSet, error) {
	return s.inner.Update(ctx, userID, patch)
}

func (s *countingStore) getCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

func TestCachedStoreReadThrough(t *testing.T) {
	backend := &countingStore{inner: NewMemoryStore()}
	cached := NewCachedStore(backend, time.Minute)
	ctx := context.Background()

	_, err := cached.Save(ctx, "u1", PreferenceSet{Categories: []string{"science"}})
	require.NoError(t, err)

	// Save populated the cache; repeated reads never touch the backend.
	for i := 0; i < 3; i++ {
		got, err := cached.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"science"}, got.Categories)
	}
	assert.Equal(t, 0, backend.getCount())
}

func TestCachedStoreMissIsNotCached(t *testing.T) {
	backend := &countingStore{inner: NewMemoryStore()}
	cached := NewCachedStore(backend, time.Minute)
	ctx := context.Background()

	_, err := cached.Get(ctx, "u1")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = cached.Get(ctx, "u1")
	require.Error(t, err)
	assert.Equal(t, 2, backend.getCount())
}

func TestCachedStoreUpdateRefreshesCache(t *testing.T) {
	backend := &countingStore{inner: NewMemoryStore()}
	cached := NewCachedStore(backend, time.Minute)
	ctx := context.Background()

	_, err := cached.Save(ctx, "u1", PreferenceSet{Categories: []string{"science"}})
	require.NoError(t, err)

	cats := []string{"history"}
	_, err = cached.Update(ctx, "u1", Patch{Categories: &cats})
	require.NoError(t, err)

	got, err := cached.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"history"}, got.Categories)
	assert.Equal(t, 0, backend.getCount())
}

func TestCachedStoreFailedUpdateEvicts(t *testing.T) {
	backend := &countingStore{inner: NewMemoryStore()}
	cached := NewCachedStore(backend, time.Minute)
	ctx := context.Background()

	_, err := cached.Save(ctx, "u1", PreferenceSet{Categories: []string{"science"}})
	require.NoError(t, err)

	// Update on a user with no record fails and must evict that user's
	// cache entry, not u1's.
	done := true
	_, err = cached.Update(ctx, "u2", Patch{OnboardingCompleted: &done})
	require.Error(t, err)

	got, err := cached.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"science"}, got.Categories)
}

package prefstore

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedStore is a read-through wrapper: Get hits a short-lived in-memory
// cache, writes go straight to the backend and refresh the cached copy.
type CachedStore struct {
	backend Store
	cache   *cache.Cache
}

func NewCachedStore(backend Store, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedStore{
		backend: backend,
		cache:   cache.New(ttl, 10*time.Minute),
	}
}

func (s *CachedStore) Get(ctx context.Context, userID string) (*PreferenceSet, error) {
	if x, found := s.cache.Get(userID); found {
		set := x.(PreferenceSet).Clone()
		return &set, nil
	}

	set, err := s.backend.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(userID, set.Clone(), cache.DefaultExpiration)
	return set, nil
}

func (s *CachedStore) Save(ctx context.Context, userID string, set PreferenceSet) (*PreferenceSet, error) {
	stored, err := s.backend.Save(ctx, userID, set)
	if err != nil {
		return nil, err
	}
	s.cache.Set(userID, stored.Clone(), cache.DefaultExpiration)
	return stored, nil
}

func (s *CachedStore) Update(ctx context.Context, userID string, patch Patch) (*PreferenceSet, error) {
	stored, err := s.backend.Update(ctx, userID, patch)
	if err != nil {
		// A failed partial update leaves the cached copy unreliable.
		s.cache.Delete(userID)
		return nil, err
	}
	s.cache.Set(userID, stored.Clone(), cache.DefaultExpiration)
	return stored, nil
}

package prefstore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a map-backed Store used by tests and the simulation command.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]PreferenceSet

	// Now is swappable so tests can pin the store-assigned timestamp.
	Now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]PreferenceSet),
		Now:  time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (*PreferenceSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[userID]
	if !ok {
		return nil, &NotFoundError{UserID: userID}
	}
	out := doc.Clone()
	return &out, nil
}

func (s *MemoryStore) Save(ctx context.Context, userID string, set PreferenceSet) (*PreferenceSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := set.Clone()
	now := s.Now()
	stored.UpdatedAt = &now
	s.docs[userID] = stored

	out := stored.Clone()
	return &out, nil
}

func (s *MemoryStore) Update(ctx context.Context, userID string, patch Patch) (*PreferenceSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[userID]
	if !ok {
		return nil, &NotFoundError{UserID: userID}
	}

	stored := doc.Clone()
	if patch.Categories != nil {
		stored.Categories = append([]string{}, (*patch.Categories)...)
	}
	if patch.DailyMinutes != nil {
		v := *patch.DailyMinutes
		stored.DailyMinutes = &v
	}
	if patch.OnboardingCompleted != nil {
		stored.OnboardingCompleted = *patch.OnboardingCompleted
	}
	if patch.NotificationsEnabled != nil {
		stored.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.NotificationTime != nil {
		v := *patch.NotificationTime
		stored.NotificationTime = &v
	}
	now := s.Now()
	stored.UpdatedAt = &now
	s.docs[userID] = stored

	out := stored.Clone()
	return &out, nil
}

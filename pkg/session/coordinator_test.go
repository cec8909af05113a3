package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"learnpulse-be/pkg/prefstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStats is an in-memory StatsProvider with scripted counters.
type stubStats struct {
	mu      sync.Mutex
	stats   map[string]Stats
	reads   map[string]int
	fetchEr error
}

func newStubStats() *stubStats {
	return &stubStats{stats: make(map[string]Stats), reads: make(map[string]int)}
}

func (s *stubStats) Fetch(ctx context.Context, userID string) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchEr != nil {
		return Stats{}, s.fetchEr
	}
	return s.stats[userID], nil
}

func (s *stubStats) RecordRead(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads[userID]++
	return nil
}

func (s *stubStats) readCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[userID]
}

// failingStore returns a transient error for every operation.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, userID string) (*prefstore.PreferenceSet, error) {
	return nil, &prefstore.TransientError{Op: "get", Err: errors.New("unavailable")}
}

func (failingStore) Save(ctx context.Context, userID string, set prefstore.PreferenceSet) (*prefstore.PreferenceSet, error) {
	return nil, &prefstore.TransientError{Op: "save", Err: errors.New("unavailable")}
}

func (failingStore) Update(ctx context.Context, userID string, patch prefstore.Patch) (*prefstore.PreferenceSet, error) {
	return nil, &prefstore.TransientError{Op: "update", Err: errors.New("unavailable")}
}

// slowStore delays reads so a later identity can win the race.
type slowStore struct {
	prefstore.Store
	delay time.Duration
}

func (s slowStore) Get(ctx context.Context, userID string) (*prefstore.PreferenceSet, error) {
	time.Sleep(s.delay)
	return s.Store.Get(ctx, userID)
}

// slowSaveStore delays writes so an account switch can land mid-save.
type slowSaveStore struct {
	prefstore.Store
	delay time.Duration
}

func (s slowSaveStore) Save(ctx context.Context, userID string, set prefstore.PreferenceSet) (*prefstore.PreferenceSet, error) {
	time.Sleep(s.delay)
	return s.Store.Save(ctx, userID, set)
}

type coordinatorFixture struct {
	source      *fakeSource
	store       *Store
	prefs       prefstore.Store
	stats       *stubStats
	coordinator *Coordinator
}

func newCoordinatorFixture(t *testing.T, prefs prefstore.Store) *coordinatorFixture {
	t.Helper()
	source := newFakeSource(nil)
	store := NewStore()
	stats := newStubStats()
	listener := NewListener(source, time.Second, nil)
	coordinator := NewCoordinator(store, prefs, stats, listener, nil)

	require.NoError(t, coordinator.Start(context.Background()))
	t.Cleanup(coordinator.Stop)

	return &coordinatorFixture{
		source:      source,
		store:       store,
		prefs:       prefs,
		stats:       stats,
		coordinator: coordinator,
	}
}

func (f *coordinatorFixture) waitFor(t *testing.T, cond func(ClientState) bool) ClientState {
	t.Helper()
	require.Eventually(t, func() bool {
		return cond(f.store.State())
	}, 2*time.Second, 10*time.Millisecond)
	return f.store.State()
}

func TestCoordinatorLoadsPreferencesOnSignIn(t *testing.T) {
	prefs := prefstore.NewMemoryStore()
	_, err := prefs.Save(context.Background(), "u1", prefstore.PreferenceSet{
		Categories:          []string{"science"},
		OnboardingCompleted: true,
	})
	require.NoError(t, err)

	f := newCoordinatorFixture(t, prefs)
	f.stats.stats["u1"] = Stats{WeeklyReadCount: 3, SavedCount: 1}

	f.source.changes <- &Identity{ID: "u1"}

	st := f.waitFor(t, func(st ClientState) bool {
		return st.PreferencesLoad == LoadSucceeded && st.Stats.WeeklyReadCount == 3
	})
	assert.Equal(t, []string{"science"}, st.Preferences.Categories)
	assert.True(t, st.Preferences.OnboardingCompleted)
	assert.Equal(t, 1, st.Stats.SavedCount)
}

func TestCoordinatorFirstSignInGetsDefaults(t *testing.T) {
	f := newCoordinatorFixture(t, prefstore.NewMemoryStore())

	f.source.changes <- &Identity{ID: "new-user"}

	st := f.waitFor(t, func(st ClientState) bool {
		return st.PreferencesLoad == LoadSucceeded
	})
	assert.Empty(t, st.Preferences.Categories)
	assert.False(t, st.Preferences.OnboardingCompleted)
	assert.Nil(t, st.LastError)
}

func TestCoordinatorLoadFailureRoutesForward(t *testing.T) {
	f := newCoordinatorFixture(t, failingStore{})

	f.source.changes <- &Identity{ID: "u1"}

	st := f.waitFor(t, func(st ClientState) bool {
		return st.PreferencesLoad == LoadFailed
	})
	require.NotNil(t, st.LastError)
	assert.True(t, st.LastError.Transient)

	// Navigation must not dead-end on a spinner.
	dest := Decide(st.Session, st.PreferencesLoad, st.Preferences.OnboardingCompleted)
	assert.Equal(t, DestOnboarding, dest)
}

func TestCoordinatorSignOutClearsState(t *testing.T) {
	prefs := prefstore.NewMemoryStore()
	_, err := prefs.Save(context.Background(), "u1", prefstore.PreferenceSet{Categories: []string{"science"}})
	require.NoError(t, err)

	f := newCoordinatorFixture(t, prefs)
	f.source.changes <- &Identity{ID: "u1"}
	f.waitFor(t, func(st ClientState) bool { return st.PreferencesLoad == LoadSucceeded })

	f.source.changes <- nil
	st := f.waitFor(t, func(st ClientState) bool { return st.Session.State == StateAnonymous })
	assert.Empty(t, st.Preferences.Categories)
	assert.Equal(t, Stats{}, st.Stats)
}

func TestCoordinatorStaleLoadDiscardedOnFastSwitch(t *testing.T) {
	inner := prefstore.NewMemoryStore()
	ctx := context.Background()
	_, err := inner.Save(ctx, "u1", prefstore.PreferenceSet{Categories: []string{"alice-only"}})
	require.NoError(t, err)
	_, err = inner.Save(ctx, "u2", prefstore.PreferenceSet{Categories: []string{"bob-only"}, OnboardingCompleted: true})
	require.NoError(t, err)

	f := newCoordinatorFixture(t, slowStore{Store: inner, delay: 100 * time.Millisecond})

	// u1's load is still in flight when u2 signs in.
	f.source.changes <- &Identity{ID: "u1"}
	f.source.changes <- &Identity{ID: "u2"}

	st := f.waitFor(t, func(st ClientState) bool {
		return st.Session.UserID() == "u2" && st.PreferencesLoad == LoadSucceeded
	})
	assert.Equal(t, []string{"bob-only"}, st.Preferences.Categories)

	// Give u1's straggler time to land; it must be dropped.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, []string{"bob-only"}, f.store.State().Preferences.Categories)
}

func TestCoordinatorStaleSaveDiscardedOnSwitch(t *testing.T) {
	inner := prefstore.NewMemoryStore()
	ctx := context.Background()
	_, err := inner.Save(ctx, "u2", prefstore.PreferenceSet{Categories: []string{"bob-only"}, OnboardingCompleted: true})
	require.NoError(t, err)

	f := newCoordinatorFixture(t, slowSaveStore{Store: inner, delay: 150 * time.Millisecond})

	f.source.changes <- &Identity{ID: "u1"}
	f.waitFor(t, func(st ClientState) bool {
		return st.Session.UserID() == "u1" && st.PreferencesLoad == LoadSucceeded
	})

	// u1 edits and flushes; u2 signs in while the write is still in flight.
	f.store.Dispatch(CategoryToggled{Tag: "alice-only"})
	done := make(chan error, 1)
	go func() { done <- f.coordinator.FlushPreferences(ctx) }()

	time.Sleep(50 * time.Millisecond)
	f.source.changes <- &Identity{ID: "u2"}

	require.NoError(t, <-done)
	st := f.waitFor(t, func(st ClientState) bool {
		return st.Session.UserID() == "u2" && st.PreferencesLoad == LoadSucceeded
	})

	// u1's acknowledged write must not leak into u2's session.
	assert.Equal(t, []string{"bob-only"}, st.Preferences.Categories)
	assert.NotContains(t, st.Preferences.Categories, "alice-only")

	// The remote write itself still belongs to u1.
	stored, err := inner.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice-only"}, stored.Categories)
}

func TestCoordinatorFlushRequiresSession(t *testing.T) {
	f := newCoordinatorFixture(t, prefstore.NewMemoryStore())

	err := f.coordinator.FlushPreferences(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestCoordinatorFlushPersistsPendingEdits(t *testing.T) {
	prefs := prefstore.NewMemoryStore()
	f := newCoordinatorFixture(t, prefs)

	f.source.changes <- &Identity{ID: "u1"}
	f.waitFor(t, func(st ClientState) bool { return st.PreferencesLoad == LoadSucceeded })

	f.store.Dispatch(CategoryToggled{Tag: "science"})
	f.store.Dispatch(OnboardingDone{})
	require.NoError(t, f.coordinator.FlushPreferences(context.Background()))

	st := f.store.State()
	assert.Nil(t, st.Pending)
	assert.Equal(t, LoadSucceeded, st.PreferencesSave)

	stored, err := prefs.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"science"}, stored.Categories)
	assert.True(t, stored.OnboardingCompleted)
}

func TestCoordinatorFlushNoopWithoutPending(t *testing.T) {
	f := newCoordinatorFixture(t, prefstore.NewMemoryStore())

	f.source.changes <- &Identity{ID: "u1"}
	f.waitFor(t, func(st ClientState) bool { return st.PreferencesLoad == LoadSucceeded })

	require.NoError(t, f.coordinator.FlushPreferences(context.Background()))
	assert.Equal(t, LoadIdle, f.store.State().PreferencesSave)
}

func TestCoordinatorFlushFailureKeepsPending(t *testing.T) {
	f := newCoordinatorFixture(t, failingStore{})

	f.source.changes <- &Identity{ID: "u1"}
	f.waitFor(t, func(st ClientState) bool { return st.PreferencesLoad == LoadFailed })

	f.store.Dispatch(CategoryToggled{Tag: "science"})
	err := f.coordinator.FlushPreferences(context.Background())
	require.Error(t, err)
	assert.True(t, prefstore.IsTransient(err))

	st := f.store.State()
	require.NotNil(t, st.Pending)
	assert.Equal(t, []string{"science"}, st.Pending.Categories)
}

func TestCoordinatorRecordRead(t *testing.T) {
	f := newCoordinatorFixture(t, prefstore.NewMemoryStore())

	f.source.changes <- &Identity{ID: "u1"}
	f.waitFor(t, func(st ClientState) bool { return st.PreferencesLoad == LoadSucceeded })

	require.NoError(t, f.coordinator.RecordRead(context.Background()))
	assert.Equal(t, 1, f.store.State().Stats.WeeklyReadCount)

	require.Eventually(t, func() bool {
		return f.stats.readCount("u1") == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCoordinatorRecordReadRequiresSession(t *testing.T) {
	f := newCoordinatorFixture(t, prefstore.NewMemoryStore())
	err := f.coordinator.RecordRead(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

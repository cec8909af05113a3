package session

import (
	"errors"
	"testing"

	"learnpulse-be/pkg/prefstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signIn(store *Store, id string) ClientState {
	return store.Dispatch(IdentityResolved{Identity: &Identity{ID: id}})
}

func TestStoreSignInSignOut(t *testing.T) {
	store := NewStore()

	st := signIn(store, "u1")
	assert.Equal(t, StateAuthenticated, st.Session.State)
	assert.Equal(t, "u1", st.Session.UserID())

	st = store.Dispatch(IdentityResolved{Identity: nil})
	assert.Equal(t, StateAnonymous, st.Session.State)
	assert.Equal(t, "", st.Session.UserID())
}

func TestStoreUserSwitchClearsData(t *testing.T) {
	store := NewStore()
	signIn(store, "u1")
	store.Dispatch(PreferencesLoadSucceeded{UserID: "u1", Preferences: prefstore.PreferenceSet{
		Categories:          []string{"science"},
		OnboardingCompleted: true,
	}})
	store.Dispatch(StatsRefreshed{UserID: "u1", Stats: Stats{WeeklyReadCount: 4}})

	// Switching users resets preferences and stats in the same apply, so the
	// new session never observes the previous user's data.
	st := signIn(store, "u2")
	assert.Equal(t, "u2", st.Session.UserID())
	assert.Empty(t, st.Preferences.Categories)
	assert.False(t, st.Preferences.OnboardingCompleted)
	assert.Equal(t, 0, st.Stats.WeeklyReadCount)
	assert.Equal(t, LoadIdle, st.PreferencesLoad)
}

func TestStoreCredentialRefreshKeepsData(t *testing.T) {
	store := NewStore()
	signIn(store, "u1")
	store.Dispatch(PreferencesLoadSucceeded{UserID: "u1", Preferences: prefstore.PreferenceSet{
		Categories: []string{"science"},
	}})

	// Same user id with a new identity value is a token refresh, not a switch.
	st := store.Dispatch(IdentityResolved{Identity: &Identity{ID: "u1", Email: "new@example.com"}})
	assert.Equal(t, []string{"science"}, st.Preferences.Categories)
	assert.Equal(t, "new@example.com", st.Session.Identity.Email)
	assert.Equal(t, LoadSucceeded, st.PreferencesLoad)
}

func TestStoreStaleLoadResultDropped(t *testing.T) {
	store := NewStore()
	signIn(store, "u1")
	signIn(store, "u2")

	// A load issued for u1 lands after the session moved to u2.
	st := store.Dispatch(PreferencesLoadSucceeded{UserID: "u1", Preferences: prefstore.PreferenceSet{
		Categories: []string{"science"},
	}})
	assert.Empty(t, st.Preferences.Categories)
	assert.Equal(t, LoadIdle, st.PreferencesLoad)

	st = store.Dispatch(StatsRefreshed{UserID: "u1", Stats: Stats{WeeklyReadCount: 9}})
	assert.Equal(t, 0, st.Stats.WeeklyReadCount)
}

func TestStoreLoadFailureFallsBackToDefaults(t *testing.T) {
	store := NewStore()
	signIn(store, "u1")
	store.Dispatch(PreferencesLoadStarted{UserID: "u1"})

	st := store.Dispatch(PreferencesLoadFailed{UserID: "u1", Err: &prefstore.TransientError{Op: "get", Err: errors.New("timeout")}})
	assert.Equal(t, LoadFailed, st.PreferencesLoad)
	assert.Equal(t, prefstore.Defaults().Categories, st.Preferences.Categories)
	require.NotNil(t, st.LastError)
	assert.True(t, st.LastError.Transient)
}

func TestStoreLocalEditsStayPendingUntilSaved(t *testing.T) {
	store := NewStore()
	signIn(store, "u1")
	store.Dispatch(PreferencesLoadSucceeded{UserID: "u1", Preferences: prefstore.Defaults()})

	st := store.Dispatch(CategoryToggled{Tag: "science"})
	require.NotNil(t, st.Pending)
	assert.Equal(t, []string{"science"}, st.Pending.Categories)
	assert.Empty(t, st.Preferences.Categories) // confirmed copy untouched

	st = store.Dispatch(PreferencesSaveSucceeded{UserID: "u1", Preferences: st.EffectivePreferences()})
	assert.Nil(t, st.Pending)
	assert.Equal(t, []string{"science"}, st.Preferences.Categories)
}

func TestStoreSaveFailureKeepsPending(t *testing.T) {
	store := NewStore()
	signIn(store, "u1")
	store.Dispatch(CategoryToggled{Tag: "science"})
	store.Dispatch(PreferencesSaveStarted{UserID: "u1"})

	st := store.Dispatch(PreferencesSaveFailed{UserID: "u1", Err: &prefstore.TransientError{Op: "save", Err: errors.New("unavailable")}})
	require.NotNil(t, st.Pending)
	assert.Equal(t, []string{"science"}, st.Pending.Categories)
	assert.Equal(t, LoadFailed, st.PreferencesSave)
}

func TestStoreStaleSaveResultDropped(t *testing.T) {
	store := NewStore()
	signIn(store, "u1")
	store.Dispatch(CategoryToggled{Tag: "alice-only"})
	store.Dispatch(PreferencesSaveStarted{UserID: "u1"})

	// u2 signs in while u1's save is in flight.
	signIn(store, "u2")

	// The acknowledgement of u1's write lands afterwards; it must not commit
	// into u2's session.
	st := store.Dispatch(PreferencesSaveSucceeded{UserID: "u1", Preferences: prefstore.PreferenceSet{
		Categories: []string{"alice-only"},
	}})
	assert.Equal(t, "u2", st.Session.UserID())
	assert.Empty(t, st.Preferences.Categories)
	assert.Equal(t, LoadIdle, st.PreferencesSave)

	st = store.Dispatch(PreferencesSaveFailed{UserID: "u1", Err: errors.New("late failure")})
	assert.Equal(t, LoadIdle, st.PreferencesSave)
	assert.Nil(t, st.LastError)
}

func TestStorePacingAndNotificationEdits(t *testing.T) {
	store := NewStore()
	signIn(store, "u1")
	store.Dispatch(PreferencesLoadSucceeded{UserID: "u1", Preferences: prefstore.Defaults()})

	minutes := 15
	st := store.Dispatch(DailyMinutesSet{Minutes: &minutes})
	require.NotNil(t, st.Pending)
	assert.Equal(t, 15, *st.Pending.DailyMinutes)

	at := "08:30"
	st = store.Dispatch(NotificationsSet{Enabled: true, Time: &at})
	assert.True(t, st.Pending.NotificationsEnabled)
	assert.Equal(t, "08:30", *st.Pending.NotificationTime)

	// Clearing the pacing target leaves the notification edit intact.
	st = store.Dispatch(DailyMinutesSet{Minutes: nil})
	assert.Nil(t, st.Pending.DailyMinutes)
	assert.True(t, st.Pending.NotificationsEnabled)
}

func TestStoreClearedKeepsSession(t *testing.T) {
	store := NewStore()
	signIn(store, "u1")
	store.Dispatch(PreferencesLoadSucceeded{UserID: "u1", Preferences: prefstore.PreferenceSet{
		Categories: []string{"science"},
	}})
	store.Dispatch(StatsRefreshed{UserID: "u1", Stats: Stats{WeeklyReadCount: 4}})

	st := store.Dispatch(Cleared{})
	assert.Equal(t, "u1", st.Session.UserID())
	assert.Empty(t, st.Preferences.Categories)
	assert.Equal(t, Stats{}, st.Stats)
	assert.Nil(t, st.LastError)
}

func TestStoreOptimisticCounters(t *testing.T) {
	store := NewStore()
	signIn(store, "u1")
	store.Dispatch(StatsRefreshed{UserID: "u1", Stats: Stats{WeeklyReadCount: 2, SavedCount: 1}})

	st := store.Dispatch(ReadCounted{})
	assert.Equal(t, 3, st.Stats.WeeklyReadCount)

	st = store.Dispatch(ItemSaved{})
	assert.Equal(t, 2, st.Stats.SavedCount)

	// The next refresh is authoritative either way.
	st = store.Dispatch(StatsRefreshed{UserID: "u1", Stats: Stats{WeeklyReadCount: 3, SavedCount: 2}})
	assert.Equal(t, 3, st.Stats.WeeklyReadCount)
}

func TestStoreSubscribersSeeEveryChangeInOrder(t *testing.T) {
	store := NewStore()
	var states []SessionState
	unsub := store.Subscribe(func(st ClientState) {
		states = append(states, st.Session.State)
	})

	signIn(store, "u1")
	store.Dispatch(IdentityResolved{Identity: nil})
	unsub()
	signIn(store, "u2")

	require.Len(t, states, 2)
	assert.Equal(t, StateAuthenticated, states[0])
	assert.Equal(t, StateAnonymous, states[1])
}

func TestStoreSnapshotIsolation(t *testing.T) {
	store := NewStore()
	signIn(store, "u1")
	store.Dispatch(PreferencesLoadSucceeded{UserID: "u1", Preferences: prefstore.PreferenceSet{
		Categories: []string{"science"},
	}})

	snap := store.State()
	snap.Preferences.Categories[0] = "mutated"

	assert.Equal(t, []string{"science"}, store.State().Preferences.Categories)
}

func TestStoreClosedDropsEvents(t *testing.T) {
	store := NewStore()
	signIn(store, "u1")
	store.Close()

	st := store.Dispatch(IdentityResolved{Identity: nil})
	assert.Equal(t, StateAuthenticated, st.Session.State)
}

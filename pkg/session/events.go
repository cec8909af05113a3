package session

import (
	"learnpulse-be/pkg/category"
	"learnpulse-be/pkg/prefstore"
)

// Event is one of the closed set of client state mutations. Every apply is a
// pure reducer: the same (state, event) pair always yields the same next
// state, and input slices are never mutated in place.
type Event interface {
	apply(ClientState) ClientState
}

// IdentityResolved carries the result of an identity listener callback.
// nil means signed out. A change of user id clears preferences and stats in
// the same apply, so a previous user's data is never visible under the new
// identity, not even transiently.
type IdentityResolved struct {
	Identity *Identity
}

func (ev IdentityResolved) apply(s ClientState) ClientState {
	if ev.Identity == nil {
		out := NewClientState()
		out.Session = SessionStatus{State: StateAnonymous}
		return out
	}

	id := *ev.Identity
	sameUser := s.Session.State == StateAuthenticated &&
		s.Session.Identity != nil &&
		s.Session.Identity.ID == id.ID
	if sameUser {
		// Credential refresh: replace the identity, keep everything else.
		out := s
		out.Session = SessionStatus{State: StateAuthenticated, Identity: &id}
		return out
	}

	out := NewClientState()
	out.Session = SessionStatus{State: StateAuthenticated, Identity: &id}
	return out
}

// PreferencesLoadStarted marks an in-flight load for a specific user.
type PreferencesLoadStarted struct {
	UserID string
}

func (ev PreferencesLoadStarted) apply(s ClientState) ClientState {
	if s.Session.UserID() != ev.UserID {
		return s
	}
	out := s
	out.PreferencesLoad = LoadInProgress
	return out
}

// PreferencesLoadSucceeded commits a loaded document. The user id the load
// was issued for travels with the event; if the session has moved on the
// result is stale and dropped here.
type PreferencesLoadSucceeded struct {
	UserID      string
	Preferences prefstore.PreferenceSet
}

func (ev PreferencesLoadSucceeded) apply(s ClientState) ClientState {
	if s.Session.UserID() != ev.UserID {
		return s
	}
	out := s
	out.Preferences = ev.Preferences.Clone()
	out.Pending = nil
	out.PreferencesLoad = LoadSucceeded
	out.LastError = nil
	return out
}

// PreferencesLoadFailed records a load failure and falls back to defaults so
// navigation can proceed. Subject to the same stale-result guard.
type PreferencesLoadFailed struct {
	UserID string
	Err    error
}

func (ev PreferencesLoadFailed) apply(s ClientState) ClientState {
	if s.Session.UserID() != ev.UserID {
		return s
	}
	out := s
	out.Preferences = prefstore.Defaults()
	out.Pending = nil
	out.PreferencesLoad = LoadFailed
	out.LastError = errorInfo("preferences.load", ev.Err)
	return out
}

// PreferencesSaveStarted marks an in-flight save for a specific user. Save
// events carry the user id the write was issued for, exactly like loads: a
// save that resolves after an account switch must not touch the new session.
type PreferencesSaveStarted struct {
	UserID string
}

func (ev PreferencesSaveStarted) apply(s ClientState) ClientState {
	if s.Session.UserID() != ev.UserID {
		return s
	}
	out := s
	out.PreferencesSave = LoadInProgress
	return out
}

// PreferencesSaveSucceeded promotes the acknowledged document to confirmed
// and drops the pending overlay. Subject to the stale-result guard.
type PreferencesSaveSucceeded struct {
	UserID      string
	Preferences prefstore.PreferenceSet
}

func (ev PreferencesSaveSucceeded) apply(s ClientState) ClientState {
	if s.Session.UserID() != ev.UserID {
		return s
	}
	out := s
	out.Preferences = ev.Preferences.Clone()
	out.Pending = nil
	out.PreferencesSave = LoadSucceeded
	out.LastError = nil
	return out
}

// PreferencesSaveFailed keeps the pending overlay so the unsaved edits remain
// visible and distinguishable from the confirmed document.
type PreferencesSaveFailed struct {
	UserID string
	Err    error
}

func (ev PreferencesSaveFailed) apply(s ClientState) ClientState {
	if s.Session.UserID() != ev.UserID {
		return s
	}
	out := s
	out.PreferencesSave = LoadFailed
	out.LastError = errorInfo("preferences.save", ev.Err)
	return out
}

// CategoryToggled flips membership of one category in the pending set.
// Toggling the same tag twice restores the original membership.
type CategoryToggled struct {
	Tag string
}

func (ev CategoryToggled) apply(s ClientState) ClientState {
	out := s
	pending := s.EffectivePreferences()
	pending.Categories = category.Toggle(pending.Categories, ev.Tag)
	out.Pending = &pending
	return out
}

// DailyMinutesSet sets (or clears, with nil) the pacing target locally.
type DailyMinutesSet struct {
	Minutes *int
}

func (ev DailyMinutesSet) apply(s ClientState) ClientState {
	out := s
	pending := s.EffectivePreferences()
	if ev.Minutes == nil {
		pending.DailyMinutes = nil
	} else {
		v := *ev.Minutes
		pending.DailyMinutes = &v
	}
	out.Pending = &pending
	return out
}

// NotificationsSet updates the reminder toggle and time locally.
type NotificationsSet struct {
	Enabled bool
	Time    *string
}

func (ev NotificationsSet) apply(s ClientState) ClientState {
	out := s
	pending := s.EffectivePreferences()
	pending.NotificationsEnabled = ev.Enabled
	if ev.Time == nil {
		pending.NotificationTime = nil
	} else {
		v := *ev.Time
		pending.NotificationTime = &v
	}
	out.Pending = &pending
	return out
}

// OnboardingDone marks onboarding complete locally.
type OnboardingDone struct{}

func (ev OnboardingDone) apply(s ClientState) ClientState {
	out := s
	pending := s.EffectivePreferences()
	pending.OnboardingCompleted = true
	out.Pending = &pending
	return out
}

// StatsRefreshed replaces the derived counters. Carries the user id it was
// fetched for; stale results are dropped like preference loads.
type StatsRefreshed struct {
	UserID string
	Stats  Stats
}

func (ev StatsRefreshed) apply(s ClientState) ClientState {
	if s.Session.UserID() != ev.UserID {
		return s
	}
	out := s
	out.Stats = ev.Stats
	return out
}

// ReadCounted optimistically bumps the weekly read counter before the remote
// record is confirmed. The next StatsRefreshed overwrites it either way.
type ReadCounted struct{}

func (ev ReadCounted) apply(s ClientState) ClientState {
	out := s
	out.Stats.WeeklyReadCount++
	return out
}

// ItemSaved optimistically bumps the saved counter.
type ItemSaved struct{}

func (ev ItemSaved) apply(s ClientState) ClientState {
	out := s
	out.Stats.SavedCount++
	return out
}

// Cleared resets preferences, stats and errors while keeping the session.
type Cleared struct{}

func (ev Cleared) apply(s ClientState) ClientState {
	out := NewClientState()
	out.Session = s.Session
	return out
}

func errorInfo(op string, err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	return &ErrorInfo{
		Op:        op,
		Message:   err.Error(),
		Transient: prefstore.IsTransient(err),
	}
}

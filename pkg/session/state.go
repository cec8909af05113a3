package session

import (
	"sync"

	"learnpulse-be/pkg/prefstore"
)

// LoadStatus tracks an async operation's lifecycle in client state.
type LoadStatus int

const (
	LoadIdle LoadStatus = iota
	LoadInProgress
	LoadSucceeded
	LoadFailed
)

// Stats are derived, non-authoritative counters. Always recomputable from
// source records; safe to reset to zero and re-fetch.
type Stats struct {
	WeeklyReadCount int `json:"weekly_read_count"`
	SavedCount      int `json:"saved_count"`
}

// ErrorInfo records the last operational failure without blocking anything.
type ErrorInfo struct {
	Op        string
	Message   string
	Transient bool
}

// ClientState is the aggregate the presentation layer reads. It is owned
// exclusively by the Store; everything else mutates it only through events.
//
// Preferences holds the last confirmed document; Pending holds local edits
// not yet acknowledged by the store, so a failed save remains distinguishable
// from a successful one.
type ClientState struct {
	Session         SessionStatus
	Preferences     prefstore.PreferenceSet
	Pending         *prefstore.PreferenceSet
	PreferencesLoad LoadStatus
	PreferencesSave LoadStatus
	Stats           Stats
	LastError       *ErrorInfo
}

// NewClientState is the pre-first-callback state: session undetermined,
// preferences at defaults.
func NewClientState() ClientState {
	return ClientState{
		Session:     SessionStatus{State: StateUnknown},
		Preferences: prefstore.Defaults(),
	}
}

// EffectivePreferences returns pending local edits when present, otherwise
// the confirmed document.
func (s ClientState) EffectivePreferences() prefstore.PreferenceSet {
	if s.Pending != nil {
		return s.Pending.Clone()
	}
	return s.Preferences.Clone()
}

func (s ClientState) snapshot() ClientState {
	out := s
	out.Preferences = s.Preferences.Clone()
	if s.Pending != nil {
		p := s.Pending.Clone()
		out.Pending = &p
	}
	if s.Session.Identity != nil {
		id := *s.Session.Identity
		out.Session.Identity = &id
	}
	if s.LastError != nil {
		e := *s.LastError
		out.LastError = &e
	}
	return out
}

// Store is the explicitly constructed client state container. Events are
// applied one at a time under a single lock; subscribers observe every
// post-apply snapshot in order.
type Store struct {
	mu      sync.Mutex
	state   ClientState
	subs    map[int]func(ClientState)
	nextSub int
	closed  bool
}

func NewStore() *Store {
	return &Store{
		state: NewClientState(),
		subs:  make(map[int]func(ClientState)),
	}
}

// State returns a snapshot; callers can never alias the store's slices.
func (s *Store) State() ClientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.snapshot()
}

// Dispatch applies one event atomically and notifies subscribers with the
// resulting snapshot. Returns that snapshot.
func (s *Store) Dispatch(ev Event) ClientState {
	s.mu.Lock()
	if s.closed {
		snap := s.state.snapshot()
		s.mu.Unlock()
		return snap
	}
	s.state = ev.apply(s.state)
	snap := s.state.snapshot()
	handlers := make([]func(ClientState), 0, len(s.subs))
	for _, h := range s.subs {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h(snap)
	}
	return snap
}

// Subscribe registers a handler for every state change; returns an
// unsubscribe function.
func (s *Store) Subscribe(handler func(ClientState)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = handler
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Close disposes the store: no further events are applied and all
// subscriptions are dropped.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.subs = make(map[int]func(ClientState))
	s.mu.Unlock()
}

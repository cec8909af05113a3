package session

import (
	"context"
	"errors"
	"time"

	"learnpulse-be/internal/pkg/logger"
	"learnpulse-be/pkg/prefstore"
)

// StatsProvider fetches the derived counters and records read activity.
// Both are best-effort: stats failures never surface to the user.
type StatsProvider interface {
	Fetch(ctx context.Context, userID string) (Stats, error)
	RecordRead(ctx context.Context, userID string) error
}

// ErrNotSignedIn is returned by operations that require an authenticated
// session.
var ErrNotSignedIn = errors.New("no authenticated session")

// Coordinator keeps the client state store consistent with the identity
// source and the preference store. It reacts to identity changes by loading
// or clearing preferences and stats, and owns the ordering guarantee that an
// identity change settles before any preference data for it is committed.
//
// There is no cancellation of in-flight loads: results carry the user id they
// were fetched for, and the reducers drop anything that no longer matches the
// current session.
type Coordinator struct {
	store     *Store
	prefs     prefstore.Store
	stats     StatsProvider
	listener  *Listener
	logger    logger.ILogger
	opTimeout time.Duration

	baseCtx     context.Context
	unsubscribe func()
}

const defaultOpTimeout = 10 * time.Second

func NewCoordinator(store *Store, prefs prefstore.Store, stats StatsProvider, listener *Listener, log logger.ILogger) *Coordinator {
	return &Coordinator{
		store:     store,
		prefs:     prefs,
		stats:     stats,
		listener:  listener,
		logger:    log,
		opTimeout: defaultOpTimeout,
	}
}

// Start subscribes to the identity listener. ctx bounds all background loads.
func (c *Coordinator) Start(ctx context.Context) error {
	c.baseCtx = ctx
	unsub, err := c.listener.Subscribe(func(id *Identity) {
		c.onIdentity(ctx, id)
	})
	if err != nil {
		return err
	}
	c.unsubscribe = unsub
	return nil
}

// Stop detaches from the identity listener. In-flight loads resolve against
// whatever session is current and are discarded if stale.
func (c *Coordinator) Stop() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Coordinator) onIdentity(ctx context.Context, id *Identity) {
	// The clear for a departing user happens inside this dispatch, before any
	// load for the new identity is even issued.
	c.store.Dispatch(IdentityResolved{Identity: id})

	if id == nil {
		return
	}

	uid := id.ID
	c.store.Dispatch(PreferencesLoadStarted{UserID: uid})

	// Preference load and stats fetch are independent; run them in parallel
	// so "ready" is one round-trip away, not two.
	go c.loadPreferences(ctx, uid)
	go c.refreshStats(ctx, uid)
}

func (c *Coordinator) loadPreferences(ctx context.Context, uid string) {
	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	set, err := c.prefs.Get(opCtx, uid)
	switch {
	case err == nil:
		c.store.Dispatch(PreferencesLoadSucceeded{UserID: uid, Preferences: *set})
	case prefstore.IsNotFound(err):
		// First sign-in: absent document means defaults, not an error.
		c.store.Dispatch(PreferencesLoadSucceeded{UserID: uid, Preferences: prefstore.Defaults()})
	default:
		if c.logger != nil {
			c.logger.Warn("SyncCoordinator", "Preference load failed, using defaults", map[string]interface{}{
				"user_id": uid,
				"error":   err.Error(),
			})
		}
		c.store.Dispatch(PreferencesLoadFailed{UserID: uid, Err: err})
	}
}

func (c *Coordinator) refreshStats(ctx context.Context, uid string) {
	if c.stats == nil {
		return
	}
	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	stats, err := c.stats.Fetch(opCtx, uid)
	if err != nil {
		// Stats are cosmetic; failures stay out of the user's way.
		if c.logger != nil {
			c.logger.Debug("SyncCoordinator", "Stats fetch failed", map[string]interface{}{
				"user_id": uid,
				"error":   err.Error(),
			})
		}
		return
	}
	c.store.Dispatch(StatsRefreshed{UserID: uid, Stats: stats})
}

// FlushPreferences persists pending local edits. Unlike loads, save failures
// are returned to the caller: the user needs to know an edit did not stick.
func (c *Coordinator) FlushPreferences(ctx context.Context) error {
	state := c.store.State()
	uid := state.Session.UserID()
	if uid == "" {
		return ErrNotSignedIn
	}
	if state.Pending == nil {
		return nil
	}

	c.store.Dispatch(PreferencesSaveStarted{UserID: uid})
	stored, err := c.prefs.Save(ctx, uid, state.EffectivePreferences())
	if err != nil {
		c.store.Dispatch(PreferencesSaveFailed{UserID: uid, Err: err})
		return err
	}
	c.store.Dispatch(PreferencesSaveSucceeded{UserID: uid, Preferences: *stored})
	return nil
}

// RecordRead bumps the weekly counter immediately and records the activity
// remotely in the background. The remote write is fire-and-forget.
func (c *Coordinator) RecordRead(ctx context.Context) error {
	state := c.store.State()
	uid := state.Session.UserID()
	if uid == "" {
		return ErrNotSignedIn
	}

	c.store.Dispatch(ReadCounted{})
	if c.stats == nil {
		return nil
	}
	go func() {
		opCtx, cancel := context.WithTimeout(c.background(), c.opTimeout)
		defer cancel()
		if err := c.stats.RecordRead(opCtx, uid); err != nil && c.logger != nil {
			c.logger.Debug("SyncCoordinator", "Read activity record failed", map[string]interface{}{
				"user_id": uid,
				"error":   err.Error(),
			})
		}
	}()
	return nil
}

func (c *Coordinator) background() context.Context {
	if c.baseCtx != nil {
		return c.baseCtx
	}
	return context.Background()
}

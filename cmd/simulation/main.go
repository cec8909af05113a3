package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"learnpulse-be/internal/pkg/logger"
	"learnpulse-be/pkg/prefstore"
	"learnpulse-be/pkg/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/fatih/color"
)

// localStats is an in-memory StatsProvider for the simulation. Counters live
// per user and survive sign-out, same as the server-side implementation.
type localStats struct {
	mu    sync.Mutex
	reads map[string]int
	saved map[string]int
}

func newLocalStats() *localStats {
	return &localStats{reads: make(map[string]int), saved: make(map[string]int)}
}

func (s *localStats) Fetch(ctx context.Context, userID string) (session.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return session.Stats{WeeklyReadCount: s.reads[userID], SavedCount: s.saved[userID]}, nil
}

func (s *localStats) RecordRead(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads[userID]++
	return nil
}

var (
	header  = color.New(color.FgCyan, color.Bold)
	stateLn = color.New(color.FgYellow)
	okLn    = color.New(color.FgGreen)
)

func main() {
	fmt.Println("=== Session Sync Simulation ===")

	pubSub := session.NewIdentityBus(watermill.NewStdLogger(false, false))
	bus := session.NewBusSource(pubSub)

	simLogger := logger.NewIsolatedLogger("logs/simulation.log")
	prefs := prefstore.NewMemoryStore()
	stats := newLocalStats()

	store := session.NewStore()
	listener := session.NewListener(bus, 5*time.Second, simLogger)
	coordinator := session.NewCoordinator(store, prefs, stats, listener, simLogger)

	unsub := store.Subscribe(func(st session.ClientState) {
		dest := session.Decide(st.Session, st.PreferencesLoad, st.Preferences.OnboardingCompleted)
		stateLn.Printf("  state: session=%-13s load=%d route=%-10s categories=%v reads=%d\n",
			st.Session.State, st.PreferencesLoad, dest, st.EffectivePreferences().Categories, st.Stats.WeeklyReadCount)
	})
	defer unsub()

	ctx := context.Background()
	if err := coordinator.Start(ctx); err != nil {
		log.Fatalf("Failed to start coordinator: %v", err)
	}
	defer coordinator.Stop()

	header.Println("\n[1] Sign in as alice")
	alice := &session.Identity{ID: "6f1e0f9a-0c3d-4a8e-9b21-3d9e5a7c1b42", Email: "alice@example.com", DisplayName: "Alice"}
	must(bus.Publish(ctx, alice))
	settle()

	header.Println("\n[2] Pick categories, pacing and reminders, finish onboarding")
	store.Dispatch(session.CategoryToggled{Tag: "science"})
	store.Dispatch(session.CategoryToggled{Tag: "history"})
	minutes := 15
	store.Dispatch(session.DailyMinutesSet{Minutes: &minutes})
	reminderAt := "08:30"
	store.Dispatch(session.NotificationsSet{Enabled: true, Time: &reminderAt})
	store.Dispatch(session.OnboardingDone{})
	must(coordinator.FlushPreferences(ctx))
	okLn.Println("  preferences flushed")

	header.Println("\n[3] Read two items")
	must(coordinator.RecordRead(ctx))
	must(coordinator.RecordRead(ctx))
	settle()

	header.Println("\n[4] Sign out")
	must(bus.Publish(ctx, nil))
	settle()

	header.Println("\n[5] Sign back in (preferences reload from store)")
	must(bus.Publish(ctx, alice))
	settle()

	header.Println("\n[6] Rapid switch alice -> bob (alice's data must not leak)")
	bob := &session.Identity{ID: "9c4b8e21-77aa-4f02-8d3e-5c6f0a1b2d93", Email: "bob@example.com", DisplayName: "Bob"}
	must(bus.Publish(ctx, alice))
	must(bus.Publish(ctx, bob))
	settle()

	final := store.State()
	okLn.Printf("\nDone. Final session user: %s, categories: %v\n",
		final.Session.UserID(), final.EffectivePreferences().Categories)
}

func must(err error) {
	if err != nil {
		log.Fatalf("Simulation step failed: %v", err)
	}
}

// settle gives async loads a moment to land before the next scenario.
func settle() {
	time.Sleep(300 * time.Millisecond)
}

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a scriptable IdentitySource for listener tests.
type fakeSource struct {
	mu      sync.Mutex
	current *Identity

	currentErr   error
	currentDelay time.Duration

	changes chan *Identity
}

func newFakeSource(current *Identity) *fakeSource {
	return &fakeSource{current: current, changes: make(chan *Identity, 16)}
}

func (f *fakeSource) Current(ctx context.Context) (*Identity, error) {
	if f.currentDelay > 0 {
		select {
		case <-time.After(f.currentDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

func (f *fakeSource) Changes(ctx context.Context) (<-chan *Identity, error) {
	return f.changes, nil
}

// recorder collects handler invocations.
type recorder struct {
	mu  sync.Mutex
	ids []*Identity
}

func (r *recorder) handle(id *Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}

func (r *recorder) at(i int) *Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ids[i]
}

func TestListenerEmitsCurrentOnSubscribe(t *testing.T) {
	source := newFakeSource(&Identity{ID: "u1"})
	listener := NewListener(source, time.Second, nil)

	rec := &recorder{}
	unsub, err := listener.Subscribe(rec.handle)
	require.NoError(t, err)
	defer unsub()

	require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "u1", rec.at(0).ID)
}

func TestListenerEmitsNilWhenSignedOut(t *testing.T) {
	source := newFakeSource(nil)
	listener := NewListener(source, time.Second, nil)

	rec := &recorder{}
	unsub, err := listener.Subscribe(rec.handle)
	require.NoError(t, err)
	defer unsub()

	require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 10*time.Millisecond)
	assert.Nil(t, rec.at(0))
}

func TestListenerDeliversChanges(t *testing.T) {
	source := newFakeSource(nil)
	listener := NewListener(source, time.Second, nil)

	rec := &recorder{}
	unsub, err := listener.Subscribe(rec.handle)
	require.NoError(t, err)
	defer unsub()

	require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 10*time.Millisecond)

	source.changes <- &Identity{ID: "u1"}
	source.changes <- nil

	require.Eventually(t, func() bool { return rec.len() == 3 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "u1", rec.at(1).ID)
	assert.Nil(t, rec.at(2))
}

func TestListenerSuppressesDuplicates(t *testing.T) {
	source := newFakeSource(&Identity{ID: "u1"})
	listener := NewListener(source, time.Second, nil)

	rec := &recorder{}
	unsub, err := listener.Subscribe(rec.handle)
	require.NoError(t, err)
	defer unsub()

	require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 10*time.Millisecond)

	// The source re-emits the same identity, then a real change.
	source.changes <- &Identity{ID: "u1"}
	source.changes <- &Identity{ID: "u1"}
	source.changes <- &Identity{ID: "u2"}

	require.Eventually(t, func() bool { return rec.len() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "u2", rec.at(1).ID)
}

func TestListenerResolveErrorFailsOpen(t *testing.T) {
	source := newFakeSource(&Identity{ID: "u1"})
	source.currentErr = errors.New("auth backend unreachable")
	listener := NewListener(source, time.Second, nil)

	rec := &recorder{}
	unsub, err := listener.Subscribe(rec.handle)
	require.NoError(t, err)
	defer unsub()

	require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 10*time.Millisecond)
	assert.Nil(t, rec.at(0), "resolve failure must emit anonymous, not hang")
}

func TestListenerResolveTimeoutFailsOpen(t *testing.T) {
	source := newFakeSource(&Identity{ID: "u1"})
	source.currentDelay = 5 * time.Second
	listener := NewListener(source, 50*time.Millisecond, nil)

	rec := &recorder{}
	unsub, err := listener.Subscribe(rec.handle)
	require.NoError(t, err)
	defer unsub()

	require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 10*time.Millisecond)
	assert.Nil(t, rec.at(0))
}

func TestListenerUnsubscribeStopsDelivery(t *testing.T) {
	source := newFakeSource(nil)
	listener := NewListener(source, time.Second, nil)

	rec := &recorder{}
	unsub, err := listener.Subscribe(rec.handle)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 10*time.Millisecond)
	unsub()

	source.changes <- &Identity{ID: "u1"}
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, rec.len())
}

package session

import (
	"context"
	"time"

	"learnpulse-be/internal/pkg/logger"
)

// IdentitySource is the auth backend's change-subscription primitive.
// Current answers the present identity (nil = signed out); Changes streams
// every subsequent identity value until ctx is cancelled.
type IdentitySource interface {
	Current(ctx context.Context) (*Identity, error)
	Changes(ctx context.Context) (<-chan *Identity, error)
}

// Listener wraps an IdentitySource and delivers exactly one callback per
// logical identity change: once immediately on subscribe (reflecting current
// state) and once for each change after that. Consecutive duplicates from the
// source are suppressed.
//
// The initial resolve is bounded: if the source cannot answer within the
// timeout the listener emits nil, so the caller proceeds as anonymous instead
// of hanging on a loading state.
type Listener struct {
	source  IdentitySource
	timeout time.Duration
	logger  logger.ILogger
}

const defaultResolveTimeout = 5 * time.Second

func NewListener(source IdentitySource, timeout time.Duration, log logger.ILogger) *Listener {
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}
	return &Listener{
		source:  source,
		timeout: timeout,
		logger:  log,
	}
}

// Subscribe starts delivering identity values to handler and returns an
// unsubscribe function. The handler is invoked from a single goroutine, so
// callbacks never overlap.
func (l *Listener) Subscribe(handler func(*Identity)) (func(), error) {
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := l.source.Changes(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	go l.run(ctx, changes, handler)

	return cancel, nil
}

func (l *Listener) run(ctx context.Context, changes <-chan *Identity, handler func(*Identity)) {
	resolveCtx, resolveCancel := context.WithTimeout(ctx, l.timeout)
	current, err := l.source.Current(resolveCtx)
	resolveCancel()
	if err != nil {
		// Fail open: an unreachable auth backend means anonymous, not stuck.
		if l.logger != nil {
			l.logger.Warn("SessionListener", "Identity resolve failed, emitting anonymous", map[string]interface{}{"error": err.Error()})
		}
		current = nil
	}

	if ctx.Err() != nil {
		return
	}
	handler(current)
	last := current

	for {
		select {
		case <-ctx.Done():
			return
		case next, ok := <-changes:
			if !ok {
				return
			}
			if identityEqual(last, next) {
				continue
			}
			last = next
			handler(next)
		}
	}
}

package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// TopicIdentityChanged carries identity transitions on the in-process bus.
// The auth service publishes here after sign-in/sign-out; the session
// listener consumes it.
const TopicIdentityChanged = "identity.changed"

type identityEnvelope struct {
	SignedIn bool      `json:"signed_in"`
	Identity *Identity `json:"identity,omitempty"`
}

// changeBuffer bounds how many acked transitions can queue per subscriber
// before publishers feel backpressure.
const changeBuffer = 16

// BusSource is an IdentitySource backed by a watermill gochannel pub/sub.
// It retains the last published identity so Current can answer immediately.
//
// The bus must be constructed with BlockPublishUntilSubscriberAck set:
// gochannel's default fire-and-forget publish reorders messages under load,
// and a sign-out overtaken by a later sign-in ends the client on the wrong
// session. NewIdentityBus builds a correctly configured instance.
type BusSource struct {
	pubSub *gochannel.GoChannel

	mu      sync.RWMutex
	current *Identity
}

func NewBusSource(pubSub *gochannel.GoChannel) *BusSource {
	return &BusSource{pubSub: pubSub}
}

// NewIdentityBus builds a gochannel pub/sub with the ordered-delivery
// configuration BusSource requires.
func NewIdentityBus(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{BlockPublishUntilSubscriberAck: true},
		logger,
	)
}

// Publish broadcasts an identity transition. id == nil means signed out.
func (s *BusSource) Publish(ctx context.Context, id *Identity) error {
	env := identityEnvelope{SignedIn: id != nil, Identity: id}
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := s.pubSub.Publish(TopicIdentityChanged, msg); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = id
	s.mu.Unlock()
	return nil
}

func (s *BusSource) Current(ctx context.Context) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, nil
	}
	id := *s.current
	return &id, nil
}

func (s *BusSource) Changes(ctx context.Context) (<-chan *Identity, error) {
	messages, err := s.pubSub.Subscribe(ctx, TopicIdentityChanged)
	if err != nil {
		return nil, err
	}

	// Acked messages queue here in publish order; the buffer keeps a slow
	// consumer from stalling publishers outright.
	out := make(chan *Identity, changeBuffer)
	go func() {
		defer close(out)
		for msg := range messages {
			var env identityEnvelope
			if err := json.Unmarshal(msg.Payload, &env); err != nil {
				msg.Ack() // malformed payloads are dropped, not retried
				continue
			}
			msg.Ack()

			id := env.Identity
			if !env.SignedIn {
				id = nil
			}
			select {
			case out <- id:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"learnpulse-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler processes one event; returning an error triggers redelivery.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber consumes application events from the JetStream bus.
type Subscriber struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewSubscriber connects to NATS for consuming.
func NewSubscriber(url string) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js}, nil
}

// Subscribe attaches a durable consumer to the event stream and dispatches
// each message to the handler. Durable consumers survive restarts, so no
// events are lost while the worker is down.
func (s *Subscriber) Subscribe(subject string, durableName string, handler EventHandler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(context.Background(), StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	_, err = consumer.Consume(func(msg jetstream.Msg) {
		s.dispatch(msg, handler)
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	log.Printf("Subscribed to %s with durable %s", subject, durableName)
	return nil
}

func (s *Subscriber) dispatch(msg jetstream.Msg, handler EventHandler) {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Data(), &payload); err != nil {
		log.Printf("Error unmarshalling event data: %v", err)
		msg.Nak()
		return
	}

	// The subject carries the event type; payload timestamps are optional.
	event := events.BaseEvent{
		Type:       msg.Subject(),
		Data:       payload,
		OccurredAt: time.Now(),
	}

	if err := handler(context.Background(), event); err != nil {
		log.Printf("Handler failed for event %s: %v", msg.Subject(), err)
		msg.Nak() // Redeliver
		return
	}

	msg.Ack()
}

// Close closes the connection.
func (s *Subscriber) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}

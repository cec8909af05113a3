// Package events defines the envelope shared by every event on the bus.
package events

import "time"

// Event is the contract all published events satisfy.
type Event interface {
	// EventType is the registry code, e.g. "PREFERENCES_SAVED".
	EventType() string

	// Payload carries the event data as a JSON-shaped map.
	Payload() map[string]interface{}

	// Timestamp is when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain-struct implementation publishers use directly.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

// New builds a BaseEvent stamped with the current time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func (e BaseEvent) EventType() string { return e.Type }

func (e BaseEvent) Payload() map[string]interface{} { return e.Data }

func (e BaseEvent) Timestamp() time.Time { return e.OccurredAt }

package nats

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName is the single JetStream stream all application events
	// flow through.
	StreamName = "EVENTS"

	// SubjectPrefix namespaces event subjects within the stream.
	SubjectPrefix = "events."

	// SubjectWildcard matches every event subject.
	SubjectWildcard = SubjectPrefix + ">"
)

// connect dials NATS with retry and wraps the connection in a JetStream
// context.
func connect(url string) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return nc, js, nil
}

package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrUnsupported is returned when a feature is not supported by the selected broker.
	ErrUnsupported = errors.New("messaging: unsupported operation")
	// ErrDestinationRequired is returned when Publish is called without a topic or subject.
	ErrDestinationRequired = errors.New("messaging: destination is required")
)

// Messaging is a broker client that can publish messages.
type Messaging interface {
	io.Closer
	Publisher
}

// Publisher publishes messages to a destination (topic or subject).
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// OutgoingMessage is a broker-agnostic message.
type OutgoingMessage struct {
	Body []byte
	// Key is used by Kafka for partitioning and by Pub/Sub as ordering key.
	Key []byte
	// Headers map to Kafka/NATS headers and Pub/Sub attributes. NSQ drops them.
	Headers map[string]string
	// Delay defers delivery; only NSQ supports it.
	Delay time.Duration
}

// PublishResult carries optional broker-specific publish metadata.
type PublishResult struct {
	MessageID string
	Topic     string
	Timestamp time.Time
}

func validatePublish(ctx context.Context, destination string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if destination == "" {
		return ErrDestinationRequired
	}
	return nil
}

// Package messaging provides a small broker abstraction over Kafka for
// publishing and consuming domain events.
package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnsupported is returned when a feature is not supported by the broker.
var ErrUnsupported = errors.New("pkgmessage: unsupported operation")

// Messaging is a client that can publish and consume messages.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher publishes messages to a topic.
type Publisher interface {
	// Publish sends a message to the destination topic.
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer consumes messages from a topic.
type Consumer interface {
	// Consume starts consuming messages from the source topic. It blocks
	// until the context is canceled or an unrecoverable error occurs.
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message.
//
// With auto-ack enabled, a nil return commits the message and an error leaves
// it for redelivery.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage represents a message to be published.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte

	// Key selects the Kafka partition.
	Key []byte

	// Headers support arbitrary binary values and duplicate keys.
	Headers []Header
}

// Header is a key/value pair used for message headers.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult carries broker publish metadata.
type PublishResult struct {
	// Topic is the topic used for publishing.
	Topic string

	// Timestamp is when the message was handed to the broker.
	Timestamp time.Time
}

// Message is a received message.
type Message interface {
	// Body returns the message payload.
	Body() []byte
	// Key returns the message key.
	Key() []byte
	// Headers returns message headers.
	Headers() []Header
	// Attributes returns headers flattened to a string map.
	Attributes() map[string]string

	// ID returns a broker-derived message ID.
	ID() string
	// Topic returns the topic name.
	Topic() string
	// Timestamp returns the broker timestamp.
	Timestamp() time.Time

	// Ack acknowledges successful processing.
	Ack(ctx context.Context) error
}

// Nackable can request a message redelivery.
type Nackable interface {
	Nack(ctx context.Context) error
}

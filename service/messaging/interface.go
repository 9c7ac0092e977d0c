package messaging

import (
	"context"
)

// Vendor names a queue implementation
type Vendor string

// VendorMemory selects the in-process channel queue.
const VendorMemory Vendor = "memory"

// Queue carries payloads of type T from publishers to consumers
type Queue[T any] interface {
	// Publish enqueues a copy of t
	Publish(ctx context.Context, t *T) error

	// TryPublish enqueues a copy of t or fails at once when the queue is full
	TryPublish(t *T) error

	// Consume blocks until a message is available or ctx is done
	Consume(ctx context.Context) (Message[T], error)
}

// Message is a consumed payload awaiting acknowledgement
type Message[T any] interface {
	T() *T

	// Ack marks the message processed
	Ack() error

	// Nack marks the message failed; the queue may redeliver it
	Nack(err error) error
}

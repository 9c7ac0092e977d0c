package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/viant/cpusched/internal/clock"
	"github.com/viant/cpusched/internal/idgen"
	"github.com/viant/cpusched/service/messaging"
)

// ErrAlreadyProcessed is returned when a message is acked or nacked twice.
var ErrAlreadyProcessed = errors.New("memory: message already processed")

// ErrFull is returned by TryPublish when the buffer has no room.
var ErrFull = errors.New("memory: queue is full")

// Config for memory queue implementation
type Config struct {
	// QueueBuffer is the channel capacity.
	QueueBuffer int `json:"queueBuffer" yaml:"queueBuffer"`
	// MaxRetries bounds redeliveries after Nack; exhausted messages go to the dead letter list.
	MaxRetries int `json:"maxRetries" yaml:"maxRetries"`
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{QueueBuffer: 1024, MaxRetries: 1}
}

// Message is a queued payload
type Message[T any] struct {
	ID        string
	CreatedAt time.Time
	Attempts  int
	LastError error
	payload   T
	queue     *Queue[T]
	mu        sync.Mutex
	processed bool
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack marks the message processed
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return ErrAlreadyProcessed
	}
	m.processed = true
	return nil
}

// Nack redelivers the message while attempts remain, otherwise moves it to
// the dead letter list. Redelivery never blocks: a full buffer dead-letters.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	if m.processed {
		m.mu.Unlock()
		return ErrAlreadyProcessed
	}
	m.processed = true
	m.LastError = err
	m.mu.Unlock()

	if m.Attempts <= m.queue.config.MaxRetries {
		retry := &Message[T]{ID: m.ID, CreatedAt: m.CreatedAt, Attempts: m.Attempts + 1, payload: m.payload, queue: m.queue}
		select {
		case m.queue.messages <- retry:
			return nil
		default:
		}
	}
	m.queue.deadLetter(m)
	return nil
}

// Queue is a bounded channel backed messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	dlqMu    sync.Mutex
	dlq      []*Message[T]
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

func (q *Queue[T]) newMessage(t *T) *Message[T] {
	return &Message[T]{ID: idgen.New(), CreatedAt: clock.Now(), Attempts: 1, payload: *t, queue: q}
}

// Publish enqueues a copy of t, blocking while the buffer is full
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.messages <- q.newMessage(t):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPublish enqueues a copy of t or returns ErrFull without blocking
func (q *Queue[T]) TryPublish(t *T) error {
	select {
	case q.messages <- q.newMessage(t):
		return nil
	default:
		return ErrFull
	}
}

// Consume waits for the next message
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the number of buffered messages
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

func (q *Queue[T]) deadLetter(m *Message[T]) {
	q.dlqMu.Lock()
	q.dlq = append(q.dlq, m)
	q.dlqMu.Unlock()
}

// DeadLetters returns the messages that exhausted their retries
func (q *Queue[T]) DeadLetters() []*Message[T] {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return append([]*Message[T]{}, q.dlq...)
}

var _ messaging.Queue[any] = (*Queue[any])(nil)

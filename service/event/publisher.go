package event

import (
	"context"
	"sync/atomic"

	"github.com/viant/cpusched/internal/clock"
	"github.com/viant/cpusched/service/messaging"
	"github.com/viant/cpusched/service/messaging/memory"
)

// Publisher sends typed events to a queue. A publisher owned by a Service
// keeps typed events only while a typed listener runs and forwards an
// untyped copy only while the Service has a listener.
type Publisher[T any] struct {
	queue    messaging.Queue[Event[T]]
	service  *Service
	listened atomic.Bool
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

// Publish stamps and enqueues event, blocking while a queue is full
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	event.CreatedAt = clock.Now()
	if p.forwards() {
		if err := p.service.publisher.queue.Publish(ctx, event.untyped()); err != nil {
			return err
		}
	}
	if !p.keeps() {
		return nil
	}
	return p.queue.Publish(ctx, event)
}

// TryPublish is Publish without blocking; a full queue fails with memory.ErrFull
func (p *Publisher[T]) TryPublish(event *Event[T]) error {
	event.CreatedAt = clock.Now()
	if p.forwards() {
		if err := p.service.publisher.queue.TryPublish(event.untyped()); err != nil {
			return err
		}
	}
	if !p.keeps() {
		return nil
	}
	return p.queue.TryPublish(event)
}

func (p *Publisher[T]) forwards() bool {
	return p.service != nil && p.service.observed.Load()
}

func (p *Publisher[T]) keeps() bool {
	return p.service == nil || p.listened.Load()
}

// Consume waits for the next event and acknowledges it
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}

// Observed reports whether a listener drains this publisher or the
// untyped stream of its Service.
func (p *Publisher[T]) Observed() bool {
	return p.listened.Load() || p.forwards()
}

// DeadLetters returns events whose handler kept failing
func (p *Publisher[T]) DeadLetters() []*Event[T] {
	queue, ok := p.queue.(*memory.Queue[Event[T]])
	if !ok {
		return nil
	}
	messages := queue.DeadLetters()
	ret := make([]*Event[T], 0, len(messages))
	for _, message := range messages {
		ret = append(ret, message.T())
	}
	return ret
}

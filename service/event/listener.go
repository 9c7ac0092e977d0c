package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Listener hands every consumed event to handler on its own goroutine. A
// handler panic nacks the message so the queue can redeliver it.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	logger    *slog.Logger
	cancel    context.CancelFunc
	done      sync.WaitGroup
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T]), logger *slog.Logger) *Listener[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener[T]{publisher: publisher, handler: handler, logger: logger}
}

// Start begins consuming until Stop is called or ctx is done
func (l *Listener[T]) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	l.done.Add(1)
	go func() {
		defer l.done.Done()
		for {
			msg, err := l.publisher.queue.Consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				l.logger.Error("failed to consume event", "error", err)
				continue
			}
			if msg == nil {
				continue
			}
			if err = l.handle(msg.T()); err != nil {
				l.logger.Warn("event handler failed", "error", err)
				err = msg.Nack(err)
			} else {
				err = msg.Ack()
			}
			if err != nil {
				l.logger.Error("failed to settle event", "error", err)
			}
		}
	}()
}

func (l *Listener[T]) handle(event *Event[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panic: %v", r)
		}
	}()
	l.handler(event)
	return nil
}

// Stop cancels consumption and waits for the goroutine to exit
func (l *Listener[T]) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	l.done.Wait()
	if dead := l.publisher.DeadLetters(); len(dead) > 0 {
		l.logger.Warn("events dead-lettered", "count", len(dead))
	}
}

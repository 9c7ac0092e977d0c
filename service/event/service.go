package event

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/viant/cpusched/service/messaging"
	"github.com/viant/cpusched/service/messaging/memory"
)

// Service owns one publisher per payload type plus a shared untyped one
type Service struct {
	publisher         *Publisher[any]
	listener          *Listener[any]
	typedPublishers   map[reflect.Type]any
	typedListeners    map[reflect.Type]func()
	mux               sync.RWMutex
	queueVendor       messaging.Vendor
	memNewQueueConfig func(name string) memory.Config
	logger            *slog.Logger
	observed          atomic.Bool
}

// SetListener replaces the listener observing every published event
func (s *Service) SetListener(ctx context.Context, handler func(*Event[any])) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[any](s.publisher, handler, s.logger)
	s.listener.Start(ctx)
	s.observed.Store(true)
}

// Publisher returns the shared untyped publisher
func (s *Service) Publisher() *Publisher[any] {
	return s.publisher
}

// Shutdown stops every listener
func (s *Service) Shutdown() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.observed.Store(false)
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
	for key, stop := range s.typedListeners {
		stop()
		delete(s.typedListeners, key)
	}
}

func New(queueVendor messaging.Vendor, opts ...Option) (*Service, error) {
	ret := &Service{
		queueVendor:     queueVendor,
		typedPublishers: make(map[reflect.Type]any),
		typedListeners:  make(map[reflect.Type]func()),
		logger:          slog.Default(),
		memNewQueueConfig: func(string) memory.Config {
			return memory.DefaultConfig()
		},
	}
	for _, opt := range opts {
		opt(ret)
	}
	queue, err := QueueOf[Event[any]](ret, "any")
	if err != nil {
		return nil, err
	}
	ret.publisher = NewPublisher[any](queue)
	return ret, nil
}

// QueueOf creates a queue for the configured vendor
func QueueOf[T any](s *Service, name string) (messaging.Queue[T], error) {
	switch s.queueVendor {
	case messaging.VendorMemory:
		return memory.NewQueue[T](s.memNewQueueConfig(name)), nil
	}
	return nil, fmt.Errorf("unsupported queue vendor: %s", s.queueVendor)
}

func keyOf[T any]() reflect.Type {
	var t T
	rType := reflect.TypeOf(t)
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

// SetListenerOf replaces the listener for payload type T
func SetListenerOf[T any](ctx context.Context, s *Service, handler func(*Event[T])) error {
	publisher, err := PublisherOf[T](s)
	if err != nil {
		return err
	}
	key := keyOf[T]()
	listener := NewListener[T](publisher, handler, s.logger)
	s.mux.Lock()
	defer s.mux.Unlock()
	if stop, ok := s.typedListeners[key]; ok {
		stop()
	}
	s.typedListeners[key] = func() {
		listener.Stop()
		publisher.listened.Store(false)
	}
	listener.Start(ctx)
	publisher.listened.Store(true)
	return nil
}

// PublisherOf returns the publisher for payload type T, creating it on first use
func PublisherOf[T any](s *Service) (*Publisher[T], error) {
	key := keyOf[T]()
	s.mux.RLock()
	ret, ok := s.typedPublishers[key]
	s.mux.RUnlock()
	if ok {
		return ret.(*Publisher[T]), nil
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok = s.typedPublishers[key]; ok {
		return ret.(*Publisher[T]), nil
	}
	queue, err := QueueOf[Event[T]](s, key.String())
	if err != nil {
		return nil, err
	}
	publisher := NewPublisher[T](queue)
	publisher.service = s
	s.typedPublishers[key] = publisher
	return publisher, nil
}

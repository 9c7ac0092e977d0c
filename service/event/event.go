package event

import (
	"time"

	"github.com/viant/cpusched/internal/clock"
)

// Context identifies where an event came from
type Context struct {
	SessionID string `json:"sessionId" yaml:"sessionId"`
	Algorithm string `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Tick      int    `json:"tick" yaml:"tick"`
	EventType string `json:"eventType" yaml:"eventType"`
}

// Event wraps a payload with its origin
type Event[T any] struct {
	Context   *Context  `json:"context" yaml:"context"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	Data      T         `json:"data" yaml:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Data:      data,
	}
}

func (e *Event[T]) untyped() *Event[any] {
	return &Event[any]{Context: e.Context, CreatedAt: e.CreatedAt, Data: e.Data}
}

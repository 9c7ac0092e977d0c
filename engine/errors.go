package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuantum is returned for a time quantum below one tick.
	ErrInvalidQuantum = errors.New("engine: time quantum must be >= 1")

	// ErrSessionStarted is returned when processes are submitted after the
	// simulation advanced past tick 0. Reset first.
	ErrSessionStarted = errors.New("engine: simulation already started")

	// ErrTickLimitExceeded is returned when RunToCompletion hits its safety cap.
	ErrTickLimitExceeded = errors.New("engine: tick limit exceeded")

	// ErrAborted is returned by every call after the engine stopped on an error.
	ErrAborted = errors.New("engine: simulation aborted")

	// ErrInvariantViolation is matched by every InvariantError.
	ErrInvariantViolation = errors.New("engine: invariant violated")
)

// InvariantError reports an internal consistency failure detected after a tick
type InvariantError struct {
	PID    int
	Tick   int
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("engine: invariant violated at tick %d (pid %d): %s", e.Tick, e.PID, e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}

package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIllegalTransition is returned when a process is moved along an edge the
// state machine does not define.
var ErrIllegalTransition = errors.New("illegal state transition")

// State represents the scheduling state of a process
type State int

const (
	StateNew State = iota
	StateReady
	StateRunning
	StateTerminated
)

var stateNames = [...]string{"NEW", "READY", "RUNNING", "TERMINATED"}

func (s State) String() string {
	if s < StateNew || s > StateTerminated {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText encodes the state by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name
func (s *State) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	for i, candidate := range stateNames {
		if candidate == name {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown process state %q", string(text))
}

// CanTransition reports whether NEW -> READY -> RUNNING -> READY|TERMINATED
// allows moving from s to next. TERMINATED is absorbing.
func (s State) CanTransition(next State) bool {
	switch s {
	case StateNew:
		return next == StateReady
	case StateReady:
		return next == StateRunning
	case StateRunning:
		return next == StateReady || next == StateTerminated
	}
	return false
}

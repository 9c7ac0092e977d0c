package idgen

import "github.com/google/uuid"

// NewFunc generates an identifier; override in tests.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier
func New() string { return NewFunc() }

// Valid reports whether id looks like an identifier issued by the default generator
func Valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

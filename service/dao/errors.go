package dao

import "errors"

var (
	// ErrNotFound is returned when no entity is stored under the requested id.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID is returned for an empty id.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity is returned when saving a nil pointer.
	ErrNilEntity = errors.New("dao: nil entity")
)

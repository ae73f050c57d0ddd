package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested key holds no value.
	ErrNotFound = errors.New("persistence: not found")
	// ErrInvalidKey is returned when a caller supplies an empty key.
	ErrInvalidKey = errors.New("persistence: invalid key")
)

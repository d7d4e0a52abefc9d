package session

import "errors"

// Session errors.
var (
	// ErrNotAssociative is returned when a value cannot act as a key/value
	// session store (nil, or a type with no associative shape).
	ErrNotAssociative = errors.New("session: store is not associative")

	// ErrNotFound is returned by Value when a key does not exist.
	ErrNotFound = errors.New("session: not found")

	// ErrTypeMismatch is returned when a stored value is not a string list
	// or not of the requested type.
	ErrTypeMismatch = errors.New("session: type mismatch")
)

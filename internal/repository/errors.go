package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrNoTransition is returned when a conditional update matched no
	// row: the entity is absent or no longer in the expected state.
	// Callers re-read the entity to classify the cause.
	ErrNoTransition = errors.New("entity not in expected state")
)

package store

import "errors"

var (
	// ErrEmptyUpdate is returned when a partial update carries no fields
	ErrEmptyUpdate = errors.New("no fields to update")
)

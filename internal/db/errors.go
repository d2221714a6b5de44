package db

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned when an optimistic write loses the
	// race: the record was modified between read and write.
	ErrVersionConflict = errors.New("record was modified concurrently")
)

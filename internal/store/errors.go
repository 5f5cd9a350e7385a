package store

import "errors"

var (
	// ErrNotFound marks operations referencing an unknown or archived task.
	ErrNotFound = errors.New("task not found")

	// ErrValidation marks task parameters rejected before any mutation.
	ErrValidation = errors.New("invalid task")

	// ErrConflict marks an attempt to start a second concurrent session.
	ErrConflict = errors.New("a session is already running")
)

package repository

import "errors"

// Sentinel kinds for event store errors.
var (
	ErrNotFound        = errors.New("event not found")
	ErrMissingIdentity = errors.New("event is missing source identity")
)

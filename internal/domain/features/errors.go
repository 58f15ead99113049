package features

import "errors"

var (
	// ErrAuthorization marks a 401/403 from the live catalog. Callers use it
	// to tell misconfigured credentials apart from transient upstream issues.
	ErrAuthorization = errors.New("audio catalog authorization failed")

	// ErrNotFound marks an artist or track the live catalog does not know.
	ErrNotFound = errors.New("artist not found in audio catalog")

	// ErrNotConfigured marks a provider running without a live source.
	ErrNotConfigured = errors.New("no live audio source configured")
)

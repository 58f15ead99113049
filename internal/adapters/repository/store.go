// Package repository defines the event store interface and errors.
package repository

import (
	"context"

	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
)

// Store provides read/write access to the event collection. Raw listing
// fields and enhancement-derived fields live on the same record; writes of
// derived fields are atomic per event.
type Store interface {
	// Upsert inserts a new event or refreshes the raw listing fields of an
	// existing one, preserving any derived fields already present.
	// Returns true when the event was newly created.
	Upsert(ctx context.Context, event model.Event) (bool, error)

	// Get returns the event with the given identity ("source:sourceID").
	// Returns ErrNotFound if the event is unknown.
	Get(ctx context.Context, id string) (model.Event, error)

	// ListPending returns up to limit events whose enhancement is absent or
	// stale, in deterministic ID order. limit <= 0 returns all of them.
	ListPending(ctx context.Context, limit int) ([]model.Event, error)

	// SaveEnhancement atomically writes the event's derived fields and
	// enhancement status. Returns ErrNotFound for an unknown event.
	SaveEnhancement(ctx context.Context, event model.Event) error

	// All returns every stored event in deterministic ID order.
	All(ctx context.Context) ([]model.Event, error)

	// Count returns the number of stored events.
	Count(ctx context.Context) int

	// CountEnhanced returns the number of events enhanced at the current
	// version.
	CountEnhanced(ctx context.Context) int
}

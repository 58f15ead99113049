// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"

	"github.com/Sonar-glitch/sonar-match/internal/domain/scoring"
)

// Store backend selectors.
const (
	StoreMemory    = "memory"
	StoreFirestore = "firestore"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory enhancement queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of enhancement workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the in-memory store.
	ShardCount int `koanf:"shard_count"`

	// BatchSize sets how many pending events one enhancement batch covers.
	BatchSize int `koanf:"batch_size"`

	// Store selects the event store backend: memory or firestore.
	Store string `koanf:"store"`

	// FirestoreProject is the GCP project for the firestore backend.
	FirestoreProject string `koanf:"firestore_project"`

	// SpotifyClientID and SpotifyClientSecret enable the live audio
	// analysis source. Empty credentials disable live lookups.
	SpotifyClientID     string `koanf:"spotify_client_id"`
	SpotifyClientSecret string `koanf:"spotify_client_secret"`

	// TicketmasterKey enables the discovery ingest source.
	TicketmasterKey string `koanf:"ticketmaster_key"`

	// ArtistSeedFile optionally extends the built-in artist roster with a
	// JSON file of additional entries.
	ArtistSeedFile string `koanf:"artist_seed_file"`

	// Weights configures the scoring factor weights.
	Weights scoring.Weights `koanf:"weights"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		EventQueueSize: 10_000,
		WorkerCount:    runtime.NumCPU() * 2,
		DedupeSize:     50_000,
		ShardCount:     8,
		BatchSize:      50,
		Store:          StoreMemory,
		Weights:        scoring.DefaultWeights(),
	}
	return c
}

package seedevents

import (
	"fmt"
	"io"
	"log"
	"os"
)

// SetupLogging directs log output to the configured file, falling back
// to stderr when no file is set. Returns a cleanup function.
func SetupLogging(config Config) (func(), error) {
	if config.LogFile == "" {
		return func() {}, nil
	}

	file, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", config.LogFile, err)
	}

	log.SetOutput(io.MultiWriter(os.Stderr, file))
	return func() {
		log.SetOutput(os.Stderr)
		file.Close()
	}, nil
}

// ShowHelp prints usage information for the seeding tool.
func ShowHelp() {
	fmt.Println(`Sonar Match event seeder

Generates synthetic EDM events, submits them to a running Sonar Match
instance, triggers batch enhancement and verifies the recommendation
ranking.

Usage:
  seed-events [flags]

Flags:
  -url string       Base URL of the service (default "http://localhost:9080")
  -events int       Number of events to generate (default 100)
  -noise float      Fraction of non-music noise listings (default 0.1)
  -user string      User ID to fetch recommendations for (default "seed-user")
  -top int          Number of recommendations to retrieve (default 20)
  -workers int      Concurrent workers for generation and submission (default 8)
  -timeout duration Per-request timeout (default 10s)
  -output string    Optional file to save generated events as JSON
  -log string       Optional log file (tees output)
  -verbose          Log every submission failure
  -help             Show this help

Examples:
  seed-events -events 500 -noise 0.2
  seed-events -url http://sonar.internal:9080 -user alice -top 10`)
}

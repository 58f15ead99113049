package seedevents

import "time"

// Config holds configuration for the seed run.
type Config struct {
	BaseURL       string        // Base URL of the service
	NumEvents     int           // Number of events to generate
	NoiseFraction float64       // Fraction of non-music noise listings (0..1)
	UserID        string        // User to fetch recommendations for
	TopN          int           // Number of recommendations to fetch
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	OutputFile    string        // Output file for events
	LogFile       string        // Log file for run output
	Verbose       bool          // Enable verbose logging
}

// Event is the wire shape submitted to POST /events.
type Event struct {
	Source      string   `json:"source"`
	SourceID    string   `json:"source_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	StartTime   string   `json:"start_time"`
	Venue       Venue    `json:"venue"`
	Artists     []string `json:"artists,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// Venue is the wire shape of an event's venue.
type Venue struct {
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

// Recommendation is one ranked entry from GET /recommendations.
type Recommendation struct {
	Rank       int    `json:"rank"`
	EventID    string `json:"event_id"`
	Name       string `json:"name"`
	Venue      string `json:"venue"`
	Score      int    `json:"score"`
	Confidence string `json:"confidence"`
}

// AckResponse represents the response from event submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// EnhanceSummary is the response of POST /enhance.
type EnhanceSummary struct {
	Processed int `json:"processed"`
	Enhanced  int `json:"enhanced"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// Stats holds run statistics.
type Stats struct {
	EventsGenerated  int
	NoiseGenerated   int
	EventsSubmitted  int
	EventsSuccessful int
	EventsDuplicate  int
	EventsFailed     int
	EventsEnhanced   int
	Recommendations  int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// CurrentEnhancementVersion identifies the derived-field schema produced by
// the enhancement pipeline. Bumping it invalidates completed enhancements,
// so the next batch run re-processes every event.
const CurrentEnhancementVersion = 1

// Enhancement status values.
const (
	EnhancementPending   = "pending"
	EnhancementCompleted = "completed"
)

// Event represents one occurrence of a music (or candidate-music) happening,
// as reported by a ticketing source plus the fields derived by the pipeline.
type Event struct {
	// Source identity: sources use their own local IDs, so events are
	// addressed by the source-qualified pair.
	Source   string `json:"source" firestore:"source"`
	SourceID string `json:"source_id" firestore:"sourceId"`

	Name        string    `json:"name" firestore:"name"`
	Description string    `json:"description,omitempty" firestore:"description"`
	StartTime   time.Time `json:"start_time" firestore:"startTime"`
	Venue       Venue     `json:"venue" firestore:"venue"`

	// Artists holds raw artist names exactly as reported; may be empty.
	Artists []string `json:"artists,omitempty" firestore:"artists"`
	// Genres holds raw genre tags; may be empty or contain sentinel values
	// like "Other" or "Undefined".
	Genres []string `json:"genres,omitempty" firestore:"genres"`

	TicketURL string `json:"ticket_url,omitempty" firestore:"ticketUrl"`
	ImageURL  string `json:"image_url,omitempty" firestore:"imageUrl"`

	// Derived fields, written only by the enhancement pipeline in a single
	// atomic update. Never populated by ingestion.
	ArtistMetadata []ArtistIdentity `json:"artist_metadata,omitempty" firestore:"artistMetadata"`
	EnhancedGenres []string         `json:"enhanced_genres,omitempty" firestore:"enhancedGenres"`
	Sound          *AudioFeatures   `json:"sound_characteristics,omitempty" firestore:"soundCharacteristics"`
	IsMusicEvent   bool             `json:"is_music_event" firestore:"isMusicEvent"`
	Enhancement    Enhancement      `json:"enhancement" firestore:"enhancement"`
}

// ID returns the source-qualified event identifier.
func (e *Event) ID() string {
	return e.Source + ":" + e.SourceID
}

// Enhanced reports whether the event carries completed derived fields for
// the current enhancement version.
func (e *Event) Enhanced() bool {
	return e.Enhancement.Status == EnhancementCompleted &&
		e.Enhancement.Version == CurrentEnhancementVersion
}

// SearchText concatenates the text fields the classifier inspects.
func (e *Event) SearchText() string {
	return strings.ToLower(e.Name + " " + e.Description + " " + e.Venue.Name)
}

// Venue describes where an event takes place. Location fields are optional;
// sources frequently omit them.
type Venue struct {
	Name    string  `json:"name" firestore:"name"`
	Address string  `json:"address,omitempty" firestore:"address"`
	City    string  `json:"city,omitempty" firestore:"city"`
	Region  string  `json:"region,omitempty" firestore:"region"`
	Country string  `json:"country,omitempty" firestore:"country"`
	Lat     float64 `json:"lat,omitempty" firestore:"lat"`
	Lon     float64 `json:"lon,omitempty" firestore:"lon"`
}

// Artist identity resolution source tags.
const (
	ResolutionExact           = "exact"
	ResolutionFuzzyPrefix     = "fuzzy:" // suffixed with the similarity score
	ResolutionTitleExtraction = "title_extraction"
)

// ArtistIdentity is a canonical resolved artist. Identities are resolved
// independently of any particular event and shared as read-mostly data.
type ArtistIdentity struct {
	// Name is the canonical catalog name when resolved, otherwise the
	// cleaned candidate string. An unresolved artist is still emitted with
	// Confidence 0 rather than dropped.
	Name       string   `json:"name" firestore:"name"`
	Genres     []string `json:"genres,omitempty" firestore:"genres"`
	CatalogID  string   `json:"catalog_id,omitempty" firestore:"catalogId"`
	Confidence float64  `json:"confidence" firestore:"confidence"`
	// Source is one of the resolution tags above.
	Source   string `json:"source" firestore:"source"`
	Verified bool   `json:"verified" firestore:"verified"`
}

// Audio feature provenance labels.
const (
	FeatureSourceLive     = "live_api"
	FeatureSourceCached   = "cached"
	FeatureSourceFallback = "genre_fallback"
	FeatureSourceEstimate = "metadata_estimate"
)

// AudioFeatures is a fixed-shape audio descriptor vector. Every field is
// always populated; the fallback tiers guarantee full-shape output even for
// artists with zero catalog presence.
type AudioFeatures struct {
	Energy           float64 `json:"energy" firestore:"energy"`
	Danceability     float64 `json:"danceability" firestore:"danceability"`
	Valence          float64 `json:"valence" firestore:"valence"`
	Tempo            float64 `json:"tempo" firestore:"tempo"` // BPM, not normalized
	Acousticness     float64 `json:"acousticness" firestore:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness" firestore:"instrumentalness"`
	Speechiness      float64 `json:"speechiness" firestore:"speechiness"`

	Confidence float64 `json:"confidence" firestore:"confidence"`
	Source     string  `json:"source" firestore:"source"`
}

// Enhancement tracks the lifecycle of derived fields on an event.
type Enhancement struct {
	Status      string    `json:"status" firestore:"status"`
	Version     int       `json:"version" firestore:"version"`
	LastUpdated time.Time `json:"last_updated" firestore:"lastUpdated"`
}

// NormalizeGenre lowercases and trims a raw genre tag. Sentinel values used
// by ticketing sources for "no genre" map to the empty string.
func NormalizeGenre(g string) string {
	g = strings.ToLower(strings.TrimSpace(g))
	switch g {
	case "other", "undefined", "unknown", "n/a":
		return ""
	}
	return g
}

// MergeGenres returns the deduplicated lowercase union of the given genre
// lists, preserving first-seen order and dropping sentinel values.
func MergeGenres(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, g := range list {
			n := NormalizeGenre(g)
			if n == "" {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

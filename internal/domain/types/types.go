// Package types contains common types used across the application
package types

// Confidence grades how much artist data backed a score.
type Confidence string

// Confidence grades, by resolved-artist coverage.
const (
	ConfidenceHigh    Confidence = "high"      // every artist resolved
	ConfidenceMedium  Confidence = "medium"    // some artists resolved
	ConfidenceLow     Confidence = "low"       // no artists resolved
	ConfidenceVeryLow Confidence = "very_low"  // no usable artist data at all
)

// Breakdown exposes the unweighted per-factor sub-scores behind a final
// score, so callers can explain why an event matched.
type Breakdown struct {
	GenreMatch      float64 `json:"genre_match"`
	ArtistMatch     float64 `json:"artist_match"`
	VenueQuality    float64 `json:"venue_quality"`
	EDMRelevance    float64 `json:"edm_relevance"`
	TemporalMatch   float64 `json:"temporal_match"`
	NegativePenalty float64 `json:"negative_penalty"`
	TrendAdjustment float64 `json:"trend_adjustment"`
	SeasonalMatch   float64 `json:"seasonal_match"`
	// NonMusicGate is set when the classifier short-circuited scoring.
	NonMusicGate bool `json:"non_music_gate,omitempty"`
}

// ScoreResult is the Scoring Engine output for one (event, user) pair.
type ScoreResult struct {
	Score      int        `json:"score"` // 0..99
	Confidence Confidence `json:"confidence"`
	Breakdown  Breakdown  `json:"breakdown"`
	// Cached reports whether the score came from the stability cache.
	Cached bool `json:"cached"`

	// Matched signals surfaced to the UI alongside the number.
	MatchedGenres  []string `json:"matched_genres,omitempty"`
	MatchedArtists []string `json:"matched_artists,omitempty"`
}

// Recommendation is one ranked entry returned by the recommendations query.
type Recommendation struct {
	Rank       int        `json:"rank"`
	EventID    string     `json:"event_id"`
	Name       string     `json:"name"`
	Venue      string     `json:"venue,omitempty"`
	Score      int        `json:"score"`
	Confidence Confidence `json:"confidence"`
	Breakdown  Breakdown  `json:"breakdown"`
}

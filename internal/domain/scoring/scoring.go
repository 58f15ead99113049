// Package scoring computes personalized relevance scores for events against
// a user's taste profile. Scores are integers in [0,99], cached per
// (event, user, profile snapshot) so repeated reads never flicker.
package scoring

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/Sonar-glitch/sonar-match/internal/domain/classify"
	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/internal/domain/profile"
	"github.com/Sonar-glitch/sonar-match/internal/domain/types"
	"github.com/Sonar-glitch/sonar-match/pkg/cache"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
	"github.com/Sonar-glitch/sonar-match/pkg/metrics"
)

// Score bounds. The ceiling is 99 on purpose: a perfect 100 would promise
// more certainty than the model has.
const (
	minScore = 0
	maxScore = 99

	nonMusicFloor = 5
	nonMusicBand  = 11 // scores 5 through 15
)

// Weights is the factor weighting scheme. One scheme is used everywhere;
// it is configuration, not per-request input.
type Weights struct {
	Genre    float64 `koanf:"genre"`
	Artist   float64 `koanf:"artist"`
	Venue    float64 `koanf:"venue"`
	EDM      float64 `koanf:"edm"`
	Temporal float64 `koanf:"temporal"`
	Negative float64 `koanf:"negative"`
	Trend    float64 `koanf:"trend"`
	Seasonal float64 `koanf:"seasonal"`
}

// DefaultWeights returns the reference weighting scheme.
func DefaultWeights() Weights {
	return Weights{
		Genre:    0.30,
		Artist:   0.20,
		Venue:    0.15,
		EDM:      0.10,
		Temporal: 0.15,
		Negative: 0.10,
		Trend:    0.05,
		Seasonal: 0.05,
	}
}

// Engine scores events against taste profiles. Safe for concurrent use.
type Engine struct {
	weights Weights
	cache   *cache.TTLCache[types.ScoreResult]
	now     func() time.Time
	logger  logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights overrides the default weighting scheme.
func WithWeights(w Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithCacheTTL bounds how long a cached score outlives its profile
// snapshot. The profile timestamp in the key already invalidates on
// recompute; the TTL just caps memory.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.cache = cache.New(cache.WithTTL[types.ScoreResult](ttl))
		}
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine with the default weighting scheme.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		weights: DefaultWeights(),
		cache:   cache.New(cache.WithTTL[types.ScoreResult](time.Hour)),
		now:     time.Now,
		logger:  logger.Get().Named("scoring"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes the relevance score of an event for a user profile.
// Non-music events short-circuit to a fixed low band before any factor
// work; identical (event, user, profile snapshot) triples always return
// the identical result.
func (e *Engine) Score(ctx context.Context, event model.Event, p profile.Profile) types.ScoreResult {
	if !isMusic(event) {
		return nonMusicResult(event)
	}

	key := cacheKey(event.ID(), p.UserID, p.LastUpdated)
	if cached, ok := e.cache.Get(ctx, key); ok {
		metrics.RecordScoreCacheHit()
		cached.Cached = true
		return cached
	}
	metrics.RecordScoreCacheMiss()

	start := e.now()
	result := e.compute(event, p)
	e.cache.Set(ctx, key, result)

	metrics.RecordScoreComputed()
	metrics.RecordScoreValue(result.Score)
	metrics.RecordScoringLatency(float64(e.now().Sub(start).Microseconds()) / 1000.0)

	e.logger.Debug(ctx, "scored event",
		logger.String("eventID", event.ID()),
		logger.String("userID", p.UserID),
		logger.Int("score", result.Score),
		logger.String("confidence", string(result.Confidence)),
	)
	return result
}

func (e *Engine) compute(event model.Event, p profile.Profile) types.ScoreResult {
	eventGenres := model.MergeGenres(event.Genres, event.EnhancedGenres)

	genreScore, matchedGenres := genreMatch(eventGenres, p.Genres)
	artistScore, matchedArtists := artistMatch(event, p.TopArtists)
	venueScore := venueQuality(event.Venue)
	edmScore := edmRelevance(event)
	temporalScore := temporalMatch(eventGenres, p.Temporal)
	penalty := negativePenalty(event, eventGenres, p.Negative)
	trend := trendAdjustment(eventGenres, p.Trends)
	seasonal := seasonalMatch(eventGenres, p.Seasonal, profile.SeasonOf(e.now()))

	w := e.weights
	raw := w.Genre*genreScore +
		w.Artist*artistScore +
		w.Venue*venueScore +
		w.EDM*edmScore +
		w.Temporal*temporalScore +
		w.Trend*trend +
		w.Seasonal*seasonal -
		w.Negative*penalty

	score := int(math.Round(clamp(raw, minScore, maxScore)))

	return types.ScoreResult{
		Score:      score,
		Confidence: confidenceFor(event),
		Breakdown: types.Breakdown{
			GenreMatch:      genreScore,
			ArtistMatch:     artistScore,
			VenueQuality:    venueScore,
			EDMRelevance:    edmScore,
			TemporalMatch:   temporalScore,
			NegativePenalty: penalty,
			TrendAdjustment: trend,
			SeasonalMatch:   seasonal,
		},
		MatchedGenres:  matchedGenres,
		MatchedArtists: matchedArtists,
	}
}

// isMusic trusts the stored classification once enhancement has completed.
// The flag is a zero-value false until the pipeline writes it, so events
// still pending are classified inline instead; reads arriving before the
// worker catches up must never land in the non-music band.
func isMusic(event model.Event) bool {
	if event.Enhanced() {
		return event.IsMusicEvent
	}
	return classify.IsMusicEvent(event)
}

// nonMusicResult places the event deterministically inside the low band,
// derived from the event identity so re-scoring never moves it.
func nonMusicResult(event model.Event) types.ScoreResult {
	h := fnv.New32a()
	_, _ = h.Write([]byte(event.ID()))
	score := nonMusicFloor + int(h.Sum32()%nonMusicBand)

	return types.ScoreResult{
		Score:      score,
		Confidence: types.ConfidenceVeryLow,
		Breakdown:  types.Breakdown{NonMusicGate: true},
	}
}

// confidenceFor grades the artist-resolution quality of the event, kept
// separate from the score itself.
func confidenceFor(event model.Event) types.Confidence {
	if len(event.ArtistMetadata) == 0 {
		return types.ConfidenceVeryLow
	}
	verified := 0
	for _, a := range event.ArtistMetadata {
		if a.Verified {
			verified++
		}
	}
	switch {
	case verified == len(event.ArtistMetadata):
		return types.ConfidenceHigh
	case verified > 0:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

func cacheKey(eventID, userID string, profileUpdated time.Time) string {
	return fmt.Sprintf("%s|%s|%d", eventID, userID, profileUpdated.UnixNano())
}

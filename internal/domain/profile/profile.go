// Package profile builds per-user taste profiles from streaming listening
// history. A profile is always recomputed wholesale and cached for a bounded
// window; scoring never sees a partial or nil profile.
package profile

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/pkg/cache"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
	"github.com/Sonar-glitch/sonar-match/pkg/metrics"
)

const defaultFreshness = 30 * time.Minute

// TimeWindow selects one of the three listening-history recency windows.
type TimeWindow string

const (
	WindowRecent   TimeWindow = "short_term"
	WindowMedium   TimeWindow = "medium_term"
	WindowLongTerm TimeWindow = "long_term"
)

// Artist is one entry of a user's top-artist list for a window.
type Artist struct {
	Name       string
	Genres     []string
	Popularity int // 0-100
}

// Window is the genre view of one recency window.
type Window struct {
	Genres  []string `json:"genres"`
	Artists []string `json:"artists"`
}

// Temporal groups the three recency windows.
type Temporal struct {
	Recent   Window `json:"recent"`
	Medium   Window `json:"medium"`
	LongTerm Window `json:"longTerm"`
}

// Trends are genre lists derived by set difference across the temporal
// windows.
type Trends struct {
	TrendingUp     []string `json:"trendingUp"`
	TrendingDown   []string `json:"trendingDown"`
	NewDiscoveries []string `json:"newDiscoveries"`
}

// NegativeSignals lists what the user has actively rejected. Lists are
// always non-nil so penalty math stays well-defined.
type NegativeSignals struct {
	RemovedTrackGenres      []string `json:"removedTrackGenres"`
	SkippedArtists          []string `json:"skippedArtists"`
	AbandonedPlaylistGenres []string `json:"abandonedPlaylistGenres"`
}

// Profile is the complete per-user taste aggregate fed into scoring.
type Profile struct {
	UserID      string              `json:"userId"`
	Genres      map[string]float64  `json:"genres"` // relative weights, sum 1
	TopArtists  []Artist            `json:"topArtists"`
	Temporal    Temporal            `json:"temporal"`
	Negative    NegativeSignals     `json:"negative"`
	Trends      Trends              `json:"trends"`
	Seasonal    map[Season][]string `json:"seasonal"`
	LastUpdated time.Time           `json:"lastUpdated"`
	Default     bool                `json:"default"`
}

// HistorySource provides a user's top artists for one recency window.
// An empty result with a nil error means the user has no history there.
type HistorySource interface {
	TopArtists(ctx context.Context, userID string, window TimeWindow) ([]Artist, error)
}

// NegativeSource provides rejection signals. Implementations may be absent;
// the aggregator then uses empty lists.
type NegativeSource interface {
	NegativeSignals(ctx context.Context, userID string) (NegativeSignals, error)
}

// Aggregator builds and caches taste profiles.
type Aggregator struct {
	history   HistorySource
	negatives NegativeSource
	cache     *cache.TTLCache[Profile]
	now       func() time.Time
	logger    logger.Logger
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithNegativeSource attaches a rejection-signal source.
func WithNegativeSource(src NegativeSource) Option {
	return func(a *Aggregator) { a.negatives = src }
}

// WithFreshness overrides the 30 minute profile cache window.
func WithFreshness(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.cache = cache.New(cache.WithTTL[Profile](d))
		}
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAggregator creates an Aggregator over a listening-history source.
func NewAggregator(history HistorySource, opts ...Option) *Aggregator {
	a := &Aggregator{
		history: history,
		cache:   cache.New(cache.WithTTL[Profile](defaultFreshness)),
		now:     time.Now,
		logger:  logger.Get().Named("profile"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildProfile returns the user's taste profile, recomputing it wholesale
// when the cached copy has expired. A user with no listening history gets
// the default EDM-leaning profile, never a nil or empty one.
func (a *Aggregator) BuildProfile(ctx context.Context, userID string) Profile {
	if cached, ok := a.cache.Get(ctx, userID); ok {
		metrics.RecordProfileCacheHit()
		return cached
	}

	p := a.compute(ctx, userID)
	a.cache.Set(ctx, userID, p)
	metrics.RecordProfileBuild()
	return p
}

// Invalidate drops a user's cached profile so the next build recomputes.
func (a *Aggregator) Invalidate(ctx context.Context, userID string) {
	a.cache.Delete(ctx, userID)
}

func (a *Aggregator) compute(ctx context.Context, userID string) Profile {
	recent := a.fetchWindow(ctx, userID, WindowRecent)
	medium := a.fetchWindow(ctx, userID, WindowMedium)
	longTerm := a.fetchWindow(ctx, userID, WindowLongTerm)

	if len(recent) == 0 && len(medium) == 0 && len(longTerm) == 0 {
		a.logger.Info(ctx, "no listening history, serving default profile",
			logger.String("userID", userID))
		return a.DefaultProfile(userID)
	}

	p := Profile{
		UserID: userID,
		Temporal: Temporal{
			Recent:   toWindow(recent),
			Medium:   toWindow(medium),
			LongTerm: toWindow(longTerm),
		},
		Negative:    a.fetchNegatives(ctx, userID),
		Seasonal:    defaultSeasonal(),
		LastUpdated: a.now(),
	}

	p.Genres = genreWeights(recent, medium, longTerm)
	p.TopArtists = mergeArtists(recent, medium, longTerm)
	p.Trends = Trends{
		TrendingUp:     difference(p.Temporal.Recent.Genres, p.Temporal.LongTerm.Genres),
		TrendingDown:   difference(p.Temporal.LongTerm.Genres, p.Temporal.Recent.Genres),
		NewDiscoveries: difference(p.Temporal.Recent.Genres, p.Temporal.Medium.Genres),
	}
	return p
}

func (a *Aggregator) fetchWindow(ctx context.Context, userID string, window TimeWindow) []Artist {
	if a.history == nil {
		return nil
	}
	artists, err := a.history.TopArtists(ctx, userID, window)
	if err != nil {
		a.logger.Warn(ctx, "listening history window unavailable",
			logger.String("userID", userID),
			logger.String("window", string(window)),
			logger.Error(err))
		return nil
	}
	return artists
}

func (a *Aggregator) fetchNegatives(ctx context.Context, userID string) NegativeSignals {
	empty := NegativeSignals{
		RemovedTrackGenres:      []string{},
		SkippedArtists:          []string{},
		AbandonedPlaylistGenres: []string{},
	}
	if a.negatives == nil {
		return empty
	}
	signals, err := a.negatives.NegativeSignals(ctx, userID)
	if err != nil {
		a.logger.Warn(ctx, "negative signals unavailable, using empty lists",
			logger.String("userID", userID), logger.Error(err))
		return empty
	}
	if signals.RemovedTrackGenres == nil {
		signals.RemovedTrackGenres = []string{}
	}
	if signals.SkippedArtists == nil {
		signals.SkippedArtists = []string{}
	}
	if signals.AbandonedPlaylistGenres == nil {
		signals.AbandonedPlaylistGenres = []string{}
	}
	return signals
}

// DefaultProfile is the documented EDM-leaning profile served to new or
// unauthenticated users.
func (a *Aggregator) DefaultProfile(userID string) Profile {
	genres := []string{"edm", "house", "techno", "dance", "electronic"}
	weights := make(map[string]float64, len(genres))
	for _, g := range genres {
		weights[g] = 1.0 / float64(len(genres))
	}
	window := Window{Genres: append([]string(nil), genres...), Artists: []string{}}
	return Profile{
		UserID:     userID,
		Genres:     weights,
		TopArtists: []Artist{},
		Temporal:   Temporal{Recent: window, Medium: window, LongTerm: window},
		Negative: NegativeSignals{
			RemovedTrackGenres:      []string{},
			SkippedArtists:          []string{},
			AbandonedPlaylistGenres: []string{},
		},
		Trends: Trends{
			TrendingUp:     []string{},
			TrendingDown:   []string{},
			NewDiscoveries: []string{},
		},
		Seasonal:    defaultSeasonal(),
		LastUpdated: a.now(),
		Default:     true,
	}
}

// toWindow collapses a window's artist list to its genre and name sets.
func toWindow(artists []Artist) Window {
	w := Window{Genres: []string{}, Artists: []string{}}
	seen := make(map[string]bool)
	for _, artist := range artists {
		w.Artists = append(w.Artists, artist.Name)
		for _, genre := range artist.Genres {
			g := model.NormalizeGenre(genre)
			if g == "" || seen[g] {
				continue
			}
			seen[g] = true
			w.Genres = append(w.Genres, g)
		}
	}
	return w
}

// genreWeights counts genre occurrences across all windows and normalizes
// them to relative weights summing to 1.
func genreWeights(windows ...[]Artist) map[string]float64 {
	counts := make(map[string]int)
	total := 0
	for _, artists := range windows {
		for _, artist := range artists {
			for _, genre := range artist.Genres {
				g := model.NormalizeGenre(genre)
				if g == "" {
					continue
				}
				counts[g]++
				total++
			}
		}
	}
	weights := make(map[string]float64, len(counts))
	for g, n := range counts {
		weights[g] = float64(n) / float64(total)
	}
	return weights
}

// mergeArtists unions the windows' artists, first occurrence wins, sorted by
// popularity so scoring walks the strongest signals first.
func mergeArtists(windows ...[]Artist) []Artist {
	var merged []Artist
	seen := make(map[string]bool)
	for _, artists := range windows {
		for _, artist := range artists {
			key := strings.ToLower(artist.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, artist)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Popularity > merged[j].Popularity
	})
	return merged
}

// difference returns members of a that are absent from b, preserving a's
// order.
func difference(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, g := range b {
		inB[g] = true
	}
	out := []string{}
	for _, g := range a {
		if !inB[g] {
			out = append(out, g)
		}
	}
	return out
}

// Package features produces audio-feature vectors for artists. It layers a
// live catalog lookup behind an in-memory cache and degrades through a
// genre-keyed default table down to a fixed unknown vector, so callers
// always get a full-shape result.
package features

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/pkg/cache"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
	"github.com/Sonar-glitch/sonar-match/pkg/metrics"
)

const (
	defaultCacheTTL    = 24 * time.Hour
	defaultMinSpacing  = 200 * time.Millisecond
	liveConfidence     = 0.85
	liveFlagshipBonus  = 0.05 // curated flagship track, slightly more trustworthy
	liveRequestTimeout = 10 * time.Second
)

// LiveSource fetches real audio features from an external catalog. The
// preferred track, when non-empty, names the curated flagship track to
// analyze instead of the catalog's first listed one.
type LiveSource interface {
	TrackFeatures(ctx context.Context, artistName, preferredTrack string) (model.AudioFeatures, error)
}

// Stats is a point-in-time snapshot of the provider's counters.
type Stats struct {
	TotalRequests int64     `json:"totalRequests"`
	CacheHits     int64     `json:"cacheHits"`
	LiveSuccesses int64     `json:"liveSuccesses"`
	FallbackUses  int64     `json:"fallbackUses"`
	AuthErrors    int64     `json:"authErrors"`
	LastError     string    `json:"lastError,omitempty"`
	LastErrorAt   time.Time `json:"lastErrorAt,omitempty"`
	AuthDisabled  bool      `json:"authDisabled"`
}

// Provider resolves audio-feature vectors with caching, rate limiting and
// graceful degradation. Safe for concurrent use.
type Provider struct {
	live    LiveSource
	cache   *cache.TTLCache[model.AudioFeatures]
	limiter *rate.Limiter
	logger  logger.Logger

	mu           sync.Mutex
	stats        Stats
	authDisabled bool
}

// Option applies a configuration option to the Provider.
type Option func(*Provider)

// WithLiveSource attaches a live catalog. Without one the provider serves
// fallbacks only.
func WithLiveSource(src LiveSource) Option {
	return func(p *Provider) { p.live = src }
}

// WithCacheTTL overrides the 24h cache expiry.
func WithCacheTTL(ttl time.Duration) Option {
	return func(p *Provider) {
		if ttl > 0 {
			p.cache = cache.New(cache.WithTTL[model.AudioFeatures](ttl))
		}
	}
}

// WithMinSpacing overrides the minimum gap between live catalog calls.
func WithMinSpacing(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProvider creates a Provider. All options are optional; the zero
// configuration serves cache plus fallbacks.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		cache:   cache.New(cache.WithTTL[model.AudioFeatures](defaultCacheTTL)),
		limiter: rate.NewLimiter(rate.Every(defaultMinSpacing), 1),
		logger:  logger.Get().Named("features"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetFeatures returns a full-shape feature vector for the artist. It never
// returns an error: every failure path degrades to a lower-confidence
// vector instead.
func (p *Provider) GetFeatures(ctx context.Context, artistName string, genres []string) model.AudioFeatures {
	metrics.RecordFeatureRequest()
	p.mu.Lock()
	p.stats.TotalRequests++
	p.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(artistName))
	if key != "" {
		if cached, ok := p.cache.Get(ctx, key); ok {
			p.mu.Lock()
			p.stats.CacheHits++
			p.mu.Unlock()
			metrics.RecordFeatureOutcome(model.FeatureSourceCached)
			cached.Source = model.FeatureSourceCached
			return cached
		}
	}

	if key != "" && p.live != nil && !p.authBlocked() {
		v, err := p.fetchLive(ctx, artistName)
		if err == nil {
			p.cache.Set(ctx, key, v)
			p.mu.Lock()
			p.stats.LiveSuccesses++
			p.mu.Unlock()
			metrics.RecordFeatureOutcome(model.FeatureSourceLive)
			return v
		}
		p.recordLiveError(ctx, artistName, err)
	}

	p.mu.Lock()
	p.stats.FallbackUses++
	p.mu.Unlock()

	if v, ok := genreFallback(genres); ok {
		metrics.RecordFeatureOutcome(model.FeatureSourceFallback)
		return v
	}

	metrics.RecordFeatureOutcome(model.FeatureSourceEstimate)
	v := unknownDefault
	v.Source = model.FeatureSourceEstimate
	return v
}

// fetchLive performs one rate-limited live lookup.
func (p *Provider) fetchLive(ctx context.Context, artistName string) (model.AudioFeatures, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return model.AudioFeatures{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, liveRequestTimeout)
	defer cancel()

	preferred := FlagshipTrack(artistName)
	v, err := p.live.TrackFeatures(ctx, artistName, preferred)
	if err != nil {
		return model.AudioFeatures{}, err
	}

	v.Source = model.FeatureSourceLive
	v.Confidence = liveConfidence
	if preferred != "" {
		v.Confidence += liveFlagshipBonus
	}
	return v, nil
}

func (p *Provider) recordLiveError(ctx context.Context, artistName string, err error) {
	p.mu.Lock()
	p.stats.LastError = err.Error()
	p.stats.LastErrorAt = time.Now()
	if errors.Is(err, ErrAuthorization) {
		p.stats.AuthErrors++
		p.authDisabled = true
		p.stats.AuthDisabled = true
	}
	p.mu.Unlock()

	if errors.Is(err, ErrAuthorization) {
		metrics.RecordFeatureAuthError()
		p.logger.Error(ctx, "audio catalog credentials rejected, disabling live lookups",
			logger.Error(err))
		return
	}
	p.logger.Warn(ctx, "live feature lookup failed, using fallback",
		logger.String("artist", artistName),
		logger.Error(err))
}

func (p *Provider) authBlocked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.authDisabled
}

// Stats returns a snapshot of the running counters.
func (p *Provider) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Package enhance derives classification, artist identities, genres and
// sound characteristics for raw events, and drives those derivations over
// the whole collection in batches.
package enhance

import (
	"context"
	"time"

	"github.com/Sonar-glitch/sonar-match/internal/domain/classify"
	"github.com/Sonar-glitch/sonar-match/internal/domain/features"
	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/internal/domain/resolver"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
	"github.com/Sonar-glitch/sonar-match/pkg/metrics"
)

// Enhancer runs the per-event derivation pipeline. Steps are strictly
// sequential within one event: classify, resolve artists, fetch features,
// aggregate. Derived fields land on the returned copy; callers persist.
type Enhancer struct {
	resolver *resolver.Resolver
	features *features.Provider
	logger   logger.Logger
	now      func() time.Time
}

// EnhancerOption applies a configuration option to the Enhancer.
type EnhancerOption func(*Enhancer)

// WithEnhancerLogger sets a custom logger.
func WithEnhancerLogger(l logger.Logger) EnhancerOption {
	return func(e *Enhancer) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithEnhancerClock overrides the wall clock, for tests.
func WithEnhancerClock(now func() time.Time) EnhancerOption {
	return func(e *Enhancer) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEnhancer creates an Enhancer over a resolver and a feature provider.
func NewEnhancer(r *resolver.Resolver, f *features.Provider, opts ...EnhancerOption) *Enhancer {
	e := &Enhancer{
		resolver: r,
		features: f,
		logger:   logger.Get().Named("enhancer"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enhance derives all enhancement fields for one event. Non-music events
// are gated out before any catalog work: their derived block records the
// decision and nothing else, which keeps external call volume proportional
// to real music listings.
func (e *Enhancer) Enhance(ctx context.Context, event model.Event) (model.Event, error) {
	start := e.now()
	defer func() {
		metrics.RecordEnhancementLatency(float64(e.now().Sub(start).Microseconds()) / 1000.0)
	}()

	decision := classify.Classify(event)
	event.IsMusicEvent = decision.IsMusic
	event.Enhancement = model.Enhancement{
		Status:      model.EnhancementCompleted,
		Version:     model.CurrentEnhancementVersion,
		LastUpdated: e.now(),
	}

	if !decision.IsMusic {
		event.ArtistMetadata = nil
		event.EnhancedGenres = nil
		event.Sound = nil
		metrics.RecordEventSkipped()
		return event, nil
	}

	event.ArtistMetadata = e.resolveArtists(ctx, event)
	event.EnhancedGenres = enhancedGenres(event)
	event.Sound = e.aggregateSound(ctx, event)

	metrics.RecordEventEnhanced()
	return event, nil
}

// resolveArtists resolves the billed artist names, falling back to the
// event title when the feed listed no artists at all.
func (e *Enhancer) resolveArtists(ctx context.Context, event model.Event) []model.ArtistIdentity {
	if len(event.Artists) == 0 {
		return e.resolver.Resolve(ctx, event.Name)
	}

	var identities []model.ArtistIdentity
	for _, name := range event.Artists {
		identities = append(identities, e.resolver.Resolve(ctx, name)...)
	}
	return identities
}

// enhancedGenres merges the feed's raw tags with every resolved artist's
// genre set.
func enhancedGenres(event model.Event) []string {
	lists := [][]string{event.Genres}
	for _, identity := range event.ArtistMetadata {
		lists = append(lists, identity.Genres)
	}
	return model.MergeGenres(lists...)
}

// aggregateSound fetches a feature vector per resolved artist and blends
// them, weighting each artist's contribution by its vector's confidence.
func (e *Enhancer) aggregateSound(ctx context.Context, event model.Event) *model.AudioFeatures {
	var vectors []model.AudioFeatures
	for _, identity := range event.ArtistMetadata {
		if identity.Name == "" {
			continue
		}
		genres := identity.Genres
		if len(genres) == 0 {
			genres = event.EnhancedGenres
		}
		vectors = append(vectors, e.features.GetFeatures(ctx, identity.Name, genres))
	}
	if len(vectors) == 0 {
		v := e.features.GetFeatures(ctx, "", event.EnhancedGenres)
		return &v
	}

	blended := blend(vectors)
	return &blended
}

// blend averages feature vectors weighted by confidence. The blended source
// is the source of the most trustworthy contributor.
func blend(vectors []model.AudioFeatures) model.AudioFeatures {
	if len(vectors) == 1 {
		return vectors[0]
	}

	var out model.AudioFeatures
	totalWeight := 0.0
	best := vectors[0]
	for _, v := range vectors {
		w := v.Confidence
		if w <= 0 {
			w = 0.01
		}
		out.Energy += v.Energy * w
		out.Danceability += v.Danceability * w
		out.Valence += v.Valence * w
		out.Tempo += v.Tempo * w
		out.Acousticness += v.Acousticness * w
		out.Instrumentalness += v.Instrumentalness * w
		out.Speechiness += v.Speechiness * w
		out.Confidence += v.Confidence
		totalWeight += w
		if v.Confidence > best.Confidence {
			best = v
		}
	}

	out.Energy /= totalWeight
	out.Danceability /= totalWeight
	out.Valence /= totalWeight
	out.Tempo /= totalWeight
	out.Acousticness /= totalWeight
	out.Instrumentalness /= totalWeight
	out.Speechiness /= totalWeight
	out.Confidence /= float64(len(vectors))
	out.Source = best.Source
	return out
}

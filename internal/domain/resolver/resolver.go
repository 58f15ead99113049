// Package resolver turns raw artist names and event titles into canonical
// artist identities with genre sets, using exact then fuzzy matching against
// a known-artist catalog.
package resolver

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
	"github.com/Sonar-glitch/sonar-match/pkg/metrics"
)

// Default resolution thresholds.
const (
	defaultSimilarityFloor = 0.6
	defaultVerifyThreshold = 0.8
	maxFuzzyCandidates     = 3
)

// Artist is a canonical catalog entry. OriginalName carries an alternate
// billing (birth name, previous alias) that exact matching also accepts.
type Artist struct {
	Name         string
	OriginalName string
	Genres       []string
	CatalogID    string
}

// Catalog provides read access to the canonical artist reference data.
// Implementations must treat lookups as case-insensitive on the normalized
// name.
type Catalog interface {
	// Lookup returns the artist whose primary or original name matches
	// exactly (after normalization).
	Lookup(ctx context.Context, name string) (Artist, bool)

	// All returns every catalog entry, used for the fuzzy scan.
	All(ctx context.Context) []Artist
}

// Resolver resolves free-text artist references against a Catalog. It is
// pure read: callers decide whether to persist results.
type Resolver struct {
	catalog         Catalog
	similarityFloor float64
	verifyThreshold float64
	logger          logger.Logger
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithSimilarityFloor sets the minimum similarity for a fuzzy candidate.
func WithSimilarityFloor(floor float64) Option {
	return func(r *Resolver) {
		if floor > 0 && floor < 1 {
			r.similarityFloor = floor
		}
	}
}

// WithVerifyThreshold sets the similarity above which a fuzzy match is
// accepted as verified.
func WithVerifyThreshold(threshold float64) Option {
	return func(r *Resolver) {
		if threshold > 0 && threshold <= 1 {
			r.verifyThreshold = threshold
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver backed by the given catalog.
func New(catalog Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:         catalog,
		similarityFloor: defaultSimilarityFloor,
		verifyThreshold: defaultVerifyThreshold,
		logger:          logger.Get().Named("resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Trailing decorations that are not part of an artist name. Applied
// repeatedly until the title stops changing, so "Festival Tour 2025" falls
// away in two passes.
var suffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\s+(19|20)\d{2}\s*$`),
	regexp.MustCompile(`(?i)\s*[-–—:]\s+[^-–—:]*\btour\s*$`),
	regexp.MustCompile(`(?i)\s+(festival\s+|world\s+)?tour\s*$`),
	regexp.MustCompile(`(?i)\s+live!?\s*$`),
	regexp.MustCompile(`(?i)\s+presents\b.*$`),
}

// Separator patterns between multiple artists in one title. Only the first
// kind that matches is applied; we never split on all of them at once
// because "A & B vs. C" style titles are rare and ambiguous.
var separatorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+feat\.?\s+`),
	regexp.MustCompile(`(?i)\s+ft\.?\s+`),
	regexp.MustCompile(`(?i)\s+vs\.?\s+`),
	regexp.MustCompile(`(?i)\s+with\s+`),
	regexp.MustCompile(`(?i)\s+and\s+`),
	regexp.MustCompile(`\s*&\s*`),
	regexp.MustCompile(`\s+\+\s+`),
	regexp.MustCompile(`(?i)\s+x\s+`),
}

// Resolve maps a raw artist name or event title to artist identities.
// Unmatched candidates are still emitted as unverified identities with an
// empty genre set; an artist is never dropped silently.
func (r *Resolver) Resolve(ctx context.Context, raw string) []model.ArtistIdentity {
	cleaned := StripTitleSuffixes(raw)
	candidates := SplitArtists(cleaned)

	identities := make([]model.ArtistIdentity, 0, len(candidates))
	for _, candidate := range candidates {
		identities = append(identities, r.resolveOne(ctx, candidate))
	}
	return identities
}

func (r *Resolver) resolveOne(ctx context.Context, candidate string) model.ArtistIdentity {
	normalized := Normalize(candidate)
	if normalized == "" {
		metrics.RecordResolverMatch("unresolved")
		return unresolved(candidate)
	}

	if artist, ok := r.catalog.Lookup(ctx, normalized); ok {
		metrics.RecordResolverMatch("exact")
		return model.ArtistIdentity{
			Name:       artist.Name,
			Genres:     model.MergeGenres(artist.Genres),
			CatalogID:  artist.CatalogID,
			Confidence: 1.0,
			Source:     model.ResolutionExact,
			Verified:   true,
		}
	}

	best, score := r.bestFuzzyMatch(ctx, normalized)
	if score >= r.verifyThreshold {
		metrics.RecordResolverMatch("fuzzy")
		r.logger.Debug(ctx, "fuzzy-resolved artist",
			logger.String("candidate", candidate),
			logger.String("matched", best.Name),
			logger.Float64("similarity", score),
		)
		return model.ArtistIdentity{
			Name:       best.Name,
			Genres:     model.MergeGenres(best.Genres),
			CatalogID:  best.CatalogID,
			Confidence: score,
			Source:     fmt.Sprintf("%s%.2f", model.ResolutionFuzzyPrefix, score),
			Verified:   true,
		}
	}

	metrics.RecordResolverMatch("unresolved")
	return unresolved(candidate)
}

// bestFuzzyMatch scans the catalog and returns the strongest candidate above
// the similarity floor, or a zero Artist when nothing clears it. The top
// candidates are ranked so ties resolve deterministically by name.
func (r *Resolver) bestFuzzyMatch(ctx context.Context, normalized string) (Artist, float64) {
	type scored struct {
		artist Artist
		score  float64
	}
	var matches []scored
	for _, artist := range r.catalog.All(ctx) {
		s := Similarity(normalized, Normalize(artist.Name))
		if alt := Normalize(artist.OriginalName); alt != "" {
			if altScore := Similarity(normalized, alt); altScore > s {
				s = altScore
			}
		}
		if s >= r.similarityFloor {
			matches = append(matches, scored{artist: artist, score: s})
		}
	}
	if len(matches) == 0 {
		return Artist{}, 0
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].artist.Name < matches[j].artist.Name
	})
	if len(matches) > maxFuzzyCandidates {
		matches = matches[:maxFuzzyCandidates]
	}
	return matches[0].artist, matches[0].score
}

func unresolved(candidate string) model.ArtistIdentity {
	return model.ArtistIdentity{
		Name:       strings.TrimSpace(candidate),
		Confidence: 0,
		Source:     model.ResolutionTitleExtraction,
	}
}

// StripTitleSuffixes removes trailing tour/live/year decorations from an
// event title, repeatedly, until no pattern applies.
func StripTitleSuffixes(title string) string {
	cleaned := strings.TrimSpace(title)
	for {
		next := cleaned
		for _, p := range suffixPatterns {
			next = strings.TrimSpace(p.ReplaceAllString(next, ""))
		}
		if next == cleaned {
			return cleaned
		}
		cleaned = next
	}
}

// SplitArtists splits a cleaned title into artist candidates on the first
// separator pattern that matches. A title with no separators is one
// candidate.
func SplitArtists(cleaned string) []string {
	for _, p := range separatorPatterns {
		if !p.MatchString(cleaned) {
			continue
		}
		parts := p.Split(cleaned, -1)
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	if cleaned == "" {
		return nil
	}
	return []string{cleaned}
}

// Normalize lowercases, strips punctuation and collapses whitespace so
// catalog lookups are insensitive to styling.
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteRune(' ')
		default:
			// Punctuation becomes a space so "A$AP" and "A AP" collide,
			// then the collapse below removes duplicates.
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

package scoring

import (
	"strings"

	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/internal/domain/profile"
)

// Genre matching constants. Overlap is rewarded additively per matching
// pair and only clamped at the end, so several overlapping tags beat one.
const (
	genreBaseScore    = 30.0
	genreExactBonus   = 25.0
	genrePartialBonus = 15.0
)

// Artist matching constants.
const (
	artistBaseScore   = 30.0
	artistMatchWeight = 40.0
)

// Venue scoring constants.
const (
	venueDefaultScore = 60.0
	venueClubScore    = 65.0
	venueHallScore    = 70.0
	venueArenaScore   = 75.0
)

// Trend and penalty bounds.
const (
	trendUpBonus     = 25.0
	trendDownPenalty = 20.0
	trendFloor       = -30.0
	trendCeil        = 50.0

	penaltyRemovedTrack      = 50.0
	penaltySkippedArtist     = 25.0
	penaltyAbandonedPlaylist = 15.0
	penaltyCap               = 75.0

	seasonalMatchBonus = 50.0

	edmKeywordBonus = 15.0
)

// curatedVenues maps known premium electronic-music venues to fixed
// quality scores. Matching is case-insensitive substring.
var curatedVenues = map[string]float64{
	"berghain":          95,
	"fabric":            90,
	"printworks":        90,
	"warehouse project": 88,
	"ministry of sound": 85,
	"rex club":          85,
	"output":            85,
	"stereo montreal":   85,
	"coda":              80,
	"exchange la":       80,
}

var edmKeywords = []string{
	"edm", "electronic", "dance", "dj", "house", "techno", "trance",
	"festival", "rave", "club", "bass", "underground",
}

// genreMatch scores genre overlap between the event and the user. Every
// (event genre, user genre) pair contributes independently: equality earns
// the exact bonus, substring overlap either way the partial bonus. One
// event genre can therefore collect an exact match plus partial matches
// against the user's other genres before the final clamp.
func genreMatch(eventGenres []string, userGenres map[string]float64) (float64, []string) {
	score := genreBaseScore
	var matched []string
	for _, eg := range eventGenres {
		hit := false
		for ug := range userGenres {
			switch {
			case eg == ug:
				score += genreExactBonus
				hit = true
			case strings.Contains(eg, ug) || strings.Contains(ug, eg):
				score += genrePartialBonus
				hit = true
			}
		}
		if hit {
			matched = append(matched, eg)
		}
	}
	return clamp(score, 0, 100), matched
}

// artistMatch rewards the user's known top artists appearing in the
// event's billing, scaled by artist popularity.
func artistMatch(event model.Event, topArtists []profile.Artist) (float64, []string) {
	billing := strings.ToLower(event.Name + " " + strings.Join(event.Artists, " "))
	score := artistBaseScore
	var matched []string
	for _, artist := range topArtists {
		name := strings.ToLower(artist.Name)
		if name == "" || !strings.Contains(billing, name) {
			continue
		}
		score += artistMatchWeight * float64(artist.Popularity) / 100.0
		matched = append(matched, artist.Name)
	}
	return clamp(score, 0, 100), matched
}

// venueQuality looks the venue up in the curated table first, then falls
// back to keyword heuristics, then a flat default.
func venueQuality(venue model.Venue) float64 {
	name := strings.ToLower(venue.Name)
	if name == "" {
		return venueDefaultScore
	}
	for known, score := range curatedVenues {
		if strings.Contains(name, known) {
			return score
		}
	}
	switch {
	case strings.Contains(name, "arena"), strings.Contains(name, "stadium"):
		return venueArenaScore
	case strings.Contains(name, "hall"), strings.Contains(name, "theatre"), strings.Contains(name, "theater"):
		return venueHallScore
	case strings.Contains(name, "club"):
		return venueClubScore
	default:
		return venueDefaultScore
	}
}

// edmRelevance is a coarse keyword score over the event's text, independent
// of the user.
func edmRelevance(event model.Event) float64 {
	text := event.SearchText()
	score := 0.0
	for _, kw := range edmKeywords {
		if strings.Contains(text, kw) {
			score += edmKeywordBonus
		}
	}
	return clamp(score, 0, 100)
}

// temporalMatch blends overlap against the three recency windows with
// fixed sub-weights favoring recent listening.
func temporalMatch(eventGenres []string, temporal profile.Temporal) float64 {
	const (
		recentWeight   = 0.6
		mediumWeight   = 0.3
		longTermWeight = 0.1
	)
	return recentWeight*overlapRatio(eventGenres, temporal.Recent.Genres)*100 +
		mediumWeight*overlapRatio(eventGenres, temporal.Medium.Genres)*100 +
		longTermWeight*overlapRatio(eventGenres, temporal.LongTerm.Genres)*100
}

// overlapRatio is the fraction of event genres present in the window set.
func overlapRatio(eventGenres, windowGenres []string) float64 {
	if len(eventGenres) == 0 || len(windowGenres) == 0 {
		return 0
	}
	in := make(map[string]bool, len(windowGenres))
	for _, g := range windowGenres {
		in[g] = true
	}
	hits := 0
	for _, g := range eventGenres {
		if in[g] {
			hits++
		}
	}
	return float64(hits) / float64(len(eventGenres))
}

// negativePenalty sums rejection-signal overlap, capped so a bad history
// cannot zero out an otherwise strong match.
func negativePenalty(event model.Event, eventGenres []string, negative profile.NegativeSignals) float64 {
	penalty := 0.0
	penalty += penaltyRemovedTrack * float64(countOverlap(eventGenres, negative.RemovedTrackGenres))
	penalty += penaltyAbandonedPlaylist * float64(countOverlap(eventGenres, negative.AbandonedPlaylistGenres))

	billing := strings.ToLower(event.Name + " " + strings.Join(event.Artists, " "))
	for _, skipped := range negative.SkippedArtists {
		s := strings.ToLower(skipped)
		if s != "" && strings.Contains(billing, s) {
			penalty += penaltySkippedArtist
		}
	}
	return clamp(penalty, 0, penaltyCap)
}

func countOverlap(eventGenres, signalGenres []string) int {
	in := make(map[string]bool, len(signalGenres))
	for _, g := range signalGenres {
		in[strings.ToLower(g)] = true
	}
	n := 0
	for _, g := range eventGenres {
		if in[g] {
			n++
		}
	}
	return n
}

// trendAdjustment rewards trending-up genres and punishes trending-down
// ones, bounded before the outer weighting is applied.
func trendAdjustment(eventGenres []string, trends profile.Trends) float64 {
	adj := trendUpBonus*float64(countOverlap(eventGenres, trends.TrendingUp)) -
		trendDownPenalty*float64(countOverlap(eventGenres, trends.TrendingDown))
	return clamp(adj, trendFloor, trendCeil)
}

// seasonalMatch scores the event against the current season's preferred
// genres.
func seasonalMatch(eventGenres []string, seasonal map[profile.Season][]string, season profile.Season) float64 {
	preferred := seasonal[season]
	if len(preferred) == 0 {
		return 0
	}
	return clamp(seasonalMatchBonus*float64(countOverlap(eventGenres, preferred)), 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

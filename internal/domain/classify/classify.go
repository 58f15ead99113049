// Package classify decides whether an event listing is a music event.
// Ticketing feeds mix concerts with museum tours, sightseeing passes and
// plain "general admission" listings, and everything downstream of this
// decision is priced per external call, so the gate runs first and is pure
// text analysis.
package classify

import (
	"regexp"

	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/pkg/metrics"
)

var musicKeywords = []string{
	"dj", "music", "concert", "festival", "electronic", "house", "techno",
	"edm", "dance", "bass", "club", "party", "live music", "band", "artist",
	"performance", "tour", "show", "live",
}

var nonMusicKeywords = []string{
	"admission", "general admission", "museum", "exhibition", "castle",
	"historic", "visit", "sightseeing", "gallery",
}

// Matching is word-bounded so "dj" does not fire inside "adjacent".
var (
	musicPatterns    = compileKeywords(musicKeywords)
	nonMusicPatterns = compileKeywords(nonMusicKeywords)
	generalAdmission = regexp.MustCompile(`\bgeneral admission\b`)
)

func compileKeywords(keywords []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return patterns
}

// Decision carries the classification with the evidence behind it, for
// logging and for the skip accounting in batch runs.
type Decision struct {
	IsMusic      bool
	MusicHits    int
	NonMusicHits int
	ShortCircuit bool
}

// IsMusicEvent reports whether the event looks like a music listing.
// Deterministic, no side effects beyond a metrics counter.
func IsMusicEvent(event model.Event) bool {
	return Classify(event).IsMusic
}

// Classify runs the keyword comparison over the event's searchable text.
// A listing that says "general admission" and matches no music keyword is
// non-music outright; otherwise music wins only when it has strictly more
// keyword matches than the non-music side.
func Classify(event model.Event) Decision {
	text := event.SearchText()

	d := Decision{
		MusicHits:    countMatches(musicPatterns, text),
		NonMusicHits: countMatches(nonMusicPatterns, text),
	}

	if d.MusicHits == 0 && generalAdmission.MatchString(text) {
		d.ShortCircuit = true
		metrics.RecordClassifierDecision("non_music")
		return d
	}

	d.IsMusic = d.MusicHits > d.NonMusicHits
	if d.IsMusic {
		metrics.RecordClassifierDecision("music")
	} else {
		metrics.RecordClassifierDecision("non_music")
	}
	return d
}

func countMatches(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, p := range patterns {
		if p.MatchString(text) {
			n++
		}
	}
	return n
}

// Keywords returns the music-indicator list, lowercased. The scoring engine
// reuses it for its EDM relevance factor.
func Keywords() []string {
	out := make([]string, len(musicKeywords))
	copy(out, musicKeywords)
	return out
}

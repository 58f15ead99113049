package scoring_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/internal/domain/profile"
	"github.com/Sonar-glitch/sonar-match/internal/domain/scoring"
	"github.com/Sonar-glitch/sonar-match/internal/domain/types"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var octClock = func() time.Time {
	return time.Date(2026, time.October, 3, 21, 0, 0, 0, time.UTC)
}

func technoProfile() profile.Profile {
	return profile.Profile{
		UserID: "user-1",
		Genres: map[string]float64{"techno": 0.5, "acid techno": 0.3, "deep house": 0.2},
		TopArtists: []profile.Artist{
			{Name: "Charlotte de Witte", Genres: []string{"techno"}, Popularity: 80},
			{Name: "Amelie Lens", Genres: []string{"techno"}, Popularity: 75},
		},
		Temporal: profile.Temporal{
			Recent:   profile.Window{Genres: []string{"techno", "acid techno"}},
			Medium:   profile.Window{Genres: []string{"techno"}},
			LongTerm: profile.Window{Genres: []string{"techno", "trance"}},
		},
		Negative: profile.NegativeSignals{
			RemovedTrackGenres:      []string{},
			SkippedArtists:          []string{},
			AbandonedPlaylistGenres: []string{},
		},
		Trends: profile.Trends{
			TrendingUp:     []string{"acid techno"},
			TrendingDown:   []string{"trance"},
			NewDiscoveries: []string{"acid techno"},
		},
		Seasonal:    map[profile.Season][]string{profile.SeasonFall: {"techno", "deep house"}},
		LastUpdated: octClock(),
	}
}

func technoEvent() model.Event {
	return model.Event{
		Source:       "ticketmaster",
		SourceID:     "evt-1",
		Name:         "Charlotte de Witte at Printworks",
		Description:  "An all-night techno rave",
		Venue:        model.Venue{Name: "Printworks London"},
		Artists:      []string{"Charlotte de Witte"},
		Genres:       []string{"techno", "acid techno"},
		IsMusicEvent: true,
		ArtistMetadata: []model.ArtistIdentity{
			{Name: "Charlotte de Witte", Verified: true, Confidence: 1.0},
		},
		Enhancement: model.Enhancement{
			Status:  model.EnhancementCompleted,
			Version: model.CurrentEnhancementVersion,
		},
	}
}

func TestScoreMatchingAndBounds(t *testing.T) {
	Convey("Given an engine and a techno-leaning profile", t, func() {
		ctx := context.Background()
		engine := scoring.NewEngine(scoring.WithClock(octClock))
		p := technoProfile()

		Convey("A strongly matching event scores high with a full breakdown", func() {
			result := engine.Score(ctx, technoEvent(), p)

			So(result.Score, ShouldBeGreaterThanOrEqualTo, 60)
			So(result.Score, ShouldBeLessThanOrEqualTo, 99)
			So(result.Confidence, ShouldEqual, types.ConfidenceHigh)
			So(result.Breakdown.GenreMatch, ShouldBeGreaterThan, 30)
			So(result.Breakdown.VenueQuality, ShouldEqual, 90)
			So(result.MatchedGenres, ShouldContain, "techno")
			So(result.MatchedArtists, ShouldContain, "Charlotte de Witte")
		})

		Convey("An unrelated music event scores low", func() {
			event := model.Event{
				Source: "ticketmaster", SourceID: "evt-2",
				Name:         "Acoustic Folk Evening",
				Venue:        model.Venue{Name: "Riverside Cafe"},
				Genres:       []string{"folk"},
				IsMusicEvent: true,
				Enhancement: model.Enhancement{
					Status:  model.EnhancementCompleted,
					Version: model.CurrentEnhancementVersion,
				},
			}
			result := engine.Score(ctx, event, p)
			So(result.Score, ShouldBeLessThanOrEqualTo, 30)
			So(result.Confidence, ShouldEqual, types.ConfidenceVeryLow)
		})

		Convey("More genre overlap never lowers the genre factor", func() {
			weak := technoEvent()
			weak.Genres = []string{"techno"}
			strong := technoEvent()
			strong.SourceID = "evt-3"
			strong.Genres = []string{"techno", "acid techno", "deep house"}

			weakResult := engine.Score(ctx, weak, p)
			strongResult := engine.Score(ctx, strong, p)
			So(strongResult.Breakdown.GenreMatch, ShouldBeGreaterThanOrEqualTo, weakResult.Breakdown.GenreMatch)
		})

		Convey("One event genre collects exact and partial bonuses from different user genres", func() {
			event := technoEvent()
			event.SourceID = "evt-pairs"
			event.Genres = []string{"techno"}

			// Exact against "techno" (+25) plus partial against
			// "acid techno" (+15) on top of the base 30.
			result := engine.Score(ctx, event, p)
			So(result.Breakdown.GenreMatch, ShouldAlmostEqual, 70)
			So(result.MatchedGenres, ShouldResemble, []string{"techno"})
		})
	})
}

func TestScoreStability(t *testing.T) {
	Convey("Given an engine", t, func() {
		ctx := context.Background()
		engine := scoring.NewEngine(scoring.WithClock(octClock))
		p := technoProfile()
		event := technoEvent()

		Convey("Re-scoring the same triple returns the identical number", func() {
			first := engine.Score(ctx, event, p)
			So(first.Cached, ShouldBeFalse)

			for i := 0; i < 5; i++ {
				again := engine.Score(ctx, event, p)
				So(again.Score, ShouldEqual, first.Score)
				So(again.Cached, ShouldBeTrue)
			}
		})

		Convey("A new profile snapshot changes the key space", func() {
			first := engine.Score(ctx, event, p)

			refreshed := p
			refreshed.LastUpdated = p.LastUpdated.Add(time.Hour)
			second := engine.Score(ctx, event, refreshed)

			So(second.Cached, ShouldBeFalse)
			So(second.Score, ShouldEqual, first.Score)
		})
	})
}

func TestNonMusicGate(t *testing.T) {
	Convey("Given a non-music event", t, func() {
		ctx := context.Background()
		engine := scoring.NewEngine(scoring.WithClock(octClock))
		event := model.Event{
			Source:   "ticketmaster",
			SourceID: "casa-loma",
			Name:     "Casa Loma General Admission",
		}

		Convey("The score sits in the fixed low band regardless of profile", func() {
			for _, p := range []profile.Profile{technoProfile(), {UserID: "other"}} {
				result := engine.Score(ctx, event, p)
				So(result.Score, ShouldBeBetweenOrEqual, 5, 15)
				So(result.Breakdown.NonMusicGate, ShouldBeTrue)
				So(result.Confidence, ShouldEqual, types.ConfidenceVeryLow)
			}
		})

		Convey("The band placement is deterministic per event", func() {
			first := engine.Score(ctx, event, technoProfile())
			for i := 0; i < 10; i++ {
				So(engine.Score(ctx, event, technoProfile()).Score, ShouldEqual, first.Score)
			}
		})
	})
}

func TestScorePendingEvent(t *testing.T) {
	Convey("Given events the enhancement pipeline has not reached yet", t, func() {
		ctx := context.Background()
		engine := scoring.NewEngine(scoring.WithClock(octClock))
		p := technoProfile()

		Convey("A pending music event is classified inline, not gated", func() {
			event := technoEvent()
			event.SourceID = "evt-pending"
			event.IsMusicEvent = false
			event.ArtistMetadata = nil
			event.EnhancedGenres = nil
			event.Enhancement = model.Enhancement{}

			result := engine.Score(ctx, event, p)

			So(result.Breakdown.NonMusicGate, ShouldBeFalse)
			So(result.Score, ShouldBeGreaterThanOrEqualTo, 60)
			So(result.MatchedGenres, ShouldContain, "techno")
			So(result.Confidence, ShouldEqual, types.ConfidenceVeryLow)
		})

		Convey("A completed classification is trusted over the event's text", func() {
			event := model.Event{
				Source:   "ticketmaster",
				SourceID: "evt-exhibit",
				Name:     "Techno: Four Decades of Dance Music",
				Venue:    model.Venue{Name: "Design Exchange"},
				Enhancement: model.Enhancement{
					Status:  model.EnhancementCompleted,
					Version: model.CurrentEnhancementVersion,
				},
			}

			result := engine.Score(ctx, event, p)

			So(result.Breakdown.NonMusicGate, ShouldBeTrue)
			So(result.Score, ShouldBeBetweenOrEqual, 5, 15)
		})

		Convey("A pending non-music listing is still gated", func() {
			event := model.Event{
				Source:   "ticketmaster",
				SourceID: "evt-castle",
				Name:     "Casa Loma General Admission",
			}

			result := engine.Score(ctx, event, p)

			So(result.Breakdown.NonMusicGate, ShouldBeTrue)
			So(result.Score, ShouldBeBetweenOrEqual, 5, 15)
		})
	})
}

func TestNegativeAndTrendFactors(t *testing.T) {
	Convey("Given a profile with rejection signals", t, func() {
		ctx := context.Background()
		engine := scoring.NewEngine(scoring.WithClock(octClock))

		clean := technoProfile()
		sour := technoProfile()
		sour.LastUpdated = sour.LastUpdated.Add(time.Minute) // distinct cache key space
		sour.Negative = profile.NegativeSignals{
			RemovedTrackGenres:      []string{"techno"},
			SkippedArtists:          []string{"Charlotte de Witte"},
			AbandonedPlaylistGenres: []string{"acid techno"},
		}

		Convey("Penalties lower the score but are capped", func() {
			event := technoEvent()
			cleanResult := engine.Score(ctx, event, clean)
			sourResult := engine.Score(ctx, event, sour)

			So(sourResult.Score, ShouldBeLessThan, cleanResult.Score)
			So(sourResult.Breakdown.NegativePenalty, ShouldBeLessThanOrEqualTo, 75)
			So(sourResult.Score, ShouldBeGreaterThanOrEqualTo, 0)
		})

		Convey("Trending-up genres earn a bonus over trending-down ones", func() {
			up := technoEvent()
			up.SourceID = "evt-up"
			up.Genres = []string{"acid techno"}

			down := technoEvent()
			down.SourceID = "evt-down"
			down.Genres = []string{"trance"}

			upResult := engine.Score(ctx, up, clean)
			downResult := engine.Score(ctx, down, clean)
			So(upResult.Breakdown.TrendAdjustment, ShouldBeGreaterThan, 0)
			So(downResult.Breakdown.TrendAdjustment, ShouldBeLessThan, 0)
		})
	})
}

func TestConfidenceGrades(t *testing.T) {
	Convey("Confidence follows the resolved-artist ratio", t, func() {
		ctx := context.Background()
		engine := scoring.NewEngine(scoring.WithClock(octClock))
		p := technoProfile()

		event := technoEvent()

		event.ArtistMetadata = []model.ArtistIdentity{{Name: "A", Verified: true}, {Name: "B", Verified: true}}
		event.SourceID = "c-high"
		So(engine.Score(ctx, event, p).Confidence, ShouldEqual, types.ConfidenceHigh)

		event.ArtistMetadata = []model.ArtistIdentity{{Name: "A", Verified: true}, {Name: "B"}}
		event.SourceID = "c-med"
		So(engine.Score(ctx, event, p).Confidence, ShouldEqual, types.ConfidenceMedium)

		event.ArtistMetadata = []model.ArtistIdentity{{Name: "A"}, {Name: "B"}}
		event.SourceID = "c-low"
		So(engine.Score(ctx, event, p).Confidence, ShouldEqual, types.ConfidenceLow)

		event.ArtistMetadata = nil
		event.SourceID = "c-none"
		So(engine.Score(ctx, event, p).Confidence, ShouldEqual, types.ConfidenceVeryLow)
	})
}

func TestCustomWeights(t *testing.T) {
	Convey("Given an engine with a venue-only weighting", t, func() {
		ctx := context.Background()
		engine := scoring.NewEngine(
			scoring.WithClock(octClock),
			scoring.WithWeights(scoring.Weights{Venue: 1.0}),
		)

		Convey("The score reflects only the venue factor", func() {
			result := engine.Score(ctx, technoEvent(), technoProfile())
			So(result.Score, ShouldEqual, 90)
		})
	})
}

package enhance_test

import (
	"context"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/Sonar-glitch/sonar-match/internal/domain/features"
	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/internal/domain/resolver"
	"github.com/Sonar-glitch/sonar-match/internal/enhance"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type memCatalog struct {
	artists []resolver.Artist
}

func (c *memCatalog) Lookup(_ context.Context, name string) (resolver.Artist, bool) {
	for _, a := range c.artists {
		if resolver.Normalize(a.Name) == name || resolver.Normalize(a.OriginalName) == name {
			return a, true
		}
	}
	return resolver.Artist{}, false
}

func (c *memCatalog) All(_ context.Context) []resolver.Artist {
	return c.artists
}

func testCatalog() *memCatalog {
	return &memCatalog{artists: []resolver.Artist{
		{Name: "Charlotte de Witte", Genres: []string{"techno", "acid techno"}, CatalogID: "cat-cdw"},
		{Name: "DJ Snake", Genres: []string{"edm", "trap"}, CatalogID: "cat-snake"},
		{Name: "Skrillex", Genres: []string{"dubstep", "edm"}, CatalogID: "cat-skrillex"},
	}}
}

func testEnhancer(clock func() time.Time) *enhance.Enhancer {
	r := resolver.New(testCatalog())
	f := features.NewProvider()
	opts := []enhance.EnhancerOption{}
	if clock != nil {
		opts = append(opts, enhance.WithEnhancerClock(clock))
	}
	return enhance.NewEnhancer(r, f, opts...)
}

func TestEnhanceMusicEvent(t *testing.T) {
	convey.Convey("Given a music event with a known headliner", t, func() {
		e := testEnhancer(nil)
		event := model.Event{
			Source:      "ticketmaster",
			SourceID:    "tm-100",
			Name:        "Charlotte de Witte",
			Description: "Techno club night with live music",
			Venue:       model.Venue{Name: "Printworks", City: "London"},
			Artists:     []string{"Charlotte de Witte"},
			Genres:      []string{"Electronic"},
			StartTime:   time.Date(2026, time.October, 3, 22, 0, 0, 0, time.UTC),
		}

		convey.Convey("When the event is enhanced", func() {
			out, err := e.Enhance(context.Background(), event)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it is classified as music with resolved identity", func() {
				convey.So(out.IsMusicEvent, convey.ShouldBeTrue)
				convey.So(out.ArtistMetadata, convey.ShouldHaveLength, 1)
				convey.So(out.ArtistMetadata[0].Name, convey.ShouldEqual, "Charlotte de Witte")
				convey.So(out.ArtistMetadata[0].Verified, convey.ShouldBeTrue)
				convey.So(out.ArtistMetadata[0].Source, convey.ShouldEqual, model.ResolutionExact)
			})

			convey.Convey("Then genres merge raw and resolved tags", func() {
				convey.So(out.EnhancedGenres, convey.ShouldContain, "electronic")
				convey.So(out.EnhancedGenres, convey.ShouldContain, "techno")
				convey.So(out.EnhancedGenres, convey.ShouldContain, "acid techno")
			})

			convey.Convey("Then a full-shape sound vector is attached", func() {
				convey.So(out.Sound, convey.ShouldNotBeNil)
				convey.So(out.Sound.Energy, convey.ShouldBeGreaterThan, 0)
				convey.So(out.Sound.Tempo, convey.ShouldBeGreaterThan, 0)
				convey.So(out.Sound.Confidence, convey.ShouldBeGreaterThan, 0)
			})

			convey.Convey("Then the enhancement status is completed at current version", func() {
				convey.So(out.Enhanced(), convey.ShouldBeTrue)
				convey.So(out.Enhancement.Status, convey.ShouldEqual, model.EnhancementCompleted)
				convey.So(out.Enhancement.Version, convey.ShouldEqual, model.CurrentEnhancementVersion)
				convey.So(out.Enhancement.LastUpdated.IsZero(), convey.ShouldBeFalse)
			})
		})
	})
}

func TestEnhanceNonMusicEvent(t *testing.T) {
	convey.Convey("Given a sightseeing event", t, func() {
		e := testEnhancer(nil)
		event := model.Event{
			Source:      "ticketmaster",
			SourceID:    "tm-200",
			Name:        "Casa Loma General Admission",
			Description: "Visit the historic castle and museum exhibition",
			Venue:       model.Venue{Name: "Casa Loma", City: "Toronto"},
		}

		convey.Convey("When the event is enhanced", func() {
			out, err := e.Enhance(context.Background(), event)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it is gated out with no derived artist data", func() {
				convey.So(out.IsMusicEvent, convey.ShouldBeFalse)
				convey.So(out.ArtistMetadata, convey.ShouldBeNil)
				convey.So(out.EnhancedGenres, convey.ShouldBeNil)
				convey.So(out.Sound, convey.ShouldBeNil)
			})

			convey.Convey("Then the gate decision still completes the event", func() {
				convey.So(out.Enhanced(), convey.ShouldBeTrue)
			})
		})
	})
}

func TestEnhanceTitleExtraction(t *testing.T) {
	convey.Convey("Given an event reporting no artist list", t, func() {
		e := testEnhancer(nil)
		event := model.Event{
			Source:      "ticketmaster",
			SourceID:    "tm-300",
			Name:        "DJ Snake & Skrillex Festival Tour 2025",
			Description: "Massive EDM show",
			Venue:       model.Venue{Name: "Scotiabank Arena"},
		}

		convey.Convey("When the event is enhanced", func() {
			out, err := e.Enhance(context.Background(), event)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then headliners are extracted from the title", func() {
				convey.So(out.ArtistMetadata, convey.ShouldHaveLength, 2)
				convey.So(out.ArtistMetadata[0].Name, convey.ShouldEqual, "DJ Snake")
				convey.So(out.ArtistMetadata[1].Name, convey.ShouldEqual, "Skrillex")
				convey.So(out.EnhancedGenres, convey.ShouldContain, "edm")
				convey.So(out.EnhancedGenres, convey.ShouldContain, "dubstep")
			})
		})
	})
}

func TestEnhanceUnknownArtistKept(t *testing.T) {
	convey.Convey("Given a music event whose artist is not in the catalog", t, func() {
		e := testEnhancer(nil)
		event := model.Event{
			Source:      "ticketmaster",
			SourceID:    "tm-400",
			Name:        "Warehouse Rave",
			Description: "Underground techno party",
			Artists:     []string{"Totally Unknown Performer"},
			Genres:      []string{"techno"},
		}

		convey.Convey("When the event is enhanced", func() {
			out, err := e.Enhance(context.Background(), event)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the artist is kept unresolved instead of dropped", func() {
				convey.So(out.ArtistMetadata, convey.ShouldHaveLength, 1)
				convey.So(out.ArtistMetadata[0].Confidence, convey.ShouldEqual, 0.0)
				convey.So(out.ArtistMetadata[0].Verified, convey.ShouldBeFalse)
			})

			convey.Convey("Then sound falls back to the genre table", func() {
				convey.So(out.Sound, convey.ShouldNotBeNil)
				convey.So(out.Sound.Source, convey.ShouldEqual, model.FeatureSourceFallback)
			})
		})
	})
}

package classify_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/Sonar-glitch/sonar-match/internal/domain/classify"
	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestClassify(t *testing.T) {
	convey.Convey("Given event listings of various kinds", t, func() {
		convey.Convey("A techno club night is music", func() {
			event := model.Event{
				Name:        "Warehouse Techno Night",
				Description: "All night DJ sets, house and techno on two floors",
				Venue:       model.Venue{Name: "The Loft"},
			}
			d := classify.Classify(event)
			convey.So(d.IsMusic, convey.ShouldBeTrue)
			convey.So(d.MusicHits, convey.ShouldBeGreaterThan, d.NonMusicHits)
		})

		convey.Convey("A museum exhibition is not music", func() {
			event := model.Event{
				Name:        "Impressionists Exhibition",
				Description: "Visit the gallery's historic collection",
			}
			convey.So(classify.IsMusicEvent(event), convey.ShouldBeFalse)
		})

		convey.Convey("A bare general admission listing short-circuits", func() {
			event := model.Event{Name: "Casa Loma General Admission"}
			d := classify.Classify(event)
			convey.So(d.IsMusic, convey.ShouldBeFalse)
			convey.So(d.ShortCircuit, convey.ShouldBeTrue)
			convey.So(d.MusicHits, convey.ShouldEqual, 0)
		})

		convey.Convey("General admission with music evidence does not short-circuit", func() {
			event := model.Event{
				Name:        "Festival General Admission",
				Description: "Two stages of electronic dance music with live DJ performances",
			}
			d := classify.Classify(event)
			convey.So(d.ShortCircuit, convey.ShouldBeFalse)
			convey.So(d.IsMusic, convey.ShouldBeTrue)
		})

		convey.Convey("A tie goes to non-music", func() {
			// "tour" is a music indicator, "castle" a non-music one.
			event := model.Event{Name: "Castle Tour"}
			d := classify.Classify(event)
			convey.So(d.MusicHits, convey.ShouldEqual, d.NonMusicHits)
			convey.So(d.IsMusic, convey.ShouldBeFalse)
		})

		convey.Convey("Keywords do not fire inside other words", func() {
			event := model.Event{Name: "Adjacent Perspectives Seminar"}
			d := classify.Classify(event)
			convey.So(d.MusicHits, convey.ShouldEqual, 0)
			convey.So(d.IsMusic, convey.ShouldBeFalse)
		})

		convey.Convey("Classification is deterministic", func() {
			event := model.Event{Name: "Amelie Lens Live", Venue: model.Venue{Name: "Printworks"}}
			first := classify.IsMusicEvent(event)
			for i := 0; i < 10; i++ {
				convey.So(classify.IsMusicEvent(event), convey.ShouldEqual, first)
			}
		})
	})
}

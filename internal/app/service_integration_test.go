package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Sonar-glitch/sonar-match/internal/adapters/repository"
	"github.com/Sonar-glitch/sonar-match/internal/adapters/ticketing"
	service "github.com/Sonar-glitch/sonar-match/internal/app"
	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeLister serves canned listings in place of the discovery API.
type fakeLister struct {
	events []model.Event
	err    error
}

func (f *fakeLister) Search(_ context.Context, _ ticketing.Query) ([]model.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

// fakeHistory serves a fixed listening history for every window.
type fakeHistory struct {
	artists []profile.Artist
}

func (f *fakeHistory) TopArtists(_ context.Context, _ string, _ profile.TimeWindow) ([]profile.Artist, error) {
	return f.artists, nil
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service with full integration", t, func() {
		history := &fakeHistory{artists: []profile.Artist{
			{Name: "Charlotte de Witte", Genres: []string{"techno", "acid techno"}, Popularity: 75},
			{Name: "Amelie Lens", Genres: []string{"techno"}, Popularity: 70},
		}}
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(1000),
			service.WithDedupeSize(500),
			service.WithHistorySource(history),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When processing events end-to-end", func() {
			So(svc.Start(ctx), ShouldBeNil)

			events := []model.Event{
				testEvent("tm-001", "Charlotte de Witte"),
				testEvent("tm-002", "Amelie Lens"),
				{
					Source:      "ticketmaster",
					SourceID:    "tm-museum",
					Name:        "Casa Loma General Admission",
					Description: "Explore the castle galleries and museum exhibits.",
					Venue:       model.Venue{Name: "Casa Loma", City: "Toronto"},
				},
			}
			for i := range events {
				So(svc.SeenAndRecord(ctx, events[i].ID()), ShouldBeFalse)
				So(svc.Enqueue(ctx, events[i]), ShouldBeTrue)
			}

			// Give workers time to drain the queue
			time.Sleep(500 * time.Millisecond)

			Convey("Then all events should be enhanced", func() {
				stats := svc.GetStats()
				So(stats["totalEvents"], ShouldEqual, 3)
				So(stats["enhancedEvents"], ShouldEqual, 3)
			})

			Convey("And recommendations should rank the music events first", func() {
				recs, err := svc.Recommendations(ctx, "user-1", 10)
				So(err, ShouldBeNil)
				So(len(recs), ShouldEqual, 3)
				So(recs[0].Rank, ShouldEqual, 1)
				So(recs[0].Name, ShouldNotEqual, "Casa Loma General Admission")
				for i := 1; i < len(recs); i++ {
					So(recs[i-1].Score, ShouldBeGreaterThanOrEqualTo, recs[i].Score)
				}
			})

			Convey("And a single event can be scored", func() {
				result, err := svc.ScoreEvent(ctx, "ticketmaster:tm-001", "user-1")
				So(err, ShouldBeNil)
				So(result.Score, ShouldBeBetweenOrEqual, 0, 99)
				So(result.MatchedGenres, ShouldContain, "techno")
			})

			Convey("And scoring an unknown event reports not found", func() {
				_, err := svc.ScoreEvent(ctx, "ticketmaster:ghost", "user-1")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("And the taste profile reflects the listening history", func() {
				p := svc.TasteProfile(ctx, "user-1")
				So(p.UserID, ShouldEqual, "user-1")
				So(p.Default, ShouldBeFalse)
				So(p.Genres["techno"], ShouldBeGreaterThan, 0)
			})

			Convey("And a user without history gets the default profile", func() {
				history.artists = nil
				p := svc.TasteProfile(ctx, "user-blank")
				So(p.Default, ShouldBeTrue)
				So(len(p.Genres), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When pulling events through a listing source", func() {
			lister := &fakeLister{events: []model.Event{
				testEvent("tm-100", "Adam Beyer"),
				testEvent("tm-101", "Nina Kraviz"),
				testEvent("tm-100", "Adam Beyer"), // upstream double listing
			}}
			svc2 := service.New(
				service.WithWorkerCount(2),
				service.WithLister(lister),
			)
			defer svc2.Stop()
			So(svc2.Start(ctx), ShouldBeNil)

			queued, duplicates, err := svc2.Ingest(ctx, ticketingQuery())

			Convey("Then new listings are queued and repeats are counted", func() {
				So(err, ShouldBeNil)
				So(queued, ShouldEqual, 2)
				So(duplicates, ShouldEqual, 1)
			})

			Convey("And a second pull is all duplicates", func() {
				So(err, ShouldBeNil)
				queued2, duplicates2, err2 := svc2.Ingest(ctx, ticketingQuery())
				So(err2, ShouldBeNil)
				So(queued2, ShouldEqual, 0)
				So(duplicates2, ShouldEqual, 3)
			})
		})

		Convey("When a batch run drives enhancement instead of the queue", func() {
			store := repository.NewMemStore(ctx)
			svc3 := service.New(
				service.WithWorkerCount(1),
				service.WithBatchSize(2),
				service.WithStore(store),
			)
			defer svc3.Stop()
			So(svc3.Start(ctx), ShouldBeNil)

			for i := 0; i < 5; i++ {
				event := testEvent(fmt.Sprintf("batch-%03d", i), "Boris Brejcha")
				_, err := store.Upsert(ctx, event)
				So(err, ShouldBeNil)
			}

			summary, err := svc3.EnhanceAll(ctx, 0)

			Convey("Then the run covers every pending event", func() {
				So(err, ShouldBeNil)
				So(summary.Processed, ShouldEqual, 5)
				So(summary.Enhanced, ShouldEqual, 5)
				So(summary.Errors, ShouldEqual, 0)
			})
		})

		Convey("When handling service lifecycle", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
			So(svc.GetStats()["started"], ShouldEqual, false)

			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a service with concurrent operations", t, func() {
		svc := service.New(
			service.WithWorkerCount(4),
			service.WithQueueSize(2000),
			service.WithDedupeSize(1000),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		So(svc.Start(ctx), ShouldBeNil)

		Convey("When multiple goroutines enqueue events concurrently", func() {
			numGoroutines := 10
			eventsPerGoroutine := 20
			done := make(chan bool, numGoroutines)

			for i := 0; i < numGoroutines; i++ {
				go func(goroutineID int) {
					for j := 0; j < eventsPerGoroutine; j++ {
						event := testEvent(
							fmt.Sprintf("concurrent-%d-%d", goroutineID, j),
							"Charlotte de Witte",
						)
						svc.Enqueue(ctx, event)
					}
					done <- true
				}(i)
			}

			for i := 0; i < numGoroutines; i++ {
				<-done
			}

			// Give workers time to process
			time.Sleep(2 * time.Second)

			Convey("Then all events should be stored and enhanced", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["totalEvents"], ShouldEqual, numGoroutines*eventsPerGoroutine)
				So(stats["enhancedEvents"], ShouldEqual, numGoroutines*eventsPerGoroutine)
			})
		})

		Convey("When multiple goroutines read while writers are active", func() {
			numReaders := 10
			done := make(chan error, numReaders)

			for i := 0; i < 5; i++ {
				svc.Enqueue(ctx, testEvent(fmt.Sprintf("read-%d", i), "Amelie Lens"))
			}
			time.Sleep(300 * time.Millisecond)

			for i := 0; i < numReaders; i++ {
				go func() {
					for j := 0; j < 10; j++ {
						if _, err := svc.Recommendations(ctx, "reader", 10); err != nil {
							done <- err
							return
						}
					}
					done <- nil
				}()
			}

			Convey("Then all reads should succeed", func() {
				for i := 0; i < numReaders; i++ {
					So(<-done, ShouldBeNil)
				}
			})
		})
	})
}

package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Sonar-glitch/sonar-match/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When an event ID arrives for the first time", func() {
			seen := d.SeenAndRecord(context.Background(), "ticketmaster:tm-001")

			Convey("Then it is newly recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same event ID arrives twice", func() {
			d.SeenAndRecord(context.Background(), "ticketmaster:tm-001")
			seen := d.SeenAndRecord(context.Background(), "ticketmaster:tm-001")

			Convey("Then the second arrival is a duplicate", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same local ID arrives from different sources", func() {
			first := d.SeenAndRecord(context.Background(), "ticketmaster:42")
			second := d.SeenAndRecord(context.Background(), "eventbrite:42")

			Convey("Then they are distinct events", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 2)
			})
		})

		Convey("When a recorded ID is unrecorded", func() {
			d.SeenAndRecord(context.Background(), "ticketmaster:tm-001")
			d.Unrecord(context.Background(), "ticketmaster:tm-001")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(context.Background(), "ticketmaster:tm-001"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown ID", func() {
			d.Unrecord(context.Background(), "ticketmaster:ghost")

			Convey("Then the size is unchanged", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestDedupeBoundedEviction(t *testing.T) {
	Convey("Given a deduper bounded to 3 entries", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for i := 1; i <= 3; i++ {
			So(d.SeenAndRecord(context.Background(), fmt.Sprintf("src:%d", i)), ShouldBeFalse)
		}
		So(d.Size(), ShouldEqual, 3)

		Convey("When a fourth ID is recorded", func() {
			So(d.SeenAndRecord(context.Background(), "src:4"), ShouldBeFalse)

			Convey("Then the oldest entry was evicted and the size held", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(context.Background(), "src:1"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 3)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

		Convey("When many IDs are recorded", func() {
			const numEvents = 1000
			for i := 0; i < numEvents; i++ {
				So(d.SeenAndRecord(context.Background(), fmt.Sprintf("src:%d", i)), ShouldBeFalse)
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, int64(numEvents))
				So(d.SeenAndRecord(context.Background(), "src:0"), ShouldBeTrue)
			})
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given concurrent producers", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(10000))
		const numGoroutines = 10
		const eventsPerGoroutine = 100

		Convey("When they record disjoint IDs at the same time", func() {
			var wg sync.WaitGroup
			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(producer int) {
					defer wg.Done()
					for j := 0; j < eventsPerGoroutine; j++ {
						d.SeenAndRecord(context.Background(), fmt.Sprintf("src-%d:%d", producer, j))
					}
				}(i)
			}
			wg.Wait()

			Convey("Then every ID is recorded exactly once", func() {
				So(d.Size(), ShouldEqual, int64(numGoroutines*eventsPerGoroutine))
			})
		})

		Convey("When they unrecord concurrently", func() {
			const numEvents = 500
			for i := 0; i < numEvents; i++ {
				d.SeenAndRecord(context.Background(), fmt.Sprintf("src:%d", i))
			}

			var wg sync.WaitGroup
			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(producer int) {
					defer wg.Done()
					per := numEvents / numGoroutines
					for j := 0; j < per; j++ {
						d.Unrecord(context.Background(), fmt.Sprintf("src:%d", producer*per+j))
					}
				}(i)
			}
			wg.Wait()

			Convey("Then the set is empty", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})
}

package cache

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTTLCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given a TTL cache", t, func() {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		c := New[int](WithTTL[int](time.Minute), WithClock[int](clock))

		Convey("When a value is set and read back", func() {
			c.Set(ctx, "k", 42)
			v, ok := c.Get(ctx, "k")

			Convey("Then it should be returned fresh", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 42)
			})
		})

		Convey("When a value has passed its TTL", func() {
			c.Set(ctx, "k", 42)
			now = now.Add(2 * time.Minute)
			_, ok := c.Get(ctx, "k")

			Convey("Then it should be treated as a miss", func() {
				So(ok, ShouldBeFalse)
			})

			Convey("Then the expired entry should be collected", func() {
				So(c.Len(), ShouldEqual, 0)
			})
		})

		Convey("When a key is deleted", func() {
			c.Set(ctx, "k", 1)
			c.Delete(ctx, "k")
			_, ok := c.Get(ctx, "k")

			Convey("Then it should not be found", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When hit/miss stats are collected", func() {
			c.Set(ctx, "k", 1)
			c.Get(ctx, "k")
			c.Get(ctx, "absent")
			hits, misses := c.Stats()

			Convey("Then counters should reflect usage", func() {
				So(hits, ShouldEqual, 1)
				So(misses, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a size-bounded cache", t, func() {
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		now := base
		clock := func() time.Time { return now }
		c := New[string](WithMaxSize[string](2), WithTTL[string](time.Hour), WithClock[string](clock))

		Convey("When capacity is exceeded", func() {
			c.Set(ctx, "a", "1")
			now = now.Add(time.Second)
			c.Set(ctx, "b", "2")
			now = now.Add(time.Second)
			c.Set(ctx, "c", "3")

			Convey("Then the oldest entry should be evicted", func() {
				So(c.Len(), ShouldEqual, 2)
				_, ok := c.Get(ctx, "a")
				So(ok, ShouldBeFalse)
				_, ok = c.Get(ctx, "c")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When re-setting an existing key at capacity", func() {
			c.Set(ctx, "a", "1")
			c.Set(ctx, "b", "2")
			c.Set(ctx, "b", "2b")

			Convey("Then no eviction should occur", func() {
				So(c.Len(), ShouldEqual, 2)
				v, ok := c.Get(ctx, "a")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "1")
			})
		})
	})
}

package config_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/Sonar-glitch/sonar-match/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.EventQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.ShardCount, convey.ShouldEqual, 8)
			convey.So(cfg.BatchSize, convey.ShouldEqual, 50)
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
		})

		convey.Convey("And the scoring weights should match the reference scheme", func() {
			convey.So(cfg.Weights.Genre, convey.ShouldAlmostEqual, 0.30, 0.0001)
			convey.So(cfg.Weights.Artist, convey.ShouldAlmostEqual, 0.20, 0.0001)
			convey.So(cfg.Weights.Venue, convey.ShouldAlmostEqual, 0.15, 0.0001)
		})
	})
}

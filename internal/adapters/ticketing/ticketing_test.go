package ticketing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/Sonar-glitch/sonar-match/internal/adapters/ticketing"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const listingPayload = `{
	"_embedded": {
		"events": [
			{
				"id": "vvG1zZ9pxq",
				"name": "Charlotte de Witte",
				"info": "Techno all night long",
				"url": "https://tickets.example/vvG1zZ9pxq",
				"images": [{"url": "https://img.example/cdw.jpg"}],
				"dates": {"start": {"dateTime": "2026-10-03T22:00:00Z"}},
				"classifications": [{"genre": {"name": "Dance/Electronic"}, "subGenre": {"name": "Techno"}}],
				"_embedded": {
					"venues": [{
						"name": "Rebel",
						"city": {"name": "Toronto"},
						"state": {"stateCode": "ON"},
						"country": {"countryCode": "CA"},
						"address": {"line1": "11 Polson St"},
						"location": {"latitude": "43.6414", "longitude": "-79.3530"}
					}],
					"attractions": [{"name": "Charlotte de Witte"}]
				}
			},
			{
				"id": "sparse01",
				"name": "Warehouse Party"
			},
			{
				"name": "Listing without an ID"
			}
		]
	}
}`

func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *ticketing.Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := ticketing.New("test-key",
		ticketing.WithBaseURL(srv.URL),
		ticketing.WithHTTPClient(srv.Client()),
		ticketing.WithRateLimit(1000),
	)
	if err != nil {
		t.Fatalf("building client: %v", err)
	}
	return srv, client
}

func TestSearch(t *testing.T) {
	convey.Convey("Given a discovery API returning listings", t, func() {
		var gotQuery atomic.Value
		_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery.Store(r.URL.Query())
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(listingPayload))
		})

		convey.Convey("When searching by city and keyword", func() {
			events, err := client.Search(context.Background(), ticketing.Query{
				City:           "Toronto",
				Keyword:        "techno",
				Classification: "music",
				Size:           20,
			})
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the request carries the query parameters", func() {
				q := gotQuery.Load().(url.Values)
				convey.So(q["apikey"], convey.ShouldResemble, []string{"test-key"})
				convey.So(q["city"], convey.ShouldResemble, []string{"Toronto"})
				convey.So(q["keyword"], convey.ShouldResemble, []string{"techno"})
				convey.So(q["classificationName"], convey.ShouldResemble, []string{"music"})
				convey.So(q["size"], convey.ShouldResemble, []string{"20"})
			})

			convey.Convey("Then complete listings map fully", func() {
				convey.So(events, convey.ShouldHaveLength, 2)
				e := events[0]
				convey.So(e.Source, convey.ShouldEqual, "ticketmaster")
				convey.So(e.SourceID, convey.ShouldEqual, "vvG1zZ9pxq")
				convey.So(e.Name, convey.ShouldEqual, "Charlotte de Witte")
				convey.So(e.Genres, convey.ShouldResemble, []string{"Dance/Electronic", "Techno"})
				convey.So(e.Artists, convey.ShouldResemble, []string{"Charlotte de Witte"})
				convey.So(e.Venue.Name, convey.ShouldEqual, "Rebel")
				convey.So(e.Venue.Lat, convey.ShouldAlmostEqual, 43.6414, 0.0001)
				convey.So(e.StartTime.IsZero(), convey.ShouldBeFalse)
			})

			convey.Convey("Then sparse listings survive with zero-value fields", func() {
				e := events[1]
				convey.So(e.SourceID, convey.ShouldEqual, "sparse01")
				convey.So(e.Venue.Name, convey.ShouldBeEmpty)
				convey.So(e.StartTime.IsZero(), convey.ShouldBeTrue)
			})

			convey.Convey("Then listings without an ID are dropped", func() {
				for _, e := range events {
					convey.So(e.SourceID, convey.ShouldNotBeEmpty)
				}
			})
		})

		convey.Convey("When searching by coordinates and radius", func() {
			_, err := client.Search(context.Background(), ticketing.Query{
				Lat: 43.65, Lon: -79.38, RadiusKm: 25,
			})
			convey.So(err, convey.ShouldBeNil)

			q := gotQuery.Load().(url.Values)
			convey.So(q["latlong"], convey.ShouldResemble, []string{"43.6500,-79.3800"})
			convey.So(q["radius"], convey.ShouldResemble, []string{"25"})
			convey.So(q["unit"], convey.ShouldResemble, []string{"km"})
		})
	})
}

func TestSearchBroadenedRetry(t *testing.T) {
	convey.Convey("Given an API that fails once with a 503", t, func() {
		var calls atomic.Int32
		var retryQuery atomic.Value
		_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
				return
			}
			retryQuery.Store(r.URL.Query())
			_, _ = w.Write([]byte(listingPayload))
		})

		convey.Convey("When searching with a narrow query", func() {
			events, err := client.Search(context.Background(), ticketing.Query{
				Keyword:        "acid techno warehouse",
				Classification: "music",
			})

			convey.Convey("Then the retry broadens the keyword and drops the filter", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(events, convey.ShouldHaveLength, 2)
				convey.So(calls.Load(), convey.ShouldEqual, 2)

				q := retryQuery.Load().(url.Values)
				convey.So(q["keyword"], convey.ShouldResemble, []string{"music"})
				convey.So(q["classificationName"], convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given an API that keeps failing", t, func() {
		var calls atomic.Int32
		_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
		})

		convey.Convey("When searching", func() {
			_, err := client.Search(context.Background(), ticketing.Query{Keyword: "techno"})

			convey.Convey("Then exactly one retry happens before giving up", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(calls.Load(), convey.ShouldEqual, 2)
			})
		})
	})

	convey.Convey("Given an API that rejects the key", t, func() {
		var calls atomic.Int32
		_, client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "invalid key", http.StatusUnauthorized)
		})

		convey.Convey("When searching", func() {
			_, err := client.Search(context.Background(), ticketing.Query{Keyword: "techno"})

			convey.Convey("Then the failure is not retried", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(calls.Load(), convey.ShouldEqual, 1)
			})
		})
	})
}

func TestNewRequiresKey(t *testing.T) {
	convey.Convey("Given no API key", t, func() {
		_, err := ticketing.New("")
		convey.So(err, convey.ShouldEqual, ticketing.ErrMissingAPIKey)
	})
}

package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/Sonar-glitch/sonar-match/internal/adapters/catalog"
	"github.com/Sonar-glitch/sonar-match/internal/domain/resolver"
)

func TestMemCatalogLookup(t *testing.T) {
	convey.Convey("Given a catalog seeded with the default roster", t, func() {
		c := catalog.NewMemCatalog(catalog.WithSeed(catalog.DefaultSeed()))
		ctx := context.Background()

		convey.Convey("When looking up a normalized primary name", func() {
			a, ok := c.Lookup(ctx, resolver.Normalize("Charlotte de Witte"))

			convey.Convey("Then the entry is found with its genres", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(a.Name, convey.ShouldEqual, "Charlotte de Witte")
				convey.So(a.Genres, convey.ShouldContain, "techno")
				convey.So(a.CatalogID, convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When looking up an original name alias", func() {
			a, ok := c.Lookup(ctx, resolver.Normalize("Sonny Moore"))

			convey.Convey("Then the primary entry is returned", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(a.Name, convey.ShouldEqual, "Skrillex")
			})
		})

		convey.Convey("When punctuation differs from the roster styling", func() {
			a, ok := c.Lookup(ctx, resolver.Normalize("FRED AGAIN"))

			convey.Convey("Then normalization makes them collide", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(a.Name, convey.ShouldEqual, "Fred again..")
			})
		})

		convey.Convey("When the artist is not in the roster", func() {
			_, ok := c.Lookup(ctx, resolver.Normalize("Totally Unknown"))
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestMemCatalogRegister(t *testing.T) {
	convey.Convey("Given an empty catalog", t, func() {
		c := catalog.NewMemCatalog()
		ctx := context.Background()

		convey.Convey("When an artist is registered", func() {
			c.Register(resolver.Artist{Name: "Mall Grab", Genres: []string{"house"}, CatalogID: "id-1"})

			convey.Convey("Then it is immediately resolvable", func() {
				a, ok := c.Lookup(ctx, resolver.Normalize("Mall Grab"))
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(a.CatalogID, convey.ShouldEqual, "id-1")
				convey.So(c.Len(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the same name is registered twice", func() {
			c.Register(resolver.Artist{Name: "Mall Grab", Genres: []string{"house"}, CatalogID: "id-1"})
			c.Register(resolver.Artist{Name: "Mall Grab", Genres: []string{"house", "lo-fi house"}, CatalogID: "id-1"})

			convey.Convey("Then the later entry replaces the earlier one", func() {
				a, ok := c.Lookup(ctx, resolver.Normalize("Mall Grab"))
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(a.Genres, convey.ShouldContain, "lo-fi house")
				convey.So(c.Len(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When an artist with no usable name is registered", func() {
			c.Register(resolver.Artist{Name: "   "})

			convey.Convey("Then it is dropped", func() {
				convey.So(c.Len(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When seeding from a JSON file", func() {
			path := filepath.Join(t.TempDir(), "artists.json")
			payload := `[
				{"name": "Overmono", "genres": ["uk garage", "techno"], "catalog_id": "seed-1"},
				{"name": "Bicep", "original_name": "Bicep Live", "genres": ["electronic"]}
			]`
			convey.So(os.WriteFile(path, []byte(payload), 0o600), convey.ShouldBeNil)

			artists, err := catalog.SeedFromFile(path)
			convey.So(err, convey.ShouldBeNil)
			for _, a := range artists {
				c.Register(a)
			}

			convey.Convey("Then the file entries resolve like seeded ones", func() {
				a, ok := c.Lookup(ctx, resolver.Normalize("Overmono"))
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(a.Genres, convey.ShouldContain, "uk garage")

				_, ok = c.Lookup(ctx, resolver.Normalize("Bicep Live"))
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When seeding from a malformed file", func() {
			path := filepath.Join(t.TempDir(), "broken.json")
			convey.So(os.WriteFile(path, []byte("{not json"), 0o600), convey.ShouldBeNil)

			_, err := catalog.SeedFromFile(path)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When seeding from a missing file", func() {
			_, err := catalog.SeedFromFile(filepath.Join(t.TempDir(), "absent.json"))
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When All is called", func() {
			c.Register(resolver.Artist{Name: "Mall Grab"})
			snapshot := c.All(ctx)
			c.Register(resolver.Artist{Name: "DJ Boring"})

			convey.Convey("Then the snapshot does not see later registrations", func() {
				convey.So(snapshot, convey.ShouldHaveLength, 1)
				convey.So(c.Len(), convey.ShouldEqual, 2)
			})
		})
	})
}

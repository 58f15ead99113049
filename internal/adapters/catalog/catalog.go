// Package catalog holds the canonical artist reference data the resolver
// matches against.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/Sonar-glitch/sonar-match/internal/domain/resolver"
)

// MemCatalog is an in-memory artist catalog indexed by normalized primary
// and original names. Safe for concurrent use; reads dominate, registration
// happens at startup and when new artists are discovered.
type MemCatalog struct {
	mu      sync.RWMutex
	byName  map[string]int
	artists []resolver.Artist
}

// Option applies a configuration option to the MemCatalog.
type Option func(*MemCatalog)

// WithSeed preloads the catalog with the given artists.
func WithSeed(artists []resolver.Artist) Option {
	return func(c *MemCatalog) {
		for _, a := range artists {
			c.register(a)
		}
	}
}

// SeedFromFile reads a JSON array of artists, for extending the built-in
// roster with an operator-maintained file.
func SeedFromFile(path string) ([]resolver.Artist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artist seed file: %w", err)
	}
	var artists []seedEntry
	if err := json.Unmarshal(data, &artists); err != nil {
		return nil, fmt.Errorf("parsing artist seed file %s: %w", path, err)
	}
	out := make([]resolver.Artist, 0, len(artists))
	for _, a := range artists {
		out = append(out, resolver.Artist{
			Name:         a.Name,
			OriginalName: a.OriginalName,
			Genres:       a.Genres,
			CatalogID:    a.CatalogID,
		})
	}
	return out, nil
}

type seedEntry struct {
	Name         string   `json:"name"`
	OriginalName string   `json:"original_name,omitempty"`
	Genres       []string `json:"genres,omitempty"`
	CatalogID    string   `json:"catalog_id,omitempty"`
}

// NewMemCatalog creates an empty catalog. Use WithSeed(DefaultSeed()) for
// the built-in roster.
func NewMemCatalog(opts ...Option) *MemCatalog {
	c := &MemCatalog{
		byName: make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds or replaces an artist. An entry with the same normalized
// primary name overwrites the previous one; genre lists from discovery
// sources tend to improve over time.
func (c *MemCatalog) Register(artist resolver.Artist) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.register(artist)
}

func (c *MemCatalog) register(artist resolver.Artist) {
	primary := resolver.Normalize(artist.Name)
	if primary == "" {
		return
	}
	if i, ok := c.byName[primary]; ok {
		old := resolver.Normalize(c.artists[i].OriginalName)
		if old != "" && old != primary {
			delete(c.byName, old)
		}
		c.artists[i] = artist
		if alt := resolver.Normalize(artist.OriginalName); alt != "" && alt != primary {
			c.byName[alt] = i
		}
		return
	}
	c.artists = append(c.artists, artist)
	i := len(c.artists) - 1
	c.byName[primary] = i
	if alt := resolver.Normalize(artist.OriginalName); alt != "" && alt != primary {
		c.byName[alt] = i
	}
}

// Lookup returns the artist whose primary or original name matches the
// normalized name exactly.
func (c *MemCatalog) Lookup(_ context.Context, name string) (resolver.Artist, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i, ok := c.byName[name]; ok {
		return c.artists[i], true
	}
	return resolver.Artist{}, false
}

// All returns a snapshot of every catalog entry.
func (c *MemCatalog) All(_ context.Context) []resolver.Artist {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]resolver.Artist, len(c.artists))
	copy(out, c.artists)
	return out
}

// Len returns the number of distinct artists.
func (c *MemCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.artists)
}

package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/pkg/metrics"
)

// Sharded, in-memory Store implementation.
//
// Events are partitioned by an FNV hash of their identity so concurrent
// writers on different shards never contend. Reads that span the whole
// collection (All, ListPending, counts) take each shard's read lock in
// turn and merge, then sort by ID for deterministic output.

const (
	defaultShardCount            = 16
	defaultMetricsUpdateInterval = 5 * time.Second
)

type shard struct {
	mu     sync.RWMutex
	events map[string]model.Event
}

// MemStore is the in-memory Store. Safe for concurrent use.
type MemStore struct {
	shards                []*shard
	shardCount            int
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewMemStore constructs an in-memory store with configuration options.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		shardCount:            defaultShardCount,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{events: make(map[string]model.Event)}
	}

	s.stopChan = make(chan struct{})
	metrics.UpdateStoreShardCount(s.shardCount)
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *MemStore) Close() error {
	close(s.stopChan)
	s.wg.Wait()
	return nil
}

func (s *MemStore) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[int(h.Sum32())%s.shardCount]
}

// Upsert inserts or refreshes an event's raw listing fields. Derived fields
// already on the stored record survive a refresh, so re-ingesting a feed
// never wipes out enhancement work.
func (s *MemStore) Upsert(_ context.Context, event model.Event) (bool, error) {
	id := event.ID()
	if event.Source == "" || event.SourceID == "" {
		return false, ErrMissingIdentity
	}

	start := time.Now()
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	existing, ok := sh.events[id]
	if !ok {
		sh.events[id] = event
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Microseconds()) / 1000.0)
		return true, nil
	}

	existing.Name = event.Name
	existing.Description = event.Description
	existing.StartTime = event.StartTime
	existing.Venue = event.Venue
	existing.Artists = event.Artists
	existing.Genres = event.Genres
	existing.TicketURL = event.TicketURL
	existing.ImageURL = event.ImageURL
	sh.events[id] = existing

	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	return false, nil
}

// Get returns the event with the given identity.
func (s *MemStore) Get(_ context.Context, id string) (model.Event, error) {
	start := time.Now()
	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	event, ok := sh.events[id]
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	if !ok {
		return model.Event{}, ErrNotFound
	}
	return event, nil
}

// ListPending returns events awaiting enhancement at the current version.
func (s *MemStore) ListPending(_ context.Context, limit int) ([]model.Event, error) {
	start := time.Now()
	var pending []model.Event
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, event := range sh.events {
			if !event.Enhanced() {
				pending = append(pending, event)
			}
		}
		sh.mu.RUnlock()
	}
	sortByID(pending)
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	return pending, nil
}

// SaveEnhancement writes the derived fields and enhancement status of an
// event in one shard-locked step.
func (s *MemStore) SaveEnhancement(_ context.Context, event model.Event) error {
	id := event.ID()
	start := time.Now()
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	existing, ok := sh.events[id]
	if !ok {
		return ErrNotFound
	}

	existing.ArtistMetadata = event.ArtistMetadata
	existing.EnhancedGenres = event.EnhancedGenres
	existing.Sound = event.Sound
	existing.IsMusicEvent = event.IsMusicEvent
	existing.Enhancement = event.Enhancement
	sh.events[id] = existing

	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	return nil
}

// All returns every stored event, sorted by ID.
func (s *MemStore) All(_ context.Context) ([]model.Event, error) {
	var all []model.Event
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, event := range sh.events {
			all = append(all, event)
		}
		sh.mu.RUnlock()
	}
	sortByID(all)
	return all, nil
}

// Count returns the number of stored events.
func (s *MemStore) Count(_ context.Context) int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.events)
		sh.mu.RUnlock()
	}
	return n
}

// CountEnhanced returns the number of events enhanced at the current
// version.
func (s *MemStore) CountEnhanced(_ context.Context) int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, event := range sh.events {
			if event.Enhanced() {
				n++
			}
		}
		sh.mu.RUnlock()
	}
	return n
}

func sortByID(events []model.Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].ID() < events[j].ID()
	})
}

func (s *MemStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateStoreEventsTotal(s.Count(ctx))
				metrics.UpdateStoreEnhancedTotal(s.CountEnhanced(ctx))
			}
		}
	}()
}

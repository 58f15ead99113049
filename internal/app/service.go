// Package service wires the ingestion, enhancement and scoring components
// together and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/Sonar-glitch/sonar-match/internal/adapters/catalog"
	"github.com/Sonar-glitch/sonar-match/internal/adapters/http/api"
	eventqueue "github.com/Sonar-glitch/sonar-match/internal/adapters/mq/queue"
	workerpool "github.com/Sonar-glitch/sonar-match/internal/adapters/mq/worker"
	"github.com/Sonar-glitch/sonar-match/internal/adapters/repository"
	spotifyadapter "github.com/Sonar-glitch/sonar-match/internal/adapters/spotify"
	"github.com/Sonar-glitch/sonar-match/internal/adapters/ticketing"
	"github.com/Sonar-glitch/sonar-match/internal/domain/dedupe"
	"github.com/Sonar-glitch/sonar-match/internal/domain/features"
	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/internal/domain/profile"
	"github.com/Sonar-glitch/sonar-match/internal/domain/resolver"
	"github.com/Sonar-glitch/sonar-match/internal/domain/scoring"
	"github.com/Sonar-glitch/sonar-match/internal/domain/types"
	"github.com/Sonar-glitch/sonar-match/internal/enhance"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
	"github.com/Sonar-glitch/sonar-match/pkg/metrics"
)

// Sentinel errors for this package.
var (
	ErrNotStarted          = errors.New("service not started")
	ErrIngestNotConfigured = errors.New("no ticketing source configured")
)

// Lister pulls event listings from an upstream discovery source.
type Lister interface {
	Search(ctx context.Context, q ticketing.Query) ([]model.Event, error)
}

// Service implements the API dependencies for the event matching system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store        repository.Store
	deduper      dedupe.Deduper
	eventQueue   eventqueue.Queue
	catalog      *catalog.MemCatalog
	resolver     *resolver.Resolver
	features     *features.Provider
	aggregator   *profile.Aggregator
	engine       *scoring.Engine
	enhancer     *enhance.Enhancer
	orchestrator *enhance.Orchestrator
	workerPool   *workerpool.Pool
	lister       Lister

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int
	batchSize   int
	weights     scoring.Weights
	spotify     spotifyadapter.Credentials
	history     profile.HistorySource
	seedFile    string

	// State
	started bool

	// Logging
	logger logger.Logger
}

var _ api.Dependencies = (*Service)(nil)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of enhancement worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the shard count of the in-memory store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithBatchSize sets the batch size for enhancement runs.
func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// WithWeights overrides the scoring weight scheme.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithSpotifyCredentials enables the live audio-analysis source. Without
// credentials the feature provider serves genre fallbacks only.
func WithSpotifyCredentials(clientID, clientSecret string) Option {
	return func(s *Service) {
		s.spotify = spotifyadapter.Credentials{ClientID: clientID, ClientSecret: clientSecret}
	}
}

// WithArtistSeedFile extends the built-in artist roster with entries from
// a JSON file at startup.
func WithArtistSeedFile(path string) Option {
	return func(s *Service) {
		s.seedFile = path
	}
}

// WithHistorySource sets the listening-history source for taste profiles.
func WithHistorySource(src profile.HistorySource) Option {
	return func(s *Service) {
		s.history = src
	}
}

// WithLister sets the upstream event listing source used by Ingest.
func WithLister(l Lister) Option {
	return func(s *Service) {
		s.lister = l
	}
}

// WithStore overrides the default in-memory store, e.g. with a
// Firestore-backed one.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10000,
		dedupeSize:  50000,
		shardCount:  8,
		batchSize:   50,
		weights:     scoring.DefaultWeights(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting event matching service...")

	if s.store == nil {
		s.store = repository.NewMemStore(ctx, repository.WithShardCount(s.shardCount))
		s.logger.Info(ctx, "using in-memory store", logger.Int("shards", s.shardCount))
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
		eventqueue.WithBufferSize(s.queueSize),
	)

	s.catalog = catalog.NewMemCatalog(catalog.WithSeed(catalog.DefaultSeed()))
	if s.seedFile != "" {
		extra, err := catalog.SeedFromFile(s.seedFile)
		if err != nil {
			return fmt.Errorf("loading artist seed file: %w", err)
		}
		for _, a := range extra {
			s.catalog.Register(a)
		}
		s.logger.Info(ctx, "loaded extra catalog artists",
			logger.String("file", s.seedFile),
			logger.Int("count", len(extra)),
		)
	}
	s.resolver = resolver.New(s.catalog)

	featureOpts := []features.Option{}
	if s.spotify.ClientID != "" && s.spotify.ClientSecret != "" {
		client, err := spotifyadapter.NewAppClient(ctx, s.spotify)
		if err != nil {
			return fmt.Errorf("building spotify client: %w", err)
		}
		featureOpts = append(featureOpts, features.WithLiveSource(
			spotifyadapter.NewFeatureSource(client, spotifyadapter.WithDiscovery(s.catalog)),
		))
		s.logger.Info(ctx, "live audio analysis enabled")
	} else {
		s.logger.Info(ctx, "no spotify credentials, audio features served from fallbacks")
	}
	s.features = features.NewProvider(featureOpts...)

	s.aggregator = profile.NewAggregator(s.history)
	s.engine = scoring.NewEngine(scoring.WithWeights(s.weights))
	s.enhancer = enhance.NewEnhancer(s.resolver, s.features)
	s.orchestrator = enhance.NewOrchestrator(s.store, s.enhancer,
		enhance.WithBatchSize(s.batchSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.enhancer, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "event matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping event matching service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	if q, ok := s.eventQueue.(*eventqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(ctx, "event matching service stopped")
}

// SeenAndRecord atomically checks if an event id was seen and records it if
// not. Returns true if the event was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordEventDuplicate()
	}
	return seen
}

// Unrecord removes an event ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue stores the raw event and submits it for asynchronous enhancement.
func (s *Service) Enqueue(ctx context.Context, event model.Event) bool {
	if _, err := s.store.Upsert(ctx, event); err != nil {
		s.logger.Warn(ctx, "storing raw event failed",
			logger.String("eventID", event.ID()),
			logger.Error(err),
		)
		return false
	}

	ok := s.eventQueue.Enqueue(ctx, event)
	if ok {
		metrics.RecordEventIngested()
		metrics.UpdateQueueSize(s.eventQueue.Len(ctx))
	}
	return ok
}

// Ingest pulls events from the upstream listing source, deduplicates them
// and queues the new ones for enhancement.
func (s *Service) Ingest(ctx context.Context, q ticketing.Query) (int, int, error) {
	if s.lister == nil {
		return 0, 0, ErrIngestNotConfigured
	}

	events, err := s.lister.Search(ctx, q)
	if err != nil {
		return 0, 0, fmt.Errorf("listing events: %w", err)
	}

	var queued, duplicates int
	for i := range events {
		event := events[i]
		if s.SeenAndRecord(ctx, event.ID()) {
			duplicates++
			continue
		}
		if !s.Enqueue(ctx, event) {
			s.Unrecord(ctx, event.ID())
			s.logger.Warn(ctx, "queue saturated during ingest, remaining events dropped",
				logger.String("eventID", event.ID()),
				logger.Int("queued", queued),
			)
			break
		}
		queued++
	}

	s.logger.Info(ctx, "ingest pull finished",
		logger.Int("fetched", len(events)),
		logger.Int("queued", queued),
		logger.Int("duplicates", duplicates),
	)
	return queued, duplicates, nil
}

// EnhanceAll runs a batch enhancement pass over pending events.
func (s *Service) EnhanceAll(ctx context.Context, limit int) (enhance.Summary, error) {
	s.mu.RLock()
	orchestrator := s.orchestrator
	s.mu.RUnlock()

	if orchestrator == nil {
		return enhance.Summary{}, ErrNotStarted
	}
	return orchestrator.EnhanceAll(ctx, limit)
}

// Recommendations returns the top enhanced events for the user, ranked by
// personalized score.
func (s *Service) Recommendations(ctx context.Context, userID string, limit int) ([]types.Recommendation, error) {
	events, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	p := s.aggregator.BuildProfile(ctx, userID)

	type scored struct {
		event  model.Event
		result types.ScoreResult
	}
	candidates := make([]scored, 0, len(events))
	for i := range events {
		if !events[i].Enhanced() {
			continue
		}
		candidates = append(candidates, scored{
			event:  events[i],
			result: s.engine.Score(ctx, events[i], p),
		})
	}

	// Descending score, then ID for a stable order between runs.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].result.Score != candidates[j].result.Score {
			return candidates[i].result.Score > candidates[j].result.Score
		}
		return candidates[i].event.ID() < candidates[j].event.ID()
	})

	if limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}

	recommendations := make([]types.Recommendation, len(candidates))
	for i, c := range candidates {
		recommendations[i] = types.Recommendation{
			Rank:       i + 1,
			EventID:    c.event.ID(),
			Name:       c.event.Name,
			Venue:      c.event.Venue.Name,
			Score:      c.result.Score,
			Confidence: c.result.Confidence,
			Breakdown:  c.result.Breakdown,
		}
	}
	return recommendations, nil
}

// ScoreEvent scores a single stored event against the user's taste profile.
func (s *Service) ScoreEvent(ctx context.Context, eventID, userID string) (types.ScoreResult, error) {
	event, err := s.store.Get(ctx, eventID)
	if err != nil {
		return types.ScoreResult{}, fmt.Errorf("loading event %s: %w", eventID, err)
	}

	p := s.aggregator.BuildProfile(ctx, userID)
	return s.engine.Score(ctx, event, p), nil
}

// TasteProfile returns the user's aggregated taste profile.
func (s *Service) TasteProfile(ctx context.Context, userID string) profile.Profile {
	return s.aggregator.BuildProfile(ctx, userID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		total := s.store.Count(ctx)
		enhanced := s.store.CountEnhanced(ctx)

		stats["queueLength"] = queueLen
		stats["totalEvents"] = total
		stats["enhancedEvents"] = enhanced
		stats["dedupeEntries"] = s.deduper.Size()
		stats["catalogArtists"] = s.catalog.Len()
		stats["features"] = s.features.Stats()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreEventsTotal(total)
		metrics.UpdateStoreEnhancedTotal(enhanced)
	}

	return stats
}

// Package worker defines worker contracts for asynchronous event enhancement.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/Sonar-glitch/sonar-match/internal/adapters/mq/queue"
	"github.com/Sonar-glitch/sonar-match/internal/domain/model"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
	"github.com/Sonar-glitch/sonar-match/pkg/metrics"
)

// Default worker configuration constants. Enhancement is I/O bound on the
// external catalogs, so the pool defaults well above NumCPU.
const (
	defaultWorkerMultiplier = 4
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Event abstracts what workers read off the queue.
// Using the model.Event type for consistency.
type Event = model.Event

// Enhancer runs the per-event derivation pipeline and returns the event
// with its derived fields populated.
type Enhancer interface {
	Enhance(ctx context.Context, event model.Event) (model.Event, error)
}

// Saver persists an event's derived fields.
type Saver interface {
	SaveEnhancement(ctx context.Context, event model.Event) error
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker processes events and writes enhancement updates using the provided
// interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining events before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing events.
type InMemoryWorker struct {
	queue    Queue
	enhancer Enhancer
	saver    Saver
	name     string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, enhancer Enhancer, saver Saver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		enhancer: enhancer,
		saver:    saver,
		name:     "worker", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"), // will be updated by options
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	eventChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-eventChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processEvent(ctx, event); err != nil {
				w.logger.Error(ctx, "error processing event", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processEvent runs one event through the enhancement pipeline and persists
// the derived fields.
func (w *InMemoryWorker) processEvent(ctx context.Context, event queue.Event) error { //nolint:gocritic // hugeParam: Event must be passed by value for channel semantics
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	enhanced, err := w.enhancer.Enhance(ctx, event)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordEnhancementError()
		metrics.RecordErrorByComponent("worker", "enhancement_error")
		metrics.RecordErrorByType("enhancement_error", "high")
		w.logger.Error(ctx, "enhancement failed for event",
			logger.String("eventID", event.ID()),
			logger.Error(err),
		)
		return fmt.Errorf("failed to enhance event %s: %w", event.ID(), err)
	}

	if err := w.saver.SaveEnhancement(ctx, enhanced); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		metrics.RecordErrorByType("store_error", "high")
		w.logger.Error(ctx, "persisting enhancement failed for event",
			logger.String("eventID", event.ID()),
			logger.Error(err),
		)
		return fmt.Errorf("persisting enhancement for %s: %w", event.ID(), err)
	}

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	enhancer Enhancer
	saver    Saver

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, enhancer Enhancer, saver Saver) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue,
		enhancer: enhancer,
		saver:    saver,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			enhancer,
			saver,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new events
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}

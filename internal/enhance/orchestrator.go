package enhance

import (
	"context"
	"fmt"
	"time"

	"github.com/Sonar-glitch/sonar-match/internal/adapters/repository"
	"github.com/Sonar-glitch/sonar-match/pkg/logger"
	"github.com/Sonar-glitch/sonar-match/pkg/metrics"
)

// Default batch configuration.
const defaultBatchSize = 50

// Summary reports the outcome of one batch run. processed counts every
// event the run looked at; skipped counts classified-non-music events,
// which still complete (their gate decision is the derived data).
type Summary struct {
	Processed int           `json:"processed"`
	Enhanced  int           `json:"enhanced"`
	Skipped   int           `json:"skipped"`
	Errors    int           `json:"errors"`
	Duration  time.Duration `json:"duration"`
}

// Orchestrator drives the Enhancer over the pending slice of the event
// collection in fixed-size batches. Runs are idempotent: events already
// enhanced at the current version are never selected again, so a crashed
// run resumes by simply running again.
type Orchestrator struct {
	store     repository.Store
	enhancer  *Enhancer
	batchSize int
	logger    logger.Logger
	now       func() time.Time
}

// OrchestratorOption applies a configuration option to the Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithBatchSize sets how many pending events one batch holds.
func WithBatchSize(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithOrchestratorLogger sets a custom logger.
func WithOrchestratorLogger(l logger.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOrchestratorClock overrides the wall clock, for tests.
func WithOrchestratorClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// NewOrchestrator creates an Orchestrator over a store and an Enhancer.
func NewOrchestrator(store repository.Store, enhancer *Enhancer, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		store:     store,
		enhancer:  enhancer,
		batchSize: defaultBatchSize,
		logger:    logger.Get().Named("orchestrator"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// EnhanceAll processes pending events until none remain or limit is
// reached (limit <= 0 means no limit). A failing event is counted and
// logged, never fatal to the run.
func (o *Orchestrator) EnhanceAll(ctx context.Context, limit int) (Summary, error) {
	start := o.now()
	metrics.RecordBatchRun()

	var summary Summary
	// Failed events stay pending and would be reselected by the next
	// batch of this same run; attempted tracks them so each event is
	// tried at most once per run.
	attempted := make(map[string]struct{})
	for {
		if err := ctx.Err(); err != nil {
			summary.Duration = o.now().Sub(start)
			return summary, fmt.Errorf("batch run interrupted: %w", err)
		}

		batchSize := o.batchSize
		if limit > 0 && limit-summary.Processed < batchSize {
			batchSize = limit - summary.Processed
		}
		if batchSize <= 0 {
			break
		}

		batch, err := o.store.ListPending(ctx, batchSize+len(attempted))
		if err != nil {
			summary.Duration = o.now().Sub(start)
			return summary, fmt.Errorf("listing pending events: %w", err)
		}

		fresh := 0
		for _, event := range batch {
			if _, ok := attempted[event.ID()]; ok {
				continue
			}
			if fresh == batchSize {
				break
			}
			fresh++
			attempted[event.ID()] = struct{}{}
			summary.Processed++

			enhanced, err := o.enhancer.Enhance(ctx, event)
			if err != nil {
				summary.Errors++
				o.logger.Warn(ctx, "event enhancement failed",
					logger.String("eventID", event.ID()), logger.Error(err))
				continue
			}
			if err := o.store.SaveEnhancement(ctx, enhanced); err != nil {
				summary.Errors++
				o.logger.Warn(ctx, "persisting enhancement failed",
					logger.String("eventID", event.ID()), logger.Error(err))
				continue
			}
			if enhanced.IsMusicEvent {
				summary.Enhanced++
			} else {
				summary.Skipped++
			}
		}
		if fresh == 0 {
			break
		}

		o.logger.Info(ctx, "batch completed",
			logger.Int("processed", summary.Processed),
			logger.Int("enhanced", summary.Enhanced),
			logger.Int("skipped", summary.Skipped),
			logger.Int("errors", summary.Errors),
		)
	}

	summary.Duration = o.now().Sub(start)
	o.logger.Info(ctx, "enhancement run finished",
		logger.Int("processed", summary.Processed),
		logger.Int("enhanced", summary.Enhanced),
		logger.Int("skipped", summary.Skipped),
		logger.Int("errors", summary.Errors),
		logger.Duration("duration", summary.Duration),
	)
	return summary, nil
}

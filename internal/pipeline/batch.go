package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/epubdiff/internal/config"
	"github.com/nao1215/epubdiff/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor handles concurrent comparison of multiple archive pairs.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: Concurrency lives only here, across pairs. A single
// comparison stays strictly sequential, so two comparisons never share
// state and each pair's report is built exactly as it would be in a
// standalone run.
type BatchProcessor struct {
	// cfg is the run configuration shared by all comparisons.
	cfg *config.Config

	// concurrency is the maximum number of concurrent comparisons.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed comparison reports.
	// Access is synchronized via mutex.
	results []*model.ComparisonReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent comparisons.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(cfg *config.Config, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		cfg:         cfg,
		concurrency: config.DefaultConcurrency,
		results:     make([]*model.ComparisonReport, 0),
	}
	if cfg != nil && cfg.Concurrency > 0 {
		bp.concurrency = cfg.Concurrency
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch compares multiple archive pairs concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each pair gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns all reports in input order, even for pairs that failed: an
// unopenable archive yields a report carrying only the error. The error
// return indicates cancellation, not per-pair failure.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, pairs []config.Pair) ([]*model.ComparisonReport, error) {
	bp.logger.Info("starting batch comparison",
		"total_pairs", len(pairs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*model.ComparisonReport, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, pair := range pairs {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("comparing pair",
				"original", pair.Original,
				"translated", pair.Translated,
				"index", i+1,
				"total", len(pairs),
			)

			report, err := Compare(ctx, pair.Original, pair.Translated, bp.cfg, WithLogger(bp.logger))
			if err != nil && report == nil {
				// Open failure: synthesize a report so the batch output
				// stays positional.
				report = model.NewComparisonReport(pair.Original, pair.Translated)
				report.Error = err
				report.ErrorMessage = err.Error()
			}

			// Store result regardless of error
			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("comparison failed",
					"original", pair.Original,
					"translated", pair.Translated,
					"error", err,
				)
				// Don't return the error to errgroup - remaining pairs
				// should still be compared.
				return nil
			}

			bp.logger.Info("comparison completed",
				"original", pair.Original,
				"findings", report.TotalFindings(),
			)

			return nil
		})
	}

	// Wait for all comparisons to complete
	err := g.Wait()

	elapsed := time.Since(startTime)
	bp.logger.Info("batch comparison complete",
		"total_pairs", len(pairs),
		"elapsed", elapsed,
	)

	return bp.results, err
}

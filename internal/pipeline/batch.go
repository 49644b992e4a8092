package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/lifetag/tagscan/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of inputs decoded at once.
const DefaultConcurrency = 4

// BatchProcessor runs the pipeline over many decoded texts concurrently,
// for offline decoding of saved payloads and images.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each input.
	pipelineFactory func() *Pipeline
	concurrency     int
	logger          *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent cycles.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs one scan cycle per input and returns the cycles in
// input order. A cycle that fails keeps its error in Err; only
// cancellation is returned as an error. Inputs not started before
// cancellation have a nil cycle.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, inputs []string) ([]*model.ScanCycle, error) {
	results := make([]*model.ScanCycle, len(inputs))
	err := bp.ProcessBatchWithCallback(ctx, inputs, func(cycle *model.ScanCycle, index int) {
		// each index is written by exactly one goroutine
		results[index] = cycle
	})
	return results, err
}

// ProcessBatchWithCallback runs one scan cycle per input and calls
// callback with each finished cycle and its input index. The callback is
// called from worker goroutines.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	inputs []string,
	callback func(cycle *model.ScanCycle, index int),
) error {
	bp.logger.Debug("starting batch decode",
		"total", len(inputs),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			cycle := model.NewScanCycle(input)
			if err := bp.pipelineFactory().Execute(ctx, cycle); err != nil {
				bp.logger.Debug("decode failed",
					"index", i,
					"digest", cycle.ShortDigest(),
					"error", err,
				)
			}
			callback(cycle, i)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Debug("batch decode complete",
		"total", len(inputs),
		"elapsed", time.Since(startTime),
	)
	return err
}

package optimize

import (
	"context"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/alde/pixelwise/pkg/pixelwise"
)

// BatchItem is one surface queued for batch optimization.
type BatchItem struct {
	ID     string
	Source image.Image
	Config Config
}

// BatchResult pairs an item with its outcome. Failures stay on the item
// and never abort sibling items.
type BatchResult struct {
	ID     string
	Result *Result
	Err    error
}

// OptimizeBatch runs every item through the pipeline with a bounded
// worker pool sized by the performance mode. Cancelling the context stops
// unstarted work; items already past their current stage boundary finish
// that stage and are dropped.
func (p *Pipeline) OptimizeBatch(ctx context.Context, items []BatchItem, mode pixelwise.PerformanceMode) []BatchResult {
	results := make([]BatchResult, len(items))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(mode.ConcurrencyLevel())

	for i, item := range items {
		i, item := i, item
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				results[i] = BatchResult{ID: item.ID, Err: err}
				return nil
			}

			result, err := p.Optimize(groupCtx, item.Source, item.Config)
			if err != nil {
				// Per-item isolation: record and keep the batch going.
				results[i] = BatchResult{ID: item.ID, Err: err}
				return nil
			}
			results[i] = BatchResult{ID: item.ID, Result: result}
			return nil
		})
	}

	group.Wait()
	return results
}

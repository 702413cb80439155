package tasks

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// ItemResult pairs an input item with the outcome of processing it.
// RunBounded and RunChunked return results in input order regardless of
// completion order.
type ItemResult[T, R any] struct {
	Index   int
	Item    T
	Result  R
	Err     error
	Success bool
}

// ChunkOpts configures RunChunked.
type ChunkOpts struct {
	Concurrency int           // simultaneous goroutines within a batch (default: 5)
	BatchSize   int           // items per batch (default: 10)
	BatchDelay  time.Duration // pause between batches
}

func (o *ChunkOpts) defaults() {
	if o.Concurrency <= 0 {
		o.Concurrency = 5
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 10
	}
}

// RunBounded processes items concurrently with at most concurrency goroutines
// in flight. Per-item errors are captured in the corresponding ItemResult
// rather than aborting the run; only context cancellation stops early, and
// items never started carry ctx.Err().
//
// onItem, if non-nil, is called from the worker goroutine as each item
// finishes, in completion order. Items skipped by cancellation do not fire it.
func RunBounded[T, R any](ctx context.Context, items []T, concurrency int, fn func(ctx context.Context, item T) (R, error), onItem func(ItemResult[T, R])) []ItemResult[T, R] {
	if concurrency <= 0 {
		concurrency = 5
	}

	results := make([]ItemResult[T, R], len(items))
	for i, item := range items {
		results[i] = ItemResult[T, R]{Index: i, Item: item}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			res, err := fn(ctx, items[i])
			results[i].Result = res
			results[i].Err = err
			results[i].Success = err == nil
			if onItem != nil {
				onItem(results[i])
			}
			return nil
		})
	}

	g.Wait()
	return results
}

// RunChunked processes items in sequential batches of opts.BatchSize, running
// each batch through RunBounded and pausing opts.BatchDelay between batches.
// onItem streams per-item completions with indices rebased to the full input;
// onBatch, if non-nil, is invoked after each batch completes. Returns early
// with ctx.Err() if the context is cancelled between batches; completed
// results are still returned.
func RunChunked[T, R any](ctx context.Context, items []T, opts ChunkOpts, fn func(ctx context.Context, item T) (R, error), onItem func(ItemResult[T, R]), onBatch func(BatchProgress)) ([]ItemResult[T, R], error) {
	opts.defaults()

	results := make([]ItemResult[T, R], 0, len(items))
	totalBatches := (len(items) + opts.BatchSize - 1) / opts.BatchSize

	for start := 0; start < len(items); start += opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		var onBatchItem func(ItemResult[T, R])
		if onItem != nil {
			onBatchItem = func(r ItemResult[T, R]) {
				r.Index += start
				onItem(r)
			}
		}

		end := min(start+opts.BatchSize, len(items))
		batch := RunBounded(ctx, items[start:end], opts.Concurrency, fn, onBatchItem)
		for _, r := range batch {
			r.Index += start
			results = append(results, r)
		}

		if onBatch != nil {
			onBatch(BatchProgress{
				CurrentBatch:   start/opts.BatchSize + 1,
				TotalBatches:   totalBatches,
				ProcessedItems: end,
				TotalItems:     len(items),
			})
		}

		if opts.BatchDelay > 0 && end < len(items) {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(opts.BatchDelay):
			}
		}
	}

	return results, nil
}

package util

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Parallel runs fn for every input with at most workerLimit calls in flight.
// The first error cancels the context passed to the remaining calls and is
// returned once all started calls finish.
func Parallel[T any](ctx context.Context, inputs []T, workerLimit int, fn func(context.Context, T) error) error {
	if len(inputs) == 0 {
		return nil
	}

	if workerLimit <= 0 {
		workerLimit = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit)

	for _, item := range inputs {
		// stop feeding when context canceled
		if ctx.Err() != nil {
			break
		}
		item := item
		g.Go(func() error {
			return fn(ctx, item)
		})
	}

	return g.Wait()
}

package utils

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MapOrdered runs fn for every item concurrently and returns the results in
// input order. The first error cancels the context passed to the remaining
// calls and is returned with no results. limit <= 0 starts one goroutine per item.
func MapOrdered[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

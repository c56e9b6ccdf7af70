// Package batch runs independent fallible operations concurrently and keeps their results
// in submission order.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one item: a value or the reason it failed.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the item succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Run calls fn for every index in [0, n) concurrently, at most limit at a time (limit <= 0 means
// unbounded). A failing item never cancels the others. results[i] always belongs to index i,
// whatever the completion order.
func Run[T any](ctx context.Context, n, limit int, fn func(ctx context.Context, i int) (T, error)) []Result[T] {
	results := make([]Result[T], n)

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			value, err := fn(ctx, i)
			results[i] = Result[T]{Value: value, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Successful returns the values of the successful results, in order.
func Successful[T any](results []Result[T]) []T {
	out := make([]T, 0, len(results))
	for _, r := range results {
		if r.OK() {
			out = append(out, r.Value)
		}
	}
	return out
}

// Failed returns the indexes of the failed results, in order.
func Failed[T any](results []Result[T]) []int {
	var out []int
	for i, r := range results {
		if !r.OK() {
			out = append(out, i)
		}
	}
	return out
}

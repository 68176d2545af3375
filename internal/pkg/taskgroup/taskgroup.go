// Package taskgroup fans work out over a bounded number of goroutines and
// reports one result per input item.
package taskgroup

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit is used when a non-positive limit is passed to Run.
const DefaultLimit = 3

// Result is the outcome of processing the item at Index.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// OK reports whether the item succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// Run calls fn for every item with at most limit calls in flight. A failing
// item never stops the others. Results come back in input order. A panic in
// fn is reported as that item's error.
func Run[In, Out any](ctx context.Context, limit int, items []In, fn func(ctx context.Context, item In) (Out, error)) []Result[Out] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	results := make([]Result[Out], len(items))
	if len(items) == 0 {
		return results
	}

	ch := make(chan Result[Out], len(items))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			ch <- call(ctx, i, item, fn)
			return nil
		})
	}
	_ = g.Wait()
	close(ch)

	for r := range ch {
		results[r.Index] = r
	}
	return results
}

func call[In, Out any](ctx context.Context, i int, item In, fn func(context.Context, In) (Out, error)) (res Result[Out]) {
	res.Index = i
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("panic: %v", p)
		}
	}()
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	res.Value, res.Err = fn(ctx, item)
	return res
}

// Count returns the number of successful and failed results.
func Count[T any](results []Result[T]) (successful, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			successful++
		}
	}
	return successful, failed
}

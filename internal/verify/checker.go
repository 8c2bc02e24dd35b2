/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package verify

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Checker runs read-only checks against files under a site root.
// Every check records failures in its result instead of returning an error.
type Checker struct {
	root        string
	maxFileSize int64
	concurrency int
}

// NewChecker creates a checker rooted at root. concurrency <= 0 uses one
// worker per CPU; maxFileSize <= 0 disables the content read limit.
func NewChecker(root string, concurrency int, maxFileSize int64) *Checker {
	return &Checker{root: root, concurrency: concurrency, maxFileSize: maxFileSize}
}

// Root returns the site root the checker reads from.
func (c *Checker) Root() string { return c.root }

func (c *Checker) workers() int {
	if c.concurrency <= 0 {
		return runtime.NumCPU()
	}
	return c.concurrency
}

// forEach calls fn for 0..n-1 on a bounded worker pool. Callers write into
// pre-sized slices by index, so result order never depends on scheduling.
func (c *Checker) forEach(ctx context.Context, n int, fn func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers())
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	return g.Wait()
}

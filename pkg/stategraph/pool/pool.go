// Package pool provides a bounded worker pool for blocking work.
//
// Blocking node functions must not stall the goroutine driving other
// runs in the same process, so BlockingNode hands them to a Pool: each
// task takes a slot, runs on its own goroutine, and the caller waits
// for completion or context cancellation. Pool sizing is the caller's
// concern; New clamps non-positive sizes to one.
package pool

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool limits the number of concurrently running tasks.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// New creates a pool that runs at most size tasks at once.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

// Size returns the pool's concurrency limit.
func (p *Pool) Size() int {
	return p.size
}

// Do runs fn on its own goroutine once a slot is available and waits
// for it to finish.
//
// If ctx is cancelled while waiting for a slot, fn never runs and the
// context error is returned. If ctx is cancelled while fn is running,
// Do returns the context error immediately; the goroutine keeps running
// to completion and releases its slot when done. fn must therefore not
// depend on Do still waiting for it.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer p.sem.Release(1)
		defer close(done)
		fn()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

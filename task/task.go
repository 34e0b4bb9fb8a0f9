// Package task runs asynchronous tasks whose results feed the termwin
// control queue. It is the context-based counterpart to package worker:
// tasks are ordinary goroutines managed by an errgroup, cancelled through
// their context rather than a cooperative token.
package task

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/dshills/termwin/worker"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Spawn after the runner has been closed.
var ErrClosed = errors.New("task: runner closed")

// Fn is one asynchronous task. The context is cancelled by the returned
// Abort handle or by closing the runner. send delivers intermediate
// results; the returned value is always delivered.
type Fn[T any] func(ctx context.Context, send func(T)) T

// Abort cancels one spawned task.
type Abort struct {
	ID     uuid.UUID
	cancel context.CancelFunc
}

// Abort cancels the task's context.
func (a Abort) Abort() {
	if a.cancel != nil {
		a.cancel()
	}
}

// Runner executes tasks and collects their results.
type Runner[T any] struct {
	ctx     context.Context
	cancel  context.CancelFunc
	group   *errgroup.Group
	results chan T
	healthy atomic.Bool
	closed  atomic.Bool
}

// NewRunner creates a runner. Limit bounds the number of concurrently
// running tasks; zero or negative means unbounded.
func NewRunner[T any](limit int) *Runner[T] {
	ctx, cancel := context.WithCancel(context.Background())
	g := new(errgroup.Group)
	if limit > 0 {
		g.SetLimit(limit)
	}
	r := &Runner[T]{
		ctx:     ctx,
		cancel:  cancel,
		group:   g,
		results: make(chan T, 64),
	}
	r.healthy.Store(true)
	return r
}

// Spawn starts fn and returns its abort handle and liveness token.
func (r *Runner[T]) Spawn(fn Fn[T]) (Abort, worker.Liveness, error) {
	if r.closed.Load() {
		return Abort{}, worker.Liveness{}, ErrClosed
	}
	ctx, cancel := context.WithCancel(r.ctx)
	live := worker.NewLiveness()
	abort := Abort{ID: uuid.New(), cancel: cancel}

	r.group.Go(func() error {
		defer live.MarkFinished()
		defer cancel()
		defer func() {
			if p := recover(); p != nil {
				slog.Error("async task panicked", "task", abort.ID, "panic", p)
				r.healthy.Store(false)
			}
		}()
		res := fn(ctx, func(v T) {
			select {
			case r.results <- v:
			case <-ctx.Done():
			}
		})
		select {
		case r.results <- res:
		case <-r.ctx.Done():
		}
		return nil
	})
	return abort, live, nil
}

// Results is the channel task results are delivered on.
func (r *Runner[T]) Results() <-chan T {
	return r.results
}

// Check reports runner health. False means a task panicked.
func (r *Runner[T]) Check() bool {
	return r.healthy.Load()
}

// Close cancels every task context and waits for tasks to return.
func (r *Runner[T]) Close() {
	if r.closed.CompareAndSwap(false, true) {
		r.cancel()
		_ = r.group.Wait()
	}
}

package worker

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Spawn after the pool has been closed.
var ErrClosed = errors.New("worker: pool closed")

// Task is one unit of background work. It receives its cancellation token
// and a send function that can deliver intermediate results before the
// final one. The returned value is always delivered.
type Task[T any] func(cancel Cancel, send func(T)) T

type job[T any] struct {
	task   Task[T]
	cancel Cancel
	live   Liveness
}

// Pool runs tasks on a fixed set of worker goroutines. Results are read
// from Results by a poll source; the pool never touches application state.
//
// A panicking task marks the pool unhealthy. The event loop treats that as
// fatal, since state mutated by the dead task may be inconsistent.
type Pool[T any] struct {
	jobs    chan job[T]
	results chan T
	group   *errgroup.Group
	healthy atomic.Bool
	closed  atomic.Bool

	mu     sync.Mutex
	active map[*cancelState]Cancel
}

// NewPool creates a pool with size workers. Size must be at least one.
func NewPool[T any](size int) *Pool[T] {
	if size < 1 {
		size = 1
	}
	p := &Pool[T]{
		jobs:    make(chan job[T]),
		results: make(chan T, 64),
		group:   new(errgroup.Group),
	}
	p.healthy.Store(true)
	for i := 0; i < size; i++ {
		p.group.Go(p.work)
	}
	return p
}

func (p *Pool[T]) work() error {
	for j := range p.jobs {
		p.run(j)
	}
	return nil
}

func (p *Pool[T]) run(j job[T]) {
	p.track(j.cancel)
	defer p.untrack(j.cancel)
	defer j.live.MarkFinished()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("worker task panicked", "panic", r)
			p.healthy.Store(false)
		}
	}()
	// Close may have swept the active set before this job registered.
	if p.closed.Load() {
		j.cancel.Cancel()
	}
	res := j.task(j.cancel, func(v T) { p.results <- v })
	p.results <- res
}

func (p *Pool[T]) track(c Cancel) {
	p.mu.Lock()
	if p.active == nil {
		p.active = make(map[*cancelState]Cancel)
	}
	p.active[c.state] = c
	p.mu.Unlock()
}

func (p *Pool[T]) untrack(c Cancel) {
	p.mu.Lock()
	delete(p.active, c.state)
	p.mu.Unlock()
}

// Spawn submits a task. It returns the task's cancellation token and its
// liveness token. Blocks while every worker is busy.
func (p *Pool[T]) Spawn(task Task[T]) (Cancel, Liveness, error) {
	if p.closed.Load() {
		return Cancel{}, Liveness{}, ErrClosed
	}
	j := job[T]{task: task, cancel: NewCancel(), live: NewLiveness()}
	p.jobs <- j
	return j.cancel, j.live, nil
}

// Results is the channel task results are delivered on.
func (p *Pool[T]) Results() <-chan T {
	return p.results
}

// Check reports pool health. False means a task panicked and the
// application should shut down.
func (p *Pool[T]) Check() bool {
	return p.healthy.Load()
}

// Close stops accepting tasks, cancels every running task's token, and
// waits for them to finish. Cancellation stays cooperative: a task that
// never checks its token still blocks Close.
func (p *Pool[T]) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	close(p.jobs)
	p.mu.Lock()
	for _, c := range p.active {
		c.Cancel()
	}
	p.mu.Unlock()
	_ = p.group.Wait()
}

// Package worker provides a fixed pool of background worker goroutines
// whose results are delivered back to the owning goroutine through a
// channel, plus the cooperative cancellation primitives shared with the
// rest of termwin.
package worker

import (
	"sync"
	"sync/atomic"
)

// Cancel is a cooperative cancellation token: a thread-safe flag plus a
// wake channel. Cancellation is never forced; the holder must check the
// token and stop on its own.
type Cancel struct {
	state *cancelState
}

type cancelState struct {
	canceled atomic.Bool
	once     sync.Once
	done     chan struct{}
}

// NewCancel creates an un-canceled token.
func NewCancel() Cancel {
	return Cancel{state: &cancelState{done: make(chan struct{})}}
}

// Cancel sets the flag and wakes every waiter. Idempotent.
func (c Cancel) Cancel() {
	c.state.canceled.Store(true)
	c.state.once.Do(func() { close(c.state.done) })
}

// Canceled reports whether Cancel was called.
func (c Cancel) Canceled() bool {
	return c.state.canceled.Load()
}

// Done returns a channel closed on cancellation, for use in select.
func (c Cancel) Done() <-chan struct{} {
	return c.state.done
}

// Liveness reports whether a spawned task has finished, regularly or by
// panicking.
type Liveness struct {
	finished *atomic.Bool
}

// NewLiveness creates a token for a task that has not finished yet.
func NewLiveness() Liveness {
	return Liveness{finished: new(atomic.Bool)}
}

// Finished reports whether the task has completed.
func (l Liveness) Finished() bool {
	return l.finished.Load()
}

// MarkFinished records completion. Called by the runner that owns the task.
func (l Liveness) MarkFinished() {
	l.finished.Store(true)
}

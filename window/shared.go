package window

import "sync/atomic"

// Shared is a reference-counted window handle. The renderer, the event
// converter and the application context all need read access to the window,
// but exactly one logical owner tears it down. The count makes the
// single-owner invariant checkable at shutdown.
type Shared struct {
	Window
	refs atomic.Int32
}

// NewShared wraps w with a reference count of one.
func NewShared(w Window) *Shared {
	s := &Shared{Window: w}
	s.refs.Store(1)
	return s
}

// Acquire adds a reference and returns the same handle.
func (s *Shared) Acquire() *Shared {
	s.refs.Add(1)
	return s
}

// Release drops a reference. Dropping the last reference closes the
// native window.
func (s *Shared) Release() {
	if s.refs.Add(-1) == 0 {
		s.Window.Close()
	}
}

// Refs returns the current reference count.
func (s *Shared) Refs() int {
	return int(s.refs.Load())
}

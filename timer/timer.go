// Package timer provides application timers for the termwin event loop.
// Timers never fire callbacks; they are drained as TimeOut values by a
// poll source and dispatched through the control queue like every other
// event.
package timer

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handle identifies a registered timer.
type Handle = uuid.UUID

// Timer describes a timer to register.
type Timer struct {
	// Interval between firings.
	Interval time.Duration

	// Count limits the number of firings. Zero means repeat forever.
	Count int

	// Start delays the first firing. Zero means Interval from now.
	Start time.Duration
}

// TimeOut is one timer firing.
type TimeOut struct {
	Handle  Handle
	Counter int
	Time    time.Time
}

type entry struct {
	handle  Handle
	def     Timer
	next    time.Time
	counter int
}

// Service manages the registered timers. Safe for concurrent use: the
// owning goroutine registers and removes timers while the background poll
// goroutine checks deadlines.
type Service struct {
	mu      sync.Mutex
	entries []*entry // sorted by next deadline, soonest first
	now     func() time.Time
}

// New creates an empty timer service.
func New() *Service {
	return &Service{now: time.Now}
}

// Add registers a timer and returns its handle.
func (s *Service) Add(def Timer) Handle {
	h := uuid.New()
	start := def.Start
	if start <= 0 {
		start = def.Interval
	}
	s.mu.Lock()
	s.insert(&entry{
		handle: h,
		def:    def,
		next:   s.now().Add(start),
	})
	s.mu.Unlock()
	return h
}

// Remove unregisters a timer. Removing an expired or unknown handle is a
// no-op.
func (s *Service) Remove(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.handle == h {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// Replace removes old (if non-nil) and registers def.
func (s *Service) Replace(old *Handle, def Timer) Handle {
	if old != nil {
		s.Remove(*old)
	}
	return s.Add(def)
}

// Poll reports whether a timer is due.
func (s *Service) Poll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries) > 0 && !s.entries[0].next.After(s.now())
}

// Read pops the next due timer firing. Returns false if nothing is due.
// Repeating timers are rescheduled relative to their previous deadline so
// that firing intervals do not drift.
func (s *Service) Read() (TimeOut, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 || s.entries[0].next.After(s.now()) {
		return TimeOut{}, false
	}

	e := s.entries[0]
	s.entries = s.entries[1:]

	e.counter++
	to := TimeOut{Handle: e.handle, Counter: e.counter, Time: e.next}

	if e.def.Count == 0 || e.counter < e.def.Count {
		e.next = e.next.Add(e.def.Interval)
		s.insert(e)
	}
	return to, true
}

// SleepTime returns the duration until the next deadline. Returns false
// when no timer is registered.
func (s *Service) SleepTime() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return 0, false
	}
	d := s.entries[0].next.Sub(s.now())
	if d < 0 {
		d = 0
	}
	return d, true
}

// Len returns the number of registered timers.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// insert keeps entries sorted by deadline. Caller holds the lock.
func (s *Service) insert(e *entry) {
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].next.After(e.next)
	})
	s.entries = append(s.entries, nil)
	copy(s.entries[i+1:], s.entries[i:])
	s.entries[i] = e
}

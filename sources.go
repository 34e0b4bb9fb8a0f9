package termwin

import (
	"sync"
	"time"

	"github.com/dshills/termwin/task"
	"github.com/dshills/termwin/timer"
	"github.com/dshills/termwin/worker"
)

// Source is a producer of Control values merged into the control queue
// by the background poll goroutine. Poll must be non-blocking; Read
// consumes exactly one ready value and must only be called after Poll
// reported true in the same cycle.
type Source[E any] interface {
	Poll() (bool, error)
	Read() (Control[E], error)
}

// sleepHinter is an optional Source capability: an upper bound on how
// long the poll goroutine may sleep before this source has work.
type sleepHinter interface {
	SleepTime() (time.Duration, bool)
}

// Tick emits Changed at a fixed rate, driving periodic repaints. The
// rate can be adjusted while running.
type Tick[E any] struct {
	mu   sync.Mutex
	rate time.Duration
	next time.Time
}

// NewTick creates a tick source firing every rate.
func NewTick[E any](rate time.Duration) *Tick[E] {
	return &Tick[E]{rate: rate, next: time.Now().Add(rate)}
}

// SetRate changes the tick interval. The next firing is rescheduled.
func (t *Tick[E]) SetRate(rate time.Duration) {
	t.mu.Lock()
	t.rate = rate
	t.next = time.Now().Add(rate)
	t.mu.Unlock()
}

// Rate returns the current tick interval.
func (t *Tick[E]) Rate() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rate
}

func (t *Tick[E]) Poll() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.next.After(time.Now()), nil
}

func (t *Tick[E]) Read() (Control[E], error) {
	t.mu.Lock()
	t.next = time.Now().Add(t.rate)
	t.mu.Unlock()
	return Changed[E](), nil
}

func (t *Tick[E]) SleepTime() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d := time.Until(t.next)
	if d < 0 {
		d = 0
	}
	return d, true
}

// blinkSource emits Blink at a fixed rate so the renderer can toggle
// blinking cells and the cursor.
type blinkSource[E any] struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

func newBlinkSource[E any](interval time.Duration) *blinkSource[E] {
	return &blinkSource[E]{interval: interval, next: time.Now().Add(interval)}
}

func (b *blinkSource[E]) Poll() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.next.After(time.Now()), nil
}

func (b *blinkSource[E]) Read() (Control[E], error) {
	b.mu.Lock()
	b.next = time.Now().Add(b.interval)
	b.mu.Unlock()
	return Blink[E](), nil
}

func (b *blinkSource[E]) SleepTime() (time.Duration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := time.Until(b.next)
	if d < 0 {
		d = 0
	}
	return d, true
}

// timerSource adapts a timer.Service. Each firing is mapped to a
// Control by the caller-supplied wrap function.
type timerSource[E any] struct {
	svc  *timer.Service
	wrap func(timer.TimeOut) Control[E]
}

func (t *timerSource[E]) Poll() (bool, error) {
	return t.svc.Poll(), nil
}

func (t *timerSource[E]) Read() (Control[E], error) {
	to, ok := t.svc.Read()
	if !ok {
		return Continue[E](), nil
	}
	return t.wrap(to), nil
}

func (t *timerSource[E]) SleepTime() (time.Duration, bool) {
	return t.svc.SleepTime()
}

// resultSource drains a channel of results, as produced by worker pools
// and task runners. It holds at most one value between Poll and Read.
type resultSource[E any] struct {
	ch      <-chan Result[E]
	pending *Result[E]
}

func newResultSource[E any](ch <-chan Result[E]) *resultSource[E] {
	return &resultSource[E]{ch: ch}
}

func (s *resultSource[E]) Poll() (bool, error) {
	if s.pending != nil {
		return true, nil
	}
	select {
	case r := <-s.ch:
		s.pending = &r
		return true, nil
	default:
		return false, nil
	}
}

func (s *resultSource[E]) Read() (Control[E], error) {
	if s.pending == nil {
		return Continue[E](), nil
	}
	r := *s.pending
	s.pending = nil
	return r.Ctrl, r.Err
}

func workerSource[E any](pool *worker.Pool[Result[E]]) Source[E] {
	return newResultSource[E](pool.Results())
}

func taskSource[E any](runner *task.Runner[Result[E]]) Source[E] {
	return newResultSource[E](runner.Results())
}

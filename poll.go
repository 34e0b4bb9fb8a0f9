package termwin

import (
	"time"

	"github.com/dshills/termwin/worker"
)

// Adaptive sleep bounds for the poll goroutine: busy periods poll every
// fastSleep, idle periods back off in backoffStep increments up to
// slowSleep.
const (
	slowSleep   = 250 * time.Millisecond
	backoffStep = 10 * time.Millisecond
	fastSleep   = 100 * time.Microsecond
)

// poller owns the poll-source list and merges ready events into the
// control queue from a dedicated goroutine. It holds no UI state and
// never calls user callbacks; it only relays.
type poller[E any] struct {
	sources []Source[E]
	send    func(Result[E]) error
	cancel  worker.Cancel
	gate    chan struct{}
	wake    chan struct{}

	sleep time.Duration
	ready []int // poll queue: source indices with a ready event
}

func newPoller[E any](sources []Source[E], send func(Result[E]) error) *poller[E] {
	return &poller[E]{
		sources: sources,
		send:    send,
		cancel:  worker.NewCancel(),
		gate:    make(chan struct{}),
		wake:    make(chan struct{}, 1),
		sleep:   fastSleep,
		ready:   make([]int, 0, len(sources)),
	}
}

// start releases the gate. Until then the goroutine cannot push work
// into a loop that is still constructing its state.
func (p *poller[E]) start() {
	close(p.gate)
}

// stop cancels the poller and unparks it so cancellation is observed
// without waiting out the current sleep.
func (p *poller[E]) stop() {
	p.cancel.Cancel()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// wakeUp unparks the poller early, for when a new deadline was
// registered that may be nearer than the current sleep budget.
func (p *poller[E]) wakeUp() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *poller[E]) run() {
	select {
	case <-p.gate:
	case <-p.cancel.Done():
		return
	}
	for !p.cancel.Canceled() {
		if !p.cycle() {
			return
		}
	}
}

// cycle performs one wake: poll every source, then either relay the
// ready events or park. Returns false when the poller must exit because
// the owning loop is gone.
func (p *poller[E]) cycle() bool {
	p.ready = p.ready[:0]
	for i, s := range p.sources {
		ok, err := s.Poll()
		if err != nil {
			if p.send(Fail[E](err)) != nil {
				return false
			}
			continue
		}
		if ok {
			p.ready = append(p.ready, i)
		}
	}

	if len(p.ready) == 0 {
		d := p.sleep
		for _, s := range p.sources {
			if h, ok := s.(sleepHinter); ok {
				if hint, ok := h.SleepTime(); ok && hint < d {
					d = hint
				}
			}
		}
		if !p.park(d) {
			return false
		}
		if p.sleep < slowSleep {
			p.sleep += backoffStep
			if p.sleep > slowSleep {
				p.sleep = slowSleep
			}
		}
		return true
	}

	p.sleep = fastSleep
	for _, i := range p.ready {
		c, err := p.sources[i].Read()
		res := Ok(c)
		if err != nil {
			res = Fail[E](err)
		}
		if p.send(res) != nil {
			return false
		}
	}
	return true
}

// park sleeps for d or until woken. Returns false on cancellation.
func (p *poller[E]) park(d time.Duration) bool {
	if d <= 0 {
		return !p.cancel.Canceled()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-p.wake:
		return !p.cancel.Canceled()
	case <-p.cancel.Done():
		return false
	}
}

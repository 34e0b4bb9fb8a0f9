package termwin

import (
	"fmt"
	"time"

	"github.com/dshills/termwin/backend"
	"github.com/dshills/termwin/fontdir"
	"github.com/dshills/termwin/task"
	"github.com/dshills/termwin/timer"
	"github.com/dshills/termwin/window"
	"github.com/dshills/termwin/worker"
)

// AppContext is the surface application callbacks use to talk back to
// the loop. It is a single-goroutine aggregate: only the event-loop
// goroutine may touch it. Background work communicates exclusively by
// pushing onto the control queue through Spawn/SpawnTask results or the
// Queue methods.
type AppContext[E any] struct {
	queue *controlQueue[E]

	term *backend.Terminal
	win  *window.Shared

	fonts      *fontdir.Database
	fontFamily string
	fontSize   int

	timers  *timer.Service
	workers *worker.Pool[Result[E]]
	tasks   *task.Runner[Result[E]]
	tick    *Tick[E]
	wake    func()

	cursorX, cursorY int
	cursorSet        bool

	frames     uint64
	lastRender time.Duration
	lastEvent  time.Duration

	fontChanged     bool
	fontSizeChanged bool
	clearRequested  bool
}

// SetCursor places the visible cursor for the next frame only. The
// value is consumed after each frame; unset means hidden.
func (c *AppContext[E]) SetCursor(x, y int) {
	c.cursorX, c.cursorY, c.cursorSet = x, y, true
}

func (c *AppContext[E]) takeCursor() (int, int, bool) {
	x, y, ok := c.cursorX, c.cursorY, c.cursorSet
	c.cursorSet = false
	return x, y, ok
}

// FrameCount returns the number of completed frames.
func (c *AppContext[E]) FrameCount() uint64 {
	return c.frames
}

// LastRenderTime returns the duration of the most recent render pass.
func (c *AppContext[E]) LastRenderTime() time.Duration {
	return c.lastRender
}

// LastEventTime returns the duration of the most recent event dispatch.
func (c *AppContext[E]) LastEventTime() time.Duration {
	return c.lastEvent
}

// QueueCtrl enqueues a control for the drain loop.
func (c *AppContext[E]) QueueCtrl(ctrl Control[E]) {
	c.queue.push(Ok(ctrl))
}

// QueueEvent enqueues an application event.
func (c *AppContext[E]) QueueEvent(ev E) {
	c.queue.push(Ok(Event(ev)))
}

// QueueErr enqueues an error for the application's error handler.
func (c *AppContext[E]) QueueErr(err error) {
	c.queue.push(Fail[E](err))
}

// AddTimer registers a timer. Panics if the run was configured without
// a timer service.
func (c *AppContext[E]) AddTimer(def timer.Timer) timer.Handle {
	if c.timers == nil {
		panic("termwin: no timer service configured. use WithTimers() on the run config")
	}
	h := c.timers.Add(def)
	c.wake()
	return h
}

// RemoveTimer unregisters a timer.
func (c *AppContext[E]) RemoveTimer(h timer.Handle) {
	if c.timers == nil {
		panic("termwin: no timer service configured. use WithTimers() on the run config")
	}
	c.timers.Remove(h)
}

// ReplaceTimer removes old (if non-nil) and registers def.
func (c *AppContext[E]) ReplaceTimer(old *timer.Handle, def timer.Timer) timer.Handle {
	if c.timers == nil {
		panic("termwin: no timer service configured. use WithTimers() on the run config")
	}
	h := c.timers.Replace(old, def)
	c.wake()
	return h
}

// Spawn submits work to the worker pool. The task's result, and any
// intermediate values it sends, are delivered through the control
// queue. Panics if the run was configured without workers.
func (c *AppContext[E]) Spawn(t worker.Task[Result[E]]) (worker.Cancel, worker.Liveness) {
	if c.workers == nil {
		panic("termwin: no worker pool configured. use WithWorkers() on the run config")
	}
	cancel, live, err := c.workers.Spawn(t)
	if err != nil {
		c.QueueErr(err)
	}
	return cancel, live
}

// SpawnTask starts an asynchronous task on the task runner. Panics if
// the run was configured without a task runner.
func (c *AppContext[E]) SpawnTask(fn task.Fn[Result[E]]) (task.Abort, worker.Liveness) {
	if c.tasks == nil {
		panic("termwin: no task runner configured. use WithTasks() on the run config")
	}
	abort, live, err := c.tasks.Spawn(fn)
	if err != nil {
		c.QueueErr(err)
	}
	return abort, live
}

// Terminal returns the shared terminal handle.
func (c *AppContext[E]) Terminal() *backend.Terminal {
	return c.term
}

// Window returns the shared window handle.
func (c *AppContext[E]) Window() *window.Shared {
	return c.win
}

// SetTitle changes the window title.
func (c *AppContext[E]) SetTitle(title string) {
	c.win.SetTitle(title)
}

// ClearTerminal schedules a full terminal clear on the next loop pass.
func (c *AppContext[E]) ClearTerminal() {
	c.clearRequested = true
}

// FontFamily returns the active font family.
func (c *AppContext[E]) FontFamily() string {
	return c.fontFamily
}

// SetFontFamily switches to the named family and schedules a font
// reload plus redraw. Unknown families are rejected.
func (c *AppContext[E]) SetFontFamily(family string) error {
	if len(c.fonts.FindFamily(family)) == 0 {
		return fmt.Errorf("termwin: unknown font family %q", family)
	}
	c.fontFamily = family
	c.fontChanged = true
	c.win.RequestRedraw()
	return nil
}

// FontSize returns the font size in pixels.
func (c *AppContext[E]) FontSize() int {
	return c.fontSize
}

// SetFontSize changes the font size and schedules a reload plus redraw.
func (c *AppContext[E]) SetFontSize(px int) {
	if px < minFontSize {
		px = minFontSize
	}
	c.fontSize = px
	c.fontSizeChanged = true
	c.win.RequestRedraw()
}

// TickRate returns the render tick interval, or zero when no tick
// source is configured.
func (c *AppContext[E]) TickRate() time.Duration {
	if c.tick == nil {
		return 0
	}
	return c.tick.Rate()
}

// SetTickRate adjusts the render tick interval. Panics if the run was
// configured without a tick source.
func (c *AppContext[E]) SetTickRate(rate time.Duration) {
	if c.tick == nil {
		panic("termwin: no tick source configured. use WithTick() on the run config")
	}
	c.tick.SetRate(rate)
	c.wake()
}

// release drops the context's shared handles during shutdown.
func (c *AppContext[E]) release() {
	c.term.Release()
	c.win.Release()
}

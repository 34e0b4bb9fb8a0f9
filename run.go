package termwin

import (
	"log/slog"
	"math"
	"time"

	"github.com/dshills/termwin/backend"
	"github.com/dshills/termwin/fontdir"
	"github.com/dshills/termwin/task"
	"github.com/dshills/termwin/timer"
	"github.com/dshills/termwin/window"
	"github.com/dshills/termwin/worker"
)

// minFontSize is the floor for Ctrl+wheel font scaling.
const minFontSize = 7

// App is the set of callbacks a termwin application implements. All of
// them run on the event-loop goroutine.
type App[E any] interface {
	// Init runs once after the window and renderer exist, before the
	// first frame. A non-nil error aborts the run.
	Init(ctx *AppContext[E]) error

	// Render draws one frame. Its result is pushed onto the queue like
	// any other callback result; return Continue for a plain frame.
	Render(ctx *AppContext[E], frame *backend.Frame) Result[E]

	// HandleEvent dispatches one application event.
	HandleEvent(ctx *AppContext[E], ev E) Result[E]

	// HandleError decides how to proceed after any error: a callback
	// failure or a poll-source failure.
	HandleError(ctx *AppContext[E], err error) Result[E]
}

// Run drives the application until it quits. It blocks on the calling
// goroutine, which becomes the event-loop goroutine.
func (c *RunConfig[E]) Run(app App[E]) error {
	h := &loopHandler[E]{
		cfg:   c,
		app:   app,
		queue: newControlQueue[E](),
	}
	if err := c.loop.Run(h); err != nil {
		return err
	}
	return h.err
}

// fontsRescanned is injected by the font-directory watcher.
type fontsRescanned struct{}

// loopHandler is the window.Handler implementing the Startup to Running
// state machine. run stays nil until Resumed fires.
type loopHandler[E any] struct {
	cfg   *RunConfig[E]
	app   App[E]
	queue *controlQueue[E]

	run  *running[E]
	down bool
	err  error
}

// running holds the live state after the one-way Startup transition.
type running[E any] struct {
	ctx      *AppContext[E]
	term     *backend.Terminal
	win      *window.Shared
	renderer backend.Renderer
	fonts    *fontdir.Database
	poll     *poller[E]
	scale    float64
}

func (l *loopHandler[E]) Resumed(active window.Active) {
	if l.run != nil {
		return
	}
	l.initialize(active)
}

func (l *loopHandler[E]) WindowEvent(active window.Active, ev window.Event) {
	l.process(active, ev, nil)
}

func (l *loopHandler[E]) UserEvent(active window.Active, payload any) {
	switch v := payload.(type) {
	case Result[E]:
		l.process(active, nil, &v)
	case fontsRescanned:
		if l.run == nil || l.down {
			return
		}
		l.run.ctx.fontChanged = true
		l.run.win.RequestRedraw()
	default:
		slog.Debug("ignoring unknown injected payload")
	}
}

func (l *loopHandler[E]) failInit(active window.Active, component string, err error) {
	l.err = &InitError{Component: component, Err: err}
	active.Exit()
}

// initialize performs the Startup to Running transition. It fires once,
// on the first Resumed notification.
func (l *loopHandler[E]) initialize(active window.Active) {
	cfg := l.cfg

	dbOpts := []fontdir.Option{}
	if len(cfg.fontDirs) > 0 {
		dbOpts = append(dbOpts, fontdir.WithDirs(cfg.fontDirs...))
	}
	if len(cfg.fallbackFont) > 0 {
		dbOpts = append(dbOpts, fontdir.WithFallback("fallback", cfg.fallbackFont))
	}
	if cfg.fallbackFace != nil {
		dbOpts = append(dbOpts, fontdir.WithFallbackFace(cfg.fallbackFace))
	}
	db := fontdir.New(dbOpts...)
	if err := db.Scan(); err != nil {
		l.failInit(active, "fonts", err)
		return
	}
	fonts := resolveFonts(db, cfg.fontFamily)

	win, err := active.CreateWindow(window.Attributes{
		Title:     cfg.title,
		Width:     cfg.width,
		Height:    cfg.height,
		Visible:   false,
		Resizable: true,
	})
	if err != nil {
		l.failInit(active, "window", err)
		return
	}
	shared := window.NewShared(win)
	scale := shared.ScaleFactor()

	renderer, err := cfg.newRenderer(backend.Init{
		Fonts:       fonts,
		FontSizePx:  fontSizePx(cfg.fontSize, scale),
		Window:      shared,
		Theme:       cfg.theme,
		CursorStyle: cfg.cursorStyle,
		RapidBlink:  int(cfg.rapidBlink.Milliseconds()),
		SlowBlink:   int(cfg.slowBlink.Milliseconds()),
	})
	if err != nil {
		shared.Release()
		l.failInit(active, "renderer", err)
		return
	}
	ws, err := renderer.WindowSize()
	if err != nil {
		shared.Release()
		l.failInit(active, "renderer", err)
		return
	}
	cfg.conv.SetWindowSize(ws)
	term := backend.NewTerminal(renderer, ws.Cols, ws.Rows)

	var timers *timer.Service
	var pool *worker.Pool[Result[E]]
	var runner *task.Runner[Result[E]]
	var tick *Tick[E]
	var sources []Source[E]

	if cfg.tickRate > 0 {
		tick = NewTick[E](cfg.tickRate)
		sources = append(sources, tick)
	}
	if blink := blinkInterval(cfg.rapidBlink, cfg.slowBlink); blink > 0 {
		sources = append(sources, newBlinkSource[E](blink))
	}
	if cfg.useTimers {
		timers = timer.New()
		wrap := cfg.timerWrap
		if wrap == nil {
			wrap = func(timer.TimeOut) Control[E] { return Changed[E]() }
		}
		sources = append(sources, &timerSource[E]{svc: timers, wrap: wrap})
	}
	if cfg.workers > 0 {
		pool = worker.NewPool[Result[E]](cfg.workers)
		sources = append(sources, workerSource(pool))
	}
	if cfg.tasks != 0 {
		limit := cfg.tasks
		if limit < 0 {
			limit = 0
		}
		runner = task.NewRunner[Result[E]](limit)
		sources = append(sources, taskSource(runner))
	}
	sources = append(sources, cfg.extra...)

	proxy := cfg.loop.Proxy()
	poll := newPoller(sources, func(r Result[E]) error {
		return proxy.Send(r)
	})
	go poll.run()

	ctx := &AppContext[E]{
		queue:      l.queue,
		term:       term.Acquire(),
		win:        shared,
		fonts:      db,
		fontFamily: cfg.fontFamily,
		fontSize:   cfg.fontSize,
		timers:     timers,
		workers:    pool,
		tasks:      runner,
		tick:       tick,
		wake:       poll.wakeUp,
	}
	shared.Acquire()

	if cfg.watchFonts {
		if err := db.Watch(func() {
			// Runs on the watcher goroutine; only the proxy is safe.
			if err := proxy.Send(fontsRescanned{}); err != nil {
				slog.Debug("font rescan not delivered", "err", err)
			}
		}); err != nil {
			slog.Debug("font watcher unavailable", "err", err)
		}
	}

	l.run = &running[E]{
		ctx:      ctx,
		term:     term,
		win:      shared,
		renderer: renderer,
		fonts:    db,
		poll:     poll,
		scale:    scale,
	}

	if err := l.app.Init(ctx); err != nil {
		l.run = nil
		poll.stop()
		db.Close()
		ctx.release()
		term.Release()
		shared.Release()
		l.failInit(active, "init", err)
		return
	}

	// First frame before the window becomes visible, so no blank
	// window is ever shown.
	l.render()
	shared.SetVisible(true)
	shared.RequestRedraw()

	poll.start()
}

// process handles one native window event and/or one injected result,
// then drains the queue.
func (l *loopHandler[E]) process(active window.Active, ev window.Event, injected *Result[E]) {
	if _, ok := ev.(window.Destroyed); ok {
		slog.Info("window destroyed, exiting event loop")
		active.Exit()
		return
	}
	if l.run == nil || l.down {
		slog.Debug("skipping event during shutdown")
		return
	}
	r := l.run
	ctx := r.ctx

	if ev != nil {
		l.cfg.conv.UpdateState(ev)
	}

	handled := ev == nil
	switch e := ev.(type) {
	case window.CloseRequested:
		l.queue.push(Ok(Quit[E]()))
		handled = true
	case window.RedrawRequested:
		l.queue.push(Ok(Changed[E]()))
		handled = true
	case window.Resized:
		l.resize(e.Width, e.Height)
		r.term.Clear()
		l.pushResized()
		handled = true
	case window.ScaleFactorChanged:
		r.scale = e.Scale
		ctx.fontSizeChanged = true
		handled = true
	case window.MouseWheel:
		if l.cfg.conv.State().CtrlPressed() {
			if e.DY > 0 {
				if ctx.fontSize > minFontSize {
					ctx.fontSize--
				}
			} else {
				ctx.fontSize++
			}
			ctx.fontSizeChanged = true
			handled = true
		}
	}

	if ctx.clearRequested {
		r.term.Clear()
		ctx.clearRequested = false
	}
	if ctx.fontChanged {
		l.reloadFonts()
		r.term.Clear()
		l.pushResized()
		ctx.fontChanged = false
		ctx.fontSizeChanged = false
	}
	if ctx.fontSizeChanged {
		l.changeFontSize()
		r.term.Clear()
		l.pushResized()
		ctx.fontSizeChanged = false
	}

	if !handled {
		if ae, ok := l.cfg.conv.Convert(ev); ok {
			l.queue.push(Ok(Event(ae)))
		}
	}
	if injected != nil {
		l.queue.push(*injected)
	}

	l.drain(active)
}

// drain empties the control queue, collapsing consecutive Changed
// entries into a single render pass.
func (l *loopHandler[E]) drain(active window.Active) {
	r := l.run
	ctx := r.ctx

	wasChanged := false
	for {
		if (ctx.workers != nil && !ctx.workers.Check()) ||
			(ctx.tasks != nil && !ctx.tasks.Check()) {
			slog.Error("background worker panicked, shutting down")
			l.shutdown(active)
			return
		}

		res, ok := l.queue.take()
		if !ok {
			return
		}

		if res.Err == nil && res.Ctrl.Op == OpChanged {
			if wasChanged {
				continue
			}
			wasChanged = true
		} else {
			wasChanged = false
		}

		switch {
		case res.Err != nil:
			l.queue.push(l.app.HandleError(ctx, res.Err))
		default:
			switch res.Ctrl.Op {
			case OpContinue, OpUnchanged:
			case OpChanged:
				l.render()
			case OpClose:
				// A close always implies one more dispatch pass plus
				// a repaint.
				l.queue.push(Ok(Event(res.Ctrl.Event)))
				l.queue.push(Ok(Changed[E]()))
			case OpEvent:
				start := time.Now()
				out := l.app.HandleEvent(ctx, res.Ctrl.Event)
				ctx.lastEvent = time.Since(start)
				l.queue.push(out)
			case OpQuit:
				if l.cfg.quitConfirm != nil {
					confirm := l.app.HandleEvent(ctx, l.cfg.quitConfirm())
					if confirm.Err != nil || confirm.Ctrl.Op != OpQuit {
						l.queue.push(confirm)
						continue
					}
				}
				l.shutdown(active)
				return
			case OpBlink:
				if err := r.term.Blink(); err != nil {
					l.queue.push(Fail[E](err))
				}
			}
		}

		if l.queue.isEmpty() {
			return
		}
	}
}

// render runs one render pass: draw a frame, record timing, apply the
// one-shot cursor, then push the callback result or its error, followed
// by the rendered-confirmation hook if one is configured.
func (l *loopHandler[E]) render() {
	r := l.run
	ctx := r.ctx

	var res Result[E]
	start := time.Now()
	err := r.term.Draw(func(f *backend.Frame) {
		res = l.app.Render(ctx, f)
		ctx.lastRender = time.Since(start)
		if x, y, ok := ctx.takeCursor(); ok {
			f.SetCursor(x, y)
		}
		ctx.frames = f.Count()
	})
	if err == nil {
		err = res.Err
	}
	if err != nil {
		l.queue.push(Fail[E](err))
		return
	}
	if res.Ctrl.Op != OpContinue {
		l.queue.push(Ok(res.Ctrl))
	}
	if l.cfg.rendered != nil {
		l.queue.push(l.cfg.rendered())
	}
}

// resize propagates a pixel-size change to the renderer, recomputes the
// grid, and reseeds the converter and terminal.
func (l *loopHandler[E]) resize(width, height int) {
	r := l.run
	r.renderer.Resize(width, height)
	l.refreshGrid()
}

// reloadFonts re-resolves the active family and pushes the new font set
// and size into the renderer.
func (l *loopHandler[E]) reloadFonts() {
	r := l.run
	ctx := r.ctx

	fonts := loadFamily(r.fonts, ctx.fontFamily)
	if fb := r.fonts.Fallback(); fb != nil {
		fonts = append(fonts, fb)
	}
	if len(fonts) == 0 {
		ctx.QueueErr(&InitError{Component: "fonts", Err: errNoUsableFont})
		return
	}
	r.renderer.UpdateFonts(fonts)
	r.renderer.UpdateFontSize(fontSizePx(ctx.fontSize, r.scale))
	l.refreshGrid()
}

// changeFontSize pushes the pending font size into the renderer.
func (l *loopHandler[E]) changeFontSize() {
	r := l.run
	r.renderer.UpdateFontSize(fontSizePx(r.ctx.fontSize, r.scale))
	l.refreshGrid()
}

func (l *loopHandler[E]) refreshGrid() {
	r := l.run
	ws, err := r.renderer.WindowSize()
	if err != nil {
		l.queue.push(Fail[E](err))
		return
	}
	l.cfg.conv.SetWindowSize(ws)
	r.term.Resize(ws.Cols, ws.Rows)
}

// pushResized pushes a synthesized resize application event, or Changed
// when the event type cannot express one.
func (l *loopHandler[E]) pushResized() {
	if ev, ok := l.cfg.conv.ResizeEvent(); ok {
		l.queue.push(Ok(Event(ev)))
	} else {
		l.queue.push(Ok(Changed[E]()))
	}
}

// shutdown tears the run down: stop the poller, release the context's
// handles, assert sole ownership of the core's handles, then exit the
// native loop. Idempotent; later events are ignored.
func (l *loopHandler[E]) shutdown(active window.Active) {
	if l.down {
		return
	}
	l.down = true
	r := l.run

	r.poll.stop()
	r.fonts.Close()
	if r.ctx.tasks != nil {
		r.ctx.tasks.Close()
	}
	if r.ctx.workers != nil {
		r.ctx.workers.Close()
	}

	r.ctx.release()
	if r.term.Refs() != 1 {
		panic("termwin: terminal still referenced during shutdown")
	}
	r.term.Release()
	if r.win.Refs() != 1 {
		panic("termwin: window still referenced during shutdown")
	}
	r.win.Release()

	active.Exit()
}

func fontSizePx(size int, scale float64) int {
	if scale <= 0 {
		scale = 1
	}
	return int(math.Round(float64(size) * scale))
}

func blinkInterval(rapid, slow time.Duration) time.Duration {
	if rapid > 0 {
		return rapid
	}
	return slow
}

func loadFamily(db *fontdir.Database, family string) []*fontdir.Font {
	var fonts []*fontdir.Font
	for _, id := range db.FindFamily(family) {
		f, err := db.Load(id)
		if err != nil {
			slog.Debug("skipping unloadable font", "id", id, "err", err)
			continue
		}
		fonts = append(fonts, f)
	}
	return fonts
}

// resolveFonts resolves the startup font set: the requested family plus
// the fallback. Startup cannot proceed without at least one font.
func resolveFonts(db *fontdir.Database, family string) []*fontdir.Font {
	fonts := loadFamily(db, family)
	if fb := db.Fallback(); fb != nil {
		fonts = append(fonts, fb)
	}
	if len(fonts) == 0 {
		panic("termwin: need at least one valid font or a fallback font")
	}
	return fonts
}

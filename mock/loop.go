// Package mock provides in-memory windowing and rendering doubles for
// tests and headless runs: a Loop that dispatches programmatically
// injected events, a Window with settable attributes, and a Renderer
// with deterministic cell metrics that captures presented frames.
package mock

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/termwin/window"
)

type userMsg struct {
	payload any
}

// Loop is an in-memory window.EventLoop. Events queued with Post and
// payloads sent through the proxy are dispatched in order by Run until
// a handler calls Exit.
type Loop struct {
	events  chan any
	done    chan struct{}
	exit    sync.Once
	exited  atomic.Bool
	scale   float64
	mu      sync.Mutex
	windows []*Window
}

// NewLoop creates a loop with the given window scale factor. A scale of
// zero means 1.0.
func NewLoop(scale float64) *Loop {
	if scale <= 0 {
		scale = 1.0
	}
	return &Loop{
		events: make(chan any, 256),
		done:   make(chan struct{}),
		scale:  scale,
	}
}

// Post queues a window event for dispatch.
func (l *Loop) Post(ev window.Event) {
	select {
	case l.events <- ev:
	case <-l.done:
	}
}

// Run dispatches Resumed, then queued events, until Exit is called.
func (l *Loop) Run(h window.Handler) error {
	h.Resumed(l)
	for {
		select {
		case <-l.done:
			return nil
		case m := <-l.events:
			if u, ok := m.(userMsg); ok {
				h.UserEvent(l, u.payload)
				continue
			}
			h.WindowEvent(l, m.(window.Event))
		}
	}
}

// Proxy returns a thread-safe injection handle.
func (l *Loop) Proxy() window.Proxy {
	return proxy{loop: l}
}

// CreateWindow implements window.Active.
func (l *Loop) CreateWindow(attrs window.Attributes) (window.Window, error) {
	w := &Window{loop: l, attrs: attrs, scale: l.scale}
	l.mu.Lock()
	l.windows = append(l.windows, w)
	l.mu.Unlock()
	return w, nil
}

// Exit implements window.Active. Idempotent.
func (l *Loop) Exit() {
	l.exit.Do(func() {
		l.exited.Store(true)
		close(l.done)
	})
}

// Exited reports whether Exit was called.
func (l *Loop) Exited() bool {
	return l.exited.Load()
}

// Windows returns every window created during the run.
func (l *Loop) Windows() []*Window {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Window, len(l.windows))
	copy(out, l.windows)
	return out
}

type proxy struct {
	loop *Loop
}

func (p proxy) Send(payload any) error {
	select {
	case <-p.loop.done:
		return window.ErrClosed
	case p.loop.events <- userMsg{payload: payload}:
		return nil
	}
}

// Window is an in-memory window.Window.
type Window struct {
	loop  *Loop
	scale float64

	mu      sync.Mutex
	attrs   window.Attributes
	redraws int
	closed  bool
}

func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	w.attrs.Title = title
	w.mu.Unlock()
}

func (w *Window) SetVisible(visible bool) {
	w.mu.Lock()
	w.attrs.Visible = visible
	w.mu.Unlock()
}

// RequestRedraw queues a RedrawRequested event on the loop.
func (w *Window) RequestRedraw() {
	w.mu.Lock()
	w.redraws++
	w.mu.Unlock()
	w.loop.Post(window.RedrawRequested{})
}

func (w *Window) InnerSize() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.attrs.Width, w.attrs.Height
}

func (w *Window) ScaleFactor() float64 {
	return w.scale
}

func (w *Window) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

// Title returns the current title.
func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.attrs.Title
}

// Visible reports whether the window was made visible.
func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.attrs.Visible
}

// Closed reports whether Close was called.
func (w *Window) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Redraws returns how many redraws were requested.
func (w *Window) Redraws() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.redraws
}

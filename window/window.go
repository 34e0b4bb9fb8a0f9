// Package window defines the windowing collaborator contract for termwin.
// The orchestration core is written against these interfaces only; a real
// driver (GLFW, gio, webgpu surface, ...) lives outside this module, and
// package mock provides an in-memory driver for tests and headless runs.
package window

import "errors"

// ErrClosed is returned by Proxy.Send once the event loop has exited.
var ErrClosed = errors.New("window: event loop closed")

// Attributes describes the initial window configuration.
type Attributes struct {
	Title  string
	Width  int // physical pixels
	Height int // physical pixels
	X, Y   int
	// Visible controls initial visibility. The framework creates windows
	// invisible and shows them after the first frame has been drawn.
	Visible   bool
	Resizable bool
}

// Window is a live native window handle.
type Window interface {
	SetTitle(title string)
	SetVisible(visible bool)

	// RequestRedraw schedules a RedrawRequested event for this window.
	RequestRedraw()

	// InnerSize returns the drawable size in physical pixels.
	InnerSize() (width, height int)

	// ScaleFactor returns the display scale (1.0 = 96 dpi).
	ScaleFactor() float64

	// Close releases the native window. Further calls are no-ops.
	Close()
}

// Active is the running event loop as seen from handler callbacks.
// Windows can only be created and the loop can only be exited from here.
type Active interface {
	CreateWindow(attr Attributes) (Window, error)

	// Exit stops the event loop after the current callback returns.
	Exit()
}

// Handler receives the event stream of a loop. All callbacks run on the
// loop's own goroutine; the framework owns all UI state from there.
type Handler interface {
	// Resumed fires when the loop is ready to create windows.
	// It fires before any window event.
	Resumed(active Active)

	// WindowEvent delivers one native window event.
	WindowEvent(active Active, ev Event)

	// UserEvent delivers a payload injected through a Proxy.
	UserEvent(active Active, payload any)
}

// EventLoop is a native event loop that has not started running yet.
type EventLoop interface {
	// Run drives the loop until Exit is called. Blocks.
	Run(h Handler) error

	// Proxy returns a thread-safe injection channel into the loop.
	// May be called before Run.
	Proxy() Proxy
}

// Proxy injects a payload into the loop from any goroutine. The payload is
// delivered to Handler.UserEvent on the loop goroutine. Returns ErrClosed
// once the loop has exited.
type Proxy interface {
	Send(payload any) error
}

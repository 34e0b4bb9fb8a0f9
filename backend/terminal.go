package backend

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Rect is a cell-coordinate rectangle.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the cell position lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Frame is one drawing pass over the terminal. The application receives
// it inside Terminal.Draw and must not retain it.
type Frame struct {
	buf    *Buffer
	cursor Cursor
	count  uint64
}

// Area returns the drawable region.
func (f *Frame) Area() Rect {
	w, h := f.buf.Size()
	return Rect{Width: w, Height: h}
}

// Buffer returns the cell grid to draw into.
func (f *Frame) Buffer() *Buffer {
	return f.buf
}

// SetCursor places the visible cursor at the cell position.
func (f *Frame) SetCursor(x, y int) {
	f.cursor = Cursor{X: x, Y: y, Visible: true, Style: f.cursor.Style}
}

// Count is the number of frames completed before this one.
func (f *Frame) Count() uint64 {
	return f.count
}

// Terminal owns the cell grid and presents frames through a Renderer.
// It is shared between the event loop and the application context, with
// explicit reference counting so shutdown can verify no user handle
// outlives the loop.
type Terminal struct {
	mu       sync.Mutex
	renderer Renderer
	buf      *Buffer
	cursor   Cursor
	frames   uint64
	refs     atomic.Int32
}

// NewTerminal creates a terminal over the renderer with the given grid
// size. The caller holds the first reference.
func NewTerminal(r Renderer, cols, rows int) *Terminal {
	t := &Terminal{
		renderer: r,
		buf:      NewBuffer(cols, rows),
		cursor:   Cursor{Style: CursorBlock},
	}
	t.refs.Store(1)
	return t
}

// Acquire takes an additional reference.
func (t *Terminal) Acquire() *Terminal {
	t.refs.Add(1)
	return t
}

// Release drops a reference.
func (t *Terminal) Release() {
	if t.refs.Add(-1) < 0 {
		panic("backend: terminal released more times than acquired")
	}
}

// Refs returns the current reference count.
func (t *Terminal) Refs() int {
	return int(t.refs.Load())
}

// Draw runs fn over a fresh frame and presents the result.
func (t *Terminal) Draw(fn func(*Frame)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f := &Frame{buf: t.buf, cursor: Cursor{Style: t.cursor.Style}, count: t.frames}
	fn(f)
	t.cursor = f.cursor
	t.frames++
	if err := t.renderer.Present(t.buf, t.cursor); err != nil {
		return fmt.Errorf("presenting frame %d: %w", f.count, err)
	}
	return nil
}

// Clear empties the grid and schedules a renderer clear.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Clear()
	t.renderer.Clear()
}

// Resize changes the grid dimensions.
func (t *Terminal) Resize(cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Resize(cols, rows)
}

// WindowSize reports grid and pixel dimensions from the renderer.
func (t *Terminal) WindowSize() (WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.renderer.WindowSize()
}

// SetCursorStyle changes the cursor style used by subsequent frames.
func (t *Terminal) SetCursorStyle(style CursorStyle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursor.Style = style
}

// FrameCount returns the number of frames presented so far.
func (t *Terminal) FrameCount() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frames
}

// Blink forwards a blink tick to the renderer.
func (t *Terminal) Blink() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.renderer.Blink()
}

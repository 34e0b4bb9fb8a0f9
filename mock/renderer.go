package mock

import (
	"sync"

	"github.com/dshills/termwin/backend"
	"github.com/dshills/termwin/fontdir"
)

// Renderer is an in-memory backend.Renderer with deterministic cell
// metrics: cell height equals the font pixel size, cell width half of
// it rounded up. Presented frames are captured as deep copies.
type Renderer struct {
	mu sync.Mutex

	width, height int // pixels
	fontPx        int

	frames  []*backend.Buffer
	cursors []backend.Cursor

	clears      int
	blinks      int
	fontUpdates int

	// PresentErr, when set, is returned by every Present call.
	PresentErr error
}

// NewRenderer creates a renderer for the given pixel size with a 16px
// font.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{width: width, height: height, fontPx: 16}
}

// Constructor adapts the renderer to backend.Constructor, picking up
// the pixel size from the window and the font size from the init.
func (r *Renderer) Constructor() backend.Constructor {
	return func(init backend.Init) (backend.Renderer, error) {
		w, h := init.Window.InnerSize()
		r.mu.Lock()
		if w > 0 && h > 0 {
			r.width, r.height = w, h
		}
		if init.FontSizePx > 0 {
			r.fontPx = init.FontSizePx
		}
		r.mu.Unlock()
		return r, nil
	}
}

func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	r.width, r.height = width, height
	r.mu.Unlock()
}

func (r *Renderer) UpdateFonts(fonts []*fontdir.Font) {
	r.mu.Lock()
	r.fontUpdates++
	r.mu.Unlock()
}

func (r *Renderer) UpdateFontSize(px int) {
	r.mu.Lock()
	if px > 0 {
		r.fontPx = px
	}
	r.mu.Unlock()
}

func (r *Renderer) WindowSize() (backend.WindowSize, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cellW := (r.fontPx + 1) / 2
	cellH := r.fontPx
	return backend.WindowSize{
		Cols:        r.width / cellW,
		Rows:        r.height / cellH,
		PixelWidth:  r.width,
		PixelHeight: r.height,
	}, nil
}

func (r *Renderer) Clear() {
	r.mu.Lock()
	r.clears++
	r.mu.Unlock()
}

func (r *Renderer) Present(buf *backend.Buffer, cursor backend.Cursor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.PresentErr != nil {
		return r.PresentErr
	}
	r.frames = append(r.frames, buf.Clone())
	r.cursors = append(r.cursors, cursor)
	return nil
}

func (r *Renderer) Blink() error {
	r.mu.Lock()
	r.blinks++
	r.mu.Unlock()
	return nil
}

// FrameCount returns the number of presented frames.
func (r *Renderer) FrameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Frame returns a captured frame by index.
func (r *Renderer) Frame(i int) *backend.Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[i]
}

// Cursor returns the cursor presented with frame i.
func (r *Renderer) Cursor(i int) backend.Cursor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursors[i]
}

// Clears returns how many full clears were scheduled.
func (r *Renderer) Clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears
}

// Blinks returns how many blink ticks were delivered.
func (r *Renderer) Blinks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blinks
}

// FontUpdates returns how many font reloads were applied.
func (r *Renderer) FontUpdates() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fontUpdates
}

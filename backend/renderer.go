package backend

import (
	"github.com/dshills/termwin/fontdir"
	"github.com/dshills/termwin/window"
)

// WindowSize reports the grid dimensions in cells together with the
// window's inner size in pixels.
type WindowSize struct {
	Cols        int
	Rows        int
	PixelWidth  int
	PixelHeight int
}

// CursorStyle selects how the renderer draws the cursor.
type CursorStyle int

// Cursor styles.
const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
	CursorHidden
)

// Cursor is the cursor state a frame presents.
type Cursor struct {
	X, Y    int
	Visible bool
	Style   CursorStyle
}

// Init carries everything a renderer constructor needs.
type Init struct {
	// Fonts are the resolved faces, primary first.
	Fonts []*fontdir.Font

	// FontSizePx is the initial font size in pixels.
	FontSizePx int

	// Window is the shared window handle the renderer presents into.
	Window *window.Shared

	// Theme resolves indexed and default colors.
	Theme *Theme

	// CursorStyle is the initial cursor style.
	CursorStyle CursorStyle

	// RapidBlink and SlowBlink are the blink half-periods in
	// milliseconds. Zero disables the corresponding blink class.
	RapidBlink int
	SlowBlink  int
}

// Renderer turns cell grids into presented frames. Implementations are
// used from the event-loop goroutine only.
type Renderer interface {
	// Resize reacts to a window inner-size change, in pixels.
	Resize(width, height int)

	// UpdateFonts replaces the font list. The grid metrics may change.
	UpdateFonts(fonts []*fontdir.Font)

	// UpdateFontSize changes the font size in pixels.
	UpdateFontSize(px int)

	// WindowSize reports the current grid and pixel dimensions.
	WindowSize() (WindowSize, error)

	// Clear schedules a full clear before the next present.
	Clear()

	// Present rasterizes the buffer and presents it with the cursor.
	Present(buf *Buffer, cursor Cursor) error

	// Blink advances blink state and re-presents if blinking cells or a
	// blinking cursor are on screen.
	Blink() error
}

// Constructor builds the renderer during startup, once the window
// exists. Applications supply one to choose their rendering backend.
type Constructor func(init Init) (Renderer, error)

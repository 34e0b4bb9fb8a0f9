package termwin

import (
	"github.com/dshills/termwin/backend"
	"github.com/dshills/termwin/window"
)

// EventConverter turns raw window events into application events. The
// loop calls UpdateState for every raw event before any filtering, so
// converters can track modifier, cursor and grid state even for events
// the loop consumes itself.
type EventConverter[E any] interface {
	// SetWindowSize informs the converter of the current grid.
	SetWindowSize(size backend.WindowSize)

	// UpdateState tracks modifier, cursor and button state.
	UpdateState(ev window.Event)

	// Convert maps a raw event to an application event. Returning
	// false suppresses the event.
	Convert(ev window.Event) (E, bool)

	// ResizeEvent synthesizes a resize application event from the
	// current grid, if the event type can express one.
	ResizeEvent() (E, bool)

	// State exposes the tracked bookkeeping. The loop consults it for
	// gestures it handles itself, such as Ctrl+wheel font scaling.
	State() *EventState
}

// EventState is the bookkeeping most converters need. Embed it and
// forward SetWindowSize and UpdateState to it.
type EventState struct {
	// Mods is the current modifier state.
	Mods window.Modifiers

	// CursorCol and CursorRow are the cursor position in cells.
	CursorCol, CursorRow int

	// Cols and Rows are the grid dimensions.
	Cols, Rows int

	pixelX, pixelY float64
	cellW, cellH   int
	buttons        [8]bool
}

// SetWindowSize records the grid and derives the cell size in pixels
// used to map cursor positions to cells.
func (s *EventState) SetWindowSize(size backend.WindowSize) {
	s.Cols, s.Rows = size.Cols, size.Rows
	if size.Cols > 0 {
		s.cellW = size.PixelWidth / size.Cols
	}
	if size.Rows > 0 {
		s.cellH = size.PixelHeight / size.Rows
	}
	s.updateCursorCell()
}

// UpdateState tracks modifiers, cursor position and button state.
func (s *EventState) UpdateState(ev window.Event) {
	switch e := ev.(type) {
	case window.ModifiersChanged:
		s.Mods = e.Mods
	case window.CursorMoved:
		s.pixelX, s.pixelY = e.X, e.Y
		s.updateCursorCell()
	case window.CursorLeft:
		s.CursorCol, s.CursorRow = -1, -1
	case window.MouseInput:
		if int(e.Button) < len(s.buttons) {
			s.buttons[e.Button] = e.Pressed
		}
	}
}

func (s *EventState) updateCursorCell() {
	if s.cellW <= 0 || s.cellH <= 0 {
		return
	}
	s.CursorCol = clampCell(int(s.pixelX)/s.cellW, s.Cols)
	s.CursorRow = clampCell(int(s.pixelY)/s.cellH, s.Rows)
}

func clampCell(v, limit int) int {
	if v < 0 {
		return 0
	}
	if limit > 0 && v >= limit {
		return limit - 1
	}
	return v
}

// ButtonPressed reports whether the mouse button is currently held.
func (s *EventState) ButtonPressed(b window.MouseButton) bool {
	return int(b) < len(s.buttons) && s.buttons[b]
}

// CtrlPressed reports whether a control key is currently held.
func (s *EventState) CtrlPressed() bool {
	return s.Mods.Ctrl
}

// Package tcellconv converts native window events into tcell events, so
// tcell-based immediate-mode widget libraries can consume termwin input
// unchanged. Key releases are suppressed; mouse positions are reported
// in character cells.
package tcellconv

import (
	termwin "github.com/dshills/termwin"
	"github.com/dshills/termwin/window"
	"github.com/gdamore/tcell/v2"
)

// Converter implements termwin.EventConverter[tcell.Event].
type Converter struct {
	termwin.EventState
}

// New creates a converter.
func New() *Converter {
	return &Converter{}
}

// State exposes the tracked modifier/cursor/grid state.
func (c *Converter) State() *termwin.EventState {
	return &c.EventState
}

// Convert maps a raw window event to a tcell event. Returns false for
// events tcell cannot express.
func (c *Converter) Convert(ev window.Event) (tcell.Event, bool) {
	switch e := ev.(type) {
	case window.KeyboardInput:
		if !e.Pressed {
			return nil, false
		}
		return c.keyEvent(e)
	case window.MouseInput:
		return c.mouseEvent(c.buttonMask()), true
	case window.CursorMoved:
		return c.mouseEvent(c.buttonMask()), true
	case window.MouseWheel:
		mask := c.buttonMask()
		if e.DY > 0 {
			mask |= tcell.WheelUp
		} else if e.DY < 0 {
			mask |= tcell.WheelDown
		}
		if e.DX > 0 {
			mask |= tcell.WheelRight
		} else if e.DX < 0 {
			mask |= tcell.WheelLeft
		}
		return c.mouseEvent(mask), true
	case window.Resized:
		return tcell.NewEventResize(c.Cols, c.Rows), true
	case window.Focused:
		return tcell.NewEventFocus(e.Gained), true
	default:
		return nil, false
	}
}

// ResizeEvent synthesizes a resize event from the current grid.
func (c *Converter) ResizeEvent() (tcell.Event, bool) {
	return tcell.NewEventResize(c.Cols, c.Rows), true
}

func (c *Converter) modMask() tcell.ModMask {
	var m tcell.ModMask
	if c.Mods.Shift {
		m |= tcell.ModShift
	}
	if c.Mods.Ctrl {
		m |= tcell.ModCtrl
	}
	if c.Mods.Alt {
		m |= tcell.ModAlt
	}
	if c.Mods.Super {
		m |= tcell.ModMeta
	}
	return m
}

func (c *Converter) buttonMask() tcell.ButtonMask {
	var m tcell.ButtonMask
	if c.ButtonPressed(window.MouseLeft) {
		m |= tcell.Button1
	}
	if c.ButtonPressed(window.MouseRight) {
		m |= tcell.Button2
	}
	if c.ButtonPressed(window.MouseMiddle) {
		m |= tcell.Button3
	}
	return m
}

func (c *Converter) mouseEvent(mask tcell.ButtonMask) tcell.Event {
	return tcell.NewEventMouse(c.CursorCol, c.CursorRow, mask, c.modMask())
}

func (c *Converter) keyEvent(e window.KeyboardInput) (tcell.Event, bool) {
	mods := c.modMask()

	if e.Key == window.KeyRune {
		r := e.Rune
		// Ctrl+letter becomes a control key the way terminals encode
		// them, which is what tcell applications match on.
		if c.Mods.Ctrl && r < 0x80 {
			if ctrl, ok := ctrlKey(r); ok {
				return tcell.NewEventKey(ctrl, r, mods), true
			}
		}
		if r == 0 {
			return nil, false
		}
		return tcell.NewEventKey(tcell.KeyRune, r, mods), true
	}

	k, ok := specialKeys[e.Key]
	if !ok {
		return nil, false
	}
	if k == tcell.KeyTab && c.Mods.Shift {
		k = tcell.KeyBacktab
	}
	return tcell.NewEventKey(k, 0, mods), true
}

func ctrlKey(r rune) (tcell.Key, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return tcell.Key(r - 'a' + 1), true
	case r >= 'A' && r <= 'Z':
		return tcell.Key(r - 'A' + 1), true
	case r == ' ':
		return tcell.KeyCtrlSpace, true
	}
	return 0, false
}

var specialKeys = map[window.Key]tcell.Key{
	window.KeyEscape:    tcell.KeyEscape,
	window.KeyEnter:     tcell.KeyEnter,
	window.KeyTab:       tcell.KeyTab,
	window.KeyBackspace: tcell.KeyBackspace2,
	window.KeyDelete:    tcell.KeyDelete,
	window.KeyInsert:    tcell.KeyInsert,
	window.KeyHome:      tcell.KeyHome,
	window.KeyEnd:       tcell.KeyEnd,
	window.KeyPageUp:    tcell.KeyPgUp,
	window.KeyPageDown:  tcell.KeyPgDn,
	window.KeyUp:        tcell.KeyUp,
	window.KeyDown:      tcell.KeyDown,
	window.KeyLeft:      tcell.KeyLeft,
	window.KeyRight:     tcell.KeyRight,
	window.KeyF1:        tcell.KeyF1,
	window.KeyF2:        tcell.KeyF2,
	window.KeyF3:        tcell.KeyF3,
	window.KeyF4:        tcell.KeyF4,
	window.KeyF5:        tcell.KeyF5,
	window.KeyF6:        tcell.KeyF6,
	window.KeyF7:        tcell.KeyF7,
	window.KeyF8:        tcell.KeyF8,
	window.KeyF9:        tcell.KeyF9,
	window.KeyF10:       tcell.KeyF10,
	window.KeyF11:       tcell.KeyF11,
	window.KeyF12:       tcell.KeyF12,
}

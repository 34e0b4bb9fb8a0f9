package tcellconv

import (
	"testing"

	"github.com/dshills/termwin/backend"
	"github.com/dshills/termwin/window"
	"github.com/gdamore/tcell/v2"
)

func feed(c *Converter, evs ...window.Event) {
	for _, ev := range evs {
		c.UpdateState(ev)
	}
}

func TestKeyMapping(t *testing.T) {
	tests := []struct {
		name     string
		mods     window.Modifiers
		in       window.KeyboardInput
		wantKey  tcell.Key
		wantRune rune
		wantMods tcell.ModMask
	}{
		{
			name:     "plain rune",
			in:       window.KeyboardInput{Key: window.KeyRune, Rune: 'a', Pressed: true},
			wantKey:  tcell.KeyRune,
			wantRune: 'a',
		},
		{
			name:     "ctrl letter",
			mods:     window.Modifiers{Ctrl: true},
			in:       window.KeyboardInput{Key: window.KeyRune, Rune: 'q', Pressed: true},
			wantKey:  tcell.KeyCtrlQ,
			wantRune: 'q',
			wantMods: tcell.ModCtrl,
		},
		{
			name:     "ctrl uppercase letter",
			mods:     window.Modifiers{Ctrl: true, Shift: true},
			in:       window.KeyboardInput{Key: window.KeyRune, Rune: 'C', Pressed: true},
			wantKey:  tcell.KeyCtrlC,
			wantRune: 'C',
			wantMods: tcell.ModCtrl | tcell.ModShift,
		},
		{
			name:     "ctrl space",
			mods:     window.Modifiers{Ctrl: true},
			in:       window.KeyboardInput{Key: window.KeyRune, Rune: ' ', Pressed: true},
			wantKey:  tcell.KeyCtrlSpace,
			wantRune: ' ',
			wantMods: tcell.ModCtrl,
		},
		{
			name:    "escape",
			in:      window.KeyboardInput{Key: window.KeyEscape, Pressed: true},
			wantKey: tcell.KeyEscape,
		},
		{
			name:    "tab",
			in:      window.KeyboardInput{Key: window.KeyTab, Pressed: true},
			wantKey: tcell.KeyTab,
		},
		{
			name:     "shift tab becomes backtab",
			mods:     window.Modifiers{Shift: true},
			in:       window.KeyboardInput{Key: window.KeyTab, Pressed: true},
			wantKey:  tcell.KeyBacktab,
			wantMods: tcell.ModShift,
		},
		{
			name:    "backspace",
			in:      window.KeyboardInput{Key: window.KeyBackspace, Pressed: true},
			wantKey: tcell.KeyBackspace2,
		},
		{
			name:     "alt arrow",
			mods:     window.Modifiers{Alt: true},
			in:       window.KeyboardInput{Key: window.KeyUp, Pressed: true},
			wantKey:  tcell.KeyUp,
			wantMods: tcell.ModAlt,
		},
		{
			name:    "function key",
			in:      window.KeyboardInput{Key: window.KeyF5, Pressed: true},
			wantKey: tcell.KeyF5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			feed(c, window.ModifiersChanged{Mods: tt.mods}, tt.in)
			ev, ok := c.Convert(tt.in)
			if !ok {
				t.Fatal("event suppressed")
			}
			key, ok := ev.(*tcell.EventKey)
			if !ok {
				t.Fatalf("event type = %T", ev)
			}
			if key.Key() != tt.wantKey {
				t.Errorf("key = %v, want %v", key.Key(), tt.wantKey)
			}
			if tt.wantRune != 0 && key.Rune() != tt.wantRune {
				t.Errorf("rune = %q, want %q", key.Rune(), tt.wantRune)
			}
			if key.Modifiers() != tt.wantMods {
				t.Errorf("mods = %v, want %v", key.Modifiers(), tt.wantMods)
			}
		})
	}
}

func TestKeyReleaseSuppressed(t *testing.T) {
	c := New()
	in := window.KeyboardInput{Key: window.KeyRune, Rune: 'a', Pressed: false}
	feed(c, in)
	if _, ok := c.Convert(in); ok {
		t.Fatal("key release should be suppressed")
	}
}

func TestMouseCellCoordinates(t *testing.T) {
	c := New()
	// 800x600 pixels over 80x25 cells: 10x24 pixel cells.
	c.SetWindowSize(backend.WindowSize{Cols: 80, Rows: 25, PixelWidth: 800, PixelHeight: 600})

	move := window.CursorMoved{X: 215, Y: 100}
	press := window.MouseInput{Button: window.MouseLeft, Pressed: true}
	feed(c, move, press)

	ev, ok := c.Convert(press)
	if !ok {
		t.Fatal("mouse press suppressed")
	}
	m := ev.(*tcell.EventMouse)
	x, y := m.Position()
	if x != 21 || y != 4 {
		t.Fatalf("position = (%d,%d), want (21,4)", x, y)
	}
	if m.Buttons() != tcell.Button1 {
		t.Fatalf("buttons = %v, want Button1", m.Buttons())
	}

	// Release clears the button but still reports the position.
	release := window.MouseInput{Button: window.MouseLeft, Pressed: false}
	feed(c, release)
	ev, _ = c.Convert(release)
	if m := ev.(*tcell.EventMouse); m.Buttons() != 0 {
		t.Fatalf("buttons after release = %v", m.Buttons())
	}
}

func TestMouseDragHoldsButton(t *testing.T) {
	c := New()
	c.SetWindowSize(backend.WindowSize{Cols: 80, Rows: 25, PixelWidth: 800, PixelHeight: 600})

	feed(c, window.MouseInput{Button: window.MouseRight, Pressed: true})
	move := window.CursorMoved{X: 5, Y: 5}
	feed(c, move)

	ev, ok := c.Convert(move)
	if !ok {
		t.Fatal("drag suppressed")
	}
	if m := ev.(*tcell.EventMouse); m.Buttons() != tcell.Button2 {
		t.Fatalf("buttons = %v, want Button2 held through the drag", m.Buttons())
	}
}

func TestWheelMapping(t *testing.T) {
	tests := []struct {
		in   window.MouseWheel
		want tcell.ButtonMask
	}{
		{window.MouseWheel{DY: 1}, tcell.WheelUp},
		{window.MouseWheel{DY: -2}, tcell.WheelDown},
		{window.MouseWheel{DX: 1}, tcell.WheelRight},
		{window.MouseWheel{DX: -1}, tcell.WheelLeft},
		{window.MouseWheel{DX: -1, DY: 1}, tcell.WheelLeft | tcell.WheelUp},
	}
	for _, tt := range tests {
		c := New()
		ev, ok := c.Convert(tt.in)
		if !ok {
			t.Fatalf("wheel %+v suppressed", tt.in)
		}
		if m := ev.(*tcell.EventMouse); m.Buttons() != tt.want {
			t.Errorf("wheel %+v mask = %v, want %v", tt.in, m.Buttons(), tt.want)
		}
	}
}

func TestResizeAndFocus(t *testing.T) {
	c := New()
	c.SetWindowSize(backend.WindowSize{Cols: 120, Rows: 40, PixelWidth: 960, PixelHeight: 640})

	ev, ok := c.Convert(window.Resized{Width: 960, Height: 640})
	if !ok {
		t.Fatal("resize suppressed")
	}
	r := ev.(*tcell.EventResize)
	w, h := r.Size()
	if w != 120 || h != 40 {
		t.Fatalf("resize = %dx%d, want 120x40", w, h)
	}

	ev, ok = c.ResizeEvent()
	if !ok {
		t.Fatal("synthesized resize suppressed")
	}
	if r := ev.(*tcell.EventResize); func() bool { w, h := r.Size(); return w != 120 || h != 40 }() {
		t.Fatal("synthesized resize should report the current grid")
	}

	ev, ok = c.Convert(window.Focused{Gained: true})
	if !ok {
		t.Fatal("focus suppressed")
	}
	if f := ev.(*tcell.EventFocus); !f.Focused {
		t.Fatal("focus gained should map to Focused=true")
	}

	if _, ok := c.Convert(window.CursorEntered{}); ok {
		t.Fatal("cursor enter has no tcell representation")
	}
}

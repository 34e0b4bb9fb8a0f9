package backend

import (
	"errors"
	"testing"

	"github.com/dshills/termwin/fontdir"
)

type stubRenderer struct {
	presents   int
	clears     int
	blinks     int
	lastCursor Cursor
	presentErr error
}

func (r *stubRenderer) Resize(int, int)             {}
func (r *stubRenderer) UpdateFonts([]*fontdir.Font) {}
func (r *stubRenderer) UpdateFontSize(int)          {}
func (r *stubRenderer) Clear()                      { r.clears++ }
func (r *stubRenderer) Blink() error                { r.blinks++; return nil }
func (r *stubRenderer) WindowSize() (WindowSize, error) {
	return WindowSize{Cols: 10, Rows: 4, PixelWidth: 80, PixelHeight: 64}, nil
}

func (r *stubRenderer) Present(_ *Buffer, cursor Cursor) error {
	r.presents++
	r.lastCursor = cursor
	return r.presentErr
}

func TestDrawPresentsAndCounts(t *testing.T) {
	r := &stubRenderer{}
	term := NewTerminal(r, 10, 4)

	var counts []uint64
	for i := 0; i < 3; i++ {
		err := term.Draw(func(f *Frame) {
			counts = append(counts, f.Count())
			f.Buffer().SetString(0, 0, "ok", DefaultStyle())
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	if r.presents != 3 {
		t.Fatalf("presents = %d, want 3", r.presents)
	}
	if counts[0] != 0 || counts[1] != 1 || counts[2] != 2 {
		t.Fatalf("frame counts = %v", counts)
	}
	if term.FrameCount() != 3 {
		t.Fatalf("FrameCount = %d, want 3", term.FrameCount())
	}
}

func TestDrawCursorResetsEachFrame(t *testing.T) {
	r := &stubRenderer{}
	term := NewTerminal(r, 10, 4)
	term.SetCursorStyle(CursorBar)

	_ = term.Draw(func(f *Frame) { f.SetCursor(3, 2) })
	if c := r.lastCursor; !c.Visible || c.X != 3 || c.Y != 2 || c.Style != CursorBar {
		t.Fatalf("cursor = %+v", c)
	}

	// A frame that never calls SetCursor hides the cursor again.
	_ = term.Draw(func(*Frame) {})
	if r.lastCursor.Visible {
		t.Fatal("cursor should be hidden when the frame does not place it")
	}
}

func TestDrawWrapsPresentError(t *testing.T) {
	sentinel := errors.New("device lost")
	r := &stubRenderer{presentErr: sentinel}
	term := NewTerminal(r, 10, 4)

	err := term.Draw(func(*Frame) {})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want wrapped sentinel", err)
	}
}

func TestClearAndResize(t *testing.T) {
	r := &stubRenderer{}
	term := NewTerminal(r, 10, 4)

	_ = term.Draw(func(f *Frame) { f.Buffer().SetString(0, 0, "x", DefaultStyle()) })
	term.Clear()
	if r.clears != 1 {
		t.Fatalf("clears = %d, want 1", r.clears)
	}
	_ = term.Draw(func(f *Frame) {
		if f.Buffer().Cell(0, 0).Rune != ' ' {
			t.Error("clear should empty the grid")
		}
	})

	term.Resize(20, 8)
	_ = term.Draw(func(f *Frame) {
		if a := f.Area(); a.Width != 20 || a.Height != 8 {
			t.Errorf("area = %+v, want 20x8", a)
		}
	})
}

func TestReferenceCounting(t *testing.T) {
	term := NewTerminal(&stubRenderer{}, 10, 4)
	if term.Refs() != 1 {
		t.Fatalf("refs = %d, want 1", term.Refs())
	}
	term.Acquire()
	term.Release()
	term.Release()
	if term.Refs() != 0 {
		t.Fatalf("refs = %d, want 0", term.Refs())
	}

	defer func() {
		if recover() == nil {
			t.Fatal("releasing past zero should panic")
		}
	}()
	term.Release()
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 2, Y: 3, Width: 4, Height: 2}
	if !r.Contains(2, 3) || !r.Contains(5, 4) {
		t.Fatal("corner cells should be inside")
	}
	if r.Contains(6, 3) || r.Contains(2, 5) || r.Contains(1, 3) {
		t.Fatal("cells past the edges should be outside")
	}
}

package backend

import "testing"

func TestSetStringBasic(t *testing.T) {
	b := NewBuffer(10, 2)
	end := b.SetString(0, 0, "hi", DefaultStyle())
	if end != 2 {
		t.Fatalf("end column = %d, want 2", end)
	}
	if b.Cell(0, 0).Rune != 'h' || b.Cell(1, 0).Rune != 'i' {
		t.Fatal("string not written")
	}
	if b.Cell(2, 0).Rune != ' ' {
		t.Fatal("cells past the string should stay empty")
	}
}

func TestSetStringWideRunes(t *testing.T) {
	b := NewBuffer(10, 1)
	end := b.SetString(0, 0, "日本", DefaultStyle())
	if end != 4 {
		t.Fatalf("end column = %d, want 4", end)
	}
	if c := b.Cell(0, 0); c.Rune != '日' || c.Width != 2 {
		t.Fatalf("cell 0 = %+v, want wide 日", c)
	}
	if !b.Cell(1, 0).IsContinuation() {
		t.Fatal("cell 1 should be a continuation cell")
	}
	if c := b.Cell(2, 0); c.Rune != '本' || c.Width != 2 {
		t.Fatalf("cell 2 = %+v, want wide 本", c)
	}
}

func TestSetStringWideRuneAtEdge(t *testing.T) {
	b := NewBuffer(3, 1)
	// The second wide rune does not fit and must be dropped whole.
	end := b.SetString(0, 0, "日本", DefaultStyle())
	if end != 2 {
		t.Fatalf("end column = %d, want 2", end)
	}
	if b.Cell(2, 0).Rune != ' ' {
		t.Fatal("half a wide rune must never be written")
	}
}

func TestSetStringCombiningMark(t *testing.T) {
	b := NewBuffer(10, 1)
	end := b.SetString(0, 0, "e\u0301x", DefaultStyle()) // e + combining acute
	if end != 2 {
		t.Fatalf("end column = %d, want 2", end)
	}
	if b.Cell(1, 0).Rune != 'x' {
		t.Fatal("combining mark must not consume its own cell")
	}
}

func TestSetStringOutOfBounds(t *testing.T) {
	b := NewBuffer(5, 1)
	b.SetString(0, 7, "nope", DefaultStyle()) // row out of range
	b.SetString(-2, 0, "ab", DefaultStyle())  // starts left of the grid
	if b.Cell(0, 0).Rune != ' ' {
		t.Fatal("out-of-bounds write leaked into the grid")
	}
}

func TestResizePreservesContent(t *testing.T) {
	b := NewBuffer(10, 4)
	b.SetString(0, 0, "keep", DefaultStyle())
	b.SetString(0, 3, "lost", DefaultStyle())

	b.Resize(6, 2)
	w, h := b.Size()
	if w != 6 || h != 2 {
		t.Fatalf("size = %dx%d, want 6x2", w, h)
	}
	if b.Cell(0, 0).Rune != 'k' {
		t.Fatal("content inside the new bounds should survive")
	}

	b.Resize(12, 5)
	if b.Cell(0, 0).Rune != 'k' {
		t.Fatal("growing should also preserve content")
	}
	if b.Cell(0, 4).Rune != ' ' {
		t.Fatal("new rows should be empty")
	}
}

func TestFillAndClear(t *testing.T) {
	b := NewBuffer(4, 4)
	cell := NewCell('#', DefaultStyle())
	b.Fill(Rect{X: 1, Y: 1, Width: 2, Height: 2}, cell)

	if b.Cell(1, 1).Rune != '#' || b.Cell(2, 2).Rune != '#' {
		t.Fatal("fill missed the rectangle")
	}
	if b.Cell(0, 0).Rune != ' ' || b.Cell(3, 3).Rune != ' ' {
		t.Fatal("fill leaked outside the rectangle")
	}

	b.Clear()
	if b.Cell(1, 1).Rune != ' ' {
		t.Fatal("clear should empty every cell")
	}
}

func TestDiff(t *testing.T) {
	a := NewBuffer(4, 2)
	b := a.Clone()
	if d := a.Diff(b); d != nil {
		t.Fatalf("identical buffers differ: %v", d)
	}

	b.SetCell(2, 1, NewCell('x', DefaultStyle()))
	d := a.Diff(b)
	if len(d) != 1 || d[0].X != 2 || d[0].Y != 1 {
		t.Fatalf("diff = %v, want the single changed cell", d)
	}

	if d := a.Diff(nil); len(d) != 8 {
		t.Fatalf("diff against nil = %d cells, want all 8", len(d))
	}
}

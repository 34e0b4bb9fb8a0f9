package backend

import "github.com/rivo/uniseg"

// Buffer is the cell grid a frame is drawn into. It is not safe for
// concurrent use; the event loop owns it and hands it to the application
// one frame at a time.
type Buffer struct {
	width, height int
	cells         [][]Cell
}

// NewBuffer creates a buffer with the given dimensions filled with empty
// cells.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{width: width, height: height}
	b.allocate()
	return b
}

func (b *Buffer) allocate() {
	b.cells = make([][]Cell, b.height)
	for y := 0; y < b.height; y++ {
		b.cells[y] = make([]Cell, b.width)
		for x := 0; x < b.width; x++ {
			b.cells[y][x] = EmptyCell()
		}
	}
}

// Size returns the buffer dimensions in cells.
func (b *Buffer) Size() (width, height int) {
	return b.width, b.height
}

// Resize resizes the buffer, preserving content where possible.
func (b *Buffer) Resize(width, height int) {
	if width == b.width && height == b.height {
		return
	}
	old := b.cells
	oldW, oldH := b.width, b.height
	b.width, b.height = width, height
	b.allocate()

	for y := 0; y < min(oldH, height); y++ {
		copy(b.cells[y], old[y][:min(oldW, width)])
	}
}

// SetCell sets a cell. Out-of-bounds writes are dropped.
func (b *Buffer) SetCell(x, y int, cell Cell) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.cells[y][x] = cell
}

// Cell returns the cell at the position, or an empty cell out of bounds.
func (b *Buffer) Cell(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return EmptyCell()
	}
	return b.cells[y][x]
}

// Fill fills a rectangle with the given cell.
func (b *Buffer) Fill(r Rect, cell Cell) {
	for y := r.Y; y < r.Y+r.Height && y < b.height; y++ {
		for x := r.X; x < r.X+r.Width && x < b.width; x++ {
			if x >= 0 && y >= 0 {
				b.cells[y][x] = cell
			}
		}
	}
}

// Clear resets every cell to empty.
func (b *Buffer) Clear() {
	empty := EmptyCell()
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.cells[y][x] = empty
		}
	}
}

// SetString writes a string starting at the position, splitting it into
// grapheme clusters so that combining marks and emoji occupy one cell
// group. Returns the column after the last written cell.
func (b *Buffer) SetString(x, y int, s string, style Style) int {
	if y < 0 || y >= b.height {
		return x
	}
	col := x
	state := -1
	var cluster string
	for len(s) > 0 {
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		w := uniseg.StringWidth(cluster)
		if w <= 0 {
			continue
		}
		if col+w > b.width {
			break
		}
		if col >= 0 {
			r := []rune(cluster)[0]
			b.cells[y][col] = Cell{Rune: r, Width: w, Style: style}
			for i := 1; i < w; i++ {
				b.cells[y][col+i] = ContinuationCell(style)
			}
		}
		col += w
	}
	return col
}

// Diff returns the positions at which the two buffers differ. A nil
// other or a size mismatch reports every cell.
func (b *Buffer) Diff(other *Buffer) []Rect {
	var out []Rect
	full := other == nil || other.width != b.width || other.height != b.height
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if full || !b.cells[y][x].Equals(other.cells[y][x]) {
				out = append(out, Rect{X: x, Y: y, Width: 1, Height: 1})
			}
		}
	}
	return out
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := NewBuffer(b.width, b.height)
	for y := 0; y < b.height; y++ {
		copy(c.cells[y], b.cells[y])
	}
	return c
}

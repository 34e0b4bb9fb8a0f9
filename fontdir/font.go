package fontdir

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Font is a loaded font program.
type Font struct {
	ID     ID
	Family string
	Data   []byte

	mu   sync.Mutex
	sfnt *sfnt.Font
	buf  sfnt.Buffer
}

// CellMetrics is the character cell size a monospaced face produces at a
// given pixel size. Renderers derive the window's character grid from it.
type CellMetrics struct {
	Width  int
	Height int
}

func newFont(id ID, family string, data []byte) (*Font, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Font{ID: id, Family: family, Data: data, sfnt: f}, nil
}

func newCollectionFont(id ID, family string, data []byte, index int) (*Font, error) {
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= coll.NumFonts() {
		return nil, fmt.Errorf("face index %d out of range", index)
	}
	f, err := coll.Font(index)
	if err != nil {
		return nil, err
	}
	return &Font{ID: id, Family: family, Data: data, sfnt: f}, nil
}

// NewStatic returns a font without an underlying font program. Renderers
// that compute their own metrics (tests, headless runs) can use it as a
// fallback when no system font should be loaded.
func NewStatic(family string) *Font {
	return &Font{ID: uuid.New(), Family: family}
}

// Metrics computes the character cell size at sizePx pixels. The width is
// the advance of '0'; the height is the face's recommended line height.
// Identical inputs always produce identical results. Fonts without a font
// program report a half-width cell derived from the size alone.
func (f *Font) Metrics(sizePx int) (CellMetrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sfnt == nil {
		return CellMetrics{Width: (sizePx + 1) / 2, Height: sizePx}, nil
	}

	ppem := fixed.I(sizePx)
	m, err := f.sfnt.Metrics(&f.buf, ppem, font.HintingNone)
	if err != nil {
		return CellMetrics{}, fmt.Errorf("font metrics: %w", err)
	}

	height := m.Height.Ceil()
	if height <= 0 {
		height = sizePx
	}

	width := 0
	if gi, err := f.sfnt.GlyphIndex(&f.buf, '0'); err == nil && gi != 0 {
		if adv, err := f.sfnt.GlyphAdvance(&f.buf, gi, ppem, font.HintingNone); err == nil {
			width = adv.Ceil()
		}
	}
	if width <= 0 {
		width = (height + 1) / 2
	}

	return CellMetrics{Width: width, Height: height}, nil
}

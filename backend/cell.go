// Package backend defines the cell grid the application draws into and
// the renderer contract that turns the grid into pixels. The package is
// renderer-agnostic; a GPU renderer, a software rasterizer, and the test
// renderer all satisfy the same interface.
package backend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone       Attribute = 0
	AttrBold       Attribute = 1 << iota
	AttrDim                  // Faint/dim text
	AttrItalic               // Italic text
	AttrUnderline            // Underlined text
	AttrSlowBlink            // Blinks at the slow interval
	AttrRapidBlink           // Blinks at the rapid interval
	AttrReverse              // Reverse video (swap fg/bg)
	AttrCrossedOut           // Strikethrough text
	AttrHidden               // Hidden/invisible text
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// Color is a 24-bit RGB color, or one of the 16 named palette slots
// resolved against the active Theme at draw time.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-15).
	// G and B are ignored in indexed mode.
	Indexed bool
	// Default indicates the theme's default foreground or background.
	Default bool
}

// ColorDefault resolves to the theme default for its position.
var ColorDefault = Color{Default: true}

// The 16 standard palette slots.
const (
	PaletteBlack uint8 = iota
	PaletteRed
	PaletteGreen
	PaletteYellow
	PaletteBlue
	PaletteMagenta
	PaletteCyan
	PaletteWhite
	PaletteBrightBlack
	PaletteBrightRed
	PaletteBrightGreen
	PaletteBrightYellow
	PaletteBrightBlue
	PaletteBrightMagenta
	PaletteBrightCyan
	PaletteBrightWhite
)

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates an indexed palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index % 16, Indexed: true}
}

// ColorFromHex creates a color from a hex string such as "#1e1e2e".
func ColorFromHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color: %s", hex)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// IsDefault returns true if this is the theme-default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default != other.Default {
		return false
	}
	if c.Default {
		return true
	}
	if c.Indexed != other.Indexed {
		return false
	}
	if c.Indexed {
		return c.R == other.R
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	if c.Indexed {
		return fmt.Sprintf("idx(%d)", c.R)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Style is the visual style of a cell.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the theme-default style.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// WithAttributes returns a new style with the given attributes.
func (s Style) WithAttributes(attrs Attribute) Style {
	s.Attributes = attrs
	return s
}

// Bold returns a new style with the bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Reverse returns a new style with reverse video added.
func (s Style) Reverse() Style {
	s.Attributes |= AttrReverse
	return s
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes
}

// Cell is one grid cell.
type Cell struct {
	// Rune is the character to display. Zero in continuation cells.
	Rune rune

	// Width is the display width: 1, 2 for wide characters, 0 for the
	// continuation cell following a wide character.
	Width int

	// Style is the visual style for this cell.
	Style Style
}

// EmptyCell returns a space cell with default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// NewCell creates a cell with the given rune and style.
func NewCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// ContinuationCell returns the placeholder cell that follows a wide rune.
func ContinuationCell(style Style) Cell {
	return Cell{Style: style}
}

// IsContinuation returns true if this is a continuation cell.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// Equals returns true if two cells are identical.
func (c Cell) Equals(other Cell) bool {
	return c.Rune == other.Rune &&
		c.Width == other.Width &&
		c.Style.Equals(other.Style)
}

// RuneWidth returns the display width of a rune.
func RuneWidth(r rune) int {
	if r < 32 || r == 0x7F {
		return 0
	}
	return uniseg.StringWidth(string(r))
}

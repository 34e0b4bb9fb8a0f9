package backend

import (
	"fmt"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Theme maps the 16 palette slots and the default foreground/background
// to concrete colors.
type Theme struct {
	Palette    [16]Color
	Foreground Color
	Background Color
}

// VGATheme returns the classic VGA text-mode palette, white on black.
func VGATheme() *Theme {
	return &Theme{
		Palette: [16]Color{
			ColorFromRGB(0, 0, 0),       // black
			ColorFromRGB(170, 0, 0),     // red
			ColorFromRGB(0, 170, 0),     // green
			ColorFromRGB(170, 85, 0),    // yellow
			ColorFromRGB(0, 0, 170),     // blue
			ColorFromRGB(170, 0, 170),   // magenta
			ColorFromRGB(0, 170, 170),   // cyan
			ColorFromRGB(170, 170, 170), // white
			ColorFromRGB(85, 85, 85),    // bright black
			ColorFromRGB(255, 85, 85),   // bright red
			ColorFromRGB(85, 255, 85),   // bright green
			ColorFromRGB(255, 255, 85),  // bright yellow
			ColorFromRGB(85, 85, 255),   // bright blue
			ColorFromRGB(255, 85, 255),  // bright magenta
			ColorFromRGB(85, 255, 255),  // bright cyan
			ColorFromRGB(255, 255, 255), // bright white
		},
		Foreground: ColorFromRGB(170, 170, 170),
		Background: ColorFromRGB(0, 0, 0),
	}
}

// Resolve maps a cell color to concrete RGB using the theme.
// fg selects which default applies.
func (t *Theme) Resolve(c Color, fg bool) Color {
	switch {
	case c.Default:
		if fg {
			return t.Foreground
		}
		return t.Background
	case c.Indexed:
		return t.Palette[c.R%16]
	default:
		return c
	}
}

// themeFile is the on-disk YAML shape. Bright slots are optional; when
// absent they are derived from the base slot.
type themeFile struct {
	Foreground string            `yaml:"foreground"`
	Background string            `yaml:"background"`
	Colors     map[string]string `yaml:"colors"`
}

var slotNames = [16]string{
	"black", "red", "green", "yellow",
	"blue", "magenta", "cyan", "white",
	"bright_black", "bright_red", "bright_green", "bright_yellow",
	"bright_blue", "bright_magenta", "bright_cyan", "bright_white",
}

// LoadYAML reads a theme from a YAML file. Slots the file omits keep
// their VGA values; omitted bright slots are derived by lightening the
// corresponding base slot.
func LoadYAML(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme: %w", err)
	}
	var tf themeFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing theme %s: %w", path, err)
	}

	th := VGATheme()
	if tf.Foreground != "" {
		if th.Foreground, err = ColorFromHex(tf.Foreground); err != nil {
			return nil, fmt.Errorf("theme %s: foreground: %w", path, err)
		}
	}
	if tf.Background != "" {
		if th.Background, err = ColorFromHex(tf.Background); err != nil {
			return nil, fmt.Errorf("theme %s: background: %w", path, err)
		}
	}

	seen := make(map[int]bool)
	for name, hex := range tf.Colors {
		i := slotIndex(name)
		if i < 0 {
			return nil, fmt.Errorf("theme %s: unknown color slot %q", path, name)
		}
		if th.Palette[i], err = ColorFromHex(hex); err != nil {
			return nil, fmt.Errorf("theme %s: %s: %w", path, name, err)
		}
		seen[i] = true
	}

	// Derive missing bright slots from redefined base slots.
	for i := 0; i < 8; i++ {
		if seen[i] && !seen[i+8] {
			th.Palette[i+8] = Brighten(th.Palette[i])
		}
	}
	return th, nil
}

func slotIndex(name string) int {
	for i, n := range slotNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Brighten derives the bright variant of a palette color by raising its
// lightness in Lab space, which keeps hue stable for saturated colors.
func Brighten(c Color) Color {
	base := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
	l, a, b := base.Lab()
	lifted := colorful.Lab(min(1.0, l+0.25), a, b).Clamped()
	r8, g8, b8 := lifted.RGB255()
	return ColorFromRGB(r8, g8, b8)
}

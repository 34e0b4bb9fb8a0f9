package backend

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTheme(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "theme.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeTheme(t, `
foreground: "#cdd6f4"
background: "#1e1e2e"
colors:
  red: "#f38ba8"
  bright_red: "#ff0000"
  green: "#a6e3a1"
`)
	th, err := LoadYAML(path)
	if err != nil {
		t.Fatal(err)
	}

	if th.Foreground != (Color{R: 0xcd, G: 0xd6, B: 0xf4}) {
		t.Fatalf("foreground = %v", th.Foreground)
	}
	if th.Background != (Color{R: 0x1e, G: 0x1e, B: 0x2e}) {
		t.Fatalf("background = %v", th.Background)
	}
	if th.Palette[PaletteRed] != (Color{R: 0xf3, G: 0x8b, B: 0xa8}) {
		t.Fatalf("red = %v", th.Palette[PaletteRed])
	}
	// An explicit bright slot wins over derivation.
	if th.Palette[PaletteBrightRed] != (Color{R: 0xff}) {
		t.Fatalf("bright_red = %v", th.Palette[PaletteBrightRed])
	}
	// Redefined green with no bright_green: the bright slot is derived
	// and must be lighter than the base.
	bg := th.Palette[PaletteBrightGreen]
	if bg == VGATheme().Palette[PaletteBrightGreen] {
		t.Fatal("bright_green should be derived, not the default")
	}
	base := th.Palette[PaletteGreen]
	if int(bg.R)+int(bg.G)+int(bg.B) <= int(base.R)+int(base.G)+int(base.B) {
		t.Fatalf("derived bright_green %v is not lighter than %v", bg, base)
	}
	// Untouched slots keep their defaults.
	if th.Palette[PaletteBlue] != VGATheme().Palette[PaletteBlue] {
		t.Fatalf("blue = %v, want the default", th.Palette[PaletteBlue])
	}
}

func TestLoadYAMLUnknownSlot(t *testing.T) {
	path := writeTheme(t, "colors:\n  orange: \"#ff8800\"\n")
	if _, err := LoadYAML(path); err == nil {
		t.Fatal("unknown color slot should be rejected")
	}
}

func TestLoadYAMLBadHex(t *testing.T) {
	path := writeTheme(t, "foreground: \"#zzzzzz\"\n")
	if _, err := LoadYAML(path); err == nil {
		t.Fatal("invalid hex color should be rejected")
	}
}

func TestResolve(t *testing.T) {
	th := VGATheme()

	if got := th.Resolve(ColorDefault, true); got != th.Foreground {
		t.Fatalf("default fg = %v", got)
	}
	if got := th.Resolve(ColorDefault, false); got != th.Background {
		t.Fatalf("default bg = %v", got)
	}
	if got := th.Resolve(ColorFromIndex(PaletteBrightCyan), true); got != th.Palette[PaletteBrightCyan] {
		t.Fatalf("indexed = %v", got)
	}
	rgb := ColorFromRGB(1, 2, 3)
	if got := th.Resolve(rgb, false); got != rgb {
		t.Fatalf("rgb passthrough = %v", got)
	}
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#1e1e2e", want: Color{R: 0x1e, G: 0x1e, B: 0x2e}},
		{in: "a6e3a1", want: Color{R: 0xa6, G: 0xe3, B: 0xa1}},
		{in: "#f80", want: Color{R: 0xff, G: 0x88, B: 0x00}},
		{in: "#12345", wantErr: true},
		{in: "#gggggg", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ColorFromHex(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ColorFromHex(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ColorFromHex(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ColorFromHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBrightenIsLighter(t *testing.T) {
	c := ColorFromRGB(0, 128, 0)
	b := Brighten(c)
	if int(b.R)+int(b.G)+int(b.B) <= int(c.R)+int(c.G)+int(c.B) {
		t.Fatalf("Brighten(%v) = %v is not lighter", c, b)
	}
}

package termwin

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dshills/termwin/backend"
	"github.com/pelletier/go-toml/v2"
)

// fileConfig is the on-disk TOML shape accepted by LoadFile.
type fileConfig struct {
	Title  string `toml:"title"`
	Window struct {
		Width  int `toml:"width"`
		Height int `toml:"height"`
	} `toml:"window"`
	Font struct {
		Family string   `toml:"family"`
		Size   int      `toml:"size"`
		Dirs   []string `toml:"dirs"`
		Watch  bool     `toml:"watch"`
	} `toml:"font"`
	TickMS int    `toml:"tick_ms"`
	Theme  string `toml:"theme"`
}

// LoadFile applies settings from a TOML file on top of the current
// configuration. A missing file is not an error, so callers can point
// at a well-known path unconditionally.
func (c *RunConfig[E]) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	if fc.Title != "" {
		c.title = fc.Title
	}
	if fc.Window.Width > 0 {
		c.width = fc.Window.Width
	}
	if fc.Window.Height > 0 {
		c.height = fc.Window.Height
	}
	if fc.Font.Family != "" {
		c.fontFamily = fc.Font.Family
	}
	if fc.Font.Size > 0 {
		c.fontSize = fc.Font.Size
	}
	if len(fc.Font.Dirs) > 0 {
		c.fontDirs = fc.Font.Dirs
	}
	if fc.Font.Watch {
		c.watchFonts = true
	}
	if fc.TickMS > 0 {
		c.tickRate = time.Duration(fc.TickMS) * time.Millisecond
	}
	if fc.Theme != "" {
		theme, err := backend.LoadYAML(fc.Theme)
		if err != nil {
			return err
		}
		c.theme = theme
	}
	return nil
}

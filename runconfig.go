package termwin

import (
	"time"

	"github.com/dshills/termwin/backend"
	"github.com/dshills/termwin/fontdir"
	"github.com/dshills/termwin/timer"
	"github.com/dshills/termwin/window"
)

// defaultFontSize is the logical font size used when none is configured.
const defaultFontSize = 22

// RunConfig holds everything a run needs: the windowing loop, the event
// converter, the renderer constructor, and the optional poll sources.
// Build one with New plus options, then call Run.
type RunConfig[E any] struct {
	loop        window.EventLoop
	conv        EventConverter[E]
	newRenderer backend.Constructor

	title         string
	width, height int

	fontFamily   string
	fontSize     int
	fontDirs     []string
	fallbackFont []byte
	fallbackFace *fontdir.Font
	watchFonts   bool

	theme       *backend.Theme
	cursorStyle backend.CursorStyle

	rapidBlink time.Duration
	slowBlink  time.Duration

	tickRate  time.Duration
	useTimers bool
	timerWrap func(timer.TimeOut) Control[E]
	workers   int
	tasks     int
	extra     []Source[E]

	quitConfirm func() E
	rendered    func() Result[E]
}

// Option configures a RunConfig.
type Option[E any] func(*RunConfig[E])

// New creates a run configuration. The loop supplies native window
// events, conv maps them to application events, and newRenderer is
// called once during startup to build the renderer.
func New[E any](loop window.EventLoop, conv EventConverter[E], newRenderer backend.Constructor, opts ...Option[E]) *RunConfig[E] {
	cfg := &RunConfig[E]{
		loop:        loop,
		conv:        conv,
		newRenderer: newRenderer,
		title:       "termwin",
		width:       800,
		height:      600,
		fontSize:    defaultFontSize,
		theme:       backend.VGATheme(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithTitle sets the window title.
func WithTitle[E any](title string) Option[E] {
	return func(c *RunConfig[E]) { c.title = title }
}

// WithWindowSize sets the initial window size in pixels.
func WithWindowSize[E any](width, height int) Option[E] {
	return func(c *RunConfig[E]) { c.width, c.height = width, height }
}

// WithFontFamily requests a font family. When the family cannot be
// resolved at startup, the fallback font is used instead.
func WithFontFamily[E any](family string) Option[E] {
	return func(c *RunConfig[E]) { c.fontFamily = family }
}

// WithFontSize sets the logical font size. The pixel size is derived
// from the window's scale factor.
func WithFontSize[E any](size int) Option[E] {
	return func(c *RunConfig[E]) { c.fontSize = size }
}

// WithFontDirs overrides the directories scanned for fonts.
func WithFontDirs[E any](dirs ...string) Option[E] {
	return func(c *RunConfig[E]) { c.fontDirs = dirs }
}

// WithFallbackFont supplies raw font bytes used when no configured
// family resolves. Startup fails hard without any usable font.
func WithFallbackFont[E any](data []byte) Option[E] {
	return func(c *RunConfig[E]) { c.fallbackFont = data }
}

// WithFallbackFace supplies an already-built fallback font, such as
// fontdir.NewStatic for renderers that compute their own metrics.
func WithFallbackFace[E any](f *fontdir.Font) Option[E] {
	return func(c *RunConfig[E]) { c.fallbackFace = f }
}

// WithFontWatcher rescans the font directories on filesystem changes
// and schedules a font reload.
func WithFontWatcher[E any]() Option[E] {
	return func(c *RunConfig[E]) { c.watchFonts = true }
}

// WithTheme sets the color theme.
func WithTheme[E any](theme *backend.Theme) Option[E] {
	return func(c *RunConfig[E]) { c.theme = theme }
}

// WithCursorStyle sets the initial cursor style.
func WithCursorStyle[E any](style backend.CursorStyle) Option[E] {
	return func(c *RunConfig[E]) { c.cursorStyle = style }
}

// WithBlink enables blink handling. Rapid and slow are the blink
// half-periods; zero disables that class.
func WithBlink[E any](rapid, slow time.Duration) Option[E] {
	return func(c *RunConfig[E]) { c.rapidBlink, c.slowBlink = rapid, slow }
}

// WithTick adds a periodic repaint source firing every rate.
func WithTick[E any](rate time.Duration) Option[E] {
	return func(c *RunConfig[E]) { c.tickRate = rate }
}

// WithTimers adds the timer service. Each firing is mapped to a Control
// by wrap; a nil wrap maps every firing to Changed.
func WithTimers[E any](wrap func(timer.TimeOut) Control[E]) Option[E] {
	return func(c *RunConfig[E]) {
		c.useTimers = true
		c.timerWrap = wrap
	}
}

// WithWorkers adds a worker pool with size goroutines.
func WithWorkers[E any](size int) Option[E] {
	return func(c *RunConfig[E]) { c.workers = size }
}

// WithTasks adds an asynchronous task runner. Limit bounds concurrent
// tasks; zero means unbounded.
func WithTasks[E any](limit int) Option[E] {
	return func(c *RunConfig[E]) {
		c.tasks = limit
		if limit <= 0 {
			c.tasks = -1
		}
	}
}

// WithSource registers an additional poll source.
func WithSource[E any](src Source[E]) Option[E] {
	return func(c *RunConfig[E]) { c.extra = append(c.extra, src) }
}

// WithQuitConfirm installs the quit-confirmation protocol: before a
// Quit is honored, confirm() synthesizes one more application event and
// only a Quit returned from its dispatch proceeds with shutdown.
func WithQuitConfirm[E any](confirm func() E) Option[E] {
	return func(c *RunConfig[E]) { c.quitConfirm = confirm }
}

// WithRendered installs a post-frame hook: after every successful
// render pass its result is pushed onto the queue.
func WithRendered[E any](rendered func() Result[E]) Option[E] {
	return func(c *RunConfig[E]) { c.rendered = rendered }
}

// Package main is a headless smoke demo for the termwin run loop. It
// drives a small application on the in-memory windowing loop, scripts a
// few keystrokes, and prints what was rendered. Useful as a wiring
// example and as a quick end-to-end check on machines without a GPU.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	termwin "github.com/dshills/termwin"
	"github.com/dshills/termwin/backend"
	"github.com/dshills/termwin/fontdir"
	"github.com/dshills/termwin/mock"
	"github.com/dshills/termwin/tcellconv"
	"github.com/dshills/termwin/window"
	"github.com/gdamore/tcell/v2"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		title       string
		fontFamily  string
		fontSize    int
		text        string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Path to a TOML configuration file")
	flag.StringVar(&title, "title", "termwin demo", "Window title")
	flag.StringVar(&fontFamily, "font", "", "Font family to request")
	flag.IntVar(&fontSize, "size", 22, "Logical font size")
	flag.StringVar(&text, "type", "hello", "Text the script types before quitting")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("termwin-demo %s (%s)\n", version, commit)
		return 0
	}

	loop := mock.NewLoop(1.0)
	renderer := mock.NewRenderer(800, 600)

	cfg := termwin.New[tcell.Event](loop, tcellconv.New(), renderer.Constructor(),
		termwin.WithTitle[tcell.Event](title),
		termwin.WithFontFamily[tcell.Event](fontFamily),
		termwin.WithFontSize[tcell.Event](fontSize),
		termwin.WithFallbackFace[tcell.Event](fontdir.NewStatic("demo")),
		termwin.WithTick[tcell.Event](time.Second),
	)
	if configPath != "" {
		if err := cfg.LoadFile(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
			return 1
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		loop.Post(window.CloseRequested{})
	}()

	go script(loop, text)

	app := &demoApp{}
	if err := cfg.Run(app); err != nil {
		var initErr *termwin.InitError
		if errors.As(err, &initErr) {
			fmt.Fprintf(os.Stderr, "Error: startup failed in %s: %v\n", initErr.Component, initErr.Err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("rendered %d frames, typed %q\n", renderer.FrameCount(), app.typed)
	return 0
}

// script feeds the loop the way a user would: type the text, then quit
// with Ctrl+Q.
func script(loop *mock.Loop, text string) {
	for _, r := range text {
		loop.Post(window.KeyboardInput{Key: window.KeyRune, Rune: r, Pressed: true})
		loop.Post(window.KeyboardInput{Key: window.KeyRune, Rune: r, Pressed: false})
	}
	loop.Post(window.ModifiersChanged{Mods: window.Modifiers{Ctrl: true}})
	loop.Post(window.KeyboardInput{Key: window.KeyRune, Rune: 'q', Pressed: true})
}

// demoApp echoes typed characters on the first row.
type demoApp struct {
	typed string
}

func (a *demoApp) Init(ctx *termwin.AppContext[tcell.Event]) error {
	ctx.SetTitle(fmt.Sprintf("termwin demo %s", version))
	return nil
}

func (a *demoApp) Render(ctx *termwin.AppContext[tcell.Event], f *backend.Frame) termwin.Result[tcell.Event] {
	buf := f.Buffer()
	col := buf.SetString(0, 0, "> "+a.typed, backend.DefaultStyle().Bold())
	ctx.SetCursor(col, 0)
	return termwin.Ok(termwin.Continue[tcell.Event]())
}

func (a *demoApp) HandleEvent(ctx *termwin.AppContext[tcell.Event], ev tcell.Event) termwin.Result[tcell.Event] {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if e.Key() == tcell.KeyCtrlQ {
			return termwin.Ok(termwin.Quit[tcell.Event]())
		}
		if e.Key() == tcell.KeyRune {
			a.typed += string(e.Rune())
			return termwin.Ok(termwin.Changed[tcell.Event]())
		}
	case *tcell.EventResize:
		return termwin.Ok(termwin.Changed[tcell.Event]())
	}
	return termwin.Ok(termwin.Continue[tcell.Event]())
}

func (a *demoApp) HandleError(_ *termwin.AppContext[tcell.Event], err error) termwin.Result[tcell.Event] {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return termwin.Ok(termwin.Quit[tcell.Event]())
}

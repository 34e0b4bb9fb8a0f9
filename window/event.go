package window

// Event is one native window event. The set is closed: drivers translate
// whatever their platform produces into these variants and drop the rest.
type Event interface {
	isWindowEvent()
}

// CloseRequested reports that the user asked to close the window
// (title-bar button, Alt+F4, ...). The window is still alive.
type CloseRequested struct{}

// Destroyed reports that the native window is gone. No further events
// for it will be delivered.
type Destroyed struct{}

// RedrawRequested asks for a repaint, either because the platform
// invalidated the surface or because RequestRedraw was called.
type RedrawRequested struct{}

// Resized reports a new drawable size in physical pixels.
type Resized struct {
	Width  int
	Height int
}

// ScaleFactorChanged reports that the window moved to a display with a
// different scale factor.
type ScaleFactorChanged struct {
	Scale float64
}

// Focused reports keyboard focus gain or loss.
type Focused struct {
	Gained bool
}

// ModifiersChanged reports the new modifier key state.
type ModifiersChanged struct {
	Mods Modifiers
}

// CursorMoved reports the mouse position in physical pixels.
type CursorMoved struct {
	X, Y float64
}

// CursorEntered reports the pointer entering the window.
type CursorEntered struct{}

// CursorLeft reports the pointer leaving the window.
type CursorLeft struct{}

// MouseInput reports a button press or release.
type MouseInput struct {
	Button  MouseButton
	Pressed bool
}

// MouseWheel reports scroll wheel movement in lines.
type MouseWheel struct {
	DX, DY float64
}

// KeyboardInput reports a key press, release or repeat. Rune carries the
// produced character for KeyRune, 0 otherwise.
type KeyboardInput struct {
	Key     Key
	Rune    rune
	Pressed bool
	Repeat  bool
}

func (CloseRequested) isWindowEvent()     {}
func (Destroyed) isWindowEvent()          {}
func (RedrawRequested) isWindowEvent()    {}
func (Resized) isWindowEvent()            {}
func (ScaleFactorChanged) isWindowEvent() {}
func (Focused) isWindowEvent()            {}
func (ModifiersChanged) isWindowEvent()   {}
func (CursorMoved) isWindowEvent()        {}
func (CursorEntered) isWindowEvent()      {}
func (CursorLeft) isWindowEvent()         {}
func (MouseInput) isWindowEvent()         {}
func (MouseWheel) isWindowEvent()         {}
func (KeyboardInput) isWindowEvent()      {}

// Modifiers is the state of the modifier keys.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Super bool
}

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseBack
	MouseForward
	MouseOther
)

// Key identifies a keyboard key. Printable characters use KeyRune with the
// rune carried alongside.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character (use the Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

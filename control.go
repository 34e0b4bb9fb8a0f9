package termwin

// Op identifies a Control variant. The declared order is significant
// only for the Changed-collapse rule in the drain loop; no other code
// compares Ops by magnitude.
type Op int

// Control variants.
const (
	// OpContinue is a no-op, keep waiting.
	OpContinue Op = iota
	// OpUnchanged signals the handler ran but no repaint is needed.
	OpUnchanged
	// OpChanged requests a repaint.
	OpChanged
	// OpEvent re-enters dispatch with a new application event.
	OpEvent
	// OpClose is an Event produced by closing a dialog layer. It is
	// dispatched like OpEvent and always followed by a repaint.
	OpClose
	// OpQuit requests termination.
	OpQuit
	// OpBlink advances cursor/text blink state in the renderer.
	OpBlink
)

func (op Op) String() string {
	switch op {
	case OpContinue:
		return "Continue"
	case OpUnchanged:
		return "Unchanged"
	case OpChanged:
		return "Changed"
	case OpEvent:
		return "Event"
	case OpClose:
		return "Close"
	case OpQuit:
		return "Quit"
	case OpBlink:
		return "Blink"
	default:
		return "Unknown"
	}
}

// Control is the outcome of any unit of work: a user callback, a poll
// source read, or an injected value. Exactly one variant is active;
// Event carries a payload only for OpEvent and OpClose.
type Control[E any] struct {
	Op    Op
	Event E
}

// Continue returns the no-op control.
func Continue[E any]() Control[E] {
	return Control[E]{Op: OpContinue}
}

// Unchanged returns the explicit no-repaint control.
func Unchanged[E any]() Control[E] {
	return Control[E]{Op: OpUnchanged}
}

// Changed returns the repaint-requested control.
func Changed[E any]() Control[E] {
	return Control[E]{Op: OpChanged}
}

// Event returns a control that re-enters dispatch with ev.
func Event[E any](ev E) Control[E] {
	return Control[E]{Op: OpEvent, Event: ev}
}

// Close returns the dialog-close control carrying ev.
func Close[E any](ev E) Control[E] {
	return Control[E]{Op: OpClose, Event: ev}
}

// Quit returns the termination-requested control.
func Quit[E any]() Control[E] {
	return Control[E]{Op: OpQuit}
}

// Blink returns the blink-tick control.
func Blink[E any]() Control[E] {
	return Control[E]{Op: OpBlink}
}

// Result pairs a Control with an error. Exactly one of the two is
// meaningful: a non-nil Err routes to the application's error handler
// and the Ctrl field is ignored.
type Result[E any] struct {
	Ctrl Control[E]
	Err  error
}

// Ok wraps a control in a successful result.
func Ok[E any](c Control[E]) Result[E] {
	return Result[E]{Ctrl: c}
}

// Fail wraps an error in a result.
func Fail[E any](err error) Result[E] {
	return Result[E]{Err: err}
}

package termwin

import (
	"errors"
	"fmt"
)

// errNoUsableFont is reported when a font reload leaves no loadable face
// and no fallback.
var errNoUsableFont = errors.New("no usable font for the active family")

// InitError wraps a failure during the Startup to Running transition,
// naming the component that failed.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

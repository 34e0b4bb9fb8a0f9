// Package termwin drives a terminal-style UI rendered into a native
// window. It owns the event loop: native window events and background
// poll sources (ticks, timers, worker results, async tasks) are merged
// into one control queue, drained by a single goroutine that decides
// when to re-render, when to dispatch application events, and when to
// shut down.
//
// Applications implement App, build a RunConfig with New plus options,
// and call Run. Everything the callbacks need flows through AppContext.
package termwin

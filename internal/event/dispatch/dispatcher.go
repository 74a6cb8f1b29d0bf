package dispatch

import "time"

// Listener receives events of type E.
// This mirrors event.Listener to avoid circular imports.
type Listener[E any] interface {
	OnEvent(event E) error
}

// Next yields the next listener of a fan-out, or false when none remain.
type Next[E any] func() (Listener[E], bool)

// Result represents the outcome of a single listener invocation.
type Result struct {
	// Error is the error returned by the listener, if any.
	Error error

	// Duration is how long the listener took to execute.
	Duration time.Duration
}

// IsSuccess returns true if the listener returned no error.
func (r Result) IsSuccess() bool {
	return r.Error == nil
}

// FanOut summarizes one dispatch call.
type FanOut struct {
	// Invoked is the number of listeners called, including a failing one.
	Invoked int

	// Skipped is the number of matching listeners never reached
	// because an earlier listener failed.
	Skipped int

	// Err is the first listener error, if any.
	Err error

	// Duration is the time spent in listeners.
	Duration time.Duration
}

package dispatch

import "time"

// Executor invokes a single listener and captures timing information.
type Executor[E any] struct {
	onPanic func()
}

// NewExecutor creates a new executor.
// onPanic, if non-nil, runs while a listener panic unwinds.
func NewExecutor[E any](onPanic func()) *Executor[E] {
	return &Executor[E]{onPanic: onPanic}
}

// Execute runs a listener with the given event and returns the result.
// A panic is not recovered.
func (e *Executor[E]) Execute(event E, listener Listener[E]) (result Result) {
	start := time.Now()

	panicking := true
	defer func() {
		result.Duration = time.Since(start)
		if panicking && e.onPanic != nil {
			e.onPanic()
		}
	}()

	result.Error = listener.OnEvent(event)
	panicking = false
	return result
}

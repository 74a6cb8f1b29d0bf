package dispatch

import (
	"sync/atomic"
	"time"
)

// Dispatcher runs fan-outs synchronously in the caller's goroutine.
// It is safe for concurrent use; each call is independent.
type Dispatcher[E any] struct {
	executor *Executor[E]

	// Stats
	fanOuts     atomic.Uint64
	invoked     atomic.Uint64
	succeeded   atomic.Uint64
	failed      atomic.Uint64
	panicked    atomic.Uint64
	skipped     atomic.Uint64
	totalTimeNs atomic.Int64
}

// NewDispatcher creates a new synchronous dispatcher.
func NewDispatcher[E any]() *Dispatcher[E] {
	d := &Dispatcher[E]{}
	d.executor = NewExecutor[E](func() {
		d.panicked.Add(1)
	})
	return d
}

// Dispatch invokes every listener produced by next, in order, until next is
// exhausted or a listener fails. On failure the remaining listeners are
// drained from next without being invoked and the listener's error is
// returned unchanged.
func (d *Dispatcher[E]) Dispatch(event E, next Next[E]) (FanOut, error) {
	d.fanOuts.Add(1)

	var out FanOut
	for {
		listener, ok := next()
		if !ok {
			return out, nil
		}

		d.invoked.Add(1)
		out.Invoked++

		result := d.executor.Execute(event, listener)
		out.Duration += result.Duration
		d.totalTimeNs.Add(result.Duration.Nanoseconds())

		if result.Error != nil {
			d.failed.Add(1)
			out.Err = result.Error
			for _, more := next(); more; _, more = next() {
				out.Skipped++
			}
			d.skipped.Add(uint64(out.Skipped))
			return out, result.Error
		}
		d.succeeded.Add(1)
	}
}

// DispatchAll is Dispatch over a fixed slice of listeners.
func (d *Dispatcher[E]) DispatchAll(event E, listeners []Listener[E]) (FanOut, error) {
	i := 0
	return d.Dispatch(event, func() (Listener[E], bool) {
		if i >= len(listeners) {
			return nil, false
		}
		l := listeners[i]
		i++
		return l, true
	})
}

// Stats returns dispatch statistics.
// Note: Stats are read without a mutex, so values may be slightly inconsistent
// if stats are being updated concurrently.
func (d *Dispatcher[E]) Stats() Stats {
	invoked := d.invoked.Load()
	totalNs := d.totalTimeNs.Load()

	var avgNs int64
	if invoked > 0 {
		avgNs = totalNs / int64(invoked)
	}

	return Stats{
		FanOuts:       d.fanOuts.Load(),
		Invoked:       invoked,
		Succeeded:     d.succeeded.Load(),
		Failed:        d.failed.Load(),
		Panicked:      d.panicked.Load(),
		Skipped:       d.skipped.Load(),
		TotalDuration: time.Duration(totalNs),
		AvgDuration:   time.Duration(avgNs),
	}
}

// ResetStats resets all statistics to zero.
func (d *Dispatcher[E]) ResetStats() {
	d.fanOuts.Store(0)
	d.invoked.Store(0)
	d.succeeded.Store(0)
	d.failed.Store(0)
	d.panicked.Store(0)
	d.skipped.Store(0)
	d.totalTimeNs.Store(0)
}

// Stats contains statistics for a dispatcher.
type Stats struct {
	// FanOuts is the total number of Dispatch calls.
	FanOuts uint64

	// Invoked is the total number of listener invocations.
	Invoked uint64

	// Succeeded is the number of invocations that returned no error.
	Succeeded uint64

	// Failed is the number of listeners that returned errors.
	Failed uint64

	// Panicked is the number of listeners that panicked.
	Panicked uint64

	// Skipped is the number of listeners abandoned after a failure.
	Skipped uint64

	// TotalDuration is the cumulative time spent in listeners.
	TotalDuration time.Duration

	// AvgDuration is the average listener execution time.
	AvgDuration time.Duration
}

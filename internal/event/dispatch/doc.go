// Package dispatch runs synchronous listener fan-outs for the event source.
//
// A fan-out invokes listeners one after another on the caller's goroutine.
// It stops at the first listener that returns an error; listeners not yet
// reached are counted as skipped and never invoked. A panicking listener is
// counted and the panic keeps propagating to the caller unchanged.
//
// The package is generic over the event type so that it does not depend on
// the event package:
//
//	d := dispatch.NewDispatcher[event.Event]()
//	summary, err := d.Dispatch(ev, next)
//	if err != nil {
//	    // the listener at position summary.Invoked-1 failed
//	}
//
// # Statistics
//
// Every Dispatcher keeps atomic counters of fan-outs, invocations, failures,
// panics and skipped listeners together with the time spent in listeners.
package dispatch

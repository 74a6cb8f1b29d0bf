// Package event provides typed hierarchical event sources.
//
// A Source lets a component announce things that happen to it. Listeners
// register for an event type and receive every event whose type is that
// type or one of its descendants. Delivery is synchronous: listeners run
// in registration order on the goroutine that fires the event.
//
// # Architecture
//
//	┌──────────────────────────────────────────┐
//	│                 Source                    │
//	│  - detail counter (FireEvent gate)        │
//	│  - event/failure factories                │
//	│  - fail-fast dispatch                     │
//	└──────────────────────────────────────────┘
//	          │                      │
//	          ▼                      ▼
//	┌─────────────────┐    ┌─────────────────┐
//	│    Registry     │    │    Iterator     │
//	│  - copy-on-write│───▶│  - snapshot     │
//	│  - insertion    │    │  - lazy filter  │
//	│    order        │    │  - read-only    │
//	└─────────────────┘    └─────────────────┘
//
// # Event Types
//
// Event types form a tree rooted at Any and are compared by identity. Two
// types are predefined below the root:
//
//	ANY
//	├── EMPTY   - plain notices
//	└── ERROR   - root of the error channel
//
// A listener registered for ERROR receives every event fired with FireError,
// whatever the concrete error type. A listener registered for ANY receives
// everything.
//
// # Detail Events
//
// SetDetailEvents is a nesting counter, not a flag:
//
//	src.SetDetailEvents(false) // -1: normal events still delivered
//	src.SetDetailEvents(false) // -2: FireEvent is a no-op
//	src.SetDetailEvents(true)  // -1: delivered again
//
// IsDetailEvents reports whether the counter is above zero. Error events
// are never suppressed.
//
// # Error Handling
//
// The first listener error aborts the fan-out. The remaining listeners are
// skipped and the error is returned to the firing caller wrapped in a
// *ListenerError. Panics are not recovered.
//
// # Concurrency
//
// Registration and firing may happen concurrently from any goroutine.
// Each fire works on the registration snapshot taken when it started, so a
// listener that adds or removes registrations affects later fires only.
//
// # Usage
//
//	src := event.NewSource()
//	src.AddListener(event.Any, event.Func(func(e event.Event) error {
//	    fmt.Println(e)
//	    return nil
//	}))
//	src.FireEvent(event.TypeEmpty, nil)
package event

package event

import "reflect"

// Listener receives events. OnEvent runs synchronously on the goroutine that
// fired the event. A returned error aborts the rest of the fan-out and is
// reported to the caller that fired the event.
type Listener interface {
	OnEvent(event Event) error
}

// funcListener adapts a function to Listener.
// It is always used through a pointer so each adapter has its own identity.
type funcListener struct {
	fn func(Event) error
}

func (f *funcListener) OnEvent(event Event) error {
	return f.fn(event)
}

// Func adapts fn to a Listener. Every call returns a distinct listener;
// keep the result to remove the registration later.
func Func(fn func(Event) error) Listener {
	if fn == nil {
		return nil
	}
	return &funcListener{fn: fn}
}

// typedListener delivers only events of dynamic type E.
type typedListener[E Event] struct {
	fn func(E) error
}

func (t *typedListener[E]) OnEvent(event Event) error {
	if e, ok := event.(E); ok {
		return t.fn(e)
	}
	// Type mismatch - skip silently
	return nil
}

// Typed adapts a function over a concrete event type to a Listener.
// Events of any other dynamic type are skipped. This lets a listener for
// *Failure be registered on a type that also carries notices:
//
//	src.AddListener(event.Any, event.Typed(func(f *event.Failure) error {
//	    log.Printf("operation %s failed: %v", f.Operation(), f.Cause())
//	    return nil
//	}))
func Typed[E Event](fn func(E) error) Listener {
	if fn == nil {
		return nil
	}
	return &typedListener[E]{fn: fn}
}

// sameListener reports whether a and b are the same listener.
// Listeners are compared by identity: pointer listeners must be the same
// pointer, comparable values must be equal. Values that cannot be compared,
// including structs whose interface fields hold maps or funcs, are never
// considered the same.
func sameListener(a, b Listener) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	// Value.Comparable inspects dynamic values held in interface fields.
	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	return a == b
}

// isNilListener reports whether l is nil or a typed nil pointer.
func isNilListener(l Listener) bool {
	if l == nil {
		return true
	}
	v := reflect.ValueOf(l)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

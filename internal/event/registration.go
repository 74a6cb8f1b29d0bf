package event

import "github.com/dshills/evsource/internal/event/evtype"

// Registration binds a listener to the type it is interested in.
// Registrations are immutable values.
type Registration struct {
	typ      *evtype.Type
	listener Listener
}

// NewRegistration creates a registration.
func NewRegistration(t *evtype.Type, l Listener) (Registration, error) {
	if t == nil {
		return Registration{}, ErrNilType
	}
	if isNilListener(l) {
		return Registration{}, ErrNilListener
	}
	return Registration{typ: t, listener: l}, nil
}

// Type returns the registered event type.
func (r Registration) Type() *evtype.Type {
	return r.typ
}

// Listener returns the registered listener.
func (r Registration) Listener() Listener {
	return r.listener
}

// IsZero reports whether r is the zero Registration.
func (r Registration) IsZero() bool {
	return r.typ == nil && r.listener == nil
}

// Equal reports whether r and other bind the same listener to the same type.
// Both are compared by identity.
func (r Registration) Equal(other Registration) bool {
	return r.typ == other.typ && sameListener(r.listener, other.listener)
}

// Accepts reports whether events of type t are delivered to this registration.
func (r Registration) Accepts(t *evtype.Type) bool {
	return evtype.IsDescendantOf(t, r.typ)
}

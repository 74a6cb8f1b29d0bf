package event

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dshills/evsource/internal/event/evtype"
)

// ancestry memoizes ancestor sets for every registry. The type hierarchy is
// immutable, so sharing the memo across registries is safe.
var ancestry = evtype.NewCache()

// Registry holds listener registrations in insertion order.
//
// The registry is copy-on-write: every mutation builds a new backing slice
// and swaps it in atomically, so readers take a snapshot with a single load
// and iterate without locking. Mutations are serialized among themselves.
// A snapshot never changes after it was taken.
type Registry struct {
	mu   sync.Mutex // serializes writers
	regs atomic.Pointer[[]Registration]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.regs.Store(&[]Registration{})
	return r
}

// Snapshot returns the current registrations.
// The returned slice is shared and must not be modified.
func (r *Registry) Snapshot() []Registration {
	return *r.regs.Load()
}

// Registrations returns a copy of the current registrations.
func (r *Registry) Registrations() []Registration {
	return slices.Clone(r.Snapshot())
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	return len(r.Snapshot())
}

// update applies fn to a private copy of the backing slice and publishes
// the result. fn returns false to leave the registry untouched.
func (r *Registry) update(fn func(cur []Registration) ([]Registration, bool)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, changed := fn(*r.regs.Load())
	if changed {
		r.regs.Store(&next)
	}
	return changed
}

// Add appends a registration. Duplicates are kept.
func (r *Registry) Add(reg Registration) error {
	if reg.typ == nil || reg.listener == nil {
		return ErrInvalidRegistration
	}
	r.update(func(cur []Registration) ([]Registration, bool) {
		next := make([]Registration, len(cur), len(cur)+1)
		copy(next, cur)
		return append(next, reg), true
	})
	return nil
}

// AddListener registers l for events of type t and its descendants.
func (r *Registry) AddListener(t *evtype.Type, l Listener) error {
	reg, err := NewRegistration(t, l)
	if err != nil {
		return err
	}
	return r.Add(reg)
}

// Remove removes the first registration equal to reg.
// It returns whether a registration was removed.
func (r *Registry) Remove(reg Registration) bool {
	return r.update(func(cur []Registration) ([]Registration, bool) {
		i := slices.IndexFunc(cur, reg.Equal)
		if i < 0 {
			return nil, false
		}
		next := make([]Registration, 0, len(cur)-1)
		next = append(next, cur[:i]...)
		return append(next, cur[i+1:]...), true
	})
}

// RemoveListener removes one registration of l for t.
// It returns false if either is nil or no such registration exists.
func (r *Registry) RemoveListener(t *evtype.Type, l Listener) bool {
	reg, err := NewRegistration(t, l)
	if err != nil {
		return false
	}
	return r.Remove(reg)
}

// RemoveAll removes one matching registration for each element of regs in a
// single update. It returns the number of registrations removed.
func (r *Registry) RemoveAll(regs []Registration) int {
	if len(regs) == 0 {
		return 0
	}
	removed := 0
	r.update(func(cur []Registration) ([]Registration, bool) {
		next := slices.Clone(cur)
		for _, reg := range regs {
			if i := slices.IndexFunc(next, reg.Equal); i >= 0 {
				next = slices.Delete(next, i, i+1)
				removed++
			}
		}
		return next, removed > 0
	})
	return removed
}

// Clear removes all registrations.
func (r *Registry) Clear() {
	r.update(func(cur []Registration) ([]Registration, bool) {
		return []Registration{}, len(cur) > 0
	})
}

// AddAll appends every registration of src, preserving order.
// src is read through a single snapshot, so copying a registry into
// itself duplicates its current contents once.
func (r *Registry) AddAll(src *Registry) error {
	if src == nil {
		return ErrNilRegistry
	}
	regs := src.Snapshot()
	if len(regs) == 0 {
		return nil
	}
	r.update(func(cur []Registration) ([]Registration, bool) {
		next := make([]Registration, 0, len(cur)+len(regs))
		next = append(next, cur...)
		return append(next, regs...), true
	})
	return nil
}

// RegistrationsFor returns the registrations whose type is base or one of
// its descendants, in insertion order.
func (r *Registry) RegistrationsFor(base *evtype.Type) []Registration {
	if base == nil {
		return nil
	}
	var out []Registration
	for _, reg := range r.Snapshot() {
		if ancestry.Ancestors(reg.typ).Contains(base) {
			out = append(out, reg)
		}
	}
	return out
}

// Iterator returns a dispatch iterator over the listeners that accept
// events of type t, taken from the current snapshot.
func (r *Registry) Iterator(t *evtype.Type) *Iterator {
	return newIterator(r.Snapshot(), t)
}

// Listeners returns the listeners that accept events of type t.
func (r *Registry) Listeners(t *evtype.Type) []Listener {
	var out []Listener
	for l := range r.Iterator(t).Listeners() {
		out = append(out, l)
	}
	return out
}

// Fire delivers a pre-built event to every listener accepting its type.
// Delivery stops at the first listener error, which is returned.
func (r *Registry) Fire(ev Event) error {
	if ev == nil {
		return ErrNilEvent
	}
	it := r.Iterator(ev.Type())
	for it.HasNext() {
		if err := it.invokeNextUnchecked(ev); err != nil {
			return err
		}
	}
	return nil
}

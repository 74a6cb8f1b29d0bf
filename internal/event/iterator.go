package event

import (
	"iter"

	"github.com/dshills/evsource/internal/event/evtype"
)

// Iterator walks a registry snapshot and yields, in insertion order, the
// listeners whose registered type accepts the iterator's base type.
//
// The iterator is read-only and not safe for concurrent use. Mutations of
// the registry after the iterator was created are not visible to it.
type Iterator struct {
	regs     []Registration
	pos      int
	base     *evtype.Type
	accepted evtype.Set
	next     Listener
}

func newIterator(regs []Registration, base *evtype.Type) *Iterator {
	it := &Iterator{
		regs:     regs,
		base:     base,
		accepted: ancestry.Ancestors(base),
	}
	it.advance()
	return it
}

// Base returns the type the iterator was created for.
func (it *Iterator) Base() *evtype.Type {
	return it.base
}

// HasNext reports whether another listener remains.
func (it *Iterator) HasNext() bool {
	return it.next != nil
}

// Next returns the next listener and advances the cursor.
func (it *Iterator) Next() (Listener, error) {
	if it.next == nil {
		return nil, ErrNoMoreListeners
	}
	l := it.next
	it.advance()
	return l, nil
}

// Remove always fails: dispatch iteration is read-only.
func (it *Iterator) Remove() error {
	return ErrUnsupported
}

// InvokeNext validates that ev's type descends from the iterator's base
// type, then invokes the next listener with ev and advances the cursor.
// A listener error is returned unchanged.
func (it *Iterator) InvokeNext(ev Event) error {
	if ev == nil || !ancestry.Ancestors(ev.Type()).Contains(it.base) {
		return &IncompatibleEventError{Base: it.base, Event: ev}
	}
	return it.invokeNextUnchecked(ev)
}

func (it *Iterator) invokeNextUnchecked(ev Event) error {
	l, err := it.Next()
	if err != nil {
		return err
	}
	return l.OnEvent(ev)
}

// Listeners returns the remaining listeners as a sequence.
// Ranging over it advances the iterator.
func (it *Iterator) Listeners() iter.Seq[Listener] {
	return func(yield func(Listener) bool) {
		for it.HasNext() {
			l, _ := it.Next()
			if !yield(l) {
				return
			}
		}
	}
}

// advance moves the cursor to the next accepting registration.
func (it *Iterator) advance() {
	it.next = nil
	for it.pos < len(it.regs) && it.next == nil {
		reg := it.regs[it.pos]
		it.pos++
		if it.accepted.Contains(reg.typ) {
			it.next = reg.listener
		}
	}
}

package event

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dshills/evsource/internal/event/dispatch"
	"github.com/dshills/evsource/internal/event/evtype"
)

// Source manages listeners and fires events to them.
//
// Components that emit events embed or own a Source. All methods are safe
// for concurrent use. Events are delivered synchronously on the goroutine
// that fires them; no lock is held while a listener runs, so listeners may
// add or remove registrations, which affects later fires only.
type Source struct {
	registry *Registry

	// detailEvents is a signed nesting counter, not a flag. Every
	// SetDetailEvents(true) adds one and every SetDetailEvents(false)
	// subtracts one. FireEvent delivers while the counter is above
	// suppressionLimit.
	mu           sync.Mutex
	detailEvents int

	config     sourceConfig
	dispatcher *dispatch.Dispatcher[Event]
	suppressed atomic.Uint64
}

// suppressionLimit is the detail counter value at or below which FireEvent
// is suppressed: two more disables than enables.
const suppressionLimit = -2

// NewSource creates a Source with an empty registry.
func NewSource(opts ...SourceOption) *Source {
	config := defaultSourceConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return newSource(config)
}

func newSource(config sourceConfig) *Source {
	return &Source{
		registry:   NewRegistry(),
		config:     config,
		dispatcher: dispatch.NewDispatcher[Event](),
	}
}

// owner returns the value reported as Event.Source.
func (s *Source) owner() any {
	if s.config.owner != nil {
		return s.config.owner
	}
	return s
}

// String identifies the source in event descriptions.
func (s *Source) String() string {
	return fmt.Sprintf("Source@%p", s)
}

// AddListener registers l for events of type t and all its descendants.
func (s *Source) AddListener(t *evtype.Type, l Listener) error {
	if err := s.registry.AddListener(t, l); err != nil {
		return err
	}
	s.config.logger.Debug("listener added for %s", t.Path())
	return nil
}

// RemoveListener removes one registration of l for t. It returns false
// when either argument is nil or no such registration exists.
func (s *Source) RemoveListener(t *evtype.Type, l Listener) bool {
	removed := s.registry.RemoveListener(t, l)
	if removed {
		s.config.logger.Debug("listener removed for %s", t.Path())
	}
	return removed
}

// Listeners returns the listeners that would receive an event of type t,
// in delivery order.
func (s *Source) Listeners(t *evtype.Type) []Listener {
	return s.registry.Listeners(t)
}

// Registrations returns all registrations in insertion order.
func (s *Source) Registrations() []Registration {
	return s.registry.Registrations()
}

// RegistrationsFor returns the registrations whose type descends from base.
func (s *Source) RegistrationsFor(base *evtype.Type) []Registration {
	return s.registry.RegistrationsFor(base)
}

// ClearListeners removes every registration.
func (s *Source) ClearListeners() {
	s.registry.Clear()
	s.config.logger.Debug("listeners cleared")
}

// ClearErrorListeners removes every registration on the error channel,
// that is every registration whose type descends from TypeError.
func (s *Source) ClearErrorListeners() {
	n := s.registry.RemoveAll(s.registry.RegistrationsFor(TypeError))
	s.config.logger.Debug("%d error listeners cleared", n)
}

// SetDetailEvents adjusts the detail counter: enable adds one, disable
// subtracts one. Calls are meant to nest. Two more disables than enables
// suppress FireEvent; one further enable resumes delivery.
func (s *Source) SetDetailEvents(enable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if enable {
		s.detailEvents++
	} else {
		s.detailEvents--
	}
}

// IsDetailEvents reports whether detail events are enabled, that is whether
// the detail counter is above zero.
func (s *Source) IsDetailEvents() bool {
	return s.checkDetailEvents(0)
}

// checkDetailEvents reports whether the detail counter is above limit.
func (s *Source) checkDetailEvents(limit int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detailEvents > limit
}

// FireEvent delivers a normal event of type t to every matching listener.
//
// Nothing happens while the detail counter is at -2 or below, and no event
// is built when no listener matches. The first listener error stops the
// fan-out and is returned wrapped in a *ListenerError.
func (s *Source) FireEvent(t *evtype.Type, attachment map[string]any) error {
	if t == nil {
		return ErrNilType
	}
	if !s.checkDetailEvents(suppressionLimit) {
		s.suppressed.Add(1)
		s.config.logger.Debug("event %s suppressed", t.Path())
		return nil
	}

	it := s.registry.Iterator(t)
	if !it.HasNext() {
		return nil
	}

	ev, err := s.config.newEvent(s.owner(), t, attachment)
	if err != nil {
		return err
	}
	return s.dispatch(it, ev)
}

// FireError delivers an error event of type t to every matching listener.
// It is not affected by the detail counter. t must descend from TypeError;
// op names the operation that failed and cause is the captured failure.
func (s *Source) FireError(t, op *evtype.Type, attachment map[string]any, cause error) error {
	if t == nil {
		return ErrNilType
	}
	if !evtype.IsDescendantOf(t, TypeError) {
		return fmt.Errorf("%w: %s", ErrNotErrorType, t.Path())
	}

	it := s.registry.Iterator(t)
	if !it.HasNext() {
		return nil
	}

	ev, err := s.config.newFailure(s.owner(), t, op, attachment, cause)
	if err != nil {
		return err
	}
	return s.dispatch(it, ev)
}

// dispatch runs the fan-out of ev over it.
func (s *Source) dispatch(it *Iterator, ev Event) error {
	if ev == nil || !evtype.IsDescendantOf(ev.Type(), it.Base()) {
		return &IncompatibleEventError{Base: it.Base(), Event: ev}
	}

	out, err := s.dispatcher.Dispatch(ev, func() (dispatch.Listener[Event], bool) {
		l, err := it.Next()
		if err != nil {
			return nil, false
		}
		return l, true
	})
	if err != nil {
		return &ListenerError{
			Type:    it.Base(),
			Invoked: out.Invoked,
			Skipped: out.Skipped,
			Err:     err,
		}
	}
	return nil
}

// Clone returns a new Source with the same configuration, an empty
// registry and a fresh detail counter. Registrations are not inherited.
// A clone whose owner defaulted to the original reports itself instead.
func (s *Source) Clone() *Source {
	c := newSource(s.config)
	s.config.logger.Debug("source cloned")
	return c
}

// CopyListenersInto appends every current registration of s to dst.
// The copy is one-time; both sources remain independent afterwards.
func (s *Source) CopyListenersInto(dst *Source) error {
	if dst == nil {
		return ErrNilSource
	}
	if err := dst.registry.AddAll(s.registry); err != nil {
		return err
	}
	s.config.logger.Debug("listeners copied")
	return nil
}

// Stats returns source statistics.
func (s *Source) Stats() Stats {
	return Stats{
		Stats:         s.dispatcher.Stats(),
		Registrations: s.registry.Len(),
		Suppressed:    s.suppressed.Load(),
	}
}

// Stats contains event source statistics.
type Stats struct {
	dispatch.Stats

	// Registrations is the current number of registrations.
	Registrations int

	// Suppressed is the number of FireEvent calls dropped by the detail counter.
	Suppressed uint64
}

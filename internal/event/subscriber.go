package event

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/evsource/internal/event/evtype"
)

// Subscriber tracks the registrations a component makes on a Source and
// removes them all on Close.
type Subscriber struct {
	source *Source
	regs   []Registration
	mu     sync.Mutex
	closed bool
}

// NewSubscriber creates a Subscriber for source.
func NewSubscriber(source *Source) *Subscriber {
	return &Subscriber{source: source}
}

// Subscribe registers l for t on the underlying source.
func (s *Subscriber) Subscribe(t *evtype.Type, l Listener) (Registration, error) {
	reg, err := NewRegistration(t, l)
	if err != nil {
		return Registration{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Registration{}, ErrSubscriberClosed
	}
	if err := s.source.registry.Add(reg); err != nil {
		return Registration{}, err
	}
	s.regs = append(s.regs, reg)
	return reg, nil
}

// SubscribeFunc registers fn for t.
func (s *Subscriber) SubscribeFunc(t *evtype.Type, fn func(Event) error) (Registration, error) {
	return s.Subscribe(t, Func(fn))
}

// SubscribeTyped registers fn for t. Events of another concrete type are
// skipped silently.
func SubscribeTyped[E Event](s *Subscriber, t *evtype.Type, fn func(E) error) (Registration, error) {
	return s.Subscribe(t, Typed(fn))
}

// SubscribeOnce registers l for t and unsubscribes it after its first event.
func (s *Subscriber) SubscribeOnce(t *evtype.Type, l Listener) (Registration, error) {
	if l == nil {
		return Registration{}, ErrNilListener
	}
	once := &onceListener{inner: l}
	once.done = func() { s.unsubscribeListener(once) }
	return s.Subscribe(t, once)
}

// unsubscribeListener removes the first tracked registration of l.
func (s *Subscriber) unsubscribeListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tracked := range s.regs {
		if sameListener(tracked.listener, l) {
			s.regs = append(s.regs[:i], s.regs[i+1:]...)
			s.source.registry.Remove(tracked)
			return
		}
	}
}

// Unsubscribe removes reg. It returns whether the registration was found.
func (s *Subscriber) Unsubscribe(reg Registration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tracked := range s.regs {
		if tracked.Equal(reg) {
			s.regs = append(s.regs[:i], s.regs[i+1:]...)
			return s.source.registry.Remove(reg)
		}
	}
	return false
}

// UnsubscribeAll removes every registration made through s.
func (s *Subscriber) UnsubscribeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.source.registry.RemoveAll(s.regs)
	s.regs = nil
}

// Close removes every registration and prevents new ones.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.source.registry.RemoveAll(s.regs)
	s.regs = nil
	return nil
}

// Count returns the number of tracked registrations.
func (s *Subscriber) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.regs)
}

// IsClosed returns true if the subscriber has been closed.
func (s *Subscriber) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Source returns the underlying event source.
func (s *Subscriber) Source() *Source {
	return s.source
}

// onceListener forwards a single event, then unsubscribes.
type onceListener struct {
	inner Listener
	fired atomic.Bool
	done  func()
}

func (o *onceListener) OnEvent(ev Event) error {
	if o.fired.Swap(true) {
		return nil
	}
	o.done()
	return o.inner.OnEvent(ev)
}

package event

import (
	"errors"
	"fmt"

	"github.com/dshills/evsource/internal/event/evtype"
)

// Sentinel errors for the event source.
var (
	// ErrNilType is returned when a required event type is nil.
	ErrNilType = errors.New("event type must not be nil")

	// ErrNilListener is returned when a required listener is nil.
	ErrNilListener = errors.New("listener must not be nil")

	// ErrNilEvent is returned when a nil event is fired.
	ErrNilEvent = errors.New("event must not be nil")

	// ErrNilRegistry is returned when a nil registry is copied.
	ErrNilRegistry = errors.New("registry must not be nil")

	// ErrNilSource is returned when listeners are copied into a nil source.
	ErrNilSource = errors.New("target event source must not be nil")

	// ErrInvalidRegistration is returned when a zero Registration is added.
	ErrInvalidRegistration = errors.New("invalid registration")

	// ErrNotErrorType is returned when FireError is given a type outside the error channel.
	ErrNotErrorType = errors.New("event type is not an error type")

	// ErrNoMoreListeners is returned by Iterator.Next when it is exhausted.
	ErrNoMoreListeners = errors.New("no more event listeners")

	// ErrIncompatibleEvent is returned when an event is fed to an iterator
	// whose base type is not among the event type's ancestors.
	ErrIncompatibleEvent = errors.New("event incompatible with listener iteration")

	// ErrSubscriberClosed is returned when subscribing through a closed Subscriber.
	ErrSubscriberClosed = errors.New("subscriber is closed")

	// ErrEmitterClosed is returned when emitting through a closed Emitter.
	ErrEmitterClosed = errors.New("emitter is closed")

	// ErrUnsupported is returned when removing through a dispatch iterator.
	ErrUnsupported = fmt.Errorf("removing elements is not supported: %w", errors.ErrUnsupported)
)

// ListenerError wraps an error returned from a listener during a fan-out.
type ListenerError struct {
	// Type is the type the fan-out was dispatched for.
	Type *evtype.Type

	// Invoked is the number of listeners that ran, including the failing one.
	Invoked int

	// Skipped is the number of matching listeners that were not reached.
	Skipped int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener failed for %s (%d skipped): %v", e.Type.Path(), e.Skipped, e.Err)
}

// Unwrap returns the underlying error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}

// IncompatibleEventError reports an event whose type does not descend from
// the base type of the iterator it was fed to.
type IncompatibleEventError struct {
	// Base is the iterator's base type.
	Base *evtype.Type

	// Event is the rejected event; nil if none was supplied.
	Event Event
}

// Error implements the error interface.
func (e *IncompatibleEventError) Error() string {
	if e.Event == nil {
		return ErrIncompatibleEvent.Error() + ": <nil>"
	}
	return ErrIncompatibleEvent.Error() + ": " + e.Event.String()
}

// Is allows errors.Is to match IncompatibleEventError with ErrIncompatibleEvent.
func (e *IncompatibleEventError) Is(target error) bool {
	return target == ErrIncompatibleEvent
}

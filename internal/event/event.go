package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/evsource/internal/event/evtype"
)

// Predefined types.
var (
	// Any is the root of every event type.
	Any = evtype.Any

	// TypeEmpty is the default type for plain notices.
	TypeEmpty = evtype.MustNew(evtype.Any, "EMPTY")

	// TypeError is the root of the error channel. FireError only accepts
	// types that descend from it.
	TypeError = evtype.MustNew(evtype.Any, "ERROR")
)

// timeNow is a variable to allow testing with fixed timestamps.
var timeNow = time.Now

// Event is a fired event. Events are immutable once created.
type Event interface {
	// Source returns the component that fired the event.
	Source() any

	// Type returns the event type.
	Type() *evtype.Type

	// Attachment returns the data attached by the firing component.
	// The map is shared, not copied; listeners must not modify it.
	Attachment() map[string]any

	// Metadata returns standard event information.
	Metadata() Metadata

	// String returns a human-readable description.
	String() string
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time
}

// newMetadata stamps a fresh event.
func newMetadata() Metadata {
	return Metadata{
		ID:        uuid.NewString(),
		Timestamp: timeNow(),
	}
}

// Notice is a normal event.
type Notice struct {
	source     any
	typ        *evtype.Type
	attachment map[string]any
	meta       Metadata
}

// NewNotice creates a normal event.
func NewNotice(source any, t *evtype.Type, attachment map[string]any) (*Notice, error) {
	if t == nil {
		return nil, ErrNilType
	}
	return &Notice{
		source:     source,
		typ:        t,
		attachment: attachment,
		meta:       newMetadata(),
	}, nil
}

// Source returns the component that fired the event.
func (n *Notice) Source() any { return n.source }

// Type returns the event type.
func (n *Notice) Type() *evtype.Type { return n.typ }

// Attachment returns the attached data.
func (n *Notice) Attachment() map[string]any { return n.attachment }

// Metadata returns the event metadata.
func (n *Notice) Metadata() Metadata { return n.meta }

// String returns a human-readable description.
func (n *Notice) String() string {
	return describe("Notice", n)
}

// Failure is an error event. It reports a failure that was caught while
// performing an operation of another type.
type Failure struct {
	Notice
	operation *evtype.Type
	cause     error
}

// NewFailure creates an error event. op may be nil when the failing
// operation has no type of its own.
func NewFailure(source any, t, op *evtype.Type, attachment map[string]any, cause error) (*Failure, error) {
	n, err := NewNotice(source, t, attachment)
	if err != nil {
		return nil, err
	}
	return &Failure{Notice: *n, operation: op, cause: cause}, nil
}

// Operation returns the type of the operation that failed.
func (f *Failure) Operation() *evtype.Type { return f.operation }

// Cause returns the captured failure.
func (f *Failure) Cause() error { return f.cause }

// Unwrap returns the captured failure so errors.Is and errors.As see it.
func (f *Failure) Unwrap() error { return f.cause }

// Error implements the error interface, letting a Failure travel as an error.
func (f *Failure) Error() string {
	if f.cause == nil {
		return f.typ.Path()
	}
	return f.typ.Path() + ": " + f.cause.Error()
}

// String returns a human-readable description.
func (f *Failure) String() string {
	return describe("Failure", f,
		"operation", f.operation,
		"cause", f.cause,
	)
}

// describe renders "Kind [ source=… eventType=… ]" plus extra properties.
func describe(kind string, e Event, extra ...any) string {
	var b strings.Builder
	b.WriteString(kind)
	b.WriteString(" [")
	fmt.Fprintf(&b, " source=%v", e.Source())
	fmt.Fprintf(&b, " eventType=%v", e.Type())
	for i := 0; i+1 < len(extra); i += 2 {
		fmt.Fprintf(&b, " %v=%v", extra[i], extra[i+1])
	}
	b.WriteString(" ]")
	return b.String()
}

package event

import (
	"sync/atomic"

	"github.com/dshills/evsource/internal/event/evtype"
)

// Emitter fires events by type name. It adapts string-keyed callers, such
// as scripts and the command line, to a Source and a Catalog of types.
type Emitter struct {
	source  *Source
	catalog *evtype.Catalog
	closed  atomic.Bool
}

// NewEmitter creates an emitter that resolves names in catalog and fires
// on source.
func NewEmitter(source *Source, catalog *evtype.Catalog) *Emitter {
	return &Emitter{
		source:  source,
		catalog: catalog,
	}
}

// Emit fires a normal event of the named type.
func (e *Emitter) Emit(name string, data map[string]any) error {
	if e.closed.Load() {
		return ErrEmitterClosed
	}
	t, err := e.catalog.Lookup(name)
	if err != nil {
		return err
	}
	return e.source.FireEvent(t, data)
}

// EmitError fires an error event of the named type. op may be empty when
// no operation type applies.
func (e *Emitter) EmitError(name, op string, data map[string]any, cause error) error {
	if e.closed.Load() {
		return ErrEmitterClosed
	}
	t, err := e.catalog.Lookup(name)
	if err != nil {
		return err
	}
	var opType *evtype.Type
	if op != "" {
		if opType, err = e.catalog.Lookup(op); err != nil {
			return err
		}
	}
	return e.source.FireError(t, opType, data, cause)
}

// Close makes further calls to Emit fail.
func (e *Emitter) Close() error {
	e.closed.Store(true)
	return nil
}

// Source returns the underlying event source.
func (e *Emitter) Source() *Source {
	return e.source
}

// Catalog returns the catalog used to resolve names.
func (e *Emitter) Catalog() *evtype.Catalog {
	return e.catalog
}

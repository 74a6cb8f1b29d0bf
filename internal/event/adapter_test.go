package event

import (
	"errors"
	"testing"

	"github.com/dshills/evsource/internal/event/evtype"
)

func newTestEmitter(t *testing.T) (*Emitter, *Source) {
	t.Helper()
	catalog, err := evtype.NewCatalog(TypeEmpty, TypeError)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := catalog.Define("FILE", "ANY"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := catalog.Define("IO_ERROR", "ERROR"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := NewSource()
	return NewEmitter(s, catalog), s
}

func TestEmitter_Emit(t *testing.T) {
	e, s := newTestEmitter(t)
	l := newRecorder("l", nil)
	s.AddListener(Any, l)

	if err := e.Emit("file", map[string]any{"path": "a.txt"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ev := l.last()
	if ev == nil || ev.Type().Name() != "FILE" {
		t.Fatalf("expected FILE event, got %v", ev)
	}
	if ev.Attachment()["path"] != "a.txt" {
		t.Errorf("expected path attachment, got %v", ev.Attachment())
	}

	if err := e.Emit("MISSING", nil); !errors.Is(err, evtype.ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestEmitter_EmitError(t *testing.T) {
	e, s := newTestEmitter(t)
	var got *Failure
	s.AddListener(TypeError, Typed(func(f *Failure) error {
		got = f
		return nil
	}))

	cause := errors.New("read failed")
	if err := e.EmitError("IO_ERROR", "FILE", nil, cause); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Operation().Name() != "FILE" || got.Cause() != cause {
		t.Fatalf("unexpected failure event: %v", got)
	}

	if err := e.EmitError("IO_ERROR", "", nil, cause); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Operation() != nil {
		t.Error("expected no operation type")
	}

	if err := e.EmitError("FILE", "", nil, cause); !errors.Is(err, ErrNotErrorType) {
		t.Errorf("expected ErrNotErrorType, got %v", err)
	}
	if err := e.EmitError("IO_ERROR", "MISSING", nil, cause); !errors.Is(err, evtype.ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestEmitter_Close(t *testing.T) {
	e, _ := newTestEmitter(t)
	if err := e.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Emit("FILE", nil); !errors.Is(err, ErrEmitterClosed) {
		t.Errorf("expected ErrEmitterClosed, got %v", err)
	}
	if err := e.EmitError("IO_ERROR", "", nil, nil); !errors.Is(err, ErrEmitterClosed) {
		t.Errorf("expected ErrEmitterClosed, got %v", err)
	}
}

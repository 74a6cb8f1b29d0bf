package event

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIterator_FiltersInOrder(t *testing.T) {
	category, specific, other := newTestHierarchy()
	var log callLog
	r := NewRegistry()
	r.AddListener(specific, newRecorder("specific", &log))
	r.AddListener(other, newRecorder("other", &log))
	r.AddListener(Any, newRecorder("any", &log))
	r.AddListener(category, newRecorder("category", &log))

	it := r.Iterator(specific)
	if it.Base() != specific {
		t.Errorf("expected base SPECIFIC, got %v", it.Base())
	}

	var got []string
	for it.HasNext() {
		l, err := it.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, l.(*recorder).name)
	}

	want := []string{"specific", "any", "category"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("listeners mismatch (-want +got):\n%s", diff)
	}

	if _, err := it.Next(); !errors.Is(err, ErrNoMoreListeners) {
		t.Errorf("expected ErrNoMoreListeners, got %v", err)
	}
}

func TestIterator_AncestorTypeDoesNotReachDescendants(t *testing.T) {
	category, specific, _ := newTestHierarchy()
	r := NewRegistry()
	r.AddListener(specific, newRecorder("specific", nil))

	if r.Iterator(category).HasNext() {
		t.Error("expected no listener for an ancestor type")
	}
}

func TestIterator_Remove(t *testing.T) {
	r := NewRegistry()
	r.AddListener(TypeEmpty, &recorder{})

	err := r.Iterator(TypeEmpty).Remove()
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if !errors.Is(err, errors.ErrUnsupported) {
		t.Error("expected error to wrap errors.ErrUnsupported")
	}
	if r.Len() != 1 {
		t.Error("expected registry to be unchanged")
	}
}

func TestIterator_InvokeNext(t *testing.T) {
	category, specific, other := newTestHierarchy()
	l := newRecorder("l", nil)
	r := NewRegistry()
	r.AddListener(category, l)

	it := r.Iterator(category)
	ev, _ := NewNotice(nil, specific, nil)
	if err := it.InvokeNext(ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.last() != ev {
		t.Error("expected listener to receive the event")
	}
	if it.HasNext() {
		t.Error("expected iterator to be exhausted")
	}
	if err := it.InvokeNext(ev); !errors.Is(err, ErrNoMoreListeners) {
		t.Errorf("expected ErrNoMoreListeners, got %v", err)
	}

	it = r.Iterator(category)
	wrong, _ := NewNotice(nil, other, nil)
	err := it.InvokeNext(wrong)
	var incompatible *IncompatibleEventError
	if !errors.As(err, &incompatible) {
		t.Fatalf("expected IncompatibleEventError, got %v", err)
	}
	if !errors.Is(err, ErrIncompatibleEvent) {
		t.Error("expected error to match ErrIncompatibleEvent")
	}
	if incompatible.Base != category || incompatible.Event != wrong {
		t.Error("expected error to carry base type and event")
	}
	if !it.HasNext() {
		t.Error("expected rejected event not to advance the iterator")
	}

	if err := it.InvokeNext(nil); !errors.Is(err, ErrIncompatibleEvent) {
		t.Errorf("expected ErrIncompatibleEvent for nil event, got %v", err)
	}
}

func TestIterator_InvokeNextReturnsListenerError(t *testing.T) {
	want := errors.New("boom")
	r := NewRegistry()
	r.AddListener(TypeEmpty, &recorder{err: want})

	ev, _ := NewNotice(nil, TypeEmpty, nil)
	if err := r.Iterator(TypeEmpty).InvokeNext(ev); err != want {
		t.Errorf("expected %v, got %v", want, err)
	}
}

func TestIterator_Snapshot(t *testing.T) {
	r := NewRegistry()
	r.AddListener(TypeEmpty, newRecorder("a", nil))
	it := r.Iterator(TypeEmpty)

	r.Clear()
	r.AddListener(TypeEmpty, newRecorder("b", nil))

	var got []string
	for l := range it.Listeners() {
		got = append(got, l.(*recorder).name)
	}
	if diff := cmp.Diff([]string{"a"}, got); diff != "" {
		t.Errorf("listeners mismatch (-want +got):\n%s", diff)
	}
}

func TestIterator_ListenersBreak(t *testing.T) {
	r := NewRegistry()
	r.AddListener(TypeEmpty, newRecorder("a", nil))
	r.AddListener(TypeEmpty, newRecorder("b", nil))
	it := r.Iterator(TypeEmpty)

	for range it.Listeners() {
		break
	}
	l, err := it.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.(*recorder).name != "b" {
		t.Errorf("expected b, got %s", l.(*recorder).name)
	}
}

package event

import (
	"errors"
	"testing"
)

type valueListener struct{ id int }

func (valueListener) OnEvent(Event) error { return nil }

type sliceListener []int

func (sliceListener) OnEvent(Event) error { return nil }

// ifaceListener is comparable by type but not always by value.
type ifaceListener struct{ v any }

func (ifaceListener) OnEvent(Event) error { return nil }

func TestFunc(t *testing.T) {
	if Func(nil) != nil {
		t.Error("expected nil listener for nil func")
	}

	called := 0
	fn := func(Event) error {
		called++
		return nil
	}
	a, b := Func(fn), Func(fn)
	if sameListener(a, b) {
		t.Error("expected distinct adapters to differ")
	}
	if !sameListener(a, a) {
		t.Error("expected adapter to equal itself")
	}

	ev, _ := NewNotice(nil, TypeEmpty, nil)
	if err := a.OnEvent(ev); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if called != 1 {
		t.Errorf("expected 1 call, got %d", called)
	}
}

func TestTyped(t *testing.T) {
	var failures int
	l := Typed(func(f *Failure) error {
		failures++
		return f.Cause()
	})

	notice, _ := NewNotice(nil, TypeEmpty, nil)
	if err := l.OnEvent(notice); err != nil {
		t.Errorf("expected mismatched event to be skipped, got %v", err)
	}

	cause := errors.New("boom")
	failure, _ := NewFailure(nil, TypeError, nil, nil, cause)
	if err := l.OnEvent(failure); err != cause {
		t.Errorf("expected %v, got %v", cause, err)
	}
	if failures != 1 {
		t.Errorf("expected 1 delivery, got %d", failures)
	}

	if Typed[*Notice](nil) != nil {
		t.Error("expected nil listener for nil func")
	}
}

func TestSameListener(t *testing.T) {
	r := &recorder{}
	tests := []struct {
		name string
		a, b Listener
		want bool
	}{
		{"same pointer", r, r, true},
		{"different pointers", r, &recorder{}, false},
		{"equal values", valueListener{1}, valueListener{1}, true},
		{"different values", valueListener{1}, valueListener{2}, false},
		{"different types", valueListener{1}, r, false},
		{"non-comparable", sliceListener{1}, sliceListener{1}, false},
		{"interface field holding map", ifaceListener{map[string]int{}}, ifaceListener{map[string]int{}}, false},
		{"interface field holding func", ifaceListener{func() {}}, ifaceListener{1}, false},
		{"interface field equal", ifaceListener{"a"}, ifaceListener{"a"}, true},
		{"both nil", nil, nil, true},
		{"one nil", r, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameListener(tt.a, tt.b); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIsNilListener(t *testing.T) {
	var typedNil *recorder
	if !isNilListener(nil) {
		t.Error("expected nil to be nil")
	}
	if !isNilListener(typedNil) {
		t.Error("expected typed nil pointer to be nil")
	}
	if isNilListener(&recorder{}) {
		t.Error("expected pointer listener to be non-nil")
	}
	if isNilListener(valueListener{}) {
		t.Error("expected value listener to be non-nil")
	}
}

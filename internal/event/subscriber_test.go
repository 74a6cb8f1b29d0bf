package event

import (
	"errors"
	"testing"
)

func TestSubscriber_SubscribeAndClose(t *testing.T) {
	s := NewSource()
	other := &counter{}
	s.AddListener(TypeEmpty, other)

	sub := NewSubscriber(s)
	c := &counter{}
	if _, err := sub.Subscribe(TypeEmpty, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := sub.SubscribeFunc(TypeError, func(Event) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Count() != 2 {
		t.Errorf("expected 2 tracked registrations, got %d", sub.Count())
	}

	s.FireEvent(TypeEmpty, nil)
	if c.get() != 1 {
		t.Errorf("expected 1 delivery, got %d", c.get())
	}

	if err := sub.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sub.IsClosed() {
		t.Error("expected subscriber to be closed")
	}
	if len(s.Registrations()) != 1 {
		t.Errorf("expected only the foreign registration left, got %d", len(s.Registrations()))
	}
	if _, err := sub.Subscribe(TypeEmpty, c); !errors.Is(err, ErrSubscriberClosed) {
		t.Errorf("expected ErrSubscriberClosed, got %v", err)
	}
	if err := sub.Close(); err != nil {
		t.Errorf("expected second close to succeed, got %v", err)
	}
}

func TestSubscriber_Unsubscribe(t *testing.T) {
	s := NewSource()
	sub := NewSubscriber(s)
	reg, _ := sub.Subscribe(TypeEmpty, &counter{})

	if !sub.Unsubscribe(reg) {
		t.Fatal("expected unsubscribe to succeed")
	}
	if sub.Unsubscribe(reg) {
		t.Error("expected second unsubscribe to fail")
	}
	if sub.Count() != 0 || len(s.Registrations()) != 0 {
		t.Error("expected registration to be gone")
	}
}

func TestSubscriber_UnsubscribeAll(t *testing.T) {
	s := NewSource()
	sub := NewSubscriber(s)
	sub.Subscribe(TypeEmpty, &counter{})
	sub.Subscribe(Any, &counter{})

	sub.UnsubscribeAll()
	if len(s.Registrations()) != 0 {
		t.Errorf("expected no registrations, got %d", len(s.Registrations()))
	}
	if sub.IsClosed() {
		t.Error("expected subscriber to stay open")
	}
}

func TestSubscriber_SubscribeOnce(t *testing.T) {
	s := NewSource()
	sub := NewSubscriber(s)
	c := &counter{}
	if _, err := sub.SubscribeOnce(TypeEmpty, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.FireEvent(TypeEmpty, nil)
	s.FireEvent(TypeEmpty, nil)
	if c.get() != 1 {
		t.Errorf("expected 1 delivery, got %d", c.get())
	}
	if sub.Count() != 0 || len(s.Registrations()) != 0 {
		t.Error("expected once listener to unsubscribe itself")
	}

	if _, err := sub.SubscribeOnce(TypeEmpty, nil); !errors.Is(err, ErrNilListener) {
		t.Errorf("expected ErrNilListener, got %v", err)
	}
}

func TestSubscribeTyped(t *testing.T) {
	s := NewSource()
	sub := NewSubscriber(s)
	var failures int
	if _, err := SubscribeTyped(sub, Any, func(*Failure) error {
		failures++
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.FireEvent(TypeEmpty, nil)
	s.FireError(TypeError, nil, nil, errors.New("boom"))
	if failures != 1 {
		t.Errorf("expected 1 failure delivery, got %d", failures)
	}
}

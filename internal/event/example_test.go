package event_test

import (
	"errors"
	"fmt"

	"github.com/dshills/evsource/internal/event"
	"github.com/dshills/evsource/internal/event/evtype"
)

// Example_hierarchy shows that a listener receives events of descendant types.
func Example_hierarchy() {
	file := evtype.MustNew(event.Any, "FILE")
	saved := evtype.MustNew(file, "SAVED")

	src := event.NewSource(event.WithOwner("editor"))
	src.AddListener(file, event.Func(func(e event.Event) error {
		fmt.Printf("%s from %v: %v\n", e.Type().Path(), e.Source(), e.Attachment()["name"])
		return nil
	}))

	src.FireEvent(saved, map[string]any{"name": "main.go"})
	src.FireEvent(event.TypeEmpty, nil)

	// Output:
	// ANY.FILE.SAVED from editor: main.go
}

// Example_detailEvents shows the nesting detail counter.
func Example_detailEvents() {
	src := event.NewSource()
	src.AddListener(event.Any, event.Func(func(e event.Event) error {
		fmt.Println("received", e.Type().Name())
		return nil
	}))

	src.SetDetailEvents(false)
	src.FireEvent(event.TypeEmpty, nil)

	src.SetDetailEvents(false)
	src.FireEvent(event.TypeEmpty, nil)
	src.FireError(event.TypeError, nil, nil, errors.New("still delivered"))

	src.SetDetailEvents(true)
	src.FireEvent(event.TypeEmpty, nil)

	// Output:
	// received EMPTY
	// received ERROR
	// received EMPTY
}

// Example_failFast shows how a listener error stops the fan-out.
func Example_failFast() {
	src := event.NewSource()
	src.AddListener(event.TypeEmpty, event.Func(func(event.Event) error {
		return errors.New("rejected")
	}))
	src.AddListener(event.TypeEmpty, event.Func(func(event.Event) error {
		fmt.Println("never reached")
		return nil
	}))

	err := src.FireEvent(event.TypeEmpty, nil)
	var le *event.ListenerError
	if errors.As(err, &le) {
		fmt.Println(le.Skipped, "skipped:", le.Err)
	}

	// Output:
	// 1 skipped: rejected
}

// Example_errorChannel shows listening for failures on the error channel.
func Example_errorChannel() {
	save := evtype.MustNew(event.Any, "SAVE")
	diskFull := evtype.MustNew(event.TypeError, "DISK_FULL")

	src := event.NewSource()
	src.AddListener(event.TypeError, event.Typed(func(f *event.Failure) error {
		fmt.Printf("%s during %s: %v\n", f.Type().Name(), f.Operation().Name(), f.Cause())
		return nil
	}))

	src.FireError(diskFull, save, nil, errors.New("no space left on device"))

	// Output:
	// DISK_FULL during SAVE: no space left on device
}

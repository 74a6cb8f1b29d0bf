package script

import (
	"errors"
	"fmt"
)

// Errors for script operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoHandler is returned when a script does not define on_event.
	ErrNoHandler = errors.New("script does not define " + HandlerName)

	// ErrRejected is returned when on_event returns false.
	ErrRejected = errors.New("event rejected by script")
)

// ScriptError reports a failure of a script while handling an event.
type ScriptError struct {
	// Script is the script name or path.
	Script string
	// Event is the path of the event type being handled.
	Event string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	if e.Event == "" {
		return fmt.Sprintf("script %s: %v", e.Script, e.Err)
	}
	return fmt.Sprintf("script %s on %s: %v", e.Script, e.Event, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}

package script

import (
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/evsource/internal/event"
)

// HandlerName is the global function a script must define.
const HandlerName = "on_event"

// Listener is an event.Listener backed by a Lua script.
type Listener struct {
	name   string
	state  *State
	bridge *Bridge
}

// Load reads the script at path and returns a listener for it.
func Load(path string, opts ...StateOption) (*Listener, error) {
	state := NewState(opts...)
	if err := state.DoFile(path); err != nil {
		state.Close()
		return nil, &ScriptError{Script: path, Err: err}
	}
	return newListener(filepath.Base(path), state)
}

// LoadString compiles code as a script named name and returns a listener.
func LoadString(name, code string, opts ...StateOption) (*Listener, error) {
	state := NewState(opts...)
	if err := state.DoString(code); err != nil {
		state.Close()
		return nil, &ScriptError{Script: name, Err: err}
	}
	return newListener(name, state)
}

func newListener(name string, state *State) (*Listener, error) {
	if !state.HasFunction(HandlerName) {
		state.Close()
		return nil, &ScriptError{Script: name, Err: ErrNoHandler}
	}
	return &Listener{
		name:   name,
		state:  state,
		bridge: NewBridge(state.L),
	}, nil
}

// Name returns the script name.
func (l *Listener) Name() string {
	return l.name
}

// OnEvent calls the script's on_event function with ev.
// A Lua error or a false first return value fails the listener.
func (l *Listener) OnEvent(ev event.Event) error {
	results, err := l.state.Call(HandlerName, func(*lua.LState) []lua.LValue {
		return []lua.LValue{l.bridge.EventTable(ev)}
	})
	if err != nil {
		return &ScriptError{Script: l.name, Event: ev.Type().Path(), Err: err}
	}

	if len(results) > 0 && results[0] == lua.LFalse {
		err := ErrRejected
		if len(results) > 1 && results[1].Type() == lua.LTString {
			err = &rejection{msg: results[1].String()}
		}
		return &ScriptError{Script: l.name, Event: ev.Type().Path(), Err: err}
	}
	return nil
}

// Global returns a global of the script state converted to a Go value.
// It returns nil once the listener is closed.
func (l *Listener) Global(name string) any {
	var v any
	l.state.Inspect(func(L *lua.LState) {
		v = l.bridge.ToGoValue(L.GetGlobal(name))
	})
	return v
}

// Close releases the Lua state.
func (l *Listener) Close() error {
	return l.state.Close()
}

// rejection is ErrRejected with the script's message.
type rejection struct {
	msg string
}

func (r *rejection) Error() string {
	return ErrRejected.Error() + ": " + r.msg
}

func (r *rejection) Is(target error) bool {
	return target == ErrRejected
}

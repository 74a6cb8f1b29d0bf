package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/tidwall/sjson"
	"golang.org/x/term"

	"github.com/dshills/evsource/internal/event"
)

// printer is a listener that writes every event to an output.
// Terminals get the human-readable form, anything else gets JSON lines.
type printer struct {
	mu   sync.Mutex
	w    io.Writer
	json bool
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, json: !isTerminal(w)}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// OnEvent writes ev.
func (p *printer) OnEvent(ev event.Event) error {
	line := ev.String()
	if p.json {
		var err error
		if line, err = renderJSON(ev); err != nil {
			return err
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintln(p.w, line)
	return err
}

// jsonField is one path/value pair of a JSON line.
type jsonField struct {
	path  string
	value any
}

// renderJSON encodes ev as a single JSON object.
func renderJSON(ev event.Event) (string, error) {
	meta := ev.Metadata()
	fields := []jsonField{
		{"id", meta.ID},
		{"timestamp", meta.Timestamp.UTC().Format(time.RFC3339Nano)},
		{"type", ev.Type().Path()},
		{"source", fmt.Sprint(ev.Source())},
	}
	if a := ev.Attachment(); a != nil {
		fields = append(fields, jsonField{"attachment", a})
	}
	if f, ok := ev.(*event.Failure); ok {
		if op := f.Operation(); op != nil {
			fields = append(fields, jsonField{"operation", op.Path()})
		}
		if cause := f.Cause(); cause != nil {
			fields = append(fields, jsonField{"cause", cause.Error()})
		}
	}

	out := "{}"
	for _, f := range fields {
		var err error
		if out, err = sjson.Set(out, f.path, f.value); err != nil {
			return "", fmt.Errorf("encoding %s: %w", f.path, err)
		}
	}
	return out, nil
}

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"

	"github.com/dshills/evsource/internal/event"
	"github.com/dshills/evsource/internal/event/evtype"
)

// writeConfig writes a config and a listener script into a temp dir.
func writeConfig(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	cfg := `
[[types]]
name = "FILE"

[[types]]
name = "SAVED"
parent = "FILE"

[[types]]
name = "IO_ERROR"
parent = "ERROR"

[[listeners]]
type = "FILE"
script = "file.lua"
`
	if err := os.WriteFile(filepath.Join(dir, "evsource.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "file.lua"), []byte(script), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	return filepath.Join(dir, "evsource.toml")
}

func runCmd(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv("EVSOURCE_LOG_LEVEL", "")
	t.Setenv("EVSOURCE_DETAIL", "")
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCmd(t, "-version")
	if code != 0 {
		t.Errorf("expected exit 0, got %d", code)
	}
	if !strings.HasPrefix(out, "evsource dev") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"explode"}},
		{"fire without type", []string{"fire"}},
		{"watch without path", []string{"watch"}},
		{"bad flag", []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runCmd(t, tt.args...); code != 2 {
				t.Errorf("expected exit 2, got %d", code)
			}
		})
	}
}

func TestRun_Types(t *testing.T) {
	cfg := writeConfig(t, `function on_event(ev) end`)

	code, out, stderr := runCmd(t, "-c", cfg, "types")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	for _, want := range []string{"ANY\n", "  EMPTY\n", "  FS\n", "    WRITE\n", "    SAVED\n", "    IO_ERROR\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	code, out, _ = runCmd(t, "-c", cfg, "types", "any.fs.*")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	want := []string{"ANY.FS.CREATE", "ANY.FS.WRITE", "ANY.FS.REMOVE", "ANY.FS.RENAME", "ANY.FS.CHMOD"}
	if diff := cmp.Diff(want, strings.Fields(out)); diff != "" {
		t.Errorf("matched types mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Fire(t *testing.T) {
	cfg := writeConfig(t, `
function on_event(ev)
    print("got " .. ev.path .. " " .. ev.attachment.name)
end
`)

	code, out, stderr := runCmd(t, "-c", cfg, "fire", "-data", `{"name":"main.go","size":3}`, "saved")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}

	line := strings.TrimSpace(out)
	if got := gjson.Get(line, "type").String(); got != "ANY.FILE.SAVED" {
		t.Errorf("expected type ANY.FILE.SAVED, got %q in %s", got, line)
	}
	if got := gjson.Get(line, "attachment.size").Int(); got != 3 {
		t.Errorf("expected size 3, got %d", got)
	}
	if got := gjson.Get(line, "source").String(); got != "evsource" {
		t.Errorf("expected source evsource, got %q", got)
	}
	if !strings.Contains(stderr, "got ANY.FILE.SAVED main.go") {
		t.Errorf("expected script output in log, got %q", stderr)
	}
}

func TestRun_FireListenerFailure(t *testing.T) {
	cfg := writeConfig(t, `function on_event(ev) return false, "not today" end`)

	code, out, stderr := runCmd(t, "-c", cfg, "fire", "FILE")
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr, "not today") {
		t.Errorf("expected rejection in stderr, got %q", stderr)
	}
	if out != "" {
		t.Errorf("expected printer to be skipped, got %q", out)
	}
}

func TestRun_FireError(t *testing.T) {
	cfg := writeConfig(t, `function on_event(ev) end`)

	code, out, stderr := runCmd(t, "-c", cfg, "fire", "-error", "disk full", "-op", "FILE", "IO_ERROR")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	line := strings.TrimSpace(out)
	if got := gjson.Get(line, "cause").String(); got != "disk full" {
		t.Errorf("expected cause, got %q", got)
	}
	if got := gjson.Get(line, "operation").String(); got != "ANY.FILE" {
		t.Errorf("expected operation ANY.FILE, got %q", got)
	}

	code, _, stderr = runCmd(t, "-c", cfg, "fire", "-error", "x", "FILE")
	if code != 1 || !strings.Contains(stderr, event.ErrNotErrorType.Error()) {
		t.Errorf("expected ErrNotErrorType failure, got %d: %s", code, stderr)
	}
}

func TestRun_FireUnknownType(t *testing.T) {
	code, _, stderr := runCmd(t, "fire", "NOPE")
	if code != 1 || !strings.Contains(stderr, evtype.ErrUnknownType.Error()) {
		t.Errorf("expected unknown type failure, got %d: %s", code, stderr)
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	if code, _, _ := runCmd(t, "-c", filepath.Join(t.TempDir(), "missing.toml"), "types"); code != 1 {
		t.Errorf("expected exit 1 for missing config, got %d", code)
	}
	if code, _, _ := runCmd(t, "-log-level", "loud", "types"); code != 1 {
		t.Errorf("expected exit 1 for bad log level, got %d", code)
	}
}

func TestParseData(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]any
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"object", `{"k":"v","n":1.5,"list":[1,"a"],"nested":{"ok":true}}`, map[string]any{
			"k": "v", "n": 1.5, "list": []any{float64(1), "a"}, "nested": map[string]any{"ok": true},
		}, false},
		{"array", `[1,2]`, nil, true},
		{"invalid", `{"k":`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseData(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr && !errors.Is(err, errInvalidData) {
				t.Errorf("expected errInvalidData, got %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)
	if !p.json {
		t.Fatal("expected JSON output for a buffer")
	}

	op := evtype.MustNew(event.Any, "SAVE")
	f, _ := event.NewFailure("editor", event.TypeError, op, map[string]any{"path": "a"}, errors.New("boom"))
	if err := p.OnEvent(f); err != nil {
		t.Fatalf("OnEvent error = %v", err)
	}

	line := strings.TrimSpace(buf.String())
	checks := map[string]string{
		"type":            "ANY.ERROR",
		"source":          "editor",
		"operation":       "ANY.SAVE",
		"cause":           "boom",
		"attachment.path": "a",
		"id":              f.Metadata().ID,
	}
	for path, want := range checks {
		if got := gjson.Get(line, path).String(); got != want {
			t.Errorf("%s: expected %q, got %q", path, want, got)
		}
	}

	buf.Reset()
	p.json = false
	n, _ := event.NewNotice("editor", event.TypeEmpty, nil)
	p.OnEvent(n)
	if got := strings.TrimSpace(buf.String()); got != n.String() {
		t.Errorf("expected %q, got %q", n.String(), got)
	}
}

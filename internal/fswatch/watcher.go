// Package fswatch provides an event source for file system changes.
//
// A Watcher embeds an event.Source and fires one typed event per fsnotify
// operation. Watcher errors and listener failures during Run are reported
// on the error channel instead of stopping the loop.
package fswatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/evsource/internal/event"
	"github.com/dshills/evsource/internal/event/evtype"
	"github.com/dshills/evsource/internal/logging"
)

// Event types fired by a Watcher.
var (
	// TypeFS is the parent of every file system event.
	TypeFS = evtype.MustNew(event.Any, "FS")

	TypeCreate = evtype.MustNew(TypeFS, "CREATE")
	TypeWrite  = evtype.MustNew(TypeFS, "WRITE")
	TypeRemove = evtype.MustNew(TypeFS, "REMOVE")
	TypeRename = evtype.MustNew(TypeFS, "RENAME")
	TypeChmod  = evtype.MustNew(TypeFS, "CHMOD")

	// TypeWatchError reports watcher failures and failed deliveries.
	TypeWatchError = evtype.MustNew(event.TypeError, "WATCH")
)

// Types returns every type a Watcher fires, parents first.
func Types() []*evtype.Type {
	return []*evtype.Type{TypeFS, TypeCreate, TypeWrite, TypeRemove, TypeRename, TypeChmod, TypeWatchError}
}

// Errors returned by a Watcher.
var (
	// ErrWatcherClosed is returned when operating on a closed watcher.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrPathNotExist is returned when watching a missing path.
	ErrPathNotExist = errors.New("path does not exist")

	// ErrAlreadyWatching is returned when a path is added twice.
	ErrAlreadyWatching = errors.New("path is already being watched")

	// ErrNotWatching is returned when removing a path that is not watched.
	ErrNotWatching = errors.New("path is not being watched")
)

// opTypes maps fsnotify operations to event types, in firing order.
var opTypes = []struct {
	op  fsnotify.Op
	typ *evtype.Type
}{
	{fsnotify.Create, TypeCreate},
	{fsnotify.Write, TypeWrite},
	{fsnotify.Remove, TypeRemove},
	{fsnotify.Rename, TypeRename},
	{fsnotify.Chmod, TypeChmod},
}

// Watcher fires file system events.
type Watcher struct {
	*event.Source

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	paths   map[string]bool
	closed  bool

	config config

	totalEvents atomic.Int64
	totalErrors atomic.Int64
}

// Option configures a Watcher.
type Option func(*config)

type config struct {
	logger       *logging.Logger
	ignoreHidden bool
	sourceOpts   []event.SourceOption
}

// WithLogger sets the logger for the watcher and its source.
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithIgnoreHidden skips files whose name starts with a dot.
func WithIgnoreHidden(ignore bool) Option {
	return func(c *config) {
		c.ignoreHidden = ignore
	}
}

// WithSourceOptions passes options to the embedded event source.
// The owner is always the Watcher.
func WithSourceOptions(opts ...event.SourceOption) Option {
	return func(c *config) {
		c.sourceOpts = append(c.sourceOpts, opts...)
	}
}

// New creates a Watcher. Call Add to watch paths and Run to deliver events.
func New(opts ...Option) (*Watcher, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fsw,
		paths:   make(map[string]bool),
		config:  cfg,
	}
	sourceOpts := append([]event.SourceOption{event.WithLogger(cfg.logger)}, cfg.sourceOpts...)
	w.Source = event.NewSource(append(sourceOpts, event.WithOwner(w))...)
	return w, nil
}

// String identifies the watcher in event descriptions.
func (w *Watcher) String() string {
	return "fswatch"
}

// Add starts watching path. Directories are watched non-recursively;
// directories created inside a watched one are added automatically.
func (w *Watcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}
	if w.paths[absPath] {
		return ErrAlreadyWatching
	}

	if err := w.watcher.Add(absPath); err != nil {
		return err
	}
	w.paths[absPath] = true
	w.config.logger.Debug("watching %s", absPath)
	return nil
}

// Unwatch stops watching path.
func (w *Watcher) Unwatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !w.paths[absPath] {
		return ErrNotWatching
	}
	if err := w.watcher.Remove(absPath); err != nil {
		return err
	}
	delete(w.paths, absPath)
	return nil
}

// WatchedPaths returns the number of watched paths.
func (w *Watcher) WatchedPaths() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.paths)
}

// Run delivers events until ctx is done or the watcher is closed.
// It returns nil when ctx ends and ErrWatcherClosed after Close.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return ErrWatcherClosed
			}
			w.handleEvent(ev)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			w.handleError(err)
		}
	}
}

// handleEvent fires one event per operation bit of ev.
func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if w.shouldIgnore(ev.Name) {
		return
	}

	for _, ot := range opTypes {
		if !ev.Op.Has(ot.op) {
			continue
		}
		w.totalEvents.Add(1)
		attachment := map[string]any{
			"path": ev.Name,
			"op":   ot.typ.Name(),
		}
		if err := w.FireEvent(ot.typ, attachment); err != nil {
			w.report(ot.typ, ev.Name, err)
		}
	}

	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.Add(ev.Name); err != nil && !errors.Is(err, ErrAlreadyWatching) {
				w.report(TypeCreate, ev.Name, err)
			}
		}
	}
}

// handleError reports an fsnotify error.
func (w *Watcher) handleError(err error) {
	w.report(TypeFS, "", err)
}

// report fires err on the error channel. A failing error listener is
// logged and otherwise ignored so the loop keeps running.
func (w *Watcher) report(op *evtype.Type, path string, err error) {
	w.totalErrors.Add(1)
	var attachment map[string]any
	if path != "" {
		attachment = map[string]any{"path": path}
	}
	if ferr := w.FireError(TypeWatchError, op, attachment, err); ferr != nil {
		w.config.logger.Warn("error listener failed: %v (reporting %v)", ferr, err)
	}
}

// shouldIgnore checks if a path should be ignored.
func (w *Watcher) shouldIgnore(path string) bool {
	if w.config.ignoreHidden {
		base := filepath.Base(path)
		if len(base) > 0 && base[0] == '.' {
			return true
		}
	}
	return false
}

// Stats returns watcher statistics.
func (w *Watcher) Stats() Stats {
	return Stats{
		Stats:        w.Source.Stats(),
		WatchedPaths: w.WatchedPaths(),
		FSEvents:     w.totalEvents.Load(),
		Errors:       w.totalErrors.Load(),
	}
}

// Stats contains watcher statistics.
type Stats struct {
	event.Stats

	// WatchedPaths is the number of watched paths.
	WatchedPaths int
	// FSEvents is the number of file system operations seen.
	FSEvents int64
	// Errors is the number of failures reported on the error channel.
	Errors int64
}

// Close stops the watcher. Run returns once the underlying channels close.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}

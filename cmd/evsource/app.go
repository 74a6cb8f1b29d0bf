package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/evsource/internal/config"
	"github.com/dshills/evsource/internal/event"
	"github.com/dshills/evsource/internal/event/evtype"
	"github.com/dshills/evsource/internal/fswatch"
	"github.com/dshills/evsource/internal/logging"
	"github.com/dshills/evsource/internal/script"
)

// app holds what every command needs.
type app struct {
	cfg     *config.Config
	catalog *evtype.Catalog
	logger  *logging.Logger
	printer *printer
	stdout  io.Writer

	subscribers []*event.Subscriber
	scripts     []*script.Listener
}

func newApp(opts options, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: stderr,
		Prefix: "evsource",
	})

	catalog, err := cfg.Catalog(fswatch.Types()...)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		catalog: catalog,
		logger:  logger,
		printer: newPrinter(stdout),
		stdout:  stdout,
	}, nil
}

// attach registers the configured script listeners and the printer on src.
func (a *app) attach(src *event.Source) error {
	sub := event.NewSubscriber(src)
	a.subscribers = append(a.subscribers, sub)

	for _, lc := range a.cfg.Listeners {
		t, err := a.catalog.Lookup(lc.Type)
		if err != nil {
			return fmt.Errorf("listener %s: %w", lc.Script, err)
		}
		path := a.cfg.ScriptPath(lc)
		l, err := script.Load(path, script.WithLogger(a.logger.WithComponent("script").WithField("script", lc.Script)))
		if err != nil {
			return err
		}
		a.scripts = append(a.scripts, l)
		if _, err := sub.Subscribe(t, l); err != nil {
			return err
		}
		a.logger.Debug("script %s listening on %s", path, t.Path())
	}

	_, err := sub.Subscribe(event.Any, a.printer)
	return err
}

// Close removes all listeners and releases script states.
func (a *app) Close() error {
	for _, sub := range a.subscribers {
		sub.Close()
	}
	var errs []error
	for _, l := range a.scripts {
		errs = append(errs, l.Close())
	}
	return errors.Join(errs...)
}

// runTypes prints the catalog as a tree, or the types matching a pattern.
func (a *app) runTypes(args []string) error {
	switch len(args) {
	case 0:
		for _, t := range a.catalog.Types() {
			fmt.Fprintf(a.stdout, "%s%s\n", strings.Repeat("  ", t.Depth()), t.Name())
		}
	case 1:
		for _, t := range a.catalog.Match(args[0]) {
			fmt.Fprintln(a.stdout, t.Path())
		}
	default:
		return fmt.Errorf("%w: types takes at most one pattern", errUsage)
	}
	return nil
}

// runFire fires a single event.
func (a *app) runFire(args []string) error {
	flags := flag.NewFlagSet("fire", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	data := flags.String("data", "", "JSON object attached to the event")
	failure := flags.String("error", "", "Fire an error event with this cause")
	op := flags.String("op", "", "Operation type of an error event")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("%w: fire takes exactly one type", errUsage)
	}

	attachment, err := parseData(*data)
	if err != nil {
		return err
	}

	src := event.NewSource(event.WithLogger(a.logger), event.WithOwner("evsource"))
	a.cfg.ApplyDetail(src)
	if err := a.attach(src); err != nil {
		return err
	}

	emitter := event.NewEmitter(src, a.catalog)
	defer emitter.Close()

	name := flags.Arg(0)
	if *failure != "" {
		err = emitter.EmitError(name, *op, attachment, errors.New(*failure))
	} else {
		err = emitter.Emit(name, attachment)
	}

	stats := src.Stats()
	a.logger.Debug("fired %s: %d invoked, %d skipped, %d suppressed", name, stats.Invoked, stats.Skipped, stats.Suppressed)
	return err
}

// runWatch fires file system events until ctx is done.
func (a *app) runWatch(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: watch needs at least one path", errUsage)
	}

	w, err := fswatch.New(fswatch.WithLogger(a.logger.WithComponent("fswatch")))
	if err != nil {
		return err
	}
	defer w.Close()

	a.cfg.ApplyDetail(w.Source)
	if err := a.attach(w.Source); err != nil {
		return err
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}

	a.logger.Info("watching %d paths", len(paths))
	err = w.Run(ctx)
	stats := w.Stats()
	a.logger.Info("stopped after %d file system events, %d errors", stats.FSEvents, stats.Errors)
	return err
}

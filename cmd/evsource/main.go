// Package main is the entry point for the evsource command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage marks errors that should print usage and exit with status 2.
var errUsage = errors.New("usage error")

// options are the global command line options.
type options struct {
	ConfigPath string
	LogLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	var showVersion bool

	flags := flag.NewFlagSet("evsource", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flags.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&showVersion, "version", false, "Show version information")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "evsource - typed hierarchical event sources\n\n")
		fmt.Fprintf(stderr, "Usage: evsource [options] <command> [arguments]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  types [PATTERN]              List event types, optionally filtered by a path pattern\n")
		fmt.Fprintf(stderr, "  fire [flags] TYPE            Fire an event of TYPE to the configured listeners\n")
		fmt.Fprintf(stderr, "  watch PATH...                Fire file system events until interrupted\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  evsource types 'ANY.FS.*'\n")
		fmt.Fprintf(stderr, "  evsource -c evsource.toml fire -data '{\"path\":\"a.txt\"}' SAVED\n")
		fmt.Fprintf(stderr, "  evsource watch ./src\n")
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "evsource %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	application, err := newApp(opts, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	cmd, cmdArgs := flags.Arg(0), flags.Args()[1:]
	switch cmd {
	case "types":
		err = application.runTypes(cmdArgs)
	case "fire":
		err = application.runFire(cmdArgs)
	case "watch":
		err = application.runWatch(ctx, cmdArgs)
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/evsource/internal/event"
	"github.com/dshills/evsource/internal/logging"
)

// Config is the evsource configuration.
type Config struct {
	Logging   LoggingConfig    `toml:"logging"`
	Source    SourceConfig     `toml:"source"`
	Types     []TypeConfig     `toml:"types"`
	Listeners []ListenerConfig `toml:"listeners"`

	// Path is the file the configuration was loaded from.
	// It is empty when no file was read.
	Path string `toml:"-"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level"`
}

// SourceConfig configures event sources built from this configuration.
type SourceConfig struct {
	// Detail is the initial detail balance: positive values enable detail
	// events that many times, negative values disable them.
	Detail int `toml:"detail"`
}

// TypeConfig declares an event type.
type TypeConfig struct {
	Name string `toml:"name"`
	// Parent names the parent type. Empty means ANY.
	Parent string `toml:"parent"`
}

// ParentName returns the declared parent, defaulting to ANY.
func (t TypeConfig) ParentName() string {
	if t.Parent == "" {
		return event.Any.Name()
	}
	return t.Parent
}

// ListenerConfig binds a Lua script to an event type.
type ListenerConfig struct {
	Type   string `toml:"type"`
	Script string `toml:"script"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
	}
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs  FileSystem
	env *EnvLoader
}

// WithFileSystem sets the file system configuration files are read from.
func WithFileSystem(fsys FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnv sets the environment loader. A nil loader skips environment
// overrides.
func WithEnv(env *EnvLoader) Option {
	return func(o *loadOptions) {
		o.env = env
	}
}

// Load reads the configuration at path, applies environment overrides and
// validates the result. An empty path yields the defaults plus environment.
func Load(path string, opts ...Option) (*Config, error) {
	o := loadOptions{
		fs:  DefaultFS(),
		env: NewEnvLoader(DefaultEnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Default()
	if path != "" {
		data, err := o.fs.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := parse(cfg, path, data); err != nil {
			return nil, err
		}
		cfg.Path = path
	}

	if o.env != nil {
		if err := o.env.Apply(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parse decodes TOML data into cfg. Unknown keys are rejected.
func parse(cfg *Config, source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(cfg)
	if err == nil {
		return nil
	}

	perr := &ParseError{Path: source, Message: err.Error(), Err: err}

	var strict *toml.StrictMissingError
	var derr *toml.DecodeError
	switch {
	case errors.As(err, &strict) && len(strict.Errors) > 0:
		first := &strict.Errors[0]
		perr.Line, perr.Column = first.Position()
		perr.Message = "unknown key " + strings.Join(first.Key(), ".")
	case errors.As(err, &derr):
		perr.Line, perr.Column = derr.Position()
	}
	return perr
}

// Validate checks the configuration contents.
func (c *Config) Validate() error {
	if _, ok := logging.LookupLevel(c.Logging.Level); !ok {
		return fmt.Errorf("%w: unknown log level %q", ErrValidationFailed, c.Logging.Level)
	}
	for i, t := range c.Types {
		if t.Name == "" {
			return fmt.Errorf("%w: types[%d] has no name", ErrValidationFailed, i)
		}
	}
	for i, l := range c.Listeners {
		if l.Type == "" {
			return fmt.Errorf("%w: listeners[%d] has no type", ErrValidationFailed, i)
		}
		if l.Script == "" {
			return fmt.Errorf("%w: listeners[%d] has no script", ErrValidationFailed, i)
		}
	}
	return nil
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// ScriptPath resolves a listener script relative to the config file.
func (c *Config) ScriptPath(l ListenerConfig) string {
	if filepath.IsAbs(l.Script) || c.Path == "" {
		return l.Script
	}
	return filepath.Join(filepath.Dir(c.Path), l.Script)
}

// ApplyDetail adjusts the detail counter of s by the configured balance.
func (c *Config) ApplyDetail(s *event.Source) {
	for i := 0; i < c.Source.Detail; i++ {
		s.SetDetailEvents(true)
	}
	for i := 0; i > c.Source.Detail; i-- {
		s.SetDetailEvents(false)
	}
}

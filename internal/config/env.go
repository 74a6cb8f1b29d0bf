package config

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultEnvPrefix is the prefix of evsource environment variables.
const DefaultEnvPrefix = "EVSOURCE_"

// EnvLoader applies environment variable overrides to a Config.
type EnvLoader struct {
	prefix string
	lookup func(string) (string, bool)
}

// NewEnvLoader creates a loader reading the process environment.
// The prefix should include the trailing underscore (e.g., "EVSOURCE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix: prefix,
		lookup: os.LookupEnv,
	}
}

// NewEnvLoaderWithLookup creates a loader with a custom lookup function.
func NewEnvLoaderWithLookup(prefix string, lookup func(string) (string, bool)) *EnvLoader {
	return &EnvLoader{
		prefix: prefix,
		lookup: lookup,
	}
}

// Apply overrides cfg with PREFIX_LOG_LEVEL and PREFIX_DETAIL when set.
// Empty values are ignored.
func (l *EnvLoader) Apply(cfg *Config) error {
	if v, ok := l.get("LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := l.get("DETAIL"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sDETAIL=%q is not an integer", ErrValidationFailed, l.prefix, v)
		}
		cfg.Source.Detail = n
	}
	return nil
}

func (l *EnvLoader) get(name string) (string, bool) {
	v, ok := l.lookup(l.prefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

package event

import (
	"github.com/dshills/evsource/internal/event/evtype"
	"github.com/dshills/evsource/internal/logging"
)

// EventFactory builds the event delivered by FireEvent.
// The returned event's type must descend from t.
type EventFactory func(source any, t *evtype.Type, attachment map[string]any) (Event, error)

// FailureFactory builds the event delivered by FireError.
// The returned event's type must descend from t.
type FailureFactory func(source any, t, op *evtype.Type, attachment map[string]any, cause error) (Event, error)

// SourceOption configures a Source.
type SourceOption func(*sourceConfig)

// sourceConfig contains configuration for a Source.
type sourceConfig struct {
	// owner is reported as Event.Source; nil means the Source itself.
	owner any

	logger *logging.Logger

	newEvent   EventFactory
	newFailure FailureFactory
}

// defaultSourceConfig returns the default configuration.
func defaultSourceConfig() sourceConfig {
	return sourceConfig{
		newEvent:   defaultEventFactory,
		newFailure: defaultFailureFactory,
	}
}

func defaultEventFactory(source any, t *evtype.Type, attachment map[string]any) (Event, error) {
	return NewNotice(source, t, attachment)
}

func defaultFailureFactory(source any, t, op *evtype.Type, attachment map[string]any, cause error) (Event, error) {
	return NewFailure(source, t, op, attachment, cause)
}

// WithOwner sets the value events report as their source. Components that
// embed a Source pass themselves here.
func WithOwner(owner any) SourceOption {
	return func(c *sourceConfig) {
		c.owner = owner
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *logging.Logger) SourceOption {
	return func(c *sourceConfig) {
		c.logger = l
	}
}

// WithEventFactory overrides how FireEvent builds events.
func WithEventFactory(f EventFactory) SourceOption {
	return func(c *sourceConfig) {
		if f != nil {
			c.newEvent = f
		}
	}
}

// WithFailureFactory overrides how FireError builds events.
func WithFailureFactory(f FailureFactory) SourceOption {
	return func(c *sourceConfig) {
		if f != nil {
			c.newFailure = f
		}
	}
}

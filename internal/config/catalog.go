package config

import (
	"fmt"

	"github.com/dshills/evsource/internal/event"
	"github.com/dshills/evsource/internal/event/evtype"
)

// Catalog builds a type catalog holding the predefined types, the extra
// types built into the program and every declared type. Extras must be
// given parents first. Declarations may appear before their parent.
func (c *Config) Catalog(extra ...*evtype.Type) (*evtype.Catalog, error) {
	catalog, err := evtype.NewCatalog(append([]*evtype.Type{event.TypeEmpty, event.TypeError}, extra...)...)
	if err != nil {
		return nil, err
	}

	pending := c.Types
	for len(pending) > 0 {
		var deferred []TypeConfig
		for _, t := range pending {
			if _, err := catalog.Lookup(t.ParentName()); err != nil {
				deferred = append(deferred, t)
				continue
			}
			if _, err := catalog.Define(t.Name, t.ParentName()); err != nil {
				return nil, fmt.Errorf("type %s: %w", t.Name, err)
			}
		}
		if len(deferred) == len(pending) {
			t := deferred[0]
			return nil, fmt.Errorf("%w: %s has parent %s", ErrUnresolvedParent, t.Name, t.ParentName())
		}
		pending = deferred
	}
	return catalog, nil
}

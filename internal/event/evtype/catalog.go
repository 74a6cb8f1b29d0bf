package evtype

import (
	"fmt"
	"sync"

	"golang.org/x/text/cases"
)

// Catalog indexes types by name for configuration files and command lines.
//
// Lookups fold case, so "fs.write" style input resolves "WRITE". A catalog
// only maps names to existing types; identity is still by pointer, and two
// catalogs may hold distinct types that share a name.
type Catalog struct {
	mu     sync.RWMutex
	byName map[string]*Type
	order  []*Type
}

// NewCatalog creates a catalog containing Any and the given types.
func NewCatalog(types ...*Type) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*Type)}
	if err := c.Register(Any); err != nil {
		return nil, err
	}
	for _, t := range types {
		if err := c.Register(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// foldName normalizes a name for lookup.
// A Caser is stateful, so a new one is used per call.
func foldName(name string) string {
	return cases.Fold().String(name)
}

// Register adds an existing type to the catalog.
func (c *Catalog) Register(t *Type) error {
	if t == nil {
		return fmt.Errorf("%w: nil type", ErrUnknownType)
	}

	key := foldName(t.name)

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.byName[key]; ok {
		if existing == t {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDuplicateType, t.name)
	}
	c.byName[key] = t
	c.order = append(c.order, t)
	return nil
}

// Define creates a new type named name under the catalog type parentName
// and registers it.
func (c *Catalog) Define(name, parentName string) (*Type, error) {
	parent, err := c.Lookup(parentName)
	if err != nil {
		return nil, fmt.Errorf("parent of %s: %w", name, err)
	}
	t, err := New(parent, name)
	if err != nil {
		return nil, err
	}
	if err := c.Register(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Lookup resolves a type by name, ignoring case.
func (c *Catalog) Lookup(name string) (*Type, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.byName[foldName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return t, nil
}

// Match returns the catalog types whose path matches pattern, in
// registration order. Pattern segments are compared case-insensitively.
func (c *Catalog) Match(pattern string) []*Type {
	folded := foldName(pattern)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*Type
	for _, t := range c.order {
		if matchFolded(t, folded) {
			out = append(out, t)
		}
	}
	return out
}

func matchFolded(t *Type, pattern string) bool {
	if pattern == "" {
		return false
	}
	segs := t.Segments()
	for i, s := range segs {
		segs[i] = foldName(s)
	}
	return matchSegments(segs, splitPattern(pattern))
}

// Descendants returns the catalog types that descend from base, base included.
func (c *Catalog) Descendants(base *Type) []*Type {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*Type
	for _, t := range c.order {
		if IsDescendantOf(t, base) {
			out = append(out, t)
		}
	}
	return out
}

// Types returns all catalog types in registration order.
func (c *Catalog) Types() []*Type {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Type, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of types in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

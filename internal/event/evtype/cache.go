package evtype

import "sync"

// Cache memoizes ancestor sets per type.
// It is safe for concurrent use.
type Cache struct {
	sets sync.Map // *Type -> Set
}

// NewCache creates an empty ancestor cache.
func NewCache() *Cache {
	return &Cache{}
}

// Ancestors returns the memoized ancestor set of t.
func (c *Cache) Ancestors(t *Type) Set {
	if t == nil {
		return Set{}
	}
	if v, ok := c.sets.Load(t); ok {
		return v.(Set)
	}
	v, _ := c.sets.LoadOrStore(t, Ancestors(t))
	return v.(Set)
}

// Len returns the number of cached types.
func (c *Cache) Len() int {
	n := 0
	c.sets.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Clear drops all cached sets.
func (c *Cache) Clear() {
	c.sets.Clear()
}

package evtype

import (
	"fmt"
	"strings"
)

// Path separator and wildcard tokens.
const (
	// Separator joins type names in a path.
	Separator = "."

	// WildcardSingle matches exactly one path segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more path segments.
	WildcardMulti = "**"
)

// Type is a node in the event type hierarchy.
// Types are immutable and compared by pointer identity.
type Type struct {
	name   string
	parent *Type
	depth  int
}

// Any is the root of the hierarchy. It is the only type without a parent.
var Any = &Type{name: "ANY"}

// New creates a type under parent.
func New(parent *Type, name string) (*Type, error) {
	if parent == nil {
		return nil, ErrNilParent
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if strings.Contains(name, Separator) || strings.Contains(name, WildcardSingle) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return &Type{name: name, parent: parent, depth: parent.depth + 1}, nil
}

// MustNew is like New but panics on error.
// It is meant for package-level type declarations.
func MustNew(parent *Type, name string) *Type {
	t, err := New(parent, name)
	if err != nil {
		panic("evtype: " + err.Error())
	}
	return t
}

// Name returns the type name.
func (t *Type) Name() string {
	return t.name
}

// Parent returns the parent type, or nil for the root.
func (t *Type) Parent() *Type {
	return t.parent
}

// IsRoot reports whether t has no parent.
func (t *Type) IsRoot() bool {
	return t.parent == nil
}

// Depth returns the number of parent links between t and the root.
func (t *Type) Depth() int {
	return t.depth
}

// Path returns the names from the root down to t joined by Separator.
//
// Example: "ANY.FS.WRITE"
func (t *Type) Path() string {
	return strings.Join(t.Segments(), Separator)
}

// Segments returns the names from the root down to t.
func (t *Type) Segments() []string {
	segs := make([]string, t.depth+1)
	for cur := t; cur != nil; cur = cur.parent {
		segs[cur.depth] = cur.name
	}
	return segs
}

// Matches reports whether t's path matches the given pattern.
// The pattern may contain wildcards:
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
func (t *Type) Matches(pattern string) bool {
	if pattern == "" {
		return false
	}
	return matchSegments(t.Segments(), splitPattern(pattern))
}

// splitPattern splits a path pattern into segments.
func splitPattern(pattern string) []string {
	return strings.Split(pattern, Separator)
}

// String returns a human-readable form, e.g. "Type [ WRITE ]".
func (t *Type) String() string {
	if t == nil {
		return "Type [ <nil> ]"
	}
	return fmt.Sprintf("Type [ %s ]", t.name)
}

// Ancestors returns t together with all of its proper ancestors.
// It returns an empty set for a nil type.
func Ancestors(t *Type) Set {
	if t == nil {
		return Set{}
	}
	s := Set{types: make([]*Type, 0, t.depth+1)}
	for cur := t; cur != nil; cur = cur.parent {
		s.types = append(s.types, cur)
	}
	return s
}

// IsDescendantOf reports whether base is derived itself or one of its ancestors.
// It returns false if either argument is nil.
func IsDescendantOf(derived, base *Type) bool {
	if derived == nil || base == nil {
		return false
	}
	// A base deeper than derived can never be on its parent chain.
	if base.depth > derived.depth {
		return false
	}
	for cur := derived; cur != nil; cur = cur.parent {
		if cur == base {
			return true
		}
	}
	return false
}

// matchSegments performs recursive pattern matching on path segments.
func matchSegments(path, pattern []string) bool {
	pi, qi := 0, 0

	for qi < len(pattern) {
		if pattern[qi] == WildcardMulti {
			for pi <= len(path) {
				if matchSegments(path[pi:], pattern[qi+1:]) {
					return true
				}
				pi++
			}
			return false
		}

		if pi >= len(path) {
			return false
		}

		if pattern[qi] != WildcardSingle && pattern[qi] != path[pi] {
			return false
		}
		pi++
		qi++
	}

	return pi == len(path)
}

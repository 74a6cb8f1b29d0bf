package evtype

// Set is an identity set of types.
//
// Sets produced by Ancestors hold a single parent chain, which is short, so
// membership is a linear scan over at most a handful of pointers.
type Set struct {
	types []*Type
}

// Contains reports whether t is a member of the set.
func (s Set) Contains(t *Type) bool {
	if t == nil {
		return false
	}
	for _, m := range s.types {
		if m == t {
			return true
		}
	}
	return false
}

// Len returns the number of types in the set.
func (s Set) Len() int {
	return len(s.types)
}

// Types returns the members ordered from the most derived type to the root.
func (s Set) Types() []*Type {
	out := make([]*Type, len(s.types))
	copy(out, s.types)
	return out
}

// Package evtype defines the event type hierarchy.
//
// Every event and every listener registration is tagged with a *Type. Types
// form a single-rooted tree: Any is the root and every other type names
// exactly one parent, fixed at construction. A listener registered for a type
// receives events of that type and of all its descendants.
//
// Types are compared by identity, never by name:
//
//	a := evtype.MustNew(evtype.Any, "FILE")
//	b := evtype.MustNew(evtype.Any, "FILE")
//	evtype.IsDescendantOf(a, b) // false, a and b are distinct types
//
// # Paths
//
// A type's path joins the names from the root with dots, for example
// "ANY.FS.WRITE". Paths are for display and for the Catalog, which resolves
// names and wildcard path patterns ("ANY.FS.*", "ANY.**") to types.
//
// # Caching
//
// The hierarchy never changes once built, so the ancestor set of a type can
// be memoized safely. Cache provides that memo for hot dispatch paths.
package evtype

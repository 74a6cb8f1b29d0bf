package evtype

import "errors"

// Sentinel errors for type construction and catalog lookups.
var (
	// ErrNilParent is returned when a non-root type is created without a parent.
	ErrNilParent = errors.New("event type parent cannot be nil")

	// ErrEmptyName is returned when a type is created with an empty name.
	ErrEmptyName = errors.New("event type name cannot be empty")

	// ErrInvalidName is returned when a type name contains a path separator or wildcard.
	ErrInvalidName = errors.New("invalid event type name")

	// ErrDuplicateType is returned when a catalog already holds a type with the same name.
	ErrDuplicateType = errors.New("duplicate event type")

	// ErrUnknownType is returned when a catalog lookup fails.
	ErrUnknownType = errors.New("unknown event type")
)

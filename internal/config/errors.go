package config

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned by Load when the named file does not exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrValidationFailed marks well-formed configuration with invalid values.
	ErrValidationFailed = errors.New("invalid configuration")

	// ErrUnresolvedParent indicates a declared type whose parent is never declared.
	ErrUnresolvedParent = errors.New("unresolved parent type")
)

// ParseError reports a configuration file that is not valid TOML or
// carries keys the schema does not know.
type ParseError struct {
	Path    string
	Line    int // 0 when unknown
	Column  int // 0 when unknown
	Message string
	Err     error
}

// Error formats the error as path:line:column: message.
func (e *ParseError) Error() string {
	pos := e.Path
	if e.Line > 0 {
		pos = fmt.Sprintf("%s:%d", pos, e.Line)
		if e.Column > 0 {
			pos = fmt.Sprintf("%s:%d", pos, e.Column)
		}
	}
	return fmt.Sprintf("%s: %s", pos, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

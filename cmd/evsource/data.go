package main

import (
	"errors"

	"github.com/tidwall/gjson"
)

// errInvalidData is returned for a -data value that is not a JSON object.
var errInvalidData = errors.New("data must be a JSON object")

// parseData converts a JSON object into an event attachment.
// Numbers become float64. An empty string yields a nil attachment.
func parseData(s string) (map[string]any, error) {
	if s == "" {
		return nil, nil
	}
	if !gjson.Valid(s) {
		return nil, errInvalidData
	}
	res := gjson.Parse(s)
	if !res.IsObject() {
		return nil, errInvalidData
	}
	m, _ := res.Value().(map[string]any)
	return m, nil
}

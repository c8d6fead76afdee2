package model

import (
	"sort"
	"strings"
)

// ValidationError collects field level failures. Keys are the JSON field names.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// Add records msg for field unless the field already failed.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = map[string]string{}
	}
	if _, ok := v.Fields[field]; !ok {
		v.Fields[field] = msg
	}
}

func (v *ValidationError) Empty() bool { return len(v.Fields) == 0 }

// Err returns nil when nothing failed so callers can `return v.Err()`.
func (v *ValidationError) Err() error {
	if v.Empty() {
		return nil
	}
	return v
}

// Message is the single failure message, or a generic one for several.
func (v *ValidationError) Message() string {
	if len(v.Fields) == 1 {
		for _, msg := range v.Fields {
			return msg
		}
	}
	return "Validation failed"
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + v.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

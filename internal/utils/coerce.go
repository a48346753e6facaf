// Package utils provides helpers for reading loosely-typed JSON structures.
package utils

import (
	"strconv"

	"github.com/pulseboardhq/pulseboard-backend/pkg/safe"
)

// AsMap returns v as a string-keyed map when it is one.
func AsMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// AsSlice returns v as a generic slice when it is one.
func AsSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// AsString returns v as a string, or "" when it is not one.
func AsString(v any) string {
	s, _ := v.(string)
	return s
}

// AsUint64 coerces JSON numbers and decimal strings to uint64.
// Unparseable or out-of-range values yield zero.
func AsUint64(v any) uint64 {
	switch value := v.(type) {
	case float64:
		parsed, err := safe.Uint64FromFloat(value)
		if err != nil {
			return 0
		}
		return parsed
	case string:
		parsed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	case int:
		if value < 0 {
			return 0
		}
		return uint64(value)
	case uint64:
		return value
	default:
		return 0
	}
}

// AsInt64 coerces JSON numbers and decimal strings to int64.
// Unparseable or out-of-range values yield zero.
func AsInt64(v any) int64 {
	switch value := v.(type) {
	case float64:
		parsed, err := safe.Int64FromFloat(value)
		if err != nil {
			return 0
		}
		return parsed
	case string:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	case int:
		return int64(value)
	case int64:
		return value
	default:
		return 0
	}
}

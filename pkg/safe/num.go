// Package safe provides helpers for safe numeric conversions with range checks.
package safe

import (
	"fmt"
	"math"
)

// Uint64FromFloat converts a JSON-sourced float64 to uint64, rejecting
// negatives, NaN, infinities and values beyond the uint64 range.
func Uint64FromFloat(v float64) (uint64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %v is not finite", v)
	}
	if v < 0 {
		return 0, fmt.Errorf("value %v out of uint64 range", v)
	}
	if v >= math.MaxUint64 {
		return 0, fmt.Errorf("value %v out of uint64 range", v)
	}
	return uint64(v), nil
}

// Int64FromFloat converts a JSON-sourced float64 to int64 with range checks.
func Int64FromFloat(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %v is not finite", v)
	}
	if v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, fmt.Errorf("value %v out of int64 range", v)
	}
	return int64(v), nil
}

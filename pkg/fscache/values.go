package fscache

import (
	"encoding/json"
	"math"
)

// Int64 converts a numeric attribute value to int64. Snapshot codecs may hand
// back integers as float64 or json.Number, so every numeric form is accepted
// as long as it holds a whole number.
func Int64(v Value) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

// String returns v when it is a string.
func String(v Value) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// Package payload finds the JSON data block embedded in a profile page and
// offers total, panic-free navigation over the decoded tree.
package payload

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawPayload is a decoded embedded JSON object. Numbers are json.Number.
type RawPayload map[string]interface{}

// Path is a sequence of navigation steps. A string step indexes a mapping,
// an int step indexes a sequence.
type Path []interface{}

// Lookup walks path from root. It reports false on a missing key, a step
// applied to the wrong kind of container or an out-of-range index.
func Lookup(root interface{}, path Path) (interface{}, bool) {
	current := root
	for _, step := range path {
		switch s := step.(type) {
		case string:
			m, ok := asMap(current)
			if !ok {
				return nil, false
			}
			next, ok := m[s]
			if !ok {
				return nil, false
			}
			current = next
		case int:
			list, ok := current.([]interface{})
			if !ok || s < 0 || s >= len(list) {
				return nil, false
			}
			current = list[s]
		default:
			return nil, false
		}
	}
	return current, true
}

// Map returns the mapping at path
func Map(root interface{}, path Path) (map[string]interface{}, bool) {
	v, ok := Lookup(root, path)
	if !ok {
		return nil, false
	}
	return asMap(v)
}

// List returns the sequence at path
func List(root interface{}, path Path) ([]interface{}, bool) {
	v, ok := Lookup(root, path)
	if !ok {
		return nil, false
	}
	list, ok := v.([]interface{})
	return list, ok
}

// String returns the non-empty string at path
func String(root interface{}, path Path) (string, bool) {
	v, ok := Lookup(root, path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Count returns the non-negative integer at path
func Count(root interface{}, path Path) (int64, bool) {
	v, ok := Lookup(root, path)
	if !ok {
		return 0, false
	}
	return Int(v)
}

// Int coerces a decoded JSON value to a non-negative integer.
// JSON numbers with a fraction truncate toward zero; strings must hold a
// whole decimal integer.
func Int(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		return parseInt(string(n))
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return nonNegative(i)
	case int:
		return nonNegative(int64(n))
	case int32:
		return nonNegative(int64(n))
	case int64:
		return nonNegative(n)
	case uint:
		return fromFloat(float64(n))
	case uint32:
		return int64(n), true
	case uint64:
		return fromFloat(float64(n))
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	default:
		return 0, false
	}
}

func parseInt(s string) (int64, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return nonNegative(i)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return fromFloat(f)
}

func fromFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func nonNegative(i int64) (int64, bool) {
	if i < 0 {
		return 0, false
	}
	return i, true
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, m != nil
	case RawPayload:
		return m, m != nil
	default:
		return nil, false
	}
}

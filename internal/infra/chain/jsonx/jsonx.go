// Package jsonx reads loosely typed provider JSON through ordered fallback chains.
//
// Providers spell the same logical field differently across API versions. Every
// accessor takes a list of dot-separated paths and returns the first one that holds a
// usable value, so each adapter documents its chain in one place instead of probing
// optional fields ad hoc. Absent fields yield zero values, never errors.
package jsonx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Decode parses a JSON document keeping numbers as json.Number so that
// large smallest-unit amounts survive without float rounding.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}

// Path walks one dot-separated path. Numeric segments index into arrays.
func Path(v any, path string) any {
	if path == "" {
		return v
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			cur = node[i]
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Str returns the first non-empty string (or number, rendered as text) along paths.
func Str(v any, paths ...string) string {
	for _, p := range paths {
		switch s := Path(v, p).(type) {
		case string:
			if s != "" {
				return s
			}
		case json.Number:
			return s.String()
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return ""
}

// Decimal returns the first numeric value along paths. Numeric strings count.
func Decimal(v any, paths ...string) (decimal.Decimal, bool) {
	for _, p := range paths {
		var (
			d   decimal.Decimal
			err error
		)
		switch n := Path(v, p).(type) {
		case json.Number:
			d, err = decimal.NewFromString(n.String())
		case string:
			if n == "" {
				continue
			}
			d, err = decimal.NewFromString(n)
		case float64:
			d = decimal.NewFromFloat(n)
		default:
			continue
		}
		if err == nil {
			return d, true
		}
	}
	return decimal.Zero, false
}

// Int returns the first integral value along paths.
func Int(v any, paths ...string) (int64, bool) {
	d, ok := Decimal(v, paths...)
	if !ok {
		return 0, false
	}
	return d.IntPart(), true
}

// Bool returns the first boolean along paths.
func Bool(v any, paths ...string) bool {
	for _, p := range paths {
		if b, ok := Path(v, p).(bool); ok {
			return b
		}
	}
	return false
}

// Arr returns the first array along paths, or nil.
func Arr(v any, paths ...string) []any {
	for _, p := range paths {
		if a, ok := Path(v, p).([]any); ok {
			return a
		}
	}
	return nil
}

// Obj returns the first object along paths, or nil.
func Obj(v any, paths ...string) map[string]any {
	for _, p := range paths {
		if m, ok := Path(v, p).(map[string]any); ok {
			return m
		}
	}
	return nil
}

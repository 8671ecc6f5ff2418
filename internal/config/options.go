// Package config defines the report job document and the loosely-typed
// Options bag used by parsers.
package config

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Options is a JSON-friendly bag of parser settings.
//
// Values arrive as whatever encoding/json produces (string, float64, bool,
// map[string]any), so every getter normalizes from those types and falls
// back to the provided default when the key is absent or malformed.
type Options map[string]any

// Any returns the raw value for key, or nil when absent.
func (o Options) Any(key string) any {
	if o == nil {
		return nil
	}
	return o[key]
}

// Bool reads a boolean option. Accepts bool and the strings "true"/"false".
func (o Options) Bool(key string, def bool) bool {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
	}
	return def
}

// Int reads an integer option. JSON numbers decode as float64, so both
// float64 and json.Number are accepted.
func (o Options) Int(key string, def int) int {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return def
}

// String reads a string option.
func (o Options) String(key string, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Rune reads a single-rune option (e.g. a CSV delimiter). Strings longer
// than one rune fall back to the default.
func (o Options) Rune(key string, def rune) rune {
	s, ok := o[key].(string)
	if !ok {
		return def
	}
	rs := []rune(s)
	if len(rs) != 1 {
		return def
	}
	return rs[0]
}

// StringMap reads a map[string]string option (e.g. header_map). Non-string
// values inside the map are skipped.
func (o Options) StringMap(key string) map[string]string {
	raw, ok := o[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// Package normalize converts raw, loosely-typed upstream records into the
// canonical domain model. The upstream renames fields between endpoints,
// nests records inside single-element lists and mixes numeric and string
// identifiers, so every mapping here is an ordered fallback over candidate
// field names. Mapping never fails: missing or malformed fields produce
// defaults, and the caller decides whether an all-default record means
// missing data.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Raw is a decoded upstream record. Values are whatever encoding/json
// produced: strings, float64s, json.Number, nested maps and lists.
type Raw map[string]any

// String returns the trimmed, stringified value under key.
// Numeric values are stringified without a decimal point when integral,
// so a float64 contract id 1947 matches the string "1947".
// Returns false when the key is absent, null, or stringifies to "".
func (r Raw) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	s := stringify(v)
	if s == "" {
		return "", false
	}
	return s, true
}

// FirstString walks keys in order and returns the first present,
// non-empty value. This is the declarative fallback chain used all over
// the upstream mapping.
func (r Raw) FirstString(keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := r.String(k); ok {
			return s, true
		}
	}
	return "", false
}

// Number coerces the value under key to float64. Strings are parsed;
// anything unparseable reports false.
func (r Raw) Number(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int is Number truncated to int.
func (r Raw) Int(key string) (int, bool) {
	f, ok := r.Number(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// List returns the sub-list under key as []Raw, skipping non-map elements.
func (r Raw) List(key string) ([]Raw, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]Raw, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, Raw(m))
		}
	}
	return out, true
}

// Optional returns a pointer to the trimmed value under the first matching
// key, or nil when no candidate carries a non-empty value. nil means
// "field absent", which callers can distinguish from "present but empty".
func (r Raw) Optional(keys ...string) *string {
	if s, ok := r.FirstString(keys...); ok {
		return &s
	}
	return nil
}

// FromList decodes a JSON array body into []Raw. Malformed bodies yield nil.
func FromList(body []byte) []Raw {
	var items []any
	if err := json.Unmarshal(body, &items); err != nil {
		return nil
	}
	out := make([]Raw, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, Raw(m))
		}
	}
	return out
}

// FromObject decodes a JSON object body into one Raw. Malformed bodies
// yield an empty record, never an error.
func FromObject(body []byte) Raw {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return Raw{}
	}
	return Raw(m)
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

package integrations

import (
	"encoding/json"
	"strconv"
	"time"
)

// Helpers for reading decoded JSON (map[string]any trees). Missing keys and
// type mismatches yield zero values, which matches how the providers omit
// null fields.

// Str returns m[key] as a string.
func Str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}

// Int returns m[key] as an int64. Numeric strings are accepted.
func Int(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}

// Bool returns m[key] as a bool.
func Bool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// Map returns m[key] as a JSON object, or nil.
func Map(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

// List returns m[key] as a JSON array, or nil.
func List(m map[string]any, key string) []any {
	v, _ := m[key].([]any)
	return v
}

// Time parses m[key] as an RFC 3339 timestamp. The zero time is returned
// for missing or malformed values.
func Time(m map[string]any, key string) time.Time {
	t, err := time.Parse(time.RFC3339, Str(m, key))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Has reports whether m contains key with a non-null value.
func Has(m map[string]any, key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

// Path walks nested objects: Path(m, "base", "repo", "full_name").
func Path(m map[string]any, keys ...string) any {
	var cur any = m
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[k]
	}
	return cur
}

// AsObjects returns the elements of v that are JSON objects. v is typically
// the result of a list fetch.
func AsObjects(v any) []map[string]any {
	list, _ := v.([]any)
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// AsObject returns v as a JSON object, or an empty map.
func AsObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

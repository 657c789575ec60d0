package tools

import (
	"encoding/json"
	"fmt"
)

// arguments wraps the raw arguments of a tool call.
// Values have already been checked against the tool's input schema, the accessors
// only tell a missing argument apart from a supplied one.
type arguments map[string]any

func (a arguments) string(key string) (string, bool) {
	v, ok := a[key].(string)
	return v, ok
}

func (a arguments) number(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func (a arguments) boolean(key string) (bool, bool) {
	v, ok := a[key].(bool)
	return v, ok
}

func (a arguments) requireString(key string) (string, error) {
	v, ok := a.string(key)
	if !ok || v == "" {
		return "", fmt.Errorf("required argument %q is missing", key)
	}
	return v, nil
}

func (a arguments) requireNumber(key string) (float64, error) {
	v, ok := a.number(key)
	if !ok {
		return 0, fmt.Errorf("required argument %q is missing", key)
	}
	return v, nil
}

// stringOr returns the argument or def if it was omitted or empty.
func (a arguments) stringOr(key, def string) string {
	if v, ok := a.string(key); ok && v != "" {
		return v
	}
	return def
}

// numberOr returns the argument or def if it was omitted.
// An explicit zero is kept.
func (a arguments) numberOr(key string, def float64) float64 {
	if v, ok := a.number(key); ok {
		return v
	}
	return def
}

// portOr returns the argument as a port number, or def if it was omitted or zero.
func (a arguments) portOr(key string, def int) int {
	if v, ok := a.number(key); ok && v != 0 {
		return int(v)
	}
	return def
}

func (a arguments) boolOr(key string, def bool) bool {
	if v, ok := a.boolean(key); ok {
		return v
	}
	return def
}

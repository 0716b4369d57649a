package config

import (
	"fmt"
	"sort"

	"github.com/randalmurphal/ascent/pkg/ascent/expr"
)

// Values wraps a decoded YAML or JSON document for typed extraction.
// Missing keys yield the supplied default; present keys of the wrong type
// are errors.
type Values struct {
	data map[string]any
}

// NewValues creates Values from the given map.
// If data is nil, empty Values are returned.
func NewValues(data map[string]any) Values {
	if data == nil {
		data = make(map[string]any)
	}
	return Values{data: data}
}

// Has returns true if the key exists.
func (v Values) Has(key string) bool {
	_, ok := v.data[key]
	return ok
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (v Values) Raw() map[string]any {
	return v.data
}

// String returns the string value for key, or defaultVal if missing.
func (v Values) String(key, defaultVal string) (string, error) {
	raw, ok := v.data[key]
	if !ok {
		return defaultVal, nil
	}
	s, ok := raw.(string)
	if !ok {
		return defaultVal, typeError(key, "a string", raw)
	}
	return s, nil
}

// Bool returns the boolean value for key, or defaultVal if missing.
func (v Values) Bool(key string, defaultVal bool) (bool, error) {
	raw, ok := v.data[key]
	if !ok {
		return defaultVal, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return defaultVal, typeError(key, "a boolean", raw)
	}
	return b, nil
}

// Int returns the integer value for key, or defaultVal if missing.
//
// Accepts:
//   - int, int64: used directly
//   - float64: only if there is no fractional part (JSON numbers)
func (v Values) Int(key string, defaultVal int) (int, error) {
	raw, ok := v.data[key]
	if !ok {
		return defaultVal, nil
	}
	switch val := raw.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	return defaultVal, typeError(key, "an integer", raw)
}

// Floats returns the map under key converted to float32 values.
// A missing or null key yields an empty map.
func (v Values) Floats(key string) (map[string]float32, error) {
	raw, ok := v.data[key]
	if !ok || raw == nil {
		return map[string]float32{}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, typeError(key, "a mapping of names to numbers", raw)
	}
	out := make(map[string]float32, len(m))
	for name, val := range m {
		f, ok := expr.ToFloat32(val)
		if !ok {
			return nil, fmt.Errorf("%s.%s: %v is not a float32 number", key, name, val)
		}
		out[name] = f
	}
	return out, nil
}

// Unknown returns the keys not listed in known, sorted.
func (v Values) Unknown(known ...string) []string {
	allowed := make(map[string]struct{}, len(known))
	for _, k := range known {
		allowed[k] = struct{}{}
	}
	var out []string
	for k := range v.data {
		if _, ok := allowed[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func typeError(key, want string, got any) error {
	return fmt.Errorf("%s: want %s, got %T", key, want, got)
}

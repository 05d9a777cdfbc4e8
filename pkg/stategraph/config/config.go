package config

import (
	"time"
)

// Config wraps a map[string]any with typed accessors. Every accessor
// returns the supplied default when the key is missing or the value
// cannot be converted to the requested type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// A nil map yields an empty Config.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string value for key, or def.
func (c Config) String(key, def string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return def
}

// Bool returns the boolean value for key, or def.
func (c Config) Bool(key string, def bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return def
}

// Int returns the integer value for key, or def.
//
// Accepts int, int64, and float64 without a fractional part. JSON and
// YAML decoders produce float64 and int respectively for numeric values,
// so both forms must be tolerated.
func (c Config) Int(key string, def int) int {
	switch v := c.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return def
}

// Float returns the float64 value for key, or def.
func (c Config) Float(key string, def float64) float64 {
	switch v := c.data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// Duration returns the duration value for key, or def.
//
// Accepts a time.Duration, a string parsed with time.ParseDuration,
// or a numeric value interpreted as seconds.
func (c Config) Duration(key string, def time.Duration) time.Duration {
	switch v := c.data[key].(type) {
	case time.Duration:
		return v
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case float64:
		return time.Duration(v * float64(time.Second))
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	}
	return def
}

// StringSlice returns the string slice for key, or def.
// []any values are accepted when every element is a string.
func (c Config) StringSlice(key string, def []string) []string {
	switch v := c.data[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return def
			}
			out = append(out, s)
		}
		return out
	}
	return def
}

// Any returns the raw value for key, or def if missing.
func (c Config) Any(key string, def any) any {
	if v, ok := c.data[key]; ok {
		return v
	}
	return def
}

// Has reports whether key exists.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Raw returns the underlying map. Callers must not modify it.
func (c Config) Raw() map[string]any {
	return c.data
}

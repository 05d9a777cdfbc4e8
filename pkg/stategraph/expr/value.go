package expr

import (
	"strconv"
	"strings"
)

// Resolve turns a token into a value: quoted strings strip their
// quotes, true/false/null parse as literals, numbers parse as int64 or
// float64, and anything else is looked up in vars. A token found
// nowhere is returned as a string literal.
func Resolve(token string, vars map[string]any) any {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}

	if len(token) >= 2 {
		if (token[0] == '\'' && token[len(token)-1] == '\'') ||
			(token[0] == '"' && token[len(token)-1] == '"') {
			return token[1 : len(token)-1]
		}
	}

	switch strings.ToLower(token) {
	case "true":
		return true
	case "false":
		return false
	case "null", "nil":
		return nil
	}

	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f
	}

	if v, ok := vars[token]; ok {
		return v
	}
	return token
}

// Truthy reports whether a value counts as true: nil is false, bools
// are themselves, empty strings and zero numbers are false, everything
// else is true.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case float32:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

// Number coerces a value for ordering comparisons. Non-numeric values
// compare as zero.
func Number(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

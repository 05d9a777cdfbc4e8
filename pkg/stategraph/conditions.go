package stategraph

import (
	"fmt"
	"strconv"
)

// Common predicate factories for hand-built graphs.

// Always returns a predicate that always traverses.
func Always() Predicate {
	return func(Context, State) (bool, error) { return true, nil }
}

// Never returns a predicate that never traverses (a disabled edge).
func Never() Predicate {
	return func(Context, State) (bool, error) { return false, nil }
}

// HasDataKey matches when the state's data contains key.
func HasDataKey(key string) Predicate {
	return func(_ Context, s State) (bool, error) {
		_, ok := s.Data[key]
		return ok, nil
	}
}

// DataEquals matches when the data value for key equals value.
func DataEquals(key string, value any) Predicate {
	return func(_ Context, s State) (bool, error) {
		return s.GetData(key, nil) == value, nil
	}
}

// DataGreaterThan matches when the numeric data value for key exceeds
// threshold. A missing or non-numeric value is an error (swallowed by
// the edge layer as "do not traverse").
func DataGreaterThan(key string, threshold float64) Predicate {
	return func(_ Context, s State) (bool, error) {
		v, err := numericData(s, key)
		if err != nil {
			return false, err
		}
		return v > threshold, nil
	}
}

// DataLessThan matches when the numeric data value for key is below
// threshold.
func DataLessThan(key string, threshold float64) Predicate {
	return func(_ Context, s State) (bool, error) {
		v, err := numericData(s, key)
		if err != nil {
			return false, err
		}
		return v < threshold, nil
	}
}

// HasNoErrors matches when the state carries no errors.
func HasNoErrors() Predicate {
	return func(_ Context, s State) (bool, error) {
		return !s.HasErrors(), nil
	}
}

// HasErrors matches when the state carries errors.
func HasErrors() Predicate {
	return func(_ Context, s State) (bool, error) {
		return s.HasErrors(), nil
	}
}

// numericData coerces a data value to float64.
func numericData(s State, key string) (float64, error) {
	v, ok := s.Data[key]
	if !ok {
		return 0, fmt.Errorf("data key %q not set", key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("data key %q is not numeric: %w", key, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("data key %q is not numeric (%T)", key, v)
	}
}

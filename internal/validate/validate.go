// Package validate enforces what is allowed into the value store: integers,
// finite-or-NaN floats, and the explicit nil marker. Infinite floats cannot
// be serialized faithfully by every export format, so they are rejected
// before they reach the buffers.
package validate

import (
	"fmt"
	"math"
)

// #region error

// Error is a fatal validation failure. The run must not silently store
// invalid telemetry, so callers abort the current step on it.
type Error struct {
	Value  any
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("value %v: %s", e.Value, e.Reason)
}

// #endregion error

// #region value

// Value validates a candidate before buffering. One-element arrays unwrap to
// their scalar; longer arrays pass through untouched. Scalars must be an
// integer, a non-infinite float, or nil. NaN passes: the checked predicate
// is specifically "not infinite", because empty-group means legitimately
// produce NaN.
func Value(v any) (any, error) {
	switch x := v.(type) {
	case []float64:
		if len(x) == 1 {
			return Scalar(x[0])
		}
		return x, nil
	case []int:
		if len(x) == 1 {
			return Scalar(x[0])
		}
		return x, nil
	case [][]float64:
		if len(x) == 1 {
			return Value(x[0])
		}
		return x, nil
	}
	return Scalar(v)
}

// Scalar checks a single already-unwrapped value.
func Scalar(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case int, int32, int64:
		return x, nil
	case float64:
		if math.IsInf(x, 0) {
			return nil, &Error{Value: x, Reason: "infinite float"}
		}
		return x, nil
	case float32:
		if math.IsInf(float64(x), 0) {
			return nil, &Error{Value: x, Reason: "infinite float"}
		}
		return x, nil
	}
	return nil, &Error{Value: v, Reason: fmt.Sprintf("type %T is not a numeric scalar", v)}
}

// #endregion value

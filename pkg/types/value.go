package types

import (
	"fmt"
	"math"
)

// Value is a runtime value: string, float64, bool or a homogeneous []any of Values.
type Value = any

// TypeOf derives the Type of v.
//
// An empty array carries no element type, so TypeOf fails with
// ErrIndeterminateType; callers must type such literals explicitly.
func TypeOf(v Value) (*Type, error) {
	switch val := v.(type) {
	case string:
		return String, nil
	case float64:
		return Number, nil
	case bool:
		return Boolean, nil
	case []any:
		var elem *Type
		for _, e := range val {
			et, err := TypeOf(e)
			if err != nil {
				if IsCode(err, ErrIndeterminateType) && isEmptyNested(e) {
					continue
				}
				return nil, err
			}
			if elem == nil {
				elem = et
				continue
			}
			if !et.Extends(elem) {
				return nil, Errorf(ErrTypeMismatch, "heterogeneous array: %s element among %s elements", et, elem)
			}
		}
		if elem == nil {
			return nil, NewError(ErrIndeterminateType, "cannot derive the type of an empty array")
		}
		// empty nested arrays must still fit the derived element type
		for _, e := range val {
			if !elem.IsAssignable(e) {
				return nil, Errorf(ErrTypeMismatch, "heterogeneous array: element %v is not %s", e, elem)
			}
		}
		return ArrayOf(elem), nil
	default:
		return nil, Errorf(ErrIndeterminateType, "value %v of Go type %T is not a string, number, boolean or array", v, v)
	}
}

// isEmptyNested reports whether v is an array holding nothing but (nested) empty arrays.
func isEmptyNested(v Value) bool {
	arr, ok := v.([]any)
	if !ok {
		return false
	}
	for _, e := range arr {
		if !isEmptyNested(e) {
			return false
		}
	}
	return true
}

// MustTypeOf is like TypeOf but panics on failure.
func MustTypeOf(v Value) *Type {
	t, err := TypeOf(v)
	if err != nil {
		panic(fmt.Sprintf("types: TypeOf(%v): %v", v, err))
	}
	return t
}

// Normalize converts a decoded Go value into canonical Value form.
//
// Integers and float32 become float64, typed slices become []any, and
// nested arrays are normalized recursively. Non-finite numbers and values
// outside the closed universe are rejected.
func Normalize(v any) (Value, error) {
	switch val := v.(type) {
	case string, bool:
		return val, nil
	case float64:
		return checkFinite(val)
	case float32:
		return checkFinite(float64(val))
	case int:
		return float64(val), nil
	case int8:
		return float64(val), nil
	case int16:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case uint8:
		return float64(val), nil
	case uint16:
		return float64(val), nil
	case uint32:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, nil
	case []float64:
		out := make([]any, len(val))
		for i, x := range val {
			f, err := checkFinite(x)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	case []int:
		out := make([]any, len(val))
		for i, x := range val {
			out[i] = float64(x)
		}
		return out, nil
	case []bool:
		out := make([]any, len(val))
		for i, b := range val {
			out[i] = b
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			n, err := Normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		if _, err := TypeOf(out); err != nil && !IsCode(err, ErrIndeterminateType) {
			return nil, err
		}
		return out, nil
	default:
		return nil, Errorf(ErrIndeterminateType, "value %v of Go type %T is not a string, number, boolean or array", v, v)
	}
}

func checkFinite(x float64) (Value, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, Errorf(ErrDomain, "non-finite number %v", x)
	}
	return x, nil
}

// CloneValue returns a deep copy of v; arrays are copied recursively.
func CloneValue(v Value) Value {
	arr, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]any, len(arr))
	for i, e := range arr {
		out[i] = CloneValue(e)
	}
	return out
}

// Equal reports whether two values are deeply equal.
func Equal(a, b Value) bool {
	aa, aok := a.([]any)
	ba, bok := b.([]any)
	if aok != bok {
		return false
	}
	if !aok {
		return a == b
	}
	if len(aa) != len(ba) {
		return false
	}
	for i := range aa {
		if !Equal(aa[i], ba[i]) {
			return false
		}
	}
	return true
}

// Package extarray provides array operations beyond the standard library.
//
// Every operation is overloaded for string[], number[] and boolean[].
package extarray

import (
	"math"

	"github.com/sandrolain/ddexpr/pkg/functions"
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

const (
	// maxRangeLength bounds arrays built by "range".
	maxRangeLength = 1 << 20
	// maxExactInteger is the largest magnitude below which every integer is a float64.
	maxExactInteger = 1 << 53
)

var elems = []*types.Type{types.String, types.Number, types.Boolean}

// All returns all extended array operations.
func All() []functions.Entry {
	return []functions.Entry{
		Take(),
		Skip(),
		Includes(),
		Distinct(),
		Flatten(),
		Chunk(),
		Range(),
	}
}

func count(name string, v types.Value) (int, error) {
	n := v.(float64)
	if n < 0 || n != math.Trunc(n) {
		return 0, types.Errorf(types.ErrDomain, "%s count %v is not a non-negative integer", name, n)
	}
	return int(math.Min(n, math.MaxInt32)), nil
}

func slicer(name string, cut func(arr []any, n int) []any) functions.BinaryDef {
	def := functions.BinaryDef{Name: name}
	for _, t := range elems {
		def.Overloads = append(def.Overloads, provider.NewBinary(t.Array(), types.Number, t.Array(), func(_ *provider.Context, l, r types.Value) (types.Value, error) {
			n, err := count(name, r)
			if err != nil {
				return nil, err
			}
			arr := l.([]any)
			n = min(n, len(arr))
			return append([]any{}, cut(arr, n)...), nil
		}))
	}
	return def
}

// Take returns the definition for "take" (array, n): the first n elements.
func Take() functions.BinaryDef {
	return slicer("take", func(arr []any, n int) []any { return arr[:n] })
}

// Skip returns the definition for "skip" (array, n): all but the first n elements.
func Skip() functions.BinaryDef {
	return slicer("skip", func(arr []any, n int) []any { return arr[n:] })
}

// Includes returns the definition for "includes" (array, element).
func Includes() functions.BinaryDef {
	def := functions.BinaryDef{Name: "includes"}
	for _, t := range elems {
		def.Overloads = append(def.Overloads, provider.NewBinary(t.Array(), t, types.Boolean, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
			for _, e := range l.([]any) {
				if e == r {
					return true, nil
				}
			}
			return false, nil
		}))
	}
	return def
}

// Distinct returns the definition for "distinct": the array without repeated
// elements, keeping first occurrences.
func Distinct() functions.UnaryDef {
	def := functions.UnaryDef{Name: "distinct"}
	for _, t := range elems {
		def.Overloads = append(def.Overloads, provider.NewUnary(t.Array(), t.Array(), func(_ *provider.Context, v types.Value) (types.Value, error) {
			arr := v.([]any)
			seen := make(map[any]struct{}, len(arr))
			out := make([]any, 0, len(arr))
			for _, e := range arr {
				if _, ok := seen[e]; ok {
					continue
				}
				seen[e] = struct{}{}
				out = append(out, e)
			}
			return out, nil
		}))
	}
	return def
}

// Flatten returns the definition for "flatten", which concatenates an array of arrays.
func Flatten() functions.UnaryDef {
	def := functions.UnaryDef{Name: "flatten"}
	for _, t := range elems {
		def.Overloads = append(def.Overloads, provider.NewUnary(t.Array().Array(), t.Array(), func(_ *provider.Context, v types.Value) (types.Value, error) {
			var out []any
			for _, inner := range v.([]any) {
				out = append(out, inner.([]any)...)
			}
			if out == nil {
				out = []any{}
			}
			return out, nil
		}))
	}
	return def
}

// Chunk returns the definition for "chunk" (array, size), which splits an
// array into consecutive groups of size elements; the last may be shorter.
func Chunk() functions.BinaryDef {
	def := functions.BinaryDef{Name: "chunk"}
	for _, t := range elems {
		def.Overloads = append(def.Overloads, provider.NewBinary(t.Array(), types.Number, t.Array().Array(), func(_ *provider.Context, l, r types.Value) (types.Value, error) {
			size, err := count("chunk", r)
			if err != nil {
				return nil, err
			}
			if size == 0 {
				return nil, types.NewError(types.ErrDomain, "chunk size must be positive")
			}
			arr := l.([]any)
			out := make([]any, 0, (len(arr)+size-1)/size)
			for i := 0; i < len(arr); i += size {
				out = append(out, append([]any{}, arr[i:min(i+size, len(arr))]...))
			}
			return out, nil
		}))
	}
	return def
}

// Range returns the definition for "range" (start, end): the integers from
// start up to but excluding end.
func Range() functions.BinaryDef {
	return functions.BinaryDef{
		Name: "range",
		Overloads: []*provider.Binary{
			provider.NewBinary(types.Number, types.Number, types.NumberArray, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
				start, end := l.(float64), r.(float64)
				for _, bound := range []float64{start, end} {
					if bound != math.Trunc(bound) || math.Abs(bound) > maxExactInteger {
						return nil, types.Errorf(types.ErrDomain, "range bound %v is not an exact integer", bound)
					}
				}
				if end-start > maxRangeLength {
					return nil, types.Errorf(types.ErrRange, "range of %v elements exceeds %d", end-start, maxRangeLength)
				}
				n := int(math.Max(end-start, 0))
				out := make([]any, n)
				for i := range out {
					out[i] = start + float64(i)
				}
				return out, nil
			}),
		},
	}
}

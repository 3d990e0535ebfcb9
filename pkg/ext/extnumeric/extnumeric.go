// Package extnumeric provides numeric and statistical operations beyond the
// standard library.
//
// Aggregates take a number[]; an empty array has no mean, median or spread
// and fails with a domain error.
package extnumeric

import (
	"math"
	"sort"

	"github.com/sandrolain/ddexpr/pkg/functions"
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// All returns all extended numeric operations.
func All() []functions.Entry {
	return []functions.Entry{
		Pi(),
		E(),
		Trunc(),
		Clamp(),
		Atan2(),
		Sum(),
		Min(),
		Max(),
		Mean(),
		Median(),
		Variance(),
		Stddev(),
		Percentile(),
	}
}

func constant(name string, x float64) functions.NullaryDef {
	return functions.NullaryDef{
		Name:       name,
		ReturnType: types.Number,
		Fn: func(*provider.Context) (types.Value, error) {
			return x, nil
		},
	}
}

// Pi returns the definition for "pi".
func Pi() functions.NullaryDef { return constant("pi", math.Pi) }

// E returns the definition for "e".
func E() functions.NullaryDef { return constant("e", math.E) }

// Trunc returns the definition for "trunc", which truncates toward zero.
func Trunc() functions.UnaryDef {
	return functions.UnaryDef{
		Name: "trunc",
		Overloads: []*provider.Unary{
			provider.NewUnary(types.Number, types.Number, func(_ *provider.Context, v types.Value) (types.Value, error) {
				return math.Trunc(v.(float64)), nil
			}),
		},
	}
}

// Clamp returns the definition for "clamp" (n, min, max).
func Clamp() functions.TernaryDef {
	return functions.TernaryDef{
		Name: "clamp",
		Overloads: []*provider.Ternary{
			provider.NewTernary(types.Number, types.Number, types.Number, types.Number, func(_ *provider.Context, a, b, c types.Value) (types.Value, error) {
				n, lo, hi := a.(float64), b.(float64), c.(float64)
				if lo > hi {
					return nil, types.Errorf(types.ErrDomain, "clamp bounds %v > %v", lo, hi)
				}
				return math.Min(math.Max(n, lo), hi), nil
			}),
		},
	}
}

// Atan2 returns the definition for "atan2" (y, x).
func Atan2() functions.BinaryDef {
	return functions.BinaryDef{
		Name: "atan2",
		Overloads: []*provider.Binary{
			provider.NewBinary(types.Number, types.Number, types.Number, func(_ *provider.Context, y, x types.Value) (types.Value, error) {
				return math.Atan2(y.(float64), x.(float64)), nil
			}),
		},
	}
}

func aggregate(name string, fn func(nums []float64) float64) functions.UnaryDef {
	return functions.UnaryDef{
		Name: name,
		Overloads: []*provider.Unary{
			provider.NewUnary(types.NumberArray, types.Number, func(_ *provider.Context, v types.Value) (types.Value, error) {
				nums, err := floats(name, v)
				if err != nil {
					return nil, err
				}
				return finite(name, fn(nums))
			}),
		},
	}
}

// Sum returns the definition for "sum". The sum of no numbers is 0.
func Sum() functions.UnaryDef {
	return functions.UnaryDef{
		Name: "sum",
		Overloads: []*provider.Unary{
			provider.NewUnary(types.NumberArray, types.Number, func(_ *provider.Context, v types.Value) (types.Value, error) {
				var sum float64
				for _, e := range v.([]any) {
					sum += e.(float64)
				}
				return finite("sum", sum)
			}),
		},
	}
}

// Min returns the definition for "min".
func Min() functions.UnaryDef {
	return aggregate("min", func(nums []float64) float64 {
		return sorted(nums)[0]
	})
}

// Max returns the definition for "max".
func Max() functions.UnaryDef {
	return aggregate("max", func(nums []float64) float64 {
		s := sorted(nums)
		return s[len(s)-1]
	})
}

// Mean returns the definition for "mean".
func Mean() functions.UnaryDef {
	return aggregate("mean", mean)
}

// Median returns the definition for "median".
func Median() functions.UnaryDef {
	return aggregate("median", func(nums []float64) float64 {
		s := sorted(nums)
		mid := len(s) / 2
		if len(s)%2 == 0 {
			return (s[mid-1] + s[mid]) / 2
		}
		return s[mid]
	})
}

// Variance returns the definition for "variance" (population variance).
func Variance() functions.UnaryDef {
	return aggregate("variance", variance)
}

// Stddev returns the definition for "stddev" (population standard deviation).
func Stddev() functions.UnaryDef {
	return aggregate("stddev", func(nums []float64) float64 {
		return math.Sqrt(variance(nums))
	})
}

// Percentile returns the definition for "percentile" (numbers, p) with p in [0, 100],
// interpolating linearly between closest ranks.
func Percentile() functions.BinaryDef {
	return functions.BinaryDef{
		Name: "percentile",
		Overloads: []*provider.Binary{
			provider.NewBinary(types.NumberArray, types.Number, types.Number, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
				nums, err := floats("percentile", l)
				if err != nil {
					return nil, err
				}
				p := r.(float64)
				if p < 0 || p > 100 {
					return nil, types.Errorf(types.ErrDomain, "percentile %v is outside [0, 100]", p)
				}
				s := sorted(nums)
				idx := p / 100 * float64(len(s)-1)
				lo, hi := int(math.Floor(idx)), int(math.Ceil(idx))
				frac := idx - float64(lo)
				return s[lo]*(1-frac) + s[hi]*frac, nil
			}),
		},
	}
}

func floats(name string, v types.Value) ([]float64, error) {
	arr := v.([]any)
	if len(arr) == 0 {
		return nil, types.Errorf(types.ErrDomain, "%s of an empty array", name)
	}
	nums := make([]float64, len(arr))
	for i, e := range arr {
		nums[i] = e.(float64)
	}
	return nums, nil
}

func sorted(nums []float64) []float64 {
	s := append([]float64(nil), nums...)
	sort.Float64s(s)
	return s
}

func mean(nums []float64) float64 {
	var sum float64
	for _, n := range nums {
		sum += n
	}
	return sum / float64(len(nums))
}

func variance(nums []float64) float64 {
	m := mean(nums)
	var sq float64
	for _, n := range nums {
		d := n - m
		sq += d * d
	}
	return sq / float64(len(nums))
}

func finite(name string, x float64) (types.Value, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, types.Errorf(types.ErrDomain, "%s overflows to %v", name, x)
	}
	return x, nil
}

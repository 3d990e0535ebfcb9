package functions

import (
	"math"

	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

func registerNumeric(c *catalog) {
	c.unary("negate",
		provider.NewUnary(types.Boolean, types.Boolean, func(_ *provider.Context, b types.Value) (types.Value, error) {
			return !boolean(b), nil
		}),
		numeric("negate", func(x float64) (float64, error) { return -x, nil }),
	)
	c.unary("invert", numeric("invert", func(x float64) (float64, error) {
		if x == 0 {
			return 0, types.Errorf(types.ErrDomain, "cannot take multiplicative inverse of %v", x)
		}
		return 1 / x, nil
	}))
	c.unary("abs", numeric("abs", total(math.Abs)))

	signum := numeric("signum", total(sign))
	c.unary("signum", signum)
	c.unary("sign", signum)

	// exponents and logarithms
	c.unary("square", numeric("square", total(func(x float64) float64 { return x * x })))
	c.unary("sqrt", numeric("sqrt", func(x float64) (float64, error) {
		if x < 0 {
			return 0, types.Errorf(types.ErrDomain, "cannot take square root of %v", x)
		}
		return math.Sqrt(x), nil
	}))
	c.unary("cube", numeric("cube", total(func(x float64) float64 { return x * x * x })))
	c.unary("cube root", numeric("cube root", func(x float64) (float64, error) {
		if x < 0 {
			return 0, types.Errorf(types.ErrDomain, "cannot take cube root of %v", x)
		}
		return math.Cbrt(x), nil
	}))
	c.unary("exp", numeric("exp", total(math.Exp)))
	c.unary("exp2", numeric("exp2", total(math.Exp2)))
	c.unary("exp10", numeric("exp10", total(func(x float64) float64 { return math.Pow(10, x) })))
	c.unary("log", numeric("log", positive("log", math.Log)))
	c.unary("log2", numeric("log2", positive("log2", math.Log2)))
	c.unary("log10", numeric("log10", positive("log10", math.Log10)))

	// rounding
	c.unary("round", numeric("round", total(roundHalfUp)))
	c.unary("floor", numeric("floor", total(math.Floor)))
	c.unary("ceil", numeric("ceil", total(math.Ceil)))

	// angles and trigonometry
	c.unary("cos", numeric("cos", total(math.Cos)))
	c.unary("sin", numeric("sin", total(math.Sin)))
	c.unary("tan", numeric("tan", total(math.Tan)))
	c.unary("deg to rad", numeric("deg to rad", total(func(x float64) float64 { return x / 180 * math.Pi })))
	c.unary("rad to deg", numeric("rad to deg", total(func(x float64) float64 { return x / math.Pi * 180 })))
}

// numeric builds a number to number provider that rejects non-finite results.
func numeric(name string, fn func(x float64) (float64, error)) *provider.Unary {
	return provider.NewUnary(types.Number, types.Number, func(_ *provider.Context, v types.Value) (types.Value, error) {
		x, err := fn(num(v))
		if err != nil {
			return nil, err
		}
		return finite(name, x)
	})
}

func total(fn func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) { return fn(x), nil }
}

// positive guards fn against arguments <= 0.
func positive(name string, fn func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) {
		if x <= 0 {
			return 0, types.Errorf(types.ErrDomain, "cannot take %s of %v", name, x)
		}
		return fn(x), nil
	}
}

func finite(name string, x float64) (types.Value, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, types.Errorf(types.ErrDomain, "%s produced non-finite number %v", name, x)
	}
	return x, nil
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// roundHalfUp rounds to the nearest integer, halves towards +Inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func isInteger(x float64) bool {
	return x == math.Trunc(x)
}

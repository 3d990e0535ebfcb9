package functions

import (
	"math"
	"strings"

	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// maxStringLength bounds strings built by repetition.
const maxStringLength = 1 << 24

func registerArithmetic(c *catalog) {
	c.binary("add",
		provider.NewBinary(types.String, types.String, types.String, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
			return str(l) + str(r), nil
		}),
		arithmetic("add", true, func(x, y float64) (float64, error) { return x + y, nil }),
		provider.NewCommutative(types.Boolean, types.Boolean, types.Boolean, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
			return boolean(l) || boolean(r), nil
		}),
		provider.NewCommutative(types.Boolean, types.Number, types.Number, unlessNumber),
		provider.NewCommutative(types.Boolean, types.String, types.String, unlessString),
	)
	c.binary("sub",
		arithmetic("sub", false, func(x, y float64) (float64, error) { return x - y, nil }),
		provider.NewBinary(types.Boolean, types.Boolean, types.Boolean, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
			return boolean(l) && !boolean(r), nil
		}),
	)
	c.binary("mul",
		arithmetic("mul", true, func(x, y float64) (float64, error) { return x * y, nil }),
		provider.NewCommutative(types.Boolean, types.Boolean, types.Boolean, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
			return boolean(l) && boolean(r), nil
		}),
		provider.NewCommutative(types.Boolean, types.Number, types.Number, whenNumber),
		provider.NewCommutative(types.Boolean, types.String, types.String, whenString),
		provider.NewCommutative(types.String, types.Number, types.String, fnRepeat),
	)
	c.binary("div",
		arithmetic("div", false, func(x, y float64) (float64, error) {
			if y == 0 {
				return 0, types.Errorf(types.ErrDomain, "cannot divide %v by zero", x)
			}
			return x / y, nil
		}),
		provider.NewBinary(types.String, types.Number, types.String, fnShorten),
	)
	c.binary("mod",
		arithmetic("mod", false, func(x, y float64) (float64, error) {
			if y == 0 {
				return 0, types.Errorf(types.ErrDomain, "cannot take %v modulo zero", x)
			}
			return math.Mod(x, y), nil
		}),
	)
}

// arithmetic builds a number × number provider that rejects non-finite results.
func arithmetic(name string, commutative bool, fn func(x, y float64) (float64, error)) *provider.Binary {
	impl := func(_ *provider.Context, l, r types.Value) (types.Value, error) {
		x, err := fn(num(l), num(r))
		if err != nil {
			return nil, err
		}
		return finite(name, x)
	}
	if commutative {
		return provider.NewCommutative(types.Number, types.Number, types.Number, impl)
	}
	return provider.NewBinary(types.Number, types.Number, types.Number, impl)
}

// whenNumber yields x if b holds, else 0.
func whenNumber(_ *provider.Context, b, x types.Value) (types.Value, error) {
	if boolean(b) {
		return x, nil
	}
	return 0.0, nil
}

// unlessNumber yields 0 if b holds, else x.
func unlessNumber(_ *provider.Context, b, x types.Value) (types.Value, error) {
	if boolean(b) {
		return 0.0, nil
	}
	return x, nil
}

// whenString yields s if b holds, else "".
func whenString(_ *provider.Context, b, s types.Value) (types.Value, error) {
	if boolean(b) {
		return s, nil
	}
	return "", nil
}

// unlessString yields "" if b holds, else s.
func unlessString(_ *provider.Context, b, s types.Value) (types.Value, error) {
	if boolean(b) {
		return "", nil
	}
	return s, nil
}

// fnRepeat repeats s x times; a fractional x appends the matching share of s.
func fnRepeat(_ *provider.Context, s, x types.Value) (types.Value, error) {
	rs := runes(s)
	times := num(x)
	if times < 0 {
		return nil, types.Errorf(types.ErrDomain, "cannot repeat a string %v times", times)
	}
	if len(rs) == 0 {
		return "", nil
	}
	whole := math.Floor(times)
	if whole*float64(len(rs)) > maxStringLength {
		return nil, types.Errorf(types.ErrRange, "repeating a string of length %d %v times exceeds %d characters", len(rs), whole, maxStringLength)
	}
	part := int(roundHalfUp((times - whole) * float64(len(rs))))
	return strings.Repeat(string(rs), int(whole)) + string(rs[:part]), nil
}

// fnShorten keeps the leading 1/x share of s.
func fnShorten(_ *provider.Context, s, x types.Value) (types.Value, error) {
	rs := runes(s)
	divisor := num(x)
	if divisor <= 0 {
		return nil, types.Errorf(types.ErrDomain, "cannot divide a string by %v", divisor)
	}
	n := roundHalfUp(float64(len(rs)) / divisor)
	if n > float64(len(rs)) {
		n = float64(len(rs))
	}
	return string(rs[:int(n)]), nil
}

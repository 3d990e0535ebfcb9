package functions

import (
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// maxBitwiseOperand is the largest magnitude float64 represents exactly as an integer.
const maxBitwiseOperand = 1 << 53

func registerLogic(c *catalog) {
	c.binary("or",
		logical(func(a, b bool) bool { return a || b }),
		provider.NewCommutative(types.Boolean, types.Number, types.Number, unlessNumber),
		provider.NewCommutative(types.Boolean, types.String, types.String, unlessString),
	)
	c.binary("and",
		logical(func(a, b bool) bool { return a && b }),
		provider.NewCommutative(types.Boolean, types.Number, types.Number, whenNumber),
		provider.NewCommutative(types.Boolean, types.String, types.String, whenString),
	)
	c.binary("xor", logical(func(a, b bool) bool { return a != b }))
	c.binary("nand", logical(func(a, b bool) bool { return !(a && b) }))
	c.binary("nor", logical(func(a, b bool) bool { return !(a || b) }))
	c.binary("xnor", logical(func(a, b bool) bool { return a == b }))

	c.binary("bitwise or", bitwise("bitwise or", func(x, y int64) int64 { return x | y }))
	c.binary("bitwise and", bitwise("bitwise and", func(x, y int64) int64 { return x & y }))
	c.binary("bitwise xor", bitwise("bitwise xor", func(x, y int64) int64 { return x ^ y }))
}

func logical(fn func(a, b bool) bool) *provider.Binary {
	return provider.NewCommutative(types.Boolean, types.Boolean, types.Boolean, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
		return fn(boolean(l), boolean(r)), nil
	})
}

// bitwise applies fn to integer operands; fractional or oversized operands fail with ErrDomain.
func bitwise(name string, fn func(x, y int64) int64) *provider.Binary {
	return provider.NewCommutative(types.Number, types.Number, types.Number, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
		x, y := num(l), num(r)
		for _, operand := range []float64{x, y} {
			if !isInteger(operand) || operand > maxBitwiseOperand || operand < -maxBitwiseOperand {
				return nil, types.Errorf(types.ErrDomain, "%s needs integer operands, got %v", name, operand)
			}
		}
		return float64(fn(int64(x), int64(y))), nil
	})
}

package functions

import (
	"cmp"

	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

func registerCompare(c *catalog) {
	c.binary("less than or equal", ordered(func(n int) bool { return n <= 0 })...)
	c.binary("less than", ordered(func(n int) bool { return n < 0 })...)
	c.binary("equals", equality(func(n int) bool { return n == 0 })...)
	c.binary("not equals", equality(func(n int) bool { return n != 0 })...)
	c.binary("greater than", ordered(func(n int) bool { return n > 0 })...)
	c.binary("greater than or equal", ordered(func(n int) bool { return n >= 0 })...)
}

// ordered builds the number and string overloads of an ordering comparison.
func ordered(accept func(int) bool) []*provider.Binary {
	return []*provider.Binary{
		provider.NewBinary(types.Number, types.Number, types.Boolean, compareNumbers(accept)),
		provider.NewBinary(types.String, types.String, types.Boolean, compareStrings(accept)),
	}
}

// equality builds the commutative number, string and boolean overloads of an equality test.
func equality(accept func(int) bool) []*provider.Binary {
	return []*provider.Binary{
		provider.NewCommutative(types.Number, types.Number, types.Boolean, compareNumbers(accept)),
		provider.NewCommutative(types.String, types.String, types.Boolean, compareStrings(accept)),
		provider.NewCommutative(types.Boolean, types.Boolean, types.Boolean, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
			return accept(cmp.Compare(boolRank(l), boolRank(r))), nil
		}),
	}
}

func compareNumbers(accept func(int) bool) provider.BinaryFunc {
	return func(_ *provider.Context, l, r types.Value) (types.Value, error) {
		return accept(cmp.Compare(num(l), num(r))), nil
	}
}

// compareStrings orders strings with the collation rules of the context language.
func compareStrings(accept func(int) bool) provider.BinaryFunc {
	return func(ctx *provider.Context, l, r types.Value) (types.Value, error) {
		return accept(ctx.Collator().CompareString(str(l), str(r))), nil
	}
}

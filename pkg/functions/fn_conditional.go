package functions

import (
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

func registerConditional(c *catalog) {
	var overloads []*provider.Ternary
	for _, t := range []*types.Type{
		types.String, types.Number, types.Boolean,
		types.StringArray, types.NumberArray, types.BooleanArray,
	} {
		overloads = append(overloads, provider.NewTernary(types.Boolean, t, t, t, fnConditional))
	}
	c.ternary("conditional", overloads...)
}

func fnConditional(_ *provider.Context, cond, ifTrue, ifFalse types.Value) (types.Value, error) {
	if boolean(cond) {
		return ifTrue, nil
	}
	return ifFalse, nil
}

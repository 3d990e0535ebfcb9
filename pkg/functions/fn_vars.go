package functions

import (
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

func registerVariables(c *catalog) {
	for _, t := range []*types.Type{
		types.String, types.Number, types.Boolean,
		types.StringArray, types.NumberArray, types.BooleanArray,
	} {
		c.unary(VariableOp(t), provider.NewUnary(types.String, t, lookup(t)))
	}
}

// VariableOp returns the name of the lookup operation for variables of type t,
// such as "number variable" or "string array variable".
func VariableOp(t *types.Type) string {
	elem := t.Elem()
	if elem == nil {
		return t.Name() + " variable"
	}
	return elem.Name() + " array variable"
}

func lookup(t *types.Type) provider.UnaryFunc {
	return func(ctx *provider.Context, name types.Value) (types.Value, error) {
		v, err := ctx.Get(t, str(name))
		if err != nil {
			return nil, err
		}
		return types.CloneValue(v), nil
	}
}

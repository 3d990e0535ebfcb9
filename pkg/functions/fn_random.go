package functions

import (
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

func registerRandom(c *catalog) {
	c.nullary("random number", types.Number, func(ctx *provider.Context) (types.Value, error) {
		return ctx.Float64(), nil
	})
	c.nullary("random boolean", types.Boolean, func(ctx *provider.Context) (types.Value, error) {
		return ctx.Float64() <= .5, nil
	})

	c.unary("pick",
		provider.NewUnary(types.StringArray, types.String, fnPick),
		provider.NewUnary(types.BooleanArray, types.Boolean, fnPick),
		provider.NewUnary(types.NumberArray, types.Number, fnPick),
	)

	var shuffle []*provider.Unary
	for _, t := range []*types.Type{types.StringArray, types.NumberArray, types.BooleanArray} {
		shuffle = append(shuffle, provider.NewUnary(t, t, fnShuffle))
	}
	c.unary("shuffle", shuffle...)

	var pickN, pickNReturned []*provider.Binary
	for _, t := range pickSources() {
		pickN = append(pickN, provider.NewBinary(t, types.Number, t, fnPickN))
		pickNReturned = append(pickNReturned, provider.NewBinary(t, types.Number, t, fnPickNReturned))
	}
	c.binary("pick n", pickN...)
	c.binary("pick n returned", pickNReturned...)
}

// pickSources lists the array types n-picks draw from, flat arrays first.
func pickSources() []*types.Type {
	out := make([]*types.Type, 0, 2*len(primitives))
	for _, t := range primitives {
		out = append(out, t.Array())
	}
	for _, t := range primitives {
		out = append(out, t.Array().Array())
	}
	return out
}

func fnPick(ctx *provider.Context, v types.Value) (types.Value, error) {
	arr := array(v)
	if len(arr) == 0 {
		return nil, types.NewError(types.ErrDomain, "cannot pick from empty array")
	}
	return arr[ctx.Intn(len(arr))], nil
}

func fnShuffle(ctx *provider.Context, v types.Value) (types.Value, error) {
	out := copyArray(v)
	ctx.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

// fnPickN draws n distinct elements; n larger than the source yields all of them.
func fnPickN(ctx *provider.Context, v, n types.Value) (types.Value, error) {
	count, err := pickCount(v, n)
	if err != nil {
		return nil, err
	}
	out, _ := fnShuffle(ctx, v)
	shuffled := out.([]any)
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count], nil
}

// fnPickNReturned draws n elements with replacement.
func fnPickNReturned(ctx *provider.Context, v, n types.Value) (types.Value, error) {
	count, err := pickCount(v, n)
	if err != nil {
		return nil, err
	}
	arr := array(v)
	out := make([]any, count)
	for i := range out {
		out[i] = types.CloneValue(arr[ctx.Intn(len(arr))])
	}
	return out, nil
}

const maxPickCount = 1 << 20

func pickCount(v, n types.Value) (int, error) {
	if len(array(v)) == 0 {
		return 0, types.NewError(types.ErrDomain, "cannot pick from empty array")
	}
	x := num(n)
	if x < 0 || !isInteger(x) {
		return 0, types.Errorf(types.ErrDomain, "cannot pick %v elements; count must be a non-negative integer", x)
	}
	if x > maxPickCount {
		return 0, types.Errorf(types.ErrRange, "cannot pick %v elements; at most %d allowed", x, maxPickCount)
	}
	return int(x), nil
}

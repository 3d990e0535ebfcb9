package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/ddexpr/pkg/types"
)

var (
	double = NewUnary(types.Number, types.Number, func(_ *Context, x types.Value) (types.Value, error) {
		return x.(float64) * 2, nil
	})
	length = NewUnary(types.String, types.Number, func(_ *Context, s types.Value) (types.Value, error) {
		return float64(len(s.(string))), nil
	})
	minus = NewBinary(types.Number, types.Number, types.Number, func(_ *Context, l, r types.Value) (types.Value, error) {
		return l.(float64) - r.(float64), nil
	})
	pick = NewTernary(types.Boolean, types.String, types.String, types.String, func(_ *Context, a, b, c types.Value) (types.Value, error) {
		if a.(bool) {
			return b, nil
		}
		return c, nil
	})
)

func mustLiteral(t *testing.T, v types.Value) *Nullary {
	t.Helper()
	p, err := Literal(v)
	require.NoError(t, err)
	return p
}

func TestLiteral(t *testing.T) {
	ctx := NewContext()
	for _, v := range []types.Value{"x", 2.5, true, []any{"a", "b"}, []any{[]any{1.0}, []any{}}} {
		p := mustLiteral(t, v)
		got, err := p.Apply(ctx)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, 0, p.Arity())
		assert.Empty(t, p.ArgTypes())
	}

	_, err := Literal([]any{})
	assert.True(t, types.IsCode(err, types.ErrIndeterminateType))

	typed, err := LiteralOf([]any{}, types.StringArray)
	require.NoError(t, err)
	assert.Same(t, types.StringArray, typed.ReturnType())

	_, err = LiteralOf("x", types.Number)
	assert.True(t, types.IsCode(err, types.ErrTypeMismatch))
}

func TestLiteralReturnsIndependentArrays(t *testing.T) {
	p := mustLiteral(t, []any{"a"})
	first, err := p.Apply(NewContext())
	require.NoError(t, err)
	first.([]any)[0] = "z"
	second, err := p.Apply(NewContext())
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, second)
}

func TestNullaryChains(t *testing.T) {
	ctx := NewContext()
	three := mustLiteral(t, 3.0)

	doubled, err := three.Chain(double)
	require.NoError(t, err)
	v, err := doubled.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	fromThree, err := three.ChainLHS(minus)
	require.NoError(t, err)
	assert.Equal(t, []*types.Type{types.Number}, fromThree.ArgTypes())
	v, err = fromThree.Apply(ctx, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	minusThree, err := three.ChainRHS(minus)
	require.NoError(t, err)
	v, err = minusThree.Apply(ctx, 10.0)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	_, err = mustLiteral(t, "s").Chain(double)
	assert.True(t, types.IsCode(err, types.ErrTypeMismatch))
	_, err = mustLiteral(t, "s").ChainLHS(minus)
	assert.True(t, types.IsCode(err, types.ErrTypeMismatch))
}

func TestUnaryChains(t *testing.T) {
	ctx := NewContext()

	lengthTwice, err := length.Chain(double)
	require.NoError(t, err)
	v, err := lengthTwice.Apply(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
	assert.Same(t, types.String, lengthTwice.ArgType())

	lenMinus, err := length.ChainLHS(minus)
	require.NoError(t, err)
	assert.Equal(t, []*types.Type{types.String, types.Number}, lenMinus.ArgTypes())
	v, err = lenMinus.Apply(ctx, "abcd", 1.0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	minusLen, err := length.ChainRHS(minus)
	require.NoError(t, err)
	assert.Equal(t, []*types.Type{types.Number, types.String}, minusLen.ArgTypes())
	v, err = minusLen.Apply(ctx, 10.0, "ab")
	require.NoError(t, err)
	assert.Equal(t, 8.0, v)

	_, err = double.Chain(length)
	assert.True(t, types.IsCode(err, types.ErrTypeMismatch))
}

func TestBinaryAndTernaryChains(t *testing.T) {
	ctx := NewContext()

	minusDoubled, err := minus.Chain(double)
	require.NoError(t, err)
	v, err := minusDoubled.Apply(ctx, 5.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	pickLength, err := pick.Chain(length)
	require.NoError(t, err)
	v, err = pickLength.Apply(ctx, false, "a", "bcd")
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
	assert.Equal(t, 3, pickLength.Arity())

	composed, err := ChainTernary(mustLiteral(t, true), mustLiteral(t, "yes"), mustLiteral(t, "no"), pick)
	require.NoError(t, err)
	v, err = composed.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, "yes", v)

	_, err = ChainTernary(mustLiteral(t, 1.0), mustLiteral(t, "yes"), mustLiteral(t, "no"), pick)
	assert.True(t, types.IsCode(err, types.ErrTypeMismatch))
}

func TestChainPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := NewNullary(types.Number, func(*Context) (types.Value, error) { return nil, boom })
	chained, err := failing.Chain(double)
	require.NoError(t, err)
	_, err = chained.Apply(NewContext())
	assert.ErrorIs(t, err, boom)
}

func TestExpression(t *testing.T) {
	node := &types.Node{Type: types.NodeLiteral, Value: 7.0}
	expr := NewExpression(mustLiteral(t, 7.0), node)
	v, err := expr.Apply(NewContext())
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
	assert.Same(t, types.Number, expr.ReturnType())
	assert.Equal(t, "7", expr.String())
	assert.Same(t, node, expr.Node())
}

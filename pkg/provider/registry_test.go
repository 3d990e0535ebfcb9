package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/ddexpr/pkg/types"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterNullary("zero", mustLiteral(t, 0.0)))
	require.NoError(t, r.RegisterUnary("double", NewUnaryCollection("double", double)))
	require.NoError(t, r.RegisterBinary("minus", NewBinaryCollection("minus", minus)))
	require.NoError(t, r.RegisterTernary("pick", NewTernaryCollection("pick", pick)))

	err := r.RegisterUnary("double", NewUnaryCollection("double", double))
	assert.True(t, types.IsCode(err, types.ErrDuplicateOperation))

	// names are per arity
	require.NoError(t, r.RegisterBinary("double", NewBinaryCollection("double", minus)))

	_, ok := r.Unary("double")
	assert.True(t, ok)
	_, ok = r.Unary("minus")
	assert.False(t, ok)
	_, ok = r.Nullary("zero")
	assert.True(t, ok)
	_, ok = r.Ternary("pick")
	assert.True(t, ok)

	assert.Equal(t, []string{"double", "minus"}, r.Names(2))
	assert.Empty(t, r.Names(4))
}

func TestRegistryFreezeAndClone(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterUnary("double", NewUnaryCollection("double", double)))
	r.Freeze()
	assert.True(t, r.Frozen())

	err := r.RegisterUnary("length", NewUnaryCollection("length", length))
	assert.True(t, types.IsCode(err, types.ErrDuplicateOperation))

	ext := r.Clone()
	assert.False(t, ext.Frozen())
	require.NoError(t, ext.RegisterUnary("length", NewUnaryCollection("length", length)))

	_, ok := r.Unary("length")
	assert.False(t, ok)
	_, ok = ext.Unary("double")
	assert.True(t, ok)
}

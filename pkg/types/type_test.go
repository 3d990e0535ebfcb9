package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtends(t *testing.T) {
	all := []*Type{String, Number, Boolean, StringArray, NumberArray, BooleanArray, StringArrayArray, NumberArrayArray}
	for _, typ := range all {
		assert.True(t, typ.Extends(typ), "%s must extend itself", typ)
	}

	testCases := []struct {
		description string
		from, to    *Type
		expect      bool
	}{
		{description: "string to number", from: String, to: Number},
		{description: "number to boolean", from: Number, to: Boolean},
		{description: "array to element", from: NumberArray, to: Number},
		{description: "element to array", from: Number, to: NumberArray},
		{description: "covariant arrays", from: ArrayOf(String), to: StringArray, expect: true},
		{description: "distinct element arrays", from: StringArray, to: NumberArray},
		{description: "nested arrays", from: ArrayOf(ArrayOf(Boolean)), to: BooleanArrayArray, expect: true},
		{description: "nesting depth differs", from: BooleanArrayArray, to: BooleanArray},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, testCase.from.Extends(testCase.to), testCase.description)
	}
}

func TestExtendsIsStructural(t *testing.T) {
	detached := &Type{kind: KindArray, elem: Number, name: "number[]"}
	assert.True(t, detached.Extends(NumberArray))
	assert.True(t, NumberArray.Extends(detached))
}

func TestArrayOfCachesAndNames(t *testing.T) {
	assert.Same(t, ArrayOf(Number), ArrayOf(Number))
	assert.Same(t, NumberArrayArray, Number.Array().Array())
	assert.Equal(t, "string[][]", StringArrayArray.Name())
	assert.Equal(t, KindArray, StringArrayArray.Kind())
	assert.Same(t, StringArray, StringArrayArray.Elem())
}

func TestIsAssignable(t *testing.T) {
	assert.True(t, String.IsAssignable("x"))
	assert.False(t, String.IsAssignable(1.0))
	assert.True(t, Number.IsAssignable(1.5))
	assert.False(t, Number.IsAssignable(1))
	assert.True(t, Boolean.IsAssignable(false))
	assert.True(t, NumberArray.IsAssignable([]any{}))
	assert.True(t, NumberArray.IsAssignable([]any{1.0, 2.0}))
	assert.False(t, NumberArray.IsAssignable([]any{1.0, "2"}))
	assert.True(t, StringArrayArray.IsAssignable([]any{[]any{"a"}, []any{}}))
	assert.False(t, StringArray.IsAssignable([]string{"a"}))
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("number[][]")
	require.NoError(t, err)
	assert.Same(t, NumberArrayArray, typ)

	typ, err = ParseType(" boolean ")
	require.NoError(t, err)
	assert.Same(t, Boolean, typ)

	_, err = ParseType("object")
	assert.True(t, IsCode(err, ErrMalformedNode))
}

package types

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOf(t *testing.T) {
	testCases := []struct {
		description string
		value       Value
		expect      *Type
		code        ErrorCode
	}{
		{description: "string", value: "a", expect: String},
		{description: "number", value: 4.0, expect: Number},
		{description: "boolean", value: true, expect: Boolean},
		{description: "string array", value: []any{"a", "b"}, expect: StringArray},
		{description: "nested array", value: []any{[]any{1.0}, []any{2.0, 3.0}}, expect: NumberArrayArray},
		{description: "nested array with empty sibling", value: []any{[]any{}, []any{true}}, expect: BooleanArrayArray},
		{description: "empty array", value: []any{}, code: ErrIndeterminateType},
		{description: "only empty nested arrays", value: []any{[]any{}}, code: ErrIndeterminateType},
		{description: "heterogeneous", value: []any{"a", 1.0}, code: ErrTypeMismatch},
		{description: "empty array among scalars", value: []any{1.0, []any{}}, code: ErrTypeMismatch},
		{description: "int is outside the universe", value: 1, code: ErrIndeterminateType},
		{description: "nil", value: nil, code: ErrIndeterminateType},
		{description: "object", value: map[string]any{}, code: ErrIndeterminateType},
	}

	for _, testCase := range testCases {
		typ, err := TypeOf(testCase.value)
		if testCase.code != "" {
			assert.True(t, IsCode(err, testCase.code), "%s: got %v", testCase.description, err)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Same(t, testCase.expect, typ, testCase.description)
	}
}

func TestNormalize(t *testing.T) {
	v, err := Normalize([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0}, v)

	v, err = Normalize([]any{[]string{"a"}, []any{"b", "c"}})
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"a"}, []any{"b", "c"}}, v)

	v, err = Normalize(int64(7))
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	v, err = Normalize([]any{})
	require.NoError(t, err)
	assert.Equal(t, []any{}, v)

	_, err = Normalize([]any{"a", 1})
	assert.True(t, IsCode(err, ErrTypeMismatch))

	_, err = Normalize(math.Inf(1))
	assert.True(t, IsCode(err, ErrDomain))

	_, err = Normalize(struct{}{})
	assert.True(t, IsCode(err, ErrIndeterminateType))
}

func TestCloneValueIsDeep(t *testing.T) {
	orig := []any{[]any{"a"}, []any{"b"}}
	cloned := CloneValue(orig).([]any)
	cloned[0].([]any)[0] = "z"
	assert.Equal(t, "a", orig[0].([]any)[0])
	assert.True(t, Equal([]any{[]any{"a"}, []any{"b"}}, orig))
	assert.False(t, Equal(orig, cloned))
	assert.False(t, Equal([]any{1.0}, 1.0))
}

func TestErrorFormattingAndMatching(t *testing.T) {
	err := Errorf(ErrDomain, "cannot take log of %v", 0).WithPath("$.arg")
	err.WithPath("$")
	assert.Equal(t, "D0101 at $.arg: cannot take log of 0", err.Error())

	wrapped := fmt.Errorf("evaluate: %w", NewError(ErrInvalidDocument, "bad").WithCause(err))
	assert.True(t, IsCode(wrapped, ErrInvalidDocument))
	assert.True(t, IsCode(wrapped, ErrDomain))
	assert.False(t, IsCode(wrapped, ErrRange))
	assert.Equal(t, ErrInvalidDocument, CodeOf(wrapped))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}

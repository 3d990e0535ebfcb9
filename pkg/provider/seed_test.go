package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/ddexpr/pkg/types"
)

func TestContextFromJSON(t *testing.T) {
	ctx, err := ContextFromJSON([]byte(`{
		"team": {"name": "red", "size": 4, "memberNames": ["ann", "bob"], "ready": true},
		"grid": [[1, 2], [3]],
		"skipped": null
	}`))
	require.NoError(t, err)

	name, err := ctx.StringVar("team.name")
	require.NoError(t, err)
	assert.Equal(t, "red", name)

	size, err := ctx.NumberVar("team.size")
	require.NoError(t, err)
	assert.Equal(t, 4.0, size)

	ready, err := ctx.BooleanVar("team.ready")
	require.NoError(t, err)
	assert.True(t, ready)

	members, err := ctx.StringArrayVar("team.memberNames")
	require.NoError(t, err)
	assert.Equal(t, []string{"ann", "bob"}, members)

	grid, err := ctx.Get(types.NumberArrayArray, "grid")
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{1.0, 2.0}, []any{3.0}}, grid)

	assert.Equal(t, []string{"team.size"}, ctx.Names(types.Number))
	assert.False(t, ctx.Has(types.String, "skipped"))
}

func TestSeedJSONErrors(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		code        types.ErrorCode
	}{
		{description: "invalid json", input: `{"a":`, code: types.ErrInvalidDocument},
		{description: "top-level array", input: `[1,2]`, code: types.ErrInvalidDocument},
		{description: "empty array", input: `{"a":[]}`, code: types.ErrIndeterminateType},
		{description: "mixed array", input: `{"a":[1,"x"]}`, code: types.ErrTypeMismatch},
		{description: "object in array", input: `{"a":[{"b":1}]}`, code: types.ErrIndeterminateType},
		{description: "overflowing number", input: `{"team":{"points":1e999}}`, code: types.ErrDomain},
		{description: "overflowing array element", input: `{"xs":[1,-1e999]}`, code: types.ErrDomain},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			err := NewContext().SeedJSON([]byte(testCase.input))
			require.Error(t, err)
			assert.True(t, types.IsCode(err, testCase.code), err.Error())
		})
	}
}

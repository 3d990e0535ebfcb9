package ext_test

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/ddexpr/pkg/ext"
	"github.com/sandrolain/ddexpr/pkg/ext/extnumeric"
	"github.com/sandrolain/ddexpr/pkg/ext/extstring"
	"github.com/sandrolain/ddexpr/pkg/functions"
	"github.com/sandrolain/ddexpr/pkg/parser"
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

func eval(t *testing.T, doc string, ctx *provider.Context) (types.Value, error) {
	t.Helper()
	r, err := ext.Registry()
	require.NoError(t, err)
	expr, err := parser.Compile([]byte(doc), parser.WithRegistry(r))
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = provider.NewContext()
	}
	return expr.Apply(ctx)
}

func TestRegistry(t *testing.T) {
	r, err := ext.Registry()
	require.NoError(t, err)
	again, err := ext.Registry()
	require.NoError(t, err)
	assert.Same(t, r, again)

	assert.Contains(t, r.Names(2), "add", "standard operations are kept")
	assert.Contains(t, r.Names(2), "starts with")
	assert.Contains(t, r.Names(0), "uuid")
	assert.NotContains(t, functions.Standard().Names(0), "uuid")
}

func TestOperations(t *testing.T) {
	tests := []struct {
		description string
		doc         string
		want        types.Value
	}{
		{"starts with", `{"name":"starts with","lhs":"Hello World","rhs":"Hello"}`, true},
		{"ends with", `{"name":"ends with","lhs":"Hello World","rhs":"Hello"}`, false},
		{"contains", `{"name":"contains","lhs":"Hello World","rhs":"o W"}`, true},
		{"index of counts runes", `{"name":"index of","lhs":"héllo","rhs":"l"}`, 2.0},
		{"last index of", `{"name":"last index of","lhs":"héllo","rhs":"l"}`, 3.0},
		{"index of missing", `{"name":"index of","lhs":"abc","rhs":"z"}`, -1.0},
		{"trim", `{"name":"trim","arg":"  a b  "}`, "a b"},
		{"camel case", `{"name":"camel case","arg":"team member_names"}`, "teamMemberNames"},
		{"snake case", `{"name":"snake case","arg":"teamMemberNames"}`, "team_member_names"},
		{"kebab case", `{"name":"kebab case","arg":"Team Member"}`, "team-member"},
		{"words", `{"name":"words","arg":"fooBar-baz"}`, []any{"foo", "Bar", "baz"}},

		{"pi", `{"name":"round","arg":{"name":"pi"}}`, 3.0},
		{"trunc", `{"name":"trunc","arg":-2.7}`, -2.0},
		{"clamp", `{"name":"clamp","a":12,"b":0,"c":10}`, 10.0},
		{"atan2", `{"name":"atan2","lhs":0,"rhs":1}`, 0.0},
		{"sum", `{"name":"sum","arg":[1,2,3.5]}`, 6.5},
		{"sum of empty", `{"name":"sum","arg":{"type":"number[]","value":[]}}`, 0.0},
		{"min", `{"name":"min","arg":[4,-1,3]}`, -1.0},
		{"max", `{"name":"max","arg":[4,-1,3]}`, 4.0},
		{"mean", `{"name":"mean","arg":[1,2,3,6]}`, 3.0},
		{"median odd", `{"name":"median","arg":[5,1,3]}`, 3.0},
		{"median even", `{"name":"median","arg":[4,1,3,2]}`, 2.5},
		{"variance", `{"name":"variance","arg":[2,4,4,4,5,5,7,9]}`, 4.0},
		{"stddev", `{"name":"stddev","arg":[2,4,4,4,5,5,7,9]}`, 2.0},
		{"percentile", `{"name":"percentile","lhs":[1,2,3,4,5],"rhs":50}`, 3.0},

		{"take", `{"name":"take","lhs":["a","b","c"],"rhs":2}`, []any{"a", "b"}},
		{"take past end", `{"name":"take","lhs":[1,2],"rhs":5}`, []any{1.0, 2.0}},
		{"skip", `{"name":"skip","lhs":[true,false,true],"rhs":1}`, []any{false, true}},
		{"includes", `{"name":"includes","lhs":[1,2,3],"rhs":2}`, true},
		{"includes string", `{"name":"includes","lhs":["a"],"rhs":"b"}`, false},
		{"distinct", `{"name":"distinct","arg":["a","b","a","c","b"]}`, []any{"a", "b", "c"}},
		{"flatten", `{"name":"flatten","arg":[[1,2],[3]]}`, []any{1.0, 2.0, 3.0}},
		{"chunk", `{"name":"chunk","lhs":[1,2,3,4,5],"rhs":2}`, []any{[]any{1.0, 2.0}, []any{3.0, 4.0}, []any{5.0}}},
		{"range", `{"name":"range","lhs":1,"rhs":4}`, []any{1.0, 2.0, 3.0}},
		{"empty range", `{"name":"range","lhs":4,"rhs":1}`, []any{}},
		{"range near exact limit", `{"name":"range","lhs":9007199254740990,"rhs":9007199254740992}`, []any{9007199254740990.0, 9007199254740991.0}},

		{"sha256", `{"name":"hash","lhs":"abc","rhs":"sha256"}`, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"md5", `{"name":"hash","lhs":"abc","rhs":"MD5"}`, "900150983cd24fb0d6963f7d28e17f72"},
		{"hmac", `{"name":"hmac","a":"The quick brown fox jumps over the lazy dog","b":"key","c":"sha256"}`, "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8"},
		{"chained", `{"name":"length","arg":{"name":"distinct","arg":{"name":"words","arg":"a b a"}}}`, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got, err := eval(t, tt.doc, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOperationErrors(t *testing.T) {
	tests := []struct {
		description string
		doc         string
		code        types.ErrorCode
	}{
		{"clamp inverted bounds", `{"name":"clamp","a":1,"b":10,"c":0}`, types.ErrDomain},
		{"mean of empty", `{"name":"mean","arg":{"type":"number[]","value":[]}}`, types.ErrDomain},
		{"percentile out of range", `{"name":"percentile","lhs":[1,2],"rhs":101}`, types.ErrDomain},
		{"negative take", `{"name":"take","lhs":[1,2],"rhs":-1}`, types.ErrDomain},
		{"fractional skip", `{"name":"skip","lhs":[1,2],"rhs":0.5}`, types.ErrDomain},
		{"zero chunk", `{"name":"chunk","lhs":[1,2],"rhs":0}`, types.ErrDomain},
		{"huge range", `{"name":"range","lhs":0,"rhs":1e9}`, types.ErrRange},
		{"range beyond exact integers", `{"name":"range","lhs":9007199254740994,"rhs":9007199254740996}`, types.ErrDomain},
		{"fractional range bound", `{"name":"range","lhs":0.5,"rhs":3}`, types.ErrDomain},
		{"unknown hash", `{"name":"hash","lhs":"abc","rhs":"crc32"}`, types.ErrDomain},
		{"includes element mismatch", `{"name":"includes","lhs":[1,2],"rhs":"a"}`, types.ErrNoImplementation},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := eval(t, tt.doc, nil)
			require.Error(t, err)
			assert.True(t, types.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestUUID(t *testing.T) {
	uuidRe := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	doc := `{"name":"uuid"}`

	v, err := eval(t, doc, nil)
	require.NoError(t, err)
	assert.Regexp(t, uuidRe, v)

	seeded := func() types.Value {
		got, err := eval(t, doc, provider.NewContext().WithRand(rand.New(rand.NewSource(7))))
		require.NoError(t, err)
		return got
	}
	assert.Equal(t, seeded(), seeded(), "seeded contexts give reproducible identifiers")
}

func TestXXHash(t *testing.T) {
	v, err := eval(t, `{"name":"hash","lhs":"abc","rhs":"xxhash"}`, nil)
	require.NoError(t, err)
	assert.Len(t, v, 16)
}

func TestExtendByCategory(t *testing.T) {
	r, err := functions.Extend(extstring.All()...)
	require.NoError(t, err)
	assert.Contains(t, r.Names(1), "snake case")
	assert.NotContains(t, r.Names(1), "median")

	r, err = functions.Extend(extnumeric.Median())
	require.NoError(t, err)
	expr, err := parser.Compile([]byte(`{"name":"median","arg":[3,1,2]}`), parser.WithRegistry(r))
	require.NoError(t, err)
	v, err := expr.Apply(provider.NewContext())
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	_, err = functions.Extend(extnumeric.Median(), extnumeric.Median())
	assert.True(t, types.IsCode(err, types.ErrDuplicateOperation))
}

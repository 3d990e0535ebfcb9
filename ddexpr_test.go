package ddexpr

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

func TestEval(t *testing.T) {
	tests := []struct {
		doc  string
		vars map[string]any
		want types.Value
	}{
		{`{"name":"add","lhs":3,"rhs":4}`, nil, 7.0},
		{`{"name":"length","arg":{"name":"string array variable","arg":"names"}}`, map[string]any{"names": []string{"a", "b"}}, 2.0},
		{`{"name":"conditional","a":{"name":"boolean variable","arg":"on"},"b":"yes","c":"no"}`, map[string]any{"on": false}, "no"},
	}
	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			got, err := Eval([]byte(tt.doc), tt.vars, WithTimeout(time.Second))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	_, err := Eval([]byte(`1`), map[string]any{"bad": map[string]any{}})
	assert.Error(t, err)

	_, err = Eval([]byte(`{"name":"div","lhs":1,"rhs":0}`), nil)
	assert.True(t, types.IsCode(err, types.ErrDomain))
}

func TestEvalWithContext(t *testing.T) {
	vars := provider.NewContext()
	vars.SetStringVar("who", "world")
	got, err := EvalWithContext(context.Background(), []byte(`{"name":"add","lhs":"hello ","rhs":{"name":"string variable","arg":"who"}}`), vars, WithCaching(true))
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestMustCompile(t *testing.T) {
	expr := MustCompile([]byte(`{"name":"random boolean"}`))
	assert.Same(t, types.Boolean, expr.ReturnType())

	assert.Panics(t, func() { MustCompile([]byte(`{"name":"random"}`)) })
	assert.NotEmpty(t, Version())
}

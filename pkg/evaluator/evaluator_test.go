package evaluator

import (
	"bytes"
	"context"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/ddexpr/pkg/cache"
	"github.com/sandrolain/ddexpr/pkg/functions"
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

const teamScore = `{"name":"add","lhs":{"name":"number variable","arg":"team.points"},"rhs":{"name":"number variable","arg":"team.size"}}`

func team(points, size float64) *provider.Context {
	ctx := provider.NewContext()
	ctx.SetNumberVar("team.points", points)
	ctx.SetNumberVar("team.size", size)
	return ctx
}

func TestEvaluatorDefaults(t *testing.T) {
	ev := New()
	assert.Nil(t, ev.Cache())
	assert.Same(t, functions.Standard(), ev.Registry())

	ev = New(WithCaching(true), WithCacheSize(8))
	require.NotNil(t, ev.Cache())
	assert.Equal(t, 8, ev.Cache().Capacity())

	c := cache.New(4)
	assert.Same(t, c, New(WithCache(c)).Cache())
}

func TestEval(t *testing.T) {
	tests := []struct {
		doc  string
		vars *provider.Context
		want types.Value
	}{
		{`{"name":"add","lhs":3,"rhs":4}`, nil, 7.0},
		{teamScore, team(10, 3), 13.0},
		{`{"name":"uppercase","arg":"abc"}`, provider.NewContext(), "ABC"},
	}
	ev := New()
	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			got, err := ev.EvalDocument(context.Background(), []byte(tt.doc), tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	ev := New()

	_, err := ev.Eval(context.Background(), nil, nil)
	assert.Error(t, err)

	_, err = ev.EvalDocument(context.Background(), []byte(teamScore), nil)
	assert.True(t, types.IsCode(err, types.ErrUndefinedVariable))

	_, err = ev.EvalDocument(context.Background(), []byte(`{"name":"nope"}`), nil)
	assert.True(t, types.IsCode(err, types.ErrUnknownOperation))

	expr, err := ev.Compile([]byte(`{"name":"random number"}`))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ev.Eval(ctx, expr, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompileCaching(t *testing.T) {
	ev := New(WithCaching(true))
	first, err := ev.Compile([]byte(teamScore))
	require.NoError(t, err)
	second, err := ev.Compile([]byte(teamScore))
	require.NoError(t, err)
	assert.Same(t, first, second)

	stats := ev.Cache().Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)

	_, err = ev.Compile([]byte(`{"name":"add","lhs":1}`))
	require.Error(t, err)
	assert.Equal(t, 1, ev.Cache().Len())
}

func TestCompileAs(t *testing.T) {
	ev := New()
	_, err := ev.CompileAs([]byte(teamScore), types.Number)
	require.NoError(t, err)

	_, err = ev.CompileAs([]byte(`{"name":"random boolean"}`), types.Number)
	assert.True(t, types.IsCode(err, types.ErrTypeMismatch))
}

func TestCompileMaxDepth(t *testing.T) {
	ev := New(WithMaxDepth(2))
	_, err := ev.Compile([]byte(`{"name":"negate","arg":{"name":"negate","arg":true}}`))
	assert.True(t, types.IsCode(err, types.ErrNestingTooDeep))
}

func TestCustomRegistry(t *testing.T) {
	reg, err := functions.Extend(functions.NullaryDef{
		Name:       "answer",
		ReturnType: types.Number,
		Fn: func(*provider.Context) (types.Value, error) {
			return 42.0, nil
		},
	})
	require.NoError(t, err)

	got, err := New(WithRegistry(reg)).EvalDocument(context.Background(), []byte(`{"name":"answer"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)
}

func TestEvalBatch(t *testing.T) {
	vars := []*provider.Context{team(1, 1), team(5, 2), team(7, 3), team(0, 0)}

	for _, concurrent := range []bool{false, true} {
		ev := New(WithConcurrency(concurrent), WithWorkers(2))
		expr, err := ev.Compile([]byte(teamScore))
		require.NoError(t, err)

		got, err := ev.EvalBatch(context.Background(), expr, vars)
		require.NoError(t, err)
		assert.Equal(t, []types.Value{2.0, 7.0, 10.0, 0.0}, got)
	}
}

func TestEvalBatchIsolation(t *testing.T) {
	doc := `{"name":"reverse","arg":{"name":"number array variable","arg":"xs"}}`
	ctx := provider.NewContext()
	ctx.SetNumberArrayVar("xs", []float64{1, 2})

	ev := New()
	expr, err := ev.Compile([]byte(doc))
	require.NoError(t, err)
	got, err := ev.EvalBatch(context.Background(), expr, []*provider.Context{ctx, ctx})
	require.NoError(t, err)
	assert.Equal(t, []types.Value{[]any{2.0, 1.0}, []any{2.0, 1.0}}, got)

	xs, err := ctx.NumberArrayVar("xs")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, xs)
}

func TestEvalBatchSeeded(t *testing.T) {
	doc := `{"name":"add","lhs":{"name":"random number"},"rhs":{"name":"length","arg":{"name":"pick n returned","lhs":[1,2,3],"rhs":500}}}`
	run := func(concurrent bool) []types.Value {
		base := provider.NewContext().WithRand(rand.New(rand.NewSource(1)))
		vars := make([]*provider.Context, 16)
		for i := range vars {
			vars[i] = base
		}
		ev := New(WithConcurrency(concurrent))
		expr, err := ev.Compile([]byte(doc))
		require.NoError(t, err)
		got, err := ev.EvalBatch(context.Background(), expr, vars)
		require.NoError(t, err)
		return got
	}

	sequential := run(false)
	assert.Equal(t, sequential, run(true), "concurrency must not change seeded results")
	assert.NotEqual(t, sequential[0], sequential[1], "copies draw from their own generators")
}

func TestEvalBatchError(t *testing.T) {
	ev := New(WithConcurrency(true))
	expr, err := ev.Compile([]byte(teamScore))
	require.NoError(t, err)

	_, err = ev.EvalBatch(context.Background(), expr, []*provider.Context{team(1, 1), provider.NewContext()})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrUndefinedVariable))
	assert.Contains(t, err.Error(), "batch item 1")
}

func TestEvalTimeout(t *testing.T) {
	ev := New(WithTimeout(time.Minute))
	got, err := ev.EvalDocument(context.Background(), []byte(`{"name":"sub","lhs":3,"rhs":4}`), nil)
	require.NoError(t, err)
	assert.Equal(t, -1.0, got)
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ev := New(WithCaching(true), WithDebug(true), WithLogger(logger))
	_, err := ev.EvalDocument(context.Background(), []byte(`{"name":"add","lhs":1,"rhs":2}`), nil)
	require.NoError(t, err)
	_, err = ev.Compile([]byte(`{"name":"add","lhs":1,"rhs":2}`))
	require.NoError(t, err)
	_, err = ev.Compile([]byte(`{"name":"add","lhs":1,"rhs":[true]}`))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "compile cache miss")
	assert.Contains(t, out, "compile cache hit")
	assert.Contains(t, out, "evaluated")
	assert.Contains(t, out, "compile failed")
	assert.Contains(t, out, "code=T0101")

	buf.Reset()
	_, err = New(WithLogger(logger)).EvalDocument(context.Background(), []byte(`1`), nil)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

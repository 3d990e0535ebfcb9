package evaluator

import (
	"context"
	"testing"
	"time"

	"github.com/sandrolain/ddexpr/pkg/provider"
)

func FuzzEvalDocument(f *testing.F) {
	seeds := []string{
		benchSimple,
		benchNested,
		`{"name":"div","lhs":1,"rhs":0}`,
		`{"name":"index","lhs":["a"],"rhs":3}`,
		`{"name":"sqrt","arg":"x"}`,
		`{"name":"length","arg":[]}`,
		`{"type":"number[]","value":[]}`,
		`{"name":"number variable","arg":"missing"}`,
		`[[1],[2,3]]`,
		`{}`,
		``,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	ev := New(WithMaxDepth(32))
	vars := provider.NewContext()
	vars.SetNumberVar("team.points", 12)
	vars.SetStringVar("team.name", "fuzz")
	vars.SetStringArrayVar("team.memberNames", []string{"a"})
	f.Fuzz(func(t *testing.T, doc string) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_, _ = ev.EvalDocument(ctx, []byte(doc), vars.Copy())
	})
}

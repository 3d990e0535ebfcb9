package parser

import (
	"testing"

	"github.com/sandrolain/ddexpr/pkg/functions"
)

func FuzzBuild(f *testing.F) {
	seeds := []string{
		`{"name":"add","lhs":3,"rhs":4}`,
		`{"name":"conditional","a":true,"b":"x","c":"y"}`,
		`{"name":"random number"}`,
		`{"type":"string[][]","value":[]}`,
		`{"name":"add","lhs":1}`,
		`{"name":1}`,
		`[1,"a"]`,
		`null`,
		`{`,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, doc string) {
		n, err := Parse([]byte(doc), WithMaxDepth(32))
		if err != nil {
			return
		}
		if n == nil {
			t.Fatalf("Parse(%q) returned neither node nor error", doc)
		}
		_, _ = Build(n, functions.Standard())
	})
}

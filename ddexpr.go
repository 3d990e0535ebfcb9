// Package ddexpr builds typed, composable expressions from data.
//
// An expression is a JSON (or YAML) document naming operations from a
// registry of typed providers. Compiling resolves every operation against the
// types of its arguments, so a compiled expression never fails with a type
// error when evaluated; only domain errors (division by zero, index out of
// range, missing variables) remain.
//
// # Quick Start
//
//	// Simple evaluation
//	result, err := ddexpr.Eval([]byte(`{"name":"add","lhs":3,"rhs":4}`), nil)
//
//	// Compile once, evaluate many times
//	expr, err := ddexpr.Compile([]byte(`{"name":"number variable","arg":"team.size"}`))
//	vars := provider.NewContext()
//	vars.SetNumberVar("team.size", 4)
//	size, _ := expr.Apply(vars)
//
// # More Information
//
//   - Types: github.com/sandrolain/ddexpr/pkg/types
//   - Providers and contexts: github.com/sandrolain/ddexpr/pkg/provider
//   - Standard library: github.com/sandrolain/ddexpr/pkg/functions
//   - Document format: github.com/sandrolain/ddexpr/pkg/parser
//   - Evaluator: github.com/sandrolain/ddexpr/pkg/evaluator
package ddexpr

import (
	"context"
	"fmt"

	"github.com/sandrolain/ddexpr/pkg/evaluator"
	"github.com/sandrolain/ddexpr/pkg/parser"
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// Version returns the current version of ddexpr.
func Version() string {
	return "v0.1.0-dev"
}

// Compile compiles a JSON expression document for repeated evaluation.
// The compiled expression is safe for concurrent use; contexts are not.
func Compile(doc []byte, opts ...parser.Option) (*provider.Expression, error) {
	return parser.Compile(doc, opts...)
}

// MustCompile is like Compile but panics if the document cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(doc []byte) *provider.Expression {
	expr, err := Compile(doc)
	if err != nil {
		panic(fmt.Sprintf("ddexpr: Compile(%s): %v", doc, err))
	}
	return expr
}

// Eval compiles doc and evaluates it against vars, a name to value mapping
// whose values are strings, numbers, booleans or arrays of them.
//
// For repeated evaluations of the same document, use Compile instead.
func Eval(doc []byte, vars map[string]any, opts ...evaluator.EvalOption) (types.Value, error) {
	ctx, err := provider.ContextFromVars(vars)
	if err != nil {
		return nil, err
	}
	return EvalWithContext(context.Background(), doc, ctx, opts...)
}

// EvalWithContext compiles doc and evaluates it against vars.
func EvalWithContext(ctx context.Context, doc []byte, vars *provider.Context, opts ...evaluator.EvalOption) (types.Value, error) {
	return evaluator.New(opts...).EvalDocument(ctx, doc, vars)
}

// Evaluator options, re-exported for convenience.
var (
	WithCaching     = evaluator.WithCaching
	WithCacheSize   = evaluator.WithCacheSize
	WithConcurrency = evaluator.WithConcurrency
	WithTimeout     = evaluator.WithTimeout
	WithRegistry    = evaluator.WithRegistry
	WithMaxDepth    = evaluator.WithMaxDepth
	WithDebug       = evaluator.WithDebug
	WithLogger      = evaluator.WithLogger
)

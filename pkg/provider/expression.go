package provider

import (
	"github.com/sandrolain/ddexpr/pkg/types"
)

// Expression is a compiled expression: the zero-argument provider built
// from a serialized node tree.
//
// An Expression holds no mutable state and is safe for concurrent use, as
// long as every goroutine evaluates against its own Context.
type Expression struct {
	root *Nullary
	node *types.Node
}

// NewExpression wraps a compiled root provider and the node it was built from.
func NewExpression(root *Nullary, node *types.Node) *Expression {
	return &Expression{root: root, node: node}
}

// Root returns the compiled provider.
func (e *Expression) Root() *Nullary {
	return e.root
}

// Node returns the serialized form the expression was compiled from.
func (e *Expression) Node() *types.Node {
	return e.node
}

// ReturnType returns the type of the values the expression evaluates to.
func (e *Expression) ReturnType() *types.Type {
	return e.root.ReturnType()
}

// Apply evaluates the expression against ctx.
func (e *Expression) Apply(ctx *Context) (types.Value, error) {
	return e.root.Apply(ctx)
}

// String returns the serialized form of the expression.
func (e *Expression) String() string {
	if e.node == nil {
		return "<expression " + e.ReturnType().String() + ">"
	}
	return e.node.String()
}

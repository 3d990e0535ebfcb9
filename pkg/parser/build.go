package parser

import (
	"errors"
	"fmt"

	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// Compile parses a JSON document and builds it against the configured registry.
func Compile(data []byte, opts ...Option) (*provider.Expression, error) {
	n, err := Parse(data, opts...)
	if err != nil {
		return nil, err
	}
	return CompileNode(n, opts...)
}

// CompileYAML parses a YAML document and builds it.
func CompileYAML(data []byte, opts ...Option) (*provider.Expression, error) {
	n, err := ParseYAML(data, opts...)
	if err != nil {
		return nil, err
	}
	return CompileNode(n, opts...)
}

// CompileAs compiles a JSON document whose result must be of type expected.
func CompileAs(data []byte, expected *types.Type, opts ...Option) (*provider.Expression, error) {
	expr, err := Compile(data, opts...)
	if err != nil {
		return nil, err
	}
	return expect(expr, expected)
}

// CompileNode builds an already validated node tree.
func CompileNode(n *types.Node, opts ...Option) (*provider.Expression, error) {
	o := newOptions(opts)
	if d := n.Depth(); d > o.MaxDepth {
		return nil, types.Errorf(types.ErrNestingTooDeep, "expression nests %d levels deep, limit is %d", d, o.MaxDepth).WithPath(n.Path)
	}
	root, err := Build(n, o.Registry)
	if err != nil {
		return nil, err
	}
	return provider.NewExpression(root, n), nil
}

// CompileNodeAs builds a node tree whose result must be of type expected.
func CompileNodeAs(n *types.Node, expected *types.Type, opts ...Option) (*provider.Expression, error) {
	expr, err := CompileNode(n, opts...)
	if err != nil {
		return nil, err
	}
	return expect(expr, expected)
}

func expect(expr *provider.Expression, expected *types.Type) (*provider.Expression, error) {
	if !expr.ReturnType().Extends(expected) {
		return nil, types.Errorf(types.ErrTypeMismatch, "expression yields %s, want %s", expr.ReturnType(), expected).WithPath(rootPath)
	}
	return expr, nil
}

// Build resolves n against r, depth-first and left to right, and chains the
// result into a single zero-argument provider.
//
// Build stops at the first failure; errors carry the path of the offending node.
func Build(n *types.Node, r *provider.Registry) (*provider.Nullary, error) {
	switch n.Type {
	case types.NodeLiteral:
		var (
			p   *provider.Nullary
			err error
		)
		if n.LiteralType != nil {
			p, err = provider.LiteralOf(n.Value, n.LiteralType)
		} else {
			p, err = provider.Literal(n.Value)
		}
		return p, withPath(err, n.Path)

	case types.NodeNullary:
		p, ok := r.Nullary(n.Name)
		if !ok {
			return nil, unknown("nullary", n)
		}
		return p, nil

	case types.NodeUnary:
		arg, err := Build(n.Arg, r)
		if err != nil {
			return nil, err
		}
		col, ok := r.Unary(n.Name)
		if !ok {
			return nil, unknown("unary", n)
		}
		impl, err := col.FindImpl(arg.ReturnType())
		if err != nil {
			return nil, withPath(err, n.Path)
		}
		p, err := arg.Chain(impl)
		return p, withPath(err, n.Path)

	case types.NodeBinary:
		lhs, err := Build(n.LHS, r)
		if err != nil {
			return nil, err
		}
		rhs, err := Build(n.RHS, r)
		if err != nil {
			return nil, err
		}
		col, ok := r.Binary(n.Name)
		if !ok {
			return nil, unknown("binary", n)
		}
		impl, err := col.FindImpl(lhs.ReturnType(), rhs.ReturnType())
		if err != nil {
			return nil, withPath(err, n.Path)
		}
		partial, err := lhs.ChainLHS(impl)
		if err != nil {
			return nil, withPath(err, n.Path)
		}
		p, err := rhs.Chain(partial)
		return p, withPath(err, n.Path)

	case types.NodeTernary:
		args := make([]*provider.Nullary, 3)
		for i, child := range []*types.Node{n.A, n.B, n.C} {
			p, err := Build(child, r)
			if err != nil {
				return nil, err
			}
			args[i] = p
		}
		col, ok := r.Ternary(n.Name)
		if !ok {
			return nil, unknown("ternary", n)
		}
		impl, err := col.FindImpl(args[0].ReturnType(), args[1].ReturnType(), args[2].ReturnType())
		if err != nil {
			return nil, withPath(err, n.Path)
		}
		p, err := provider.ChainTernary(args[0], args[1], args[2], impl)
		return p, withPath(err, n.Path)

	default:
		return nil, types.Errorf(types.ErrMalformedNode, "unsupported node type %q", n.Type).WithPath(n.Path)
	}
}

func unknown(arity string, n *types.Node) error {
	return types.Errorf(types.ErrUnknownOperation, "no %s operation named %q", arity, n.Name).WithPath(n.Path)
}

// withPath records at on coded errors that have no location yet.
func withPath(err error, at string) error {
	if err == nil {
		return nil
	}
	var e *types.Error
	if errors.As(err, &e) {
		e.WithPath(at)
		return err
	}
	return fmt.Errorf("%s: %w", at, err)
}

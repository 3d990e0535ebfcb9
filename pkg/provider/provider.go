// Package provider implements typed, composable functions over the ddexpr type system.
//
// A provider is an immutable function of arity 0 to 3 with declared argument
// types and a return type. Providers compose by chaining one provider's
// output into another's input, which is how a serialized expression tree is
// assembled into a single zero-argument provider:
//
//	lhs, _ := provider.Literal(3.0)
//	rhs, _ := provider.Literal(4.0)
//	add, _ := functions.Standard().Binary("add")
//	impl, _ := add.FindImpl(lhs.ReturnType(), rhs.ReturnType())
//	partial, _ := lhs.ChainLHS(impl)
//	sum, _ := rhs.Chain(partial)
//	v, _ := sum.Apply(provider.NewContext()) // 7
package provider

import (
	"github.com/sandrolain/ddexpr/pkg/types"
)

// Provider describes the signature shared by every arity.
type Provider interface {
	ArgTypes() []*types.Type
	ReturnType() *types.Type
	Arity() int
}

// NullaryFunc implements a zero-argument provider.
type NullaryFunc func(ctx *Context) (types.Value, error)

// UnaryFunc implements a one-argument provider.
type UnaryFunc func(ctx *Context, arg types.Value) (types.Value, error)

// BinaryFunc implements a two-argument provider.
type BinaryFunc func(ctx *Context, lhs, rhs types.Value) (types.Value, error)

// TernaryFunc implements a three-argument provider.
type TernaryFunc func(ctx *Context, a, b, c types.Value) (types.Value, error)

// Nullary is a provider without arguments.
type Nullary struct {
	ret *types.Type
	fn  NullaryFunc
}

// NewNullary creates a zero-argument provider.
func NewNullary(ret *types.Type, fn NullaryFunc) *Nullary {
	return &Nullary{ret: ret, fn: fn}
}

// Literal creates a provider returning v, typed by its derived type.
// Empty arrays cannot be typed and fail with ErrIndeterminateType.
func Literal(v types.Value) (*Nullary, error) {
	t, err := types.TypeOf(v)
	if err != nil {
		return nil, err
	}
	return LiteralOf(v, t)
}

// LiteralOf creates a provider returning v declared as type t.
func LiteralOf(v types.Value, t *types.Type) (*Nullary, error) {
	if !t.IsAssignable(v) {
		return nil, types.Errorf(types.ErrTypeMismatch, "literal %v is not a %s", v, t)
	}
	return NewNullary(t, func(*Context) (types.Value, error) {
		return types.CloneValue(v), nil
	}), nil
}

func (p *Nullary) ArgTypes() []*types.Type { return nil }
func (p *Nullary) ReturnType() *types.Type { return p.ret }
func (p *Nullary) Arity() int              { return 0 }

// Apply evaluates the provider. A nil ctx evaluates against an empty context.
func (p *Nullary) Apply(ctx *Context) (types.Value, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	return p.fn(ctx)
}

// Chain feeds the result of p into next.
func (p *Nullary) Chain(next *Unary) (*Nullary, error) {
	if err := checkChain(p.ret, next.arg, "argument"); err != nil {
		return nil, err
	}
	return NewNullary(next.ret, func(ctx *Context) (types.Value, error) {
		v, err := p.fn(ctx)
		if err != nil {
			return nil, err
		}
		return next.fn(ctx, v)
	}), nil
}

// ChainLHS fixes the left operand of next to the result of p.
func (p *Nullary) ChainLHS(next *Binary) (*Unary, error) {
	if err := checkChain(p.ret, next.lhs, "left operand"); err != nil {
		return nil, err
	}
	return NewUnary(next.rhs, next.ret, func(ctx *Context, rhs types.Value) (types.Value, error) {
		lhs, err := p.fn(ctx)
		if err != nil {
			return nil, err
		}
		return next.fn(ctx, lhs, rhs)
	}), nil
}

// ChainRHS fixes the right operand of next to the result of p.
func (p *Nullary) ChainRHS(next *Binary) (*Unary, error) {
	if err := checkChain(p.ret, next.rhs, "right operand"); err != nil {
		return nil, err
	}
	return NewUnary(next.lhs, next.ret, func(ctx *Context, lhs types.Value) (types.Value, error) {
		rhs, err := p.fn(ctx)
		if err != nil {
			return nil, err
		}
		return next.fn(ctx, lhs, rhs)
	}), nil
}

// Unary is a provider with one argument.
type Unary struct {
	arg *types.Type
	ret *types.Type
	fn  UnaryFunc
}

// NewUnary creates a one-argument provider.
func NewUnary(arg, ret *types.Type, fn UnaryFunc) *Unary {
	return &Unary{arg: arg, ret: ret, fn: fn}
}

func (p *Unary) ArgTypes() []*types.Type { return []*types.Type{p.arg} }
func (p *Unary) ReturnType() *types.Type { return p.ret }
func (p *Unary) Arity() int              { return 1 }

// ArgType returns the declared argument type.
func (p *Unary) ArgType() *types.Type { return p.arg }

// Apply evaluates the provider.
func (p *Unary) Apply(ctx *Context, arg types.Value) (types.Value, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	return p.fn(ctx, arg)
}

// Chain feeds the result of p into next.
func (p *Unary) Chain(next *Unary) (*Unary, error) {
	if err := checkChain(p.ret, next.arg, "argument"); err != nil {
		return nil, err
	}
	return NewUnary(p.arg, next.ret, func(ctx *Context, arg types.Value) (types.Value, error) {
		v, err := p.fn(ctx, arg)
		if err != nil {
			return nil, err
		}
		return next.fn(ctx, v)
	}), nil
}

// ChainLHS feeds the result of p into the left operand of next.
func (p *Unary) ChainLHS(next *Binary) (*Binary, error) {
	if err := checkChain(p.ret, next.lhs, "left operand"); err != nil {
		return nil, err
	}
	return NewBinary(p.arg, next.rhs, next.ret, func(ctx *Context, arg, rhs types.Value) (types.Value, error) {
		lhs, err := p.fn(ctx, arg)
		if err != nil {
			return nil, err
		}
		return next.fn(ctx, lhs, rhs)
	}), nil
}

// ChainRHS feeds the result of p into the right operand of next.
func (p *Unary) ChainRHS(next *Binary) (*Binary, error) {
	if err := checkChain(p.ret, next.rhs, "right operand"); err != nil {
		return nil, err
	}
	return NewBinary(next.lhs, p.arg, next.ret, func(ctx *Context, lhs, arg types.Value) (types.Value, error) {
		rhs, err := p.fn(ctx, arg)
		if err != nil {
			return nil, err
		}
		return next.fn(ctx, lhs, rhs)
	}), nil
}

// Binary is a provider with two arguments.
type Binary struct {
	lhs         *types.Type
	rhs         *types.Type
	ret         *types.Type
	fn          BinaryFunc
	commutative bool
	// mirror is the swapped-operand adapter of a commutative provider
	mirror *Binary
}

// NewBinary creates a two-argument provider.
func NewBinary(lhs, rhs, ret *types.Type, fn BinaryFunc) *Binary {
	return &Binary{lhs: lhs, rhs: rhs, ret: ret, fn: fn}
}

// NewCommutative creates a two-argument provider whose operands may be supplied in either order.
func NewCommutative(lhs, rhs, ret *types.Type, fn BinaryFunc) *Binary {
	p := &Binary{lhs: lhs, rhs: rhs, ret: ret, fn: fn, commutative: true}
	p.mirror = p.swapped()
	return p
}

func (p *Binary) ArgTypes() []*types.Type { return []*types.Type{p.lhs, p.rhs} }
func (p *Binary) ReturnType() *types.Type { return p.ret }
func (p *Binary) Arity() int              { return 2 }

// LHSType returns the declared left operand type.
func (p *Binary) LHSType() *types.Type { return p.lhs }

// RHSType returns the declared right operand type.
func (p *Binary) RHSType() *types.Type { return p.rhs }

// Commutative reports whether operands may be swapped during resolution.
func (p *Binary) Commutative() bool { return p.commutative }

// Apply evaluates the provider.
func (p *Binary) Apply(ctx *Context, lhs, rhs types.Value) (types.Value, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	return p.fn(ctx, lhs, rhs)
}

// Chain feeds the result of p into next.
func (p *Binary) Chain(next *Unary) (*Binary, error) {
	if err := checkChain(p.ret, next.arg, "argument"); err != nil {
		return nil, err
	}
	return NewBinary(p.lhs, p.rhs, next.ret, func(ctx *Context, lhs, rhs types.Value) (types.Value, error) {
		v, err := p.fn(ctx, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return next.fn(ctx, v)
	}), nil
}

// swapped returns an adapter declared as (rhs, lhs) that delegates to p in its original order.
func (p *Binary) swapped() *Binary {
	return NewBinary(p.rhs, p.lhs, p.ret, func(ctx *Context, rhs, lhs types.Value) (types.Value, error) {
		return p.fn(ctx, lhs, rhs)
	})
}

// Ternary is a provider with three arguments.
type Ternary struct {
	a, b, c *types.Type
	ret     *types.Type
	fn      TernaryFunc
}

// NewTernary creates a three-argument provider.
func NewTernary(a, b, c, ret *types.Type, fn TernaryFunc) *Ternary {
	return &Ternary{a: a, b: b, c: c, ret: ret, fn: fn}
}

func (p *Ternary) ArgTypes() []*types.Type { return []*types.Type{p.a, p.b, p.c} }
func (p *Ternary) ReturnType() *types.Type { return p.ret }
func (p *Ternary) Arity() int              { return 3 }

// Apply evaluates the provider.
func (p *Ternary) Apply(ctx *Context, a, b, c types.Value) (types.Value, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	return p.fn(ctx, a, b, c)
}

// Chain feeds the result of p into next.
func (p *Ternary) Chain(next *Unary) (*Ternary, error) {
	if err := checkChain(p.ret, next.arg, "argument"); err != nil {
		return nil, err
	}
	return NewTernary(p.a, p.b, p.c, next.ret, func(ctx *Context, a, b, c types.Value) (types.Value, error) {
		v, err := p.fn(ctx, a, b, c)
		if err != nil {
			return nil, err
		}
		return next.fn(ctx, v)
	}), nil
}

// ChainTernary feeds three zero-argument providers into t, in order.
func ChainTernary(a, b, c *Nullary, t *Ternary) (*Nullary, error) {
	if err := checkChain(a.ret, t.a, "first argument"); err != nil {
		return nil, err
	}
	if err := checkChain(b.ret, t.b, "second argument"); err != nil {
		return nil, err
	}
	if err := checkChain(c.ret, t.c, "third argument"); err != nil {
		return nil, err
	}
	return NewNullary(t.ret, func(ctx *Context) (types.Value, error) {
		av, err := a.fn(ctx)
		if err != nil {
			return nil, err
		}
		bv, err := b.fn(ctx)
		if err != nil {
			return nil, err
		}
		cv, err := c.fn(ctx)
		if err != nil {
			return nil, err
		}
		return t.fn(ctx, av, bv, cv)
	}), nil
}

func checkChain(from, to *types.Type, slot string) error {
	if from.Extends(to) {
		return nil
	}
	return types.Errorf(types.ErrTypeMismatch, "cannot chain %s result into %s %s", from, to, slot)
}

package provider

import (
	"github.com/sandrolain/ddexpr/pkg/types"
)

// UnaryCollection is an ordered overload set of one-argument providers.
type UnaryCollection struct {
	name      string
	providers []*Unary
}

// NewUnaryCollection creates an overload set; declaration order is lookup order.
func NewUnaryCollection(name string, providers ...*Unary) *UnaryCollection {
	return &UnaryCollection{name: name, providers: append([]*Unary(nil), providers...)}
}

// Name returns the operation name.
func (c *UnaryCollection) Name() string { return c.name }

// Len returns the number of overloads.
func (c *UnaryCollection) Len() int { return len(c.providers) }

// Overloads returns a copy of the overloads in declaration order.
func (c *UnaryCollection) Overloads() []*Unary {
	return append([]*Unary(nil), c.providers...)
}

// FindImpl returns the first overload whose argument type accepts t.
func (c *UnaryCollection) FindImpl(t *types.Type) (*Unary, error) {
	for _, p := range c.providers {
		if t.Extends(p.arg) {
			return p, nil
		}
	}
	return nil, types.Errorf(types.ErrNoImplementation, "no %s implementation found for %s argument type", c.name, t)
}

// BinaryCollection is an ordered overload set of two-argument providers.
type BinaryCollection struct {
	name      string
	providers []*Binary
}

// NewBinaryCollection creates an overload set; declaration order is lookup order.
func NewBinaryCollection(name string, providers ...*Binary) *BinaryCollection {
	return &BinaryCollection{name: name, providers: append([]*Binary(nil), providers...)}
}

// Name returns the operation name.
func (c *BinaryCollection) Name() string { return c.name }

// Len returns the number of overloads.
func (c *BinaryCollection) Len() int { return len(c.providers) }

// Overloads returns a copy of the overloads in declaration order.
func (c *BinaryCollection) Overloads() []*Binary {
	return append([]*Binary(nil), c.providers...)
}

// FindImpl returns the first overload accepting (lhs, rhs).
//
// A commutative overload also matches operands in swapped order; the result
// is then an adapter declared as (lhs, rhs) that swaps its arguments before
// delegating, so its parameter order differs from the declared overload.
func (c *BinaryCollection) FindImpl(lhs, rhs *types.Type) (*Binary, error) {
	for _, p := range c.providers {
		if lhs.Extends(p.lhs) && rhs.Extends(p.rhs) {
			return p, nil
		}
		if p.commutative && lhs.Extends(p.rhs) && rhs.Extends(p.lhs) {
			return p.mirror, nil
		}
	}
	return nil, types.Errorf(types.ErrNoImplementation, "no %s implementation found for (%s, %s) argument types", c.name, lhs, rhs)
}

// TernaryCollection is an ordered overload set of three-argument providers.
type TernaryCollection struct {
	name      string
	providers []*Ternary
}

// NewTernaryCollection creates an overload set; declaration order is lookup order.
func NewTernaryCollection(name string, providers ...*Ternary) *TernaryCollection {
	return &TernaryCollection{name: name, providers: append([]*Ternary(nil), providers...)}
}

// Name returns the operation name.
func (c *TernaryCollection) Name() string { return c.name }

// Len returns the number of overloads.
func (c *TernaryCollection) Len() int { return len(c.providers) }

// Overloads returns a copy of the overloads in declaration order.
func (c *TernaryCollection) Overloads() []*Ternary {
	return append([]*Ternary(nil), c.providers...)
}

// FindImpl returns the first overload accepting (a, b, c) in order.
func (c *TernaryCollection) FindImpl(a, b, cType *types.Type) (*Ternary, error) {
	for _, p := range c.providers {
		if a.Extends(p.a) && b.Extends(p.b) && cType.Extends(p.c) {
			return p, nil
		}
	}
	return nil, types.Errorf(types.ErrNoImplementation, "no %s implementation found for (%s, %s, %s) argument types", c.name, a, b, cType)
}

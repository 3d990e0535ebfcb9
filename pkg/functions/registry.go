package functions

import (
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// NullaryDef describes a custom zero-argument operation.
type NullaryDef struct {
	// Name is the operation name as it appears in serialized expressions.
	Name string
	// ReturnType is the type of the produced values.
	ReturnType *types.Type
	// Fn is the implementation.
	Fn provider.NullaryFunc
}

// UnaryDef describes a custom one-argument operation.
// Overloads are resolved in declaration order.
type UnaryDef struct {
	Name      string
	Overloads []*provider.Unary
}

// BinaryDef describes a custom two-argument operation.
// Build commutative overloads with provider.NewCommutative.
type BinaryDef struct {
	Name      string
	Overloads []*provider.Binary
}

// TernaryDef describes a custom three-argument operation.
type TernaryDef struct {
	Name      string
	Overloads []*provider.Ternary
}

// Entry is implemented by NullaryDef, UnaryDef, BinaryDef and TernaryDef.
// It allows mixing all arities in a single call to Extend or Register.
type Entry interface {
	register(r *provider.Registry) error
}

func (d NullaryDef) register(r *provider.Registry) error {
	return r.RegisterNullary(d.Name, provider.NewNullary(d.ReturnType, d.Fn))
}

func (d UnaryDef) register(r *provider.Registry) error {
	return r.RegisterUnary(d.Name, provider.NewUnaryCollection(d.Name, d.Overloads...))
}

func (d BinaryDef) register(r *provider.Registry) error {
	return r.RegisterBinary(d.Name, provider.NewBinaryCollection(d.Name, d.Overloads...))
}

func (d TernaryDef) register(r *provider.Registry) error {
	return r.RegisterTernary(d.Name, provider.NewTernaryCollection(d.Name, d.Overloads...))
}

// Register adds entries to r, stopping at the first failure.
// Names already taken for the same arity fail with ErrDuplicateOperation.
func Register(r *provider.Registry, entries ...Entry) error {
	for _, e := range entries {
		if err := e.register(r); err != nil {
			return err
		}
	}
	return nil
}

// Extend returns a frozen copy of the standard registry holding entries as well.
func Extend(entries ...Entry) (*provider.Registry, error) {
	r := Standard().Clone()
	if err := Register(r, entries...); err != nil {
		return nil, err
	}
	return r.Freeze(), nil
}

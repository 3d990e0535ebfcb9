// Package types defines the closed type system of ddexpr.
//
// This package contains:
//   - Type: primitive (string, number, boolean) and array-of types
//   - Value: runtime values belonging to those types
//   - Node: the serialized (JSON/YAML) form of an expression
//   - Error types: structured errors with codes
package types

import (
	"strings"
	"sync"
)

// Kind discriminates the shape of a Type.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindNumber
	KindBoolean
	KindArray
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	default:
		return "invalid"
	}
}

// Type is a value type: a primitive or an array of another Type.
//
// Primitive types are singletons. Array types are compared structurally by
// element type; ArrayOf caches them so repeated lookups share one instance.
type Type struct {
	kind Kind
	elem *Type
	name string
}

var (
	// String is the primitive string type.
	String = &Type{kind: KindString, name: "string"}
	// Number is the primitive number type.
	Number = &Type{kind: KindNumber, name: "number"}
	// Boolean is the primitive boolean type.
	Boolean = &Type{kind: KindBoolean, name: "boolean"}
)

var arrayTypes sync.Map // element name -> *Type

// ArrayOf returns the array type whose elements are of type elem.
func ArrayOf(elem *Type) *Type {
	if t, ok := arrayTypes.Load(elem.name); ok {
		return t.(*Type)
	}
	t, _ := arrayTypes.LoadOrStore(elem.name, &Type{kind: KindArray, elem: elem, name: elem.name + "[]"})
	return t.(*Type)
}

var (
	StringArray       = ArrayOf(String)
	NumberArray       = ArrayOf(Number)
	BooleanArray      = ArrayOf(Boolean)
	StringArrayArray  = ArrayOf(StringArray)
	NumberArrayArray  = ArrayOf(NumberArray)
	BooleanArrayArray = ArrayOf(BooleanArray)
)

// Array returns the array type of t.
func (t *Type) Array() *Type {
	return ArrayOf(t)
}

// Kind returns the kind of t.
func (t *Type) Kind() Kind {
	return t.kind
}

// Elem returns the element type of an array type, or nil for primitives.
func (t *Type) Elem() *Type {
	return t.elem
}

// Name returns the display name ("number", "string[]", ...).
func (t *Type) Name() string {
	return t.name
}

// String implements fmt.Stringer.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

// IsArray reports whether t is an array type.
func (t *Type) IsArray() bool {
	return t.kind == KindArray
}

// Extends reports whether every value of t can be used where other is expected.
// Primitives only extend themselves; arrays are covariant in their element type.
func (t *Type) Extends(other *Type) bool {
	if t == nil || other == nil {
		return false
	}
	if t.kind != other.kind {
		return false
	}
	if t.kind != KindArray {
		return true
	}
	return t.elem.Extends(other.elem)
}

// IsAssignable reports whether v is a runtime value of type t.
func (t *Type) IsAssignable(v Value) bool {
	switch t.kind {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindNumber:
		_, ok := v.(float64)
		return ok
	case KindBoolean:
		_, ok := v.(bool)
		return ok
	case KindArray:
		arr, ok := v.([]any)
		if !ok {
			return false
		}
		for _, e := range arr {
			if !t.elem.IsAssignable(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ParseType parses a display name such as "boolean" or "number[][]".
func ParseType(name string) (*Type, error) {
	base := strings.TrimSpace(name)
	depth := 0
	for strings.HasSuffix(base, "[]") {
		base = strings.TrimSpace(strings.TrimSuffix(base, "[]"))
		depth++
	}

	var t *Type
	switch base {
	case "string":
		t = String
	case "number":
		t = Number
	case "boolean":
		t = Boolean
	default:
		return nil, Errorf(ErrMalformedNode, "unknown type %q", name)
	}
	for i := 0; i < depth; i++ {
		t = ArrayOf(t)
	}
	return t, nil
}

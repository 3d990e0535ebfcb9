package types

import (
	"encoding/json"
)

// NodeType identifies the shape of a serialized expression node.
type NodeType string

const (
	NodeLiteral NodeType = "literal" // plain value, type derived or declared
	NodeNullary NodeType = "nullary" // {"name"}
	NodeUnary   NodeType = "unary"   // {"name","arg"}
	NodeBinary  NodeType = "binary"  // {"name","lhs","rhs"}
	NodeTernary NodeType = "ternary" // {"name","a","b","c"}
)

// Serialized field names.
const (
	FieldName  = "name"
	FieldArg   = "arg"
	FieldLHS   = "lhs"
	FieldRHS   = "rhs"
	FieldA     = "a"
	FieldB     = "b"
	FieldC     = "c"
	FieldType  = "type"
	FieldValue = "value"
)

// Node is a structurally validated serialized expression.
//
// Exactly the slots matching Type are set: Arg for unary nodes, LHS/RHS for
// binary nodes and A/B/C for ternary nodes. Literal nodes carry Value and,
// when declared explicitly, LiteralType.
type Node struct {
	Type NodeType
	Path string

	Name        string
	Value       Value
	LiteralType *Type

	Arg *Node
	LHS *Node
	RHS *Node
	A   *Node
	B   *Node
	C   *Node
}

// Children returns the argument slots in evaluation order.
func (n *Node) Children() []*Node {
	switch n.Type {
	case NodeUnary:
		return []*Node{n.Arg}
	case NodeBinary:
		return []*Node{n.LHS, n.RHS}
	case NodeTernary:
		return []*Node{n.A, n.B, n.C}
	default:
		return nil
	}
}

// Depth returns the height of the tree rooted at n.
func (n *Node) Depth() int {
	d := 0
	for _, c := range n.Children() {
		if cd := c.Depth(); cd > d {
			d = cd
		}
	}
	return d + 1
}

// MarshalJSON re-emits the wire form of the node.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.wire())
}

func (n *Node) wire() any {
	switch n.Type {
	case NodeLiteral:
		if n.LiteralType != nil {
			return map[string]any{FieldType: n.LiteralType.Name(), FieldValue: n.Value}
		}
		return n.Value
	case NodeNullary:
		return map[string]any{FieldName: n.Name}
	case NodeUnary:
		return map[string]any{FieldName: n.Name, FieldArg: n.Arg.wire()}
	case NodeBinary:
		return map[string]any{FieldName: n.Name, FieldLHS: n.LHS.wire(), FieldRHS: n.RHS.wire()}
	case NodeTernary:
		return map[string]any{FieldName: n.Name, FieldA: n.A.wire(), FieldB: n.B.wire(), FieldC: n.C.wire()}
	default:
		return nil
	}
}

// String returns the compact JSON form of the node.
func (n *Node) String() string {
	data, err := n.MarshalJSON()
	if err != nil {
		return "<invalid node>"
	}
	return string(data)
}

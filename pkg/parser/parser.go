// Package parser turns serialized expressions into evaluable providers.
//
// Parsing runs in two phases. The structural phase (Parse, ParseYAML,
// FromValue) validates the shape of every node and produces a *types.Node
// tree without consulting any registry. The build phase (Build, Compile)
// resolves each named node against a registry, bottom-up, and chains the
// children into the chosen overload.
//
// # Format
//
// A node is either a literal (string, number, boolean or a homogeneous
// array of literals) or an object naming an operation:
//
//	{"name": "random number"}
//	{"name": "sqrt", "arg": 16}
//	{"name": "add", "lhs": 3, "rhs": 4}
//	{"name": "conditional", "a": true, "b": "yes", "c": "no"}
//
// Empty arrays carry no element type; write them as typed literals:
//
//	{"type": "number[]", "value": []}
//
// # Example
//
//	expr, err := parser.Compile([]byte(`{"name":"add","lhs":3,"rhs":4}`))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, err := expr.Apply(provider.NewContext()) // 7
package parser

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sandrolain/ddexpr/pkg/types"
)

const rootPath = "$"

// Parse validates a JSON expression document.
func Parse(data []byte, opts ...Option) (*types.Node, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, types.NewError(types.ErrInvalidDocument, "expression is not valid JSON").WithCause(err)
	}
	return FromValue(v, opts...)
}

// ParseYAML validates a YAML expression document.
func ParseYAML(data []byte, opts ...Option) (*types.Node, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, types.NewError(types.ErrInvalidDocument, "expression is not valid YAML").WithCause(err)
	}
	return FromValue(v, opts...)
}

// ParseWithExt validates a document whose format is chosen by file extension:
// ".yaml" and ".yml" select YAML, anything else JSON.
func ParseWithExt(data []byte, ext string, opts ...Option) (*types.Node, error) {
	if IsYAML(ext) {
		return ParseYAML(data, opts...)
	}
	return Parse(data, opts...)
}

// IsYAML reports whether a file name or extension denotes a YAML document.
func IsYAML(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		ext = "." + strings.ToLower(strings.TrimPrefix(name, "."))
	}
	return ext == ".yaml" || ext == ".yml"
}

// FromValue validates a decoded document (from encoding/json, yaml.v3 or
// hand-built maps and slices) and returns its node tree.
func FromValue(v any, opts ...Option) (*types.Node, error) {
	o := newOptions(opts)
	return structural(v, rootPath, 1, o.MaxDepth)
}

func structural(v any, at string, depth, maxDepth int) (*types.Node, error) {
	if depth > maxDepth {
		return nil, types.Errorf(types.ErrNestingTooDeep, "expression nests deeper than %d levels", maxDepth).WithPath(at)
	}
	switch val := v.(type) {
	case nil:
		return nil, types.NewError(types.ErrMalformedNode, "null is not an expression").WithPath(at)
	case map[string]any:
		return objectNode(val, at, depth, maxDepth)
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, e := range val {
			key, ok := k.(string)
			if !ok {
				return nil, types.Errorf(types.ErrMalformedNode, "object key %v is not a string", k).WithPath(at)
			}
			m[key] = e
		}
		return objectNode(m, at, depth, maxDepth)
	default:
		lit, err := literal(v, at)
		if err != nil {
			return nil, err
		}
		return &types.Node{Type: types.NodeLiteral, Path: at, Value: lit}, nil
	}
}

// literal normalizes a literal value; arrays must hold literals of one type.
func literal(v any, at string) (types.Value, error) {
	if arr, ok := v.([]any); ok {
		for i, e := range arr {
			if _, err := literal(e, fmt.Sprintf("%s[%d]", at, i)); err != nil {
				return nil, err
			}
		}
	}
	switch v.(type) {
	case map[string]any, map[any]any:
		return nil, types.NewError(types.ErrMalformedNode, "objects are not allowed inside array literals").WithPath(at)
	case nil:
		return nil, types.NewError(types.ErrMalformedNode, "null is not a literal").WithPath(at)
	}
	out, err := types.Normalize(v)
	if err != nil {
		return nil, asMalformed(err).WithPath(at)
	}
	return out, nil
}

// slotSets maps the exact set of argument fields to the node shape it denotes.
var slotSets = []struct {
	nodeType types.NodeType
	fields   []string
}{
	{types.NodeNullary, nil},
	{types.NodeUnary, []string{types.FieldArg}},
	{types.NodeBinary, []string{types.FieldLHS, types.FieldRHS}},
	{types.NodeTernary, []string{types.FieldA, types.FieldB, types.FieldC}},
}

var slotFields = map[string]bool{
	types.FieldArg: true,
	types.FieldLHS: true, types.FieldRHS: true,
	types.FieldA: true, types.FieldB: true, types.FieldC: true,
}

func objectNode(m map[string]any, at string, depth, maxDepth int) (*types.Node, error) {
	if _, typed := m[types.FieldType]; typed {
		return typedLiteral(m, at)
	}
	if _, typed := m[types.FieldValue]; typed {
		return typedLiteral(m, at)
	}

	rawName, ok := m[types.FieldName]
	if !ok {
		return nil, types.Errorf(types.ErrMalformedNode, "object without %q field", types.FieldName).WithPath(at)
	}
	name, ok := rawName.(string)
	if !ok || name == "" {
		return nil, types.Errorf(types.ErrMalformedNode, "%q must be a non-empty string, got %v", types.FieldName, rawName).WithPath(at)
	}

	var slots []string
	for k := range m {
		switch {
		case k == types.FieldName:
		case slotFields[k]:
			slots = append(slots, k)
		default:
			return nil, types.Errorf(types.ErrMalformedNode, "unknown field %q in %q node", k, name).WithPath(at)
		}
	}

	n := &types.Node{Path: at, Name: name}
	var fields []string
	for _, set := range slotSets {
		if sameFields(slots, set.fields) {
			n.Type, fields = set.nodeType, set.fields
			break
		}
	}
	if n.Type == "" {
		sort.Strings(slots)
		return nil, types.Errorf(types.ErrMalformedNode, "%q node has fields %v; want none, [arg], [lhs rhs] or [a b c]", name, slots).WithPath(at)
	}

	children := map[string]**types.Node{
		types.FieldArg: &n.Arg,
		types.FieldLHS: &n.LHS, types.FieldRHS: &n.RHS,
		types.FieldA: &n.A, types.FieldB: &n.B, types.FieldC: &n.C,
	}
	for _, field := range fields {
		child, err := structural(m[field], at+"."+field, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		*children[field] = child
	}
	return n, nil
}

func typedLiteral(m map[string]any, at string) (*types.Node, error) {
	rawType, hasType := m[types.FieldType]
	raw, hasValue := m[types.FieldValue]
	if !hasType || !hasValue || len(m) != 2 {
		return nil, types.Errorf(types.ErrMalformedNode, "typed literal needs exactly the fields %q and %q", types.FieldType, types.FieldValue).WithPath(at)
	}
	typeName, ok := rawType.(string)
	if !ok {
		return nil, types.Errorf(types.ErrMalformedNode, "%q must be a type name, got %v", types.FieldType, rawType).WithPath(at + "." + types.FieldType)
	}
	t, err := types.ParseType(typeName)
	if err != nil {
		return nil, withPath(err, at+"."+types.FieldType)
	}
	valueAt := at + "." + types.FieldValue
	v, lerr := literal(raw, valueAt)
	if lerr != nil {
		return nil, lerr
	}
	if !t.IsAssignable(v) {
		return nil, types.Errorf(types.ErrTypeMismatch, "literal %v is not a %s", v, t).WithPath(valueAt)
	}
	return &types.Node{Type: types.NodeLiteral, Path: at, Value: v, LiteralType: t}, nil
}

func sameFields(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for _, w := range want {
		found := false
		for _, g := range got {
			if g == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// asMalformed reports an invalid literal as a malformed node, keeping the cause.
func asMalformed(err error) *types.Error {
	return types.Errorf(types.ErrMalformedNode, "invalid literal: %v", err).WithCause(err)
}

package provider

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/sandrolain/ddexpr/pkg/types"
)

// ContextFromJSON creates a context seeded from a JSON document.
// See SeedJSON for the naming rules.
func ContextFromJSON(data []byte) (*Context, error) {
	c := NewContext()
	if err := c.SeedJSON(data); err != nil {
		return nil, err
	}
	return c, nil
}

// SeedJSON stores every leaf of a JSON object as a variable.
//
// Nested object keys are joined with dots, so {"team":{"size":4}} sets the
// number variable "team.size". Arrays become array variables and nulls are
// skipped. Empty arrays have no element type and are rejected.
func (c *Context) SeedJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return types.NewError(types.ErrInvalidDocument, "variables document is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return types.NewError(types.ErrInvalidDocument, "variables document must be a JSON object")
	}
	return c.seed("", doc)
}

func (c *Context) seed(prefix string, obj gjson.Result) error {
	var err error
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if prefix != "" {
			name = prefix + "." + name
		}
		if value.IsObject() {
			err = c.seed(name, value)
			return err == nil
		}
		if value.Type == gjson.Null {
			return true
		}
		var v types.Value
		if v, err = jsonValue(value); err != nil {
			err = fmt.Errorf("variable %q: %w", name, err)
			return false
		}
		var t *types.Type
		if t, err = types.TypeOf(v); err != nil {
			err = fmt.Errorf("variable %q: %w", name, err)
			return false
		}
		c.partition(t)[name] = v
		return true
	})
	return err
}

func jsonValue(r gjson.Result) (types.Value, error) {
	switch {
	case r.IsArray():
		items := r.Array()
		out := make([]any, len(items))
		for i, item := range items {
			v, err := jsonValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case r.Type == gjson.String:
		return r.Str, nil
	case r.Type == gjson.Number:
		// out-of-range literals such as 1e999 parse as infinities
		return types.Normalize(r.Num)
	case r.Type == gjson.True, r.Type == gjson.False:
		return r.Bool(), nil
	default:
		return nil, types.Errorf(types.ErrIndeterminateType, "unsupported JSON value %s", r.Raw)
	}
}

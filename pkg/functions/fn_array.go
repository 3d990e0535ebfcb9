package functions

import (
	"cmp"
	"slices"

	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// flatArrays lists the one-dimensional array types in catalogue order.
var flatArrays = []*types.Type{types.StringArray, types.NumberArray, types.BooleanArray}

func registerArrays(c *catalog) {
	length := []*provider.Unary{
		provider.NewUnary(types.String, types.Number, func(_ *provider.Context, v types.Value) (types.Value, error) {
			return float64(len(runes(v))), nil
		}),
	}
	for _, t := range flatArrays {
		length = append(length, provider.NewUnary(t, types.Number, func(_ *provider.Context, v types.Value) (types.Value, error) {
			return float64(len(array(v))), nil
		}))
	}
	c.unary("length", length...)

	reverse := []*provider.Unary{
		provider.NewUnary(types.String, types.String, func(_ *provider.Context, v types.Value) (types.Value, error) {
			rs := runes(v)
			slices.Reverse(rs)
			return string(rs), nil
		}),
	}
	for _, t := range flatArrays {
		reverse = append(reverse, provider.NewUnary(t, t, func(_ *provider.Context, v types.Value) (types.Value, error) {
			out := copyArray(v)
			slices.Reverse(out)
			return out, nil
		}))
	}
	c.unary("reverse", reverse...)

	var wrap []*provider.Unary
	for _, t := range primitives {
		wrap = append(wrap, provider.NewUnary(t, t.Array(), func(_ *provider.Context, v types.Value) (types.Value, error) {
			return []any{v}, nil
		}))
	}
	c.unary("array", wrap...)

	c.unary("sort",
		provider.NewUnary(types.StringArray, types.StringArray, func(ctx *provider.Context, v types.Value) (types.Value, error) {
			out := copyArray(v)
			coll := ctx.Collator()
			slices.SortStableFunc(out, func(a, b any) int { return coll.CompareString(str(a), str(b)) })
			return out, nil
		}),
		provider.NewUnary(types.NumberArray, types.NumberArray, func(_ *provider.Context, v types.Value) (types.Value, error) {
			out := copyArray(v)
			slices.SortStableFunc(out, func(a, b any) int { return cmp.Compare(num(a), num(b)) })
			return out, nil
		}),
		provider.NewUnary(types.BooleanArray, types.BooleanArray, func(_ *provider.Context, v types.Value) (types.Value, error) {
			out := copyArray(v)
			slices.SortStableFunc(out, func(a, b any) int { return cmp.Compare(boolRank(a), boolRank(b)) })
			return out, nil
		}),
	)

	c.unary("head", slicers(
		func(rs []rune) string { return string(rs[0]) },
		func(arr []any) types.Value { return arr[0] },
	)...)
	c.unary("last", slicers(
		func(rs []rune) string { return string(rs[len(rs)-1]) },
		func(arr []any) types.Value { return arr[len(arr)-1] },
	)...)
	c.unary("init", trimmers(1, 0)...)
	c.unary("tail", trimmers(0, 1)...)

	var index []*provider.Binary
	for _, t := range flatArrays {
		index = append(index, provider.NewBinary(t, types.Number, t.Elem(), fnIndex))
	}
	c.binary("index", index...)

	var join []*provider.Binary
	for _, t := range primitives {
		at := t.Array()
		join = append(join,
			provider.NewBinary(t, t, at, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
				return []any{l, r}, nil
			}),
			provider.NewBinary(t, at, at, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
				return append([]any{l}, array(r)...), nil
			}),
			provider.NewBinary(at, t, at, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
				return append(copyArray(l), r), nil
			}),
			provider.NewBinary(at, at, at, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
				return append(copyArray(l), array(r)...), nil
			}),
		)
	}
	c.binary("join", join...)
}

// slicers builds the string and array overloads of head and last.
func slicers(fromString func([]rune) string, fromArray func([]any) types.Value) []*provider.Unary {
	out := []*provider.Unary{
		provider.NewUnary(types.String, types.String, func(_ *provider.Context, v types.Value) (types.Value, error) {
			rs := runes(v)
			if len(rs) == 0 {
				return nil, types.NewError(types.ErrRange, "empty string")
			}
			return fromString(rs), nil
		}),
	}
	for _, t := range flatArrays {
		out = append(out, provider.NewUnary(t, t.Elem(), func(_ *provider.Context, v types.Value) (types.Value, error) {
			arr := array(v)
			if len(arr) == 0 {
				return nil, types.Errorf(types.ErrRange, "empty %s array", t.Elem())
			}
			return fromArray(arr), nil
		}))
	}
	return out
}

// trimmers builds the overloads dropping front elements from the start and back from the end.
func trimmers(front, back int) []*provider.Unary {
	out := []*provider.Unary{
		provider.NewUnary(types.String, types.String, func(_ *provider.Context, v types.Value) (types.Value, error) {
			rs := runes(v)
			if len(rs) == 0 {
				return nil, types.NewError(types.ErrRange, "empty string")
			}
			return string(rs[front : len(rs)-back]), nil
		}),
	}
	for _, t := range flatArrays {
		out = append(out, provider.NewUnary(t, t, func(_ *provider.Context, v types.Value) (types.Value, error) {
			arr := array(v)
			if len(arr) == 0 {
				return nil, types.Errorf(types.ErrRange, "empty %s", t)
			}
			return append([]any(nil), arr[front:len(arr)-back]...), nil
		}))
	}
	return out
}

func fnIndex(_ *provider.Context, v, i types.Value) (types.Value, error) {
	arr := array(v)
	x := num(i)
	if !isInteger(x) {
		return nil, types.Errorf(types.ErrDomain, "index %v is not an integer", x)
	}
	if x < 0 || x >= float64(len(arr)) {
		return nil, types.Errorf(types.ErrRange, "index %v is out of range for array of length %d", x, len(arr))
	}
	return arr[int(x)], nil
}

func boolRank(v any) int {
	if boolean(v) {
		return 1
	}
	return 0
}

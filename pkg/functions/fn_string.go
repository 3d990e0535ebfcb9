package functions

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// wordSeparator splits and joins words in split, join and capitalize all.
const wordSeparator = " "

func registerStrings(c *catalog) {
	c.unary("lowercase", stringFn(func(ctx *provider.Context, s string) string {
		return cases.Lower(ctx.Language()).String(s)
	}))
	c.unary("uppercase", stringFn(func(ctx *provider.Context, s string) string {
		return cases.Upper(ctx.Language()).String(s)
	}))
	c.unary("capitalize", stringFn(capitalize))
	c.unary("capitalize all", stringFn(func(ctx *provider.Context, s string) string {
		words := strings.Split(s, wordSeparator)
		for i, w := range words {
			words[i] = capitalize(ctx, w)
		}
		return strings.Join(words, wordSeparator)
	}))
	c.unary("split", provider.NewUnary(types.String, types.StringArray, func(_ *provider.Context, v types.Value) (types.Value, error) {
		words := strings.Split(str(v), wordSeparator)
		out := make([]any, len(words))
		for i, w := range words {
			out[i] = w
		}
		return out, nil
	}))
	c.unary("join", provider.NewUnary(types.StringArray, types.String, func(_ *provider.Context, v types.Value) (types.Value, error) {
		arr := array(v)
		words := make([]string, len(arr))
		for i, w := range arr {
			words[i] = str(w)
		}
		return strings.Join(words, wordSeparator), nil
	}))
}

func stringFn(fn func(ctx *provider.Context, s string) string) *provider.Unary {
	return provider.NewUnary(types.String, types.String, func(ctx *provider.Context, v types.Value) (types.Value, error) {
		return fn(ctx, str(v)), nil
	})
}

// capitalize upper-cases the first character and leaves the rest untouched.
func capitalize(ctx *provider.Context, s string) string {
	_, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return cases.Upper(ctx.Language()).String(s[:size]) + s[size:]
}

// runes splits s into characters for positional string operations.
func runes(v types.Value) []rune {
	return []rune(str(v))
}

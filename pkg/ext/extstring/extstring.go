// Package extstring provides string operations beyond the standard library.
package extstring

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/ddexpr/pkg/functions"
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// All returns all extended string operations.
func All() []functions.Entry {
	return []functions.Entry{
		StartsWith(),
		EndsWith(),
		Contains(),
		IndexOf(),
		LastIndexOf(),
		Trim(),
		CamelCase(),
		SnakeCase(),
		KebabCase(),
		Words(),
	}
}

func predicate(name string, fn func(s, sub string) bool) functions.BinaryDef {
	return functions.BinaryDef{
		Name: name,
		Overloads: []*provider.Binary{
			provider.NewBinary(types.String, types.String, types.Boolean, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
				return fn(l.(string), r.(string)), nil
			}),
		},
	}
}

func transform(name string, fn func(string) string) functions.UnaryDef {
	return functions.UnaryDef{
		Name: name,
		Overloads: []*provider.Unary{
			provider.NewUnary(types.String, types.String, func(_ *provider.Context, v types.Value) (types.Value, error) {
				return fn(v.(string)), nil
			}),
		},
	}
}

// StartsWith returns the definition for "starts with" (string, prefix).
func StartsWith() functions.BinaryDef {
	return predicate("starts with", strings.HasPrefix)
}

// EndsWith returns the definition for "ends with" (string, suffix).
func EndsWith() functions.BinaryDef {
	return predicate("ends with", strings.HasSuffix)
}

// Contains returns the definition for "contains" (string, substring).
func Contains() functions.BinaryDef {
	return predicate("contains", strings.Contains)
}

// IndexOf returns the definition for "index of" (string, search).
// Positions count characters; -1 means not found.
func IndexOf() functions.BinaryDef {
	return search("index of", strings.Index)
}

// LastIndexOf returns the definition for "last index of" (string, search).
func LastIndexOf() functions.BinaryDef {
	return search("last index of", strings.LastIndex)
}

func search(name string, find func(s, sub string) int) functions.BinaryDef {
	return functions.BinaryDef{
		Name: name,
		Overloads: []*provider.Binary{
			provider.NewBinary(types.String, types.String, types.Number, func(_ *provider.Context, l, r types.Value) (types.Value, error) {
				s := l.(string)
				idx := find(s, r.(string))
				if idx < 0 {
					return -1.0, nil
				}
				return float64(utf8.RuneCountInString(s[:idx])), nil
			}),
		},
	}
}

// Trim returns the definition for "trim", which strips surrounding white space.
func Trim() functions.UnaryDef {
	return transform("trim", strings.TrimSpace)
}

var splitWordsRe = regexp.MustCompile(`[a-z][A-Z]|[_\-\s]+`)

func splitIntoWords(str string) []string {
	// break camelCase humps, then separators
	expanded := splitWordsRe.ReplaceAllStringFunc(str, func(s string) string {
		if len(s) == 2 && s[0] >= 'a' && s[0] <= 'z' {
			return string(s[0]) + " " + string(s[1])
		}
		return " "
	})
	return strings.Fields(expanded)
}

// CamelCase returns the definition for "camel case".
func CamelCase() functions.UnaryDef {
	return transform("camel case", func(s string) string {
		words := splitIntoWords(s)
		if len(words) == 0 {
			return ""
		}
		var b strings.Builder
		b.WriteString(strings.ToLower(words[0]))
		for _, w := range words[1:] {
			rs := []rune(strings.ToLower(w))
			rs[0] = unicode.ToUpper(rs[0])
			b.WriteString(string(rs))
		}
		return b.String()
	})
}

// SnakeCase returns the definition for "snake case".
func SnakeCase() functions.UnaryDef {
	return transform("snake case", joinLower("_"))
}

// KebabCase returns the definition for "kebab case".
func KebabCase() functions.UnaryDef {
	return transform("kebab case", joinLower("-"))
}

func joinLower(sep string) func(string) string {
	return func(s string) string {
		words := splitIntoWords(s)
		for i, w := range words {
			words[i] = strings.ToLower(w)
		}
		return strings.Join(words, sep)
	}
}

// Words returns the definition for "words", which splits on camelCase humps,
// underscores, hyphens and white space.
func Words() functions.UnaryDef {
	return functions.UnaryDef{
		Name: "words",
		Overloads: []*provider.Unary{
			provider.NewUnary(types.String, types.StringArray, func(_ *provider.Context, v types.Value) (types.Value, error) {
				words := splitIntoWords(v.(string))
				out := make([]any, len(words))
				for i, w := range words {
					out[i] = w
				}
				return out, nil
			}),
		},
	}
}

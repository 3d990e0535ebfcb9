// Package functions provides the standard library of named operations.
//
// The catalogue covers randomness and time (nullary), arithmetic, string,
// array, conversion and variable lookups (unary), arithmetic, logic,
// comparison and array operators (binary) and the conditional (ternary).
//
// Standard returns the shared, frozen registry. Use Extend to obtain a
// registry that also holds custom operations:
//
//	reg, err := functions.Extend(functions.UnaryDef{
//	    Name: "double",
//	    Overloads: []*provider.Unary{
//	        provider.NewUnary(types.Number, types.Number, func(_ *provider.Context, x types.Value) (types.Value, error) {
//	            return x.(float64) * 2, nil
//	        }),
//	    },
//	})
package functions

import (
	"fmt"
	"sync"

	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

var (
	standard     *provider.Registry
	standardOnce sync.Once
)

// Standard returns the registry holding the built-in operations.
// It is built on first use and frozen.
func Standard() *provider.Registry {
	standardOnce.Do(func() {
		c := &catalog{r: provider.NewRegistry()}
		registerRandom(c)
		registerDatetime(c)
		registerNumeric(c)
		registerStrings(c)
		registerArrays(c)
		registerConvert(c)
		registerVariables(c)
		registerArithmetic(c)
		registerLogic(c)
		registerCompare(c)
		registerConditional(c)
		if c.err != nil {
			panic(fmt.Sprintf("functions: building standard library: %v", c.err))
		}
		standard = c.r.Freeze()
	})
	return standard
}

// catalog registers collections and keeps the first failure.
type catalog struct {
	r   *provider.Registry
	err error
}

func (c *catalog) keep(err error) {
	if c.err == nil && err != nil {
		c.err = err
	}
}

func (c *catalog) nullary(name string, ret *types.Type, fn provider.NullaryFunc) {
	c.keep(c.r.RegisterNullary(name, provider.NewNullary(ret, fn)))
}

func (c *catalog) unary(name string, overloads ...*provider.Unary) *provider.UnaryCollection {
	col := provider.NewUnaryCollection(name, overloads...)
	c.keep(c.r.RegisterUnary(name, col))
	return col
}

func (c *catalog) binary(name string, overloads ...*provider.Binary) {
	c.keep(c.r.RegisterBinary(name, provider.NewBinaryCollection(name, overloads...)))
}

func (c *catalog) ternary(name string, overloads ...*provider.Ternary) {
	c.keep(c.r.RegisterTernary(name, provider.NewTernaryCollection(name, overloads...)))
}

// primitives lists the element types in catalogue order.
var primitives = []*types.Type{types.String, types.Number, types.Boolean}

func str(v types.Value) string   { return v.(string) }
func num(v types.Value) float64  { return v.(float64) }
func boolean(v types.Value) bool { return v.(bool) }
func array(v types.Value) []any  { return v.([]any) }

func copyArray(v types.Value) []any {
	return append([]any(nil), array(v)...)
}

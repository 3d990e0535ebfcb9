package functions

import (
	"math"
	"strconv"
	"strings"

	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

func registerConvert(c *catalog) {
	c.unary("to string",
		provider.NewUnary(types.String, types.String, identity),
		provider.NewUnary(types.Number, types.String, func(_ *provider.Context, v types.Value) (types.Value, error) {
			return FormatNumber(num(v)), nil
		}),
		provider.NewUnary(types.Boolean, types.String, func(_ *provider.Context, v types.Value) (types.Value, error) {
			return strconv.FormatBool(boolean(v)), nil
		}),
	)
	c.unary("to number",
		provider.NewUnary(types.String, types.Number, func(_ *provider.Context, v types.Value) (types.Value, error) {
			return ParseNumber(str(v))
		}),
		provider.NewUnary(types.Number, types.Number, identity),
		provider.NewUnary(types.Boolean, types.Number, func(_ *provider.Context, v types.Value) (types.Value, error) {
			if boolean(v) {
				return 1.0, nil
			}
			return 0.0, nil
		}),
	)
	c.unary("to boolean",
		provider.NewUnary(types.String, types.Boolean, func(_ *provider.Context, v types.Value) (types.Value, error) {
			return str(v) != "", nil
		}),
		provider.NewUnary(types.Number, types.Boolean, func(_ *provider.Context, v types.Value) (types.Value, error) {
			return num(v) != 0, nil
		}),
		provider.NewUnary(types.Boolean, types.Boolean, identity),
	)
}

func identity(_ *provider.Context, v types.Value) (types.Value, error) {
	return v, nil
}

// FormatNumber renders x the shortest way that parses back to x.
// Integers print without a fraction; very large and very small
// magnitudes use exponent notation.
func FormatNumber(x float64) string {
	abs := math.Abs(x)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// ParseNumber parses a decimal number, ignoring surrounding whitespace.
// A blank string is 0. Malformed and non-finite inputs fail with ErrInvalidNumber.
func ParseNumber(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, nil
	}
	x, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, types.Errorf(types.ErrInvalidNumber, "invalid number format %q", s)
	}
	return x, nil
}

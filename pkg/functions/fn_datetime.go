package functions

import (
	"time"

	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

func registerDatetime(c *catalog) {
	c.nullary("timestamp", types.Number, fnTimestamp)
	c.nullary("year", types.Number, clockPart(func(t time.Time) int { return t.Year() }))
	c.nullary("month", types.Number, clockPart(func(t time.Time) int { return int(t.Month()) }))
	c.nullary("day", types.Number, clockPart(time.Time.Day))
	c.nullary("hours", types.Number, clockPart(time.Time.Hour))
	c.nullary("minutes", types.Number, clockPart(time.Time.Minute))
	c.nullary("seconds", types.Number, clockPart(time.Time.Second))
	c.nullary("milliseconds", types.Number, clockPart(func(t time.Time) int { return t.Nanosecond() / int(time.Millisecond) }))
}

// fnTimestamp returns milliseconds since the Unix epoch.
func fnTimestamp(ctx *provider.Context) (types.Value, error) {
	return float64(ctx.Now().UnixMilli()), nil
}

// clockPart reads one component of the context clock, in local time.
func clockPart(part func(time.Time) int) provider.NullaryFunc {
	return func(ctx *provider.Context) (types.Value, error) {
		return float64(part(ctx.Now().Local())), nil
	}
}

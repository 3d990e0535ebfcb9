package provider

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sandrolain/ddexpr/pkg/types"
)

// Context is a typed variable store threaded through evaluation.
//
// Variables are partitioned by type, so "team.size" may exist both as a
// number and as a string without collision. A Context is not safe for
// concurrent use; evaluate in parallel against independent copies.
//
// The zero value is an empty context using the wall clock, the process-wide
// random source and English collation.
type Context struct {
	// vars maps a type name to that partition's variables
	vars map[string]map[string]types.Value

	rng      *rand.Rand
	now      func() time.Time
	lang     language.Tag
	collator *collate.Collator
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{
		vars: make(map[string]map[string]types.Value),
		now:  time.Now,
		lang: language.English,
	}
}

// ContextFromVars creates a context from a name to value mapping.
// Each value is normalized and stored in the partition of its derived type.
func ContextFromVars(vars map[string]any) (*Context, error) {
	c := NewContext()
	for name, raw := range vars {
		v, err := types.Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		t, err := types.TypeOf(v)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		c.partition(t)[name] = v
	}
	return c, nil
}

// WithRand sets the random source used by randomized providers.
// A nil source selects the shared process-wide source.
func (c *Context) WithRand(rng *rand.Rand) *Context {
	c.rng = rng
	return c
}

// WithClock sets the clock used by time providers.
func (c *Context) WithClock(now func() time.Time) *Context {
	if now == nil {
		now = time.Now
	}
	c.now = now
	return c
}

// WithLanguage sets the language used for string collation and case mapping.
func (c *Context) WithLanguage(tag language.Tag) *Context {
	c.lang = tag
	c.collator = nil
	return c
}

// Language returns the context language.
func (c *Context) Language() language.Tag {
	if c.lang == language.Und {
		return language.English
	}
	return c.lang
}

// Now returns the current time according to the context clock.
func (c *Context) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// Float64 returns a pseudo-random number in [0.0, 1.0).
func (c *Context) Float64() float64 {
	if c.rng != nil {
		return c.rng.Float64()
	}
	return rand.Float64()
}

// Intn returns a pseudo-random number in [0, n).
func (c *Context) Intn(n int) int {
	if c.rng != nil {
		return c.rng.Intn(n)
	}
	return rand.Intn(n)
}

// Shuffle pseudo-randomizes the order of n elements.
func (c *Context) Shuffle(n int, swap func(i, j int)) {
	if c.rng != nil {
		c.rng.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}

// Collator returns a collator for the context language, created on first use.
func (c *Context) Collator() *collate.Collator {
	if c.collator == nil {
		c.collator = collate.New(c.Language())
	}
	return c.collator
}

func (c *Context) partition(t *types.Type) map[string]types.Value {
	if c.vars == nil {
		c.vars = make(map[string]map[string]types.Value)
	}
	p, ok := c.vars[t.Name()]
	if !ok {
		p = make(map[string]types.Value)
		c.vars[t.Name()] = p
	}
	return p
}

// Get returns the variable name of type t.
//
// When the variable is unset, the first default is returned if given;
// otherwise Get fails with ErrUndefinedVariable.
func (c *Context) Get(t *types.Type, name string, def ...types.Value) (types.Value, error) {
	if p, ok := c.vars[t.Name()]; ok {
		if v, ok := p[name]; ok {
			return v, nil
		}
	}
	if len(def) > 0 {
		if !t.IsAssignable(def[0]) {
			return nil, types.Errorf(types.ErrTypeMismatch, "default for %s variable %q is not a %s", t, name, t)
		}
		return def[0], nil
	}
	return nil, types.Errorf(types.ErrUndefinedVariable, "undefined %s variable %q", t, name)
}

// Set stores v as the variable name of type t.
// Numbers must be finite.
func (c *Context) Set(t *types.Type, name string, v types.Value) error {
	if !t.IsAssignable(v) {
		return types.Errorf(types.ErrTypeMismatch, "value %v is not a %s", v, t)
	}
	v, err := types.Normalize(v)
	if err != nil {
		return fmt.Errorf("variable %q: %w", name, err)
	}
	c.partition(t)[name] = v
	return nil
}

// Has reports whether the variable name of type t is set.
func (c *Context) Has(t *types.Type, name string) bool {
	_, ok := c.vars[t.Name()][name]
	return ok
}

// Delete removes the variable name of type t.
func (c *Context) Delete(t *types.Type, name string) {
	delete(c.vars[t.Name()], name)
}

// Names returns the sorted variable names of partition t.
func (c *Context) Names(t *types.Type) []string {
	p := c.vars[t.Name()]
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Copy returns a deep, independent copy of the context.
//
// The clock and language are shared. A seeded random source is forked: the
// copy gets its own generator, seeded from c's, so copies may be used from
// different goroutines and a sequence of copies is reproducible. Forking
// advances c's source.
func (c *Context) Copy() *Context {
	vars := make(map[string]map[string]types.Value, len(c.vars))
	for typeName, p := range c.vars {
		cp := make(map[string]types.Value, len(p))
		for name, v := range p {
			cp[name] = types.CloneValue(v)
		}
		vars[typeName] = cp
	}
	var rng *rand.Rand
	if c.rng != nil {
		rng = rand.New(rand.NewSource(c.rng.Int63()))
	}
	return &Context{
		vars: vars,
		rng:  rng,
		now:  c.now,
		lang: c.lang,
	}
}

// String returns a string representation of the context.
func (c *Context) String() string {
	n := 0
	for _, p := range c.vars {
		n += len(p)
	}
	return fmt.Sprintf("Context{partitions=%d, vars=%d}", len(c.vars), n)
}

// SetStringVar stores a string variable.
func (c *Context) SetStringVar(name, v string) {
	c.partition(types.String)[name] = v
}

// StringVar returns a string variable.
func (c *Context) StringVar(name string, def ...string) (string, error) {
	v, err := c.Get(types.String, name, defaults(def)...)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// SetNumberVar stores a number variable. NaN and infinities are rejected
// with ErrDomain.
func (c *Context) SetNumberVar(name string, v float64) error {
	return c.Set(types.Number, name, v)
}

// NumberVar returns a number variable.
func (c *Context) NumberVar(name string, def ...float64) (float64, error) {
	v, err := c.Get(types.Number, name, defaults(def)...)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// SetBooleanVar stores a boolean variable.
func (c *Context) SetBooleanVar(name string, v bool) {
	c.partition(types.Boolean)[name] = v
}

// BooleanVar returns a boolean variable.
func (c *Context) BooleanVar(name string, def ...bool) (bool, error) {
	v, err := c.Get(types.Boolean, name, defaults(def)...)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// SetStringArrayVar stores a string array variable.
func (c *Context) SetStringArrayVar(name string, v []string) {
	c.partition(types.StringArray)[name] = toAny(v)
}

// StringArrayVar returns a string array variable.
func (c *Context) StringArrayVar(name string, def ...[]string) ([]string, error) {
	return arrayVar[string](c, types.StringArray, name, def)
}

// SetNumberArrayVar stores a number array variable. NaN and infinities are
// rejected with ErrDomain.
func (c *Context) SetNumberArrayVar(name string, v []float64) error {
	return c.Set(types.NumberArray, name, toAny(v))
}

// NumberArrayVar returns a number array variable.
func (c *Context) NumberArrayVar(name string, def ...[]float64) ([]float64, error) {
	return arrayVar[float64](c, types.NumberArray, name, def)
}

// SetBooleanArrayVar stores a boolean array variable.
func (c *Context) SetBooleanArrayVar(name string, v []bool) {
	c.partition(types.BooleanArray)[name] = toAny(v)
}

// BooleanArrayVar returns a boolean array variable.
func (c *Context) BooleanArrayVar(name string, def ...[]bool) ([]bool, error) {
	return arrayVar[bool](c, types.BooleanArray, name, def)
}

func defaults[T any](def []T) []types.Value {
	if len(def) == 0 {
		return nil
	}
	return []types.Value{def[0]}
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, e := range in {
		out[i] = e
	}
	return out
}

func arrayVar[T any](c *Context, t *types.Type, name string, def [][]T) ([]T, error) {
	var fallback []types.Value
	if len(def) > 0 {
		fallback = []types.Value{toAny(def[0])}
	}
	v, err := c.Get(t, name, fallback...)
	if err != nil {
		return nil, err
	}
	arr := v.([]any)
	out := make([]T, len(arr))
	for i, e := range arr {
		out[i] = e.(T)
	}
	return out, nil
}

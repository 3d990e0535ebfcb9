// Package evaluator compiles expression documents and applies them to
// variable contexts.
//
// The evaluator wraps the parser with an optional compile cache and structured
// logging, and evaluates a single expression over many contexts in parallel.
//
// # Example
//
//	ev := evaluator.New(evaluator.WithCaching(true))
//	expr, err := ev.Compile(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := ev.Eval(ctx, expr, vars)
//
// # Concurrency
//
// Compiled expressions are immutable and safe to share. Contexts are not:
// EvalBatch evaluates each context on its own copy.
//
//	results, err := ev.EvalBatch(ctx, expr, teams)
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandrolain/ddexpr/pkg/cache"
	"github.com/sandrolain/ddexpr/pkg/functions"
	"github.com/sandrolain/ddexpr/pkg/parser"
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// Evaluator compiles and evaluates expression documents.
type Evaluator struct {
	opts   EvalOptions
	logger *slog.Logger
	cache  *cache.Cache // non-nil when Caching is enabled
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Caching enables compiled expression caching, keyed by document digest.
	// The default cache holds up to 256 entries with LRU eviction.
	Caching bool
	// CacheSize sets the maximum number of cached expressions.
	// Only used when Caching is true and no explicit Cache is provided.
	CacheSize int
	// Cache is a custom expression cache. If non-nil, Caching is implicitly enabled.
	// A cache must only be shared between evaluators using the same Registry.
	Cache *cache.Cache
	// Concurrency lets EvalBatch evaluate contexts in parallel.
	Concurrency bool
	// Workers bounds parallel evaluations in EvalBatch. Zero means unbounded.
	Workers int
	// MaxDepth limits expression nesting.
	MaxDepth int
	// Timeout bounds a whole Eval or EvalBatch call.
	Timeout time.Duration
	// Registry resolves operation names. Defaults to functions.Standard().
	Registry *provider.Registry
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// defaultConcurrency is false on WebAssembly targets, see evaluator_wasm.go.
var defaultConcurrency = true

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		Concurrency: defaultConcurrency,
		MaxDepth:    parser.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Registry == nil {
		options.Registry = functions.Standard()
	}

	var c *cache.Cache
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		c = cache.New(options.CacheSize)
	}

	return &Evaluator{
		opts:   options,
		logger: options.Logger,
		cache:  c,
	}
}

// Cache returns the expression cache, or nil if caching is disabled.
func (e *Evaluator) Cache() *cache.Cache {
	return e.cache
}

// Registry returns the operation registry expressions are compiled against.
func (e *Evaluator) Registry() *provider.Registry {
	return e.opts.Registry
}

func (e *Evaluator) parserOptions() []parser.Option {
	return []parser.Option{
		parser.WithRegistry(e.opts.Registry),
		parser.WithMaxDepth(e.opts.MaxDepth),
	}
}

// Compile parses and builds a JSON expression document.
func (e *Evaluator) Compile(doc []byte) (*provider.Expression, error) {
	compile := func() (*provider.Expression, error) {
		return parser.Compile(doc, e.parserOptions()...)
	}
	if e.cache == nil {
		return e.logCompile(compile())
	}
	if expr, ok := e.cache.Get(doc); ok {
		e.debug("compile cache hit", slog.Uint64("key", cache.Key(doc)))
		return expr, nil
	}
	e.debug("compile cache miss", slog.Uint64("key", cache.Key(doc)))
	expr, err := e.logCompile(compile())
	if err != nil {
		return nil, err
	}
	e.cache.Set(doc, expr)
	return expr, nil
}

// CompileAs compiles doc and checks that it yields expected.
func (e *Evaluator) CompileAs(doc []byte, expected *types.Type) (*provider.Expression, error) {
	expr, err := e.Compile(doc)
	if err != nil {
		return nil, err
	}
	if !expr.ReturnType().Extends(expected) {
		return nil, types.Errorf(types.ErrTypeMismatch, "expression yields %s, want %s", expr.ReturnType(), expected).WithPath("$")
	}
	return expr, nil
}

// CompileNode builds an already parsed node tree. Node compilations are not cached.
func (e *Evaluator) CompileNode(n *types.Node) (*provider.Expression, error) {
	return e.logCompile(parser.CompileNode(n, e.parserOptions()...))
}

func (e *Evaluator) logCompile(expr *provider.Expression, err error) (*provider.Expression, error) {
	if err != nil {
		e.debug("compile failed", slog.String("code", string(types.CodeOf(err))), slog.Any("error", err))
		return nil, err
	}
	e.debug("compiled", slog.String("returns", expr.ReturnType().String()))
	return expr, nil
}

// Eval applies expr to vars. A nil vars evaluates against an empty context.
func (e *Evaluator) Eval(ctx context.Context, expr *provider.Expression, vars *provider.Context) (types.Value, error) {
	if expr == nil || expr.Root() == nil {
		return nil, fmt.Errorf("invalid expression")
	}
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if vars == nil {
		vars = provider.NewContext()
	}
	return e.apply(expr, vars)
}

// EvalDocument compiles doc and applies it to vars.
func (e *Evaluator) EvalDocument(ctx context.Context, doc []byte, vars *provider.Context) (types.Value, error) {
	expr, err := e.Compile(doc)
	if err != nil {
		return nil, err
	}
	return e.Eval(ctx, expr, vars)
}

func (e *Evaluator) apply(expr *provider.Expression, vars *provider.Context) (types.Value, error) {
	result, err := expr.Apply(vars)
	if err != nil {
		e.debug("evaluation failed", slog.String("expr", expr.String()), slog.Any("error", err))
		return nil, err
	}
	e.debug("evaluated", slog.String("expr", expr.String()), slog.Any("result", result))
	return result, nil
}

func (e *Evaluator) debug(msg string, attrs ...slog.Attr) {
	if !e.opts.Debug {
		return
	}
	e.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithCaching enables or disables compiled expression caching.
// When enabled, a default LRU cache of 256 entries is created.
// To control the cache size use WithCacheSize; to supply your own cache use WithCache.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached expressions.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) EvalOption {
	return func(opts *EvalOptions) {
		opts.CacheSize = size
	}
}

// WithCache attaches an external expression cache.
func WithCache(c *cache.Cache) EvalOption {
	return func(opts *EvalOptions) {
		opts.Cache = c
	}
}

// WithConcurrency enables or disables parallel batch evaluation.
func WithConcurrency(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Concurrency = enabled
	}
}

// WithWorkers bounds the number of parallel batch evaluations.
func WithWorkers(n int) EvalOption {
	return func(opts *EvalOptions) {
		opts.Workers = n
	}
}

// WithTimeout sets the evaluation timeout.
func WithTimeout(timeout time.Duration) EvalOption {
	return func(opts *EvalOptions) {
		opts.Timeout = timeout
	}
}

// WithRegistry compiles against r instead of the standard library.
func WithRegistry(r *provider.Registry) EvalOption {
	return func(opts *EvalOptions) {
		opts.Registry = r
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// WithMaxDepth sets the maximum expression nesting depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

package parser

import (
	"github.com/sandrolain/ddexpr/pkg/functions"
	"github.com/sandrolain/ddexpr/pkg/provider"
)

// DefaultMaxDepth is the nesting limit applied when none is configured.
const DefaultMaxDepth = 256

// Option configures parsing and compilation.
type Option func(*Options)

// Options holds parser configuration.
type Options struct {
	// Registry resolves operation names. Defaults to functions.Standard().
	Registry *provider.Registry
	// MaxDepth limits expression nesting.
	MaxDepth int
}

// WithRegistry resolves operations against r instead of the standard library.
func WithRegistry(r *provider.Registry) Option {
	return func(opts *Options) {
		opts.Registry = r
	}
}

// WithMaxDepth sets the maximum nesting depth. Values <= 0 keep the default.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		if depth > 0 {
			opts.MaxDepth = depth
		}
	}
}

func newOptions(opts []Option) *Options {
	o := &Options{MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(o)
	}
	if o.Registry == nil {
		o.Registry = functions.Standard()
	}
	return o
}

package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// EvalBatch applies expr to a copy of every context in vars and returns the
// results in input order. The first failure cancels the remaining work; its
// error names the index of the failing context.
//
// Copies are taken in input order before any evaluation starts, so each one
// owns a random generator forked from its source and seeded batches give the
// same results with or without concurrency.
func (e *Evaluator) EvalBatch(ctx context.Context, expr *provider.Expression, vars []*provider.Context) ([]types.Value, error) {
	if expr == nil || expr.Root() == nil {
		return nil, fmt.Errorf("invalid expression")
	}
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	copies := make([]*provider.Context, len(vars))
	for i, v := range vars {
		if v == nil {
			copies[i] = provider.NewContext()
		} else {
			copies[i] = v.Copy()
		}
	}

	results := make([]types.Value, len(vars))
	eval := func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := e.apply(expr, copies[i])
		if err != nil {
			return fmt.Errorf("batch item %d: %w", i, err)
		}
		results[i] = r
		return nil
	}

	if !e.opts.Concurrency || len(vars) < 2 {
		for i := range vars {
			if err := eval(ctx, i); err != nil {
				return nil, err
			}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if e.opts.Workers > 0 {
		g.SetLimit(e.opts.Workers)
	}
	for i := range vars {
		i := i
		g.Go(func() error { return eval(gctx, i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	e.debug("batch evaluated", slog.Int("items", len(vars)))
	return results, nil
}

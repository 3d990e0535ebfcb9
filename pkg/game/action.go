package game

import (
	"context"
	"fmt"
	"time"

	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// Session is the state an Action works on.
type Session struct {
	Game *Game
	vars *provider.Context
}

// NewSession creates a session. A nil vars starts from an empty context.
func NewSession(g *Game, vars *provider.Context) *Session {
	if vars == nil {
		vars = provider.NewContext()
	}
	return &Session{Game: g, vars: vars}
}

// Vars returns the session variables with the current game state injected.
func (s *Session) Vars(ctx context.Context) (*provider.Context, error) {
	return s.Game.Inject(ctx, s.vars)
}

// Check evaluates a boolean condition against the session variables.
func (s *Session) Check(ctx context.Context, cond *provider.Expression) (bool, error) {
	vars, err := s.Vars(ctx)
	if err != nil {
		return false, err
	}
	v, err := s.Game.eval.Eval(ctx, cond, vars)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Action transforms a session, possibly taking time to do so.
type Action func(ctx context.Context, s *Session) (*Session, error)

// Empty does nothing.
func Empty(_ context.Context, s *Session) (*Session, error) {
	return s, nil
}

// Wait returns an action that pauses for d.
func Wait(d time.Duration) Action {
	return func(ctx context.Context, s *Session) (*Session, error) {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return s, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Conditional performs ifTrue when cond holds and ifFalse otherwise.
// Nil branches do nothing.
func Conditional(cond *provider.Expression, ifTrue, ifFalse Action) (Action, error) {
	if err := boolean(cond); err != nil {
		return nil, err
	}
	ifTrue, ifFalse = orEmpty(ifTrue), orEmpty(ifFalse)
	return func(ctx context.Context, s *Session) (*Session, error) {
		ok, err := s.Check(ctx, cond)
		if err != nil {
			return nil, err
		}
		if ok {
			return ifTrue(ctx, s)
		}
		return ifFalse(ctx, s)
	}, nil
}

// LoopWhile performs action for as long as cond holds, checking cond before
// every iteration. The loop stops early when ctx is done.
func LoopWhile(cond *provider.Expression, action Action) (Action, error) {
	if err := boolean(cond); err != nil {
		return nil, err
	}
	action = orEmpty(action)
	return func(ctx context.Context, s *Session) (*Session, error) {
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ok, err := s.Check(ctx, cond)
			if err != nil {
				return nil, err
			}
			if !ok {
				return s, nil
			}
			if s, err = action(ctx, s); err != nil {
				return nil, err
			}
		}
	}, nil
}

// Sequence performs actions one after the other.
func Sequence(actions ...Action) Action {
	return func(ctx context.Context, s *Session) (*Session, error) {
		var err error
		for _, a := range actions {
			if s, err = orEmpty(a)(ctx, s); err != nil {
				return nil, err
			}
		}
		return s, nil
	}
}

func boolean(cond *provider.Expression) error {
	if cond == nil {
		return fmt.Errorf("condition is nil")
	}
	if !cond.ReturnType().Extends(types.Boolean) {
		return types.Errorf(types.ErrTypeMismatch, "condition yields %s, want boolean", cond.ReturnType())
	}
	return nil
}

func orEmpty(a Action) Action {
	if a == nil {
		return Empty
	}
	return a
}

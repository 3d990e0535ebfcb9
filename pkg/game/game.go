// Package game tracks teams playing under a game mode and exposes the game
// state to expressions as context variables.
//
// Inject writes, for a game with n teams:
//
//	game.numTeams, game.turnCount
//	game.team<i>.name, .size, .points, .performance, .memberNames   (i in play order)
//	game.teamN<i>.name, .size, .points, .performance, .memberNames  (i in rank order, best first)
package game

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/sandrolain/ddexpr/pkg/evaluator"
	"github.com/sandrolain/ddexpr/pkg/gamemode"
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// Player is a single participant.
type Player struct {
	Name   string
	Points float64
}

// Team is a named group of players.
type Team struct {
	Name    string
	Members []*Player
}

// NewTeam creates a team.
func NewTeam(name string, members ...*Player) *Team {
	return &Team{Name: name, Members: members}
}

// Size returns the number of members.
func (t *Team) Size() int { return len(t.Members) }

// Points returns the sum of the members' points.
func (t *Team) Points() float64 {
	var sum float64
	for _, p := range t.Members {
		sum += p.Points
	}
	return sum
}

// MemberNames returns the member names in team order.
func (t *Team) MemberNames() []string {
	names := make([]string, len(t.Members))
	for i, p := range t.Members {
		names[i] = p.Name
	}
	return names
}

// Stats returns what a performance metric can see of t.
func (t *Team) Stats() gamemode.TeamStats {
	return gamemode.TeamStats{Name: t.Name, Size: t.Size(), Points: t.Points(), MemberNames: t.MemberNames()}
}

// Game is a match between teams under one game mode.
type Game struct {
	ID        uuid.UUID
	Mode      *gamemode.GameMode
	Teams     []*Team
	TurnCount int

	eval   *evaluator.Evaluator
	logger *slog.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithEvaluator evaluates metrics with ev.
func WithEvaluator(ev *evaluator.Evaluator) Option {
	return func(g *Game) {
		g.eval = ev
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// New creates a game with a fresh ID.
func New(mode *gamemode.GameMode, teams []*Team, opts ...Option) *Game {
	g := &Game{ID: uuid.New(), Mode: mode, Teams: teams}
	for _, opt := range opts {
		opt(g)
	}
	if g.eval == nil {
		g.eval = evaluator.New()
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	g.logger = g.logger.With(slog.String("game", g.ID.String()))
	return g
}

// NextTurn advances the turn counter.
func (g *Game) NextTurn() {
	g.TurnCount++
}

// Performances evaluates the game mode metric for every team, in play order.
// Each team is evaluated against its own copy of base; a nil base starts empty.
func (g *Game) Performances(ctx context.Context, base *provider.Context) ([]float64, error) {
	vars := make([]*provider.Context, len(g.Teams))
	for i, t := range g.Teams {
		tc, err := gamemode.TeamContext(t.Stats(), base)
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", g.ID, err)
		}
		vars[i] = tc
	}
	results, err := g.eval.EvalBatch(ctx, g.Mode.Metric, vars)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", g.ID, err)
	}
	perf := make([]float64, len(results))
	for i, r := range results {
		perf[i] = r.(float64)
	}
	return perf, nil
}

// Standing is a team's place in a ranking.
type Standing struct {
	Team        *Team
	Performance float64
}

// Standings ranks the teams from best to worst performing.
// Teams with equal performance keep their play order.
func (g *Game) Standings(ctx context.Context, base *provider.Context) ([]Standing, error) {
	perf, err := g.Performances(ctx, base)
	if err != nil {
		return nil, err
	}
	order := rankOrder(perf)
	standings := make([]Standing, len(order))
	for i, idx := range order {
		standings[i] = Standing{Team: g.Teams[idx], Performance: perf[idx]}
	}
	g.logger.Debug("ranked teams", slog.Int("teams", len(standings)))
	return standings, nil
}

// TeamsByScore returns the teams from best to worst performing.
func (g *Game) TeamsByScore(ctx context.Context, base *provider.Context) ([]*Team, error) {
	standings, err := g.Standings(ctx, base)
	if err != nil {
		return nil, err
	}
	ranked := make([]*Team, len(standings))
	for i, s := range standings {
		ranked[i] = s.Team
	}
	return ranked, nil
}

// rankOrder returns team indices sorted by ascending performance, stable.
func rankOrder(perf []float64) []int {
	order := make([]int, len(perf))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(perf[a], perf[b])
	})
	return order
}

// Inject writes the game state into vars and returns it.
// Team performances are computed against an empty context.
func (g *Game) Inject(ctx context.Context, vars *provider.Context) (*provider.Context, error) {
	perf, err := g.Performances(ctx, nil)
	if err != nil {
		return nil, err
	}

	if err := vars.SetNumberVar("game.numTeams", float64(len(g.Teams))); err != nil {
		return nil, err
	}
	if err := vars.SetNumberVar("game.turnCount", float64(g.TurnCount)); err != nil {
		return nil, err
	}

	for i, t := range g.Teams {
		if err := setTeam(vars, fmt.Sprintf("game.team%d", i), t, perf[i]); err != nil {
			return nil, err
		}
	}
	order := rankOrder(perf)
	for i, idx := range order {
		if err := setTeam(vars, fmt.Sprintf("game.teamN%d", i), g.Teams[idx], perf[idx]); err != nil {
			return nil, err
		}
	}

	if len(order) > 0 {
		g.logger.Debug("injected game state",
			slog.Int("teams", len(g.Teams)),
			slog.Int("turn", g.TurnCount),
			slog.String("leader", g.Teams[order[0]].Name))
	}
	return vars, nil
}

func setTeam(vars *provider.Context, prefix string, t *Team, performance float64) error {
	vars.SetStringVar(prefix+".name", t.Name)
	vars.SetStringArrayVar(prefix+".memberNames", t.MemberNames())
	if err := vars.SetNumberVar(prefix+".size", float64(t.Size())); err != nil {
		return err
	}
	if err := vars.SetNumberVar(prefix+".points", t.Points()); err != nil {
		return fmt.Errorf("team %q: %w", t.Name, err)
	}
	return vars.SetNumberVar(prefix+".performance", performance)
}

// Leader returns the best performing team, or nil without teams.
func (g *Game) Leader(ctx context.Context) (*Team, error) {
	ranked, err := g.TeamsByScore(ctx, nil)
	if err != nil || len(ranked) == 0 {
		return nil, err
	}
	return ranked[0], nil
}

// CompileCondition compiles a boolean expression document for use in actions.
func (g *Game) CompileCondition(doc []byte) (*provider.Expression, error) {
	return g.eval.CompileAs(doc, types.Boolean)
}

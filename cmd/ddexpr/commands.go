package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/sandrolain/ddexpr/pkg/evaluator"
	"github.com/sandrolain/ddexpr/pkg/ext"
	"github.com/sandrolain/ddexpr/pkg/functions"
	"github.com/sandrolain/ddexpr/pkg/game"
	"github.com/sandrolain/ddexpr/pkg/gamemode"
	"github.com/sandrolain/ddexpr/pkg/parser"
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

type app struct {
	ctx    context.Context
	cfg    *Config
	out    io.Writer
	logger *slog.Logger
	fs     afs.Service
}

// Options lists the subcommands.
type Options struct {
	Eval EvalCommand `command:"eval" description:"evaluate an expression document"`
	Rank RankCommand `command:"rank" description:"rank teams under a game mode"`
	Ops  OpsCommand  `command:"ops" description:"list registered operations"`
}

func newOptions(a *app) *Options {
	if a.fs == nil {
		a.fs = afs.New()
	}
	opts := &Options{}
	opts.Eval.app = a
	opts.Rank.app = a
	opts.Ops.app = a
	return opts
}

// registry returns the operations documents are compiled against.
func (a *app) registry() (*provider.Registry, error) {
	if !a.cfg.Extensions {
		return functions.Standard(), nil
	}
	r, err := ext.Registry()
	if err != nil {
		return nil, fmt.Errorf("extensions: %w", err)
	}
	return r, nil
}

func (a *app) evaluator(debug bool) (*evaluator.Evaluator, error) {
	r, err := a.registry()
	if err != nil {
		return nil, err
	}
	return evaluator.New(
		evaluator.WithRegistry(r),
		evaluator.WithCaching(true),
		evaluator.WithCacheSize(a.cfg.CacheSize),
		evaluator.WithMaxDepth(a.cfg.MaxDepth),
		evaluator.WithLogger(a.logger),
		evaluator.WithDebug(debug),
	), nil
}

// vars builds a context configured from the environment and seeded from a JSON object.
func (a *app) vars(seed string) (*provider.Context, error) {
	lang, _ := a.cfg.Language()
	ctx := provider.NewContext().WithRand(a.cfg.Rand()).WithLanguage(lang)
	if seed != "" {
		if err := ctx.SeedJSON([]byte(seed)); err != nil {
			return nil, fmt.Errorf("vars: %w", err)
		}
	}
	return ctx, nil
}

func (a *app) download(URL string) ([]byte, error) {
	data, err := a.fs.DownloadWithURL(a.ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	return data, nil
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// EvalCommand evaluates one expression.
type EvalCommand struct {
	Expr  string `short:"e" long:"expr" description:"inline JSON expression document"`
	URL   string `short:"u" long:"url" description:"expression document URL, YAML when it ends in .yaml or .yml"`
	Vars  string `short:"v" long:"vars" description:"JSON object of variables, nested keys become dotted names"`
	Debug bool   `short:"d" long:"debug" description:"log compilation and evaluation"`

	app *app
}

// Execute implements flags.Commander.
func (c *EvalCommand) Execute([]string) error {
	ev, err := c.app.evaluator(c.Debug)
	if err != nil {
		return err
	}
	var expr *provider.Expression
	switch {
	case c.Expr != "" && c.URL != "":
		return fmt.Errorf("eval: --expr and --url are exclusive")
	case c.Expr != "":
		expr, err = ev.Compile([]byte(c.Expr))
	case c.URL != "":
		var data []byte
		if data, err = c.app.download(c.URL); err != nil {
			return err
		}
		var n *types.Node
		if n, err = parser.ParseWithExt(data, path.Ext(c.URL), parser.WithMaxDepth(c.app.cfg.MaxDepth)); err != nil {
			return err
		}
		expr, err = ev.CompileNode(n)
	default:
		return fmt.Errorf("eval: one of --expr or --url is required")
	}
	if err != nil {
		return err
	}

	vars, err := c.app.vars(c.Vars)
	if err != nil {
		return err
	}
	result, err := ev.Eval(c.app.ctx, expr, vars)
	if err != nil {
		return err
	}
	return c.app.print(map[string]any{"type": expr.ReturnType().String(), "result": result})
}

// RankCommand ranks teams under a game mode.
type RankCommand struct {
	Mode  string `short:"m" long:"mode" required:"true" description:"game mode URL"`
	Teams string `short:"t" long:"teams" required:"true" description:"teams document URL"`
	Turn  int    `long:"turn" description:"current turn count"`
	Vars  bool   `long:"vars" description:"print the injected game variables too"`

	app *app
}

type teamsDocument struct {
	Teams []struct {
		Name    string `json:"name" yaml:"name"`
		Members []struct {
			Name   string  `json:"name" yaml:"name"`
			Points float64 `json:"points" yaml:"points"`
		} `json:"members" yaml:"members"`
	} `json:"teams" yaml:"teams"`
}

func decodeTeams(data []byte, ext string) ([]*game.Team, error) {
	doc := &teamsDocument{}
	var err error
	if parser.IsYAML(ext) {
		err = yaml.Unmarshal(data, doc)
	} else {
		err = json.Unmarshal(data, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse teams: %w", err)
	}
	teams := make([]*game.Team, len(doc.Teams))
	for i, t := range doc.Teams {
		team := game.NewTeam(t.Name)
		for _, m := range t.Members {
			team.Members = append(team.Members, &game.Player{Name: m.Name, Points: m.Points})
		}
		teams[i] = team
	}
	return teams, nil
}

type rankRow struct {
	Rank        int     `json:"rank"`
	Team        string  `json:"team"`
	Points      float64 `json:"points"`
	Performance float64 `json:"performance"`
}

// Execute implements flags.Commander.
func (c *RankCommand) Execute([]string) error {
	ev, err := c.app.evaluator(false)
	if err != nil {
		return err
	}
	mode, err := gamemode.LoadWith(c.app.ctx, c.app.fs, c.Mode,
		parser.WithRegistry(ev.Registry()), parser.WithMaxDepth(c.app.cfg.MaxDepth))
	if err != nil {
		return err
	}
	data, err := c.app.download(c.Teams)
	if err != nil {
		return err
	}
	teams, err := decodeTeams(data, path.Ext(c.Teams))
	if err != nil {
		return err
	}

	g := game.New(mode, teams, game.WithEvaluator(ev), game.WithLogger(c.app.logger))
	g.TurnCount = c.Turn
	base, err := c.app.vars("")
	if err != nil {
		return err
	}
	standings, err := g.Standings(c.app.ctx, base)
	if err != nil {
		return err
	}
	rows := make([]rankRow, len(standings))
	for i, s := range standings {
		rows[i] = rankRow{Rank: i + 1, Team: s.Team.Name, Points: s.Team.Points(), Performance: s.Performance}
	}
	if !c.Vars {
		return c.app.print(map[string]any{"mode": mode.Name, "ranking": rows})
	}

	vars, err := g.Inject(c.app.ctx, base)
	if err != nil {
		return err
	}
	injected := map[string]any{}
	for _, t := range []*types.Type{types.String, types.Number, types.StringArray} {
		for _, name := range vars.Names(t) {
			injected[name], _ = vars.Get(t, name)
		}
	}
	return c.app.print(map[string]any{"mode": mode.Name, "ranking": rows, "vars": injected})
}

// OpsCommand lists the registered operations.
type OpsCommand struct {
	Arity int  `short:"a" long:"arity" default:"-1" description:"only list operations of this arity (0-3)"`
	Types bool `short:"s" long:"signatures" description:"print overload signatures"`

	app *app
}

// Execute implements flags.Commander.
func (c *OpsCommand) Execute([]string) error {
	r, err := c.app.registry()
	if err != nil {
		return err
	}
	for arity := 0; arity <= 3; arity++ {
		if c.Arity >= 0 && c.Arity != arity {
			continue
		}
		for _, name := range r.Names(arity) {
			line := fmt.Sprintf("%d %s", arity, name)
			if c.Types {
				line += "  " + strings.Join(signatures(r, arity, name), ", ")
			}
			if _, err := fmt.Fprintln(c.app.out, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func signatures(r *provider.Registry, arity int, name string) []string {
	var out []string
	add := func(p provider.Provider) {
		args := make([]string, 0, 3)
		for _, t := range p.ArgTypes() {
			args = append(args, t.String())
		}
		out = append(out, fmt.Sprintf("(%s) %s", strings.Join(args, ", "), p.ReturnType()))
	}
	switch arity {
	case 0:
		if p, ok := r.Nullary(name); ok {
			add(p)
		}
	case 1:
		if c, ok := r.Unary(name); ok {
			for _, p := range c.Overloads() {
				add(p)
			}
		}
	case 2:
		if c, ok := r.Binary(name); ok {
			for _, p := range c.Overloads() {
				add(p)
			}
		}
	case 3:
		if c, ok := r.Ternary(name); ok {
			for _, p := range c.Overloads() {
				add(p)
			}
		}
	}
	return out
}

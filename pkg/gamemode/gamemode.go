// Package gamemode decodes versioned game-mode documents.
//
// A game mode names a rule set and carries the performance metric used to
// rank teams: a number expression evaluated once per team, where lower
// values mean better performance.
//
//	{
//	  "version": 1,
//	  "name": "Most points",
//	  "description": "The team with the most points wins",
//	  "performanceMetric": {"name": "negate", "arg": {"name": "number variable", "arg": "team.points"}}
//	}
package gamemode

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sandrolain/ddexpr/pkg/parser"
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

// LatestVersion is the document version Decode upgrades to.
const LatestVersion = 1

// Variables injected into the context before a metric is evaluated.
const (
	TeamNameVar        = "team.name"
	TeamSizeVar        = "team.size"
	TeamPointsVar      = "team.points"
	TeamMemberNamesVar = "team.memberNames"
)

const metricPath = "$.performanceMetric"

// defaultMetric ranks teams by points, most points first.
const defaultMetric = `{"name":"negate","arg":{"name":"number variable","arg":"team.points"}}`

// Document is the serialized form of a game mode.
type Document struct {
	Version           int    `json:"version" yaml:"version"`
	Name              string `json:"name" yaml:"name"`
	Description       string `json:"description" yaml:"description"`
	PerformanceMetric any    `json:"performanceMetric,omitempty" yaml:"performanceMetric,omitempty"`
}

// GameMode is a decoded, ready to use game mode.
type GameMode struct {
	Name        string
	Description string
	// Metric yields a number; lower is better.
	Metric *provider.Expression
}

// TeamStats is the team information a metric can read.
type TeamStats struct {
	Name        string
	Size        int
	Points      float64
	MemberNames []string
}

// Decode decodes a game-mode document. ext selects the format the way
// parser.IsYAML does; anything that is not YAML is read as JSON.
func Decode(data []byte, ext string, opts ...parser.Option) (*GameMode, error) {
	var v any
	if parser.IsYAML(ext) {
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, types.NewError(types.ErrInvalidDocument, "game mode is not valid YAML").WithCause(err)
		}
	} else if err := json.Unmarshal(data, &v); err != nil {
		return nil, types.NewError(types.ErrInvalidDocument, "game mode is not valid JSON").WithCause(err)
	}
	doc, err := FromValue(v)
	if err != nil {
		return nil, err
	}
	return New(doc, opts...)
}

// FromValue validates a decoded game-mode document and upgrades it to LatestVersion.
func FromValue(v any) (*Document, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalid("$", "game mode must be an object, got %T", v)
	}

	version, err := types.Normalize(m["version"])
	if err != nil || version != float64(1) {
		return nil, invalid("$.version", "unsupported game mode version %v", m["version"])
	}
	doc := &Document{Version: 1}
	if doc.Name, ok = m["name"].(string); !ok {
		return nil, invalid("$.name", "name must be a string")
	}
	if doc.Description, ok = m["description"].(string); !ok {
		return nil, invalid("$.description", "description must be a string")
	}
	if metric, ok := m["performanceMetric"]; ok {
		if metric == nil {
			return nil, invalid(metricPath, "performance metric must not be null")
		}
		doc.PerformanceMetric = metric
	}
	return doc.Upgrade()
}

// Upgrade converts doc to LatestVersion.
func (d *Document) Upgrade() (*Document, error) {
	switch d.Version {
	case 1:
		return d, nil
	default:
		return nil, invalid("$.version", "unsupported game mode version %d", d.Version)
	}
}

// New builds a game mode from a document. A missing metric ranks teams by points.
func New(doc *Document, opts ...parser.Option) (*GameMode, error) {
	doc, err := doc.Upgrade()
	if err != nil {
		return nil, err
	}
	gm := &GameMode{Name: doc.Name, Description: doc.Description}

	if doc.PerformanceMetric == nil {
		gm.Metric, err = parser.CompileAs([]byte(defaultMetric), types.Number)
		if err != nil {
			return nil, fmt.Errorf("default metric: %w", err)
		}
		return gm, nil
	}

	n, err := parser.FromValue(doc.PerformanceMetric, opts...)
	if err != nil {
		return nil, under(err)
	}
	if gm.Metric, err = parser.CompileNodeAs(n, types.Number, opts...); err != nil {
		return nil, under(err)
	}
	return gm, nil
}

// Document returns the serialized form of m at LatestVersion.
func (m *GameMode) Document() *Document {
	return &Document{
		Version:           LatestVersion,
		Name:              m.Name,
		Description:       m.Description,
		PerformanceMetric: m.Metric.Node(),
	}
}

// MarshalJSON encodes m as its latest-version document.
func (m *GameMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Document())
}

// TeamContext returns a copy of base (or a new context) holding the team variables.
// Non-finite points are rejected with ErrDomain.
func TeamContext(team TeamStats, base *provider.Context) (*provider.Context, error) {
	var ctx *provider.Context
	if base != nil {
		ctx = base.Copy()
	} else {
		ctx = provider.NewContext()
	}
	ctx.SetStringVar(TeamNameVar, team.Name)
	if err := ctx.SetNumberVar(TeamSizeVar, float64(team.Size)); err != nil {
		return nil, err
	}
	if err := ctx.SetNumberVar(TeamPointsVar, team.Points); err != nil {
		return nil, fmt.Errorf("team %q: %w", team.Name, err)
	}
	ctx.SetStringArrayVar(TeamMemberNamesVar, team.MemberNames)
	return ctx, nil
}

// Performance evaluates the metric for team. base is not modified.
func (m *GameMode) Performance(team TeamStats, base *provider.Context) (float64, error) {
	ctx, err := TeamContext(team, base)
	if err != nil {
		return 0, err
	}
	v, err := m.Metric.Apply(ctx)
	if err != nil {
		return 0, fmt.Errorf("performance of team %q: %w", team.Name, err)
	}
	return v.(float64), nil
}

func invalid(at, format string, args ...any) error {
	return types.Errorf(types.ErrInvalidDocument, format, args...).WithPath(at)
}

// under relocates metric error paths into the game-mode document.
func under(err error) error {
	var e *types.Error
	if errors.As(err, &e) && strings.HasPrefix(e.Path, "$") {
		e.Path = metricPath + strings.TrimPrefix(e.Path, "$")
	}
	return err
}

package automation

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/particlespace/internal/config"
	"github.com/san-kum/particlespace/internal/dynamo"
	"github.com/san-kum/particlespace/internal/experiment"
)

// ErrNoGridResult is returned when no grid point produced the metric.
var ErrNoGridResult = errors.New("automation: no grid point produced the metric")

// GridSearch evaluates every combination of Values and keeps the one with
// the lowest Metric. Values[i] lists the candidates for Params[i].
type GridSearch struct {
	Base   *config.Config
	Params []string
	Values [][]float64
	Metric string
}

type GridResult struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
	Failed    int
}

// Search runs the grid in row-major order. Ties keep the earlier point.
// Points that fail to build or run, or lack the metric, count as failed.
func (g *GridSearch) Search(ctx context.Context, registry *experiment.Registry) (*GridResult, error) {
	if len(g.Params) == 0 || len(g.Params) != len(g.Values) {
		return nil, &dynamo.ConfigError{Field: "params", Reason: fmt.Sprintf("need one value list per parameter, got %d params and %d lists", len(g.Params), len(g.Values))}
	}
	for i, name := range g.Params {
		if len(g.Values[i]) == 0 {
			return nil, &dynamo.ConfigError{Field: "params", Reason: fmt.Sprintf("no values for %q", name)}
		}
		if err := setParam(g.Base.Clone(), name, g.Values[i][0]); err != nil {
			return nil, err
		}
	}

	res := &GridResult{Value: math.Inf(1)}
	if err := g.search(ctx, registry, 0, make(map[string]float64, len(g.Params)), res); err != nil {
		return res, err
	}
	if res.Params == nil {
		return res, fmt.Errorf("%w: %q", ErrNoGridResult, g.Metric)
	}
	return res, nil
}

func (g *GridSearch) search(ctx context.Context, registry *experiment.Registry, depth int, current map[string]float64, res *GridResult) error {
	if depth < len(g.Params) {
		name := g.Params[depth]
		for _, v := range g.Values[depth] {
			current[name] = v
			if err := g.search(ctx, registry, depth+1, current, res); err != nil {
				return err
			}
		}
		return nil
	}

	res.Evaluated++
	cfg := g.Base.Clone()
	for name, v := range current {
		_ = setParam(cfg, name, v)
	}

	exp := experiment.New(cfg, registry)
	if err := exp.Setup(); err != nil {
		res.Failed++
		return nil
	}
	result, err := exp.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if err != nil {
		res.Failed++
		return nil
	}
	val, ok := result.Metrics[g.Metric]
	if !ok {
		res.Failed++
		return nil
	}

	dynamo.Logger().Debug("grid point", "params", current, g.Metric, val)
	if val < res.Value {
		res.Value = val
		res.Params = maps.Clone(current)
	}
	return nil
}

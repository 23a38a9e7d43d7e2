package opt

import (
	"fmt"
	"math"

	"github.com/cwbudde/mayfly"

	"github.com/cwbudde/randsearch/internal/space"
)

// MayflyAdapter wraps the external mayfly swarm optimizer behind the
// Optimizer interface, so runs against the random-search baseline can be
// compared like for like. The mayfly library only supports continuous
// parameters with a single scalar bound pair, so candidates are optimized in
// the unit cube and rescaled per dimension; categorical spaces are rejected.
type MayflyAdapter struct {
	maxIters int
	popSize  int
}

// NewMayfly creates a mayfly optimizer adapter.
func NewMayfly(maxIters, popSize int) *MayflyAdapter {
	return &MayflyAdapter{
		maxIters: maxIters,
		popSize:  popSize,
	}
}

// Minimize runs the mayfly optimization over a numeric space. Initial
// observations are not supported by the underlying library and are rejected.
func (m *MayflyAdapter) Minimize(evaluate Objective, sp *space.Space, cfg Config) (*Result, error) {
	if evaluate == nil {
		return nil, invalidArg("evaluate", "cannot be nil")
	}
	if sp == nil {
		return nil, invalidArg("space", "cannot be nil")
	}
	if len(cfg.InitialPoints) > 0 || len(cfg.InitialValues) > 0 {
		return nil, invalidArg("InitialPoints", "not supported by the mayfly optimizer")
	}

	lower, upper, err := sp.Bounds()
	if err != nil {
		return nil, fmt.Errorf("mayfly requires a numeric space: %w", err)
	}
	dims := sp.Dimensions()

	var points []space.Point
	var values []float64
	var evalErr error

	// mayfly objectives cannot return errors; remember the first failure and
	// make the point infinitely bad so it never wins.
	eval := func(unit []float64) float64 {
		p := rescale(unit, lower, upper, dims)
		v, err := evalAt(evaluate, p)
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			return math.Inf(1)
		}
		points = append(points, p)
		values = append(values, v)
		if cfg.Callback != nil {
			cfg.Callback(Observation{Index: len(values) - 1, Point: p, Value: v})
		}
		return v
	}

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = eval
	config.ProblemSize = sp.Len()
	config.MaxIterations = m.maxIters
	config.NPop = m.popSize
	config.LowerBound = 0
	config.UpperBound = 1
	config.Rand = cfg.rng()

	result, err := mayfly.Optimize(config)
	if err != nil {
		return nil, fmt.Errorf("mayfly optimization failed: %w", err)
	}
	if evalErr != nil {
		return nil, evalErr
	}

	return &Result{
		BestPoint: rescale(result.GlobalBest.Position, lower, upper, dims),
		BestValue: result.GlobalBest.Cost,
		Points:    points,
		Values:    values,
		Space:     sp,
		Models:    []any{},
	}, nil
}

// rescale maps a unit-cube position back into the space's native bounds,
// rounding integer dimensions to the nearest valid value.
func rescale(unit, lower, upper []float64, dims []space.Dimension) space.Point {
	p := make(space.Point, len(unit))
	for i, u := range unit {
		v := lower[i] + u*(upper[i]-lower[i])
		if _, ok := dims[i].(space.Integer); ok {
			p[i] = int(math.Round(v))
		} else {
			p[i] = v
		}
	}
	return p
}

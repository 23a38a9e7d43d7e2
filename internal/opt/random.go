package opt

import (
	"log/slog"

	"github.com/cwbudde/randsearch/internal/space"
)

// RandomSearch minimizes by drawing a budgeted number of uniformly random
// points from the search space and evaluating the objective at each one. It
// keeps no model and never adapts; it exists as the reference baseline
// against which sequential model-based optimizers are judged.
type RandomSearch struct{}

// NewRandomSearch creates the random-search optimizer.
func NewRandomSearch() *RandomSearch {
	return &RandomSearch{}
}

// Minimize runs the full evaluation budget and returns the best observation.
//
// Initial observations come first: pre-supplied values are recorded without
// spending budget on evaluation, while initial points without values are
// evaluated in caller order. The remaining budget (CallBudget minus the
// number of initial observations, clamped at zero) is filled with one batch
// of fresh samples, evaluated sequentially in sampling order. The very first
// objective call of the run, wherever it comes from, surfaces a malformed
// objective before the rest of the budget is spent.
func (r *RandomSearch) Minimize(evaluate Objective, sp *space.Space, cfg Config) (*Result, error) {
	if evaluate == nil {
		return nil, invalidArg("evaluate", "cannot be nil")
	}
	if sp == nil {
		return nil, invalidArg("space", "cannot be nil")
	}

	budget := cfg.CallBudget
	if budget == 0 {
		budget = DefaultCallBudget
	}
	if budget < 0 {
		return nil, invalidArg("CallBudget", "cannot be negative, got %d", budget)
	}

	x0 := cfg.InitialPoints
	y0 := cfg.InitialValues
	if len(y0) > 0 && len(y0) != len(x0) {
		return nil, invalidArg("InitialValues", "has %d values for %d initial points", len(y0), len(x0))
	}

	slog.Debug("Starting random search",
		"dimensions", sp.Len(),
		"call_budget", budget,
		"initial_points", len(x0),
	)

	points := make([]space.Point, 0, budget)
	values := make([]float64, 0, budget)
	observe := func(p space.Point, v float64) {
		points = append(points, p)
		values = append(values, v)
		if cfg.Callback != nil {
			cfg.Callback(Observation{Index: len(values) - 1, Point: p, Value: v})
		}
	}

	if len(y0) > 0 {
		for i, p := range x0 {
			observe(p, y0[i])
		}
	} else {
		for _, p := range x0 {
			v, err := evalAt(evaluate, p)
			if err != nil {
				return nil, err
			}
			observe(p, v)
		}
	}

	// Remaining budget may be zero or negative when initial observations meet
	// or exceed the call budget; that yields no fresh samples rather than an
	// error, so replaying a recorded trace is a valid call.
	remaining := budget - len(values)
	rng := cfg.rng()
	for _, p := range sp.Sample(remaining, rng) {
		v, err := evalAt(evaluate, p)
		if err != nil {
			return nil, err
		}
		observe(p, v)
	}

	best := 0
	for i, v := range values {
		if v < values[best] {
			best = i
		}
	}

	slog.Debug("Random search complete",
		"evaluations", len(values),
		"best_value", values[best],
	)

	return &Result{
		BestPoint: points[best],
		BestValue: values[best],
		Points:    points,
		Values:    values,
		Space:     sp,
		Models:    []any{},
	}, nil
}

// Minimize runs a random search over the space described by dynamic dimension
// specs. It is the package-level convenience mirroring the driver contract:
// specs are parsed once, then RandomSearch runs to completion.
func Minimize(evaluate Objective, specs []any, cfg Config) (*Result, error) {
	sp, err := space.Parse(specs)
	if err != nil {
		return nil, err
	}
	return NewRandomSearch().Minimize(evaluate, sp, cfg)
}

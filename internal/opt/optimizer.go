// Package opt implements black-box minimization over bounded, mixed-type
// search spaces. RandomSearch is the reference baseline; MayflyAdapter wraps
// a swarm optimizer behind the same interface for comparison runs.
package opt

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cwbudde/randsearch/internal/space"
)

// Objective evaluates a candidate point and returns its scalar value. The
// returned value must be a true scalar (any numeric Go kind); every return
// value is checked and anything else fails the run with
// InvalidObjectiveReturnError. Errors returned by the objective propagate to
// the caller unchanged and abort the run with no partial result.
//
// Objectives may be side-effecting or stateful; optimizers invoke them
// sequentially, one at a time, in a well-defined order.
type Objective func(p space.Point) (any, error)

// Observation pairs an evaluated point with its objective value. Index is the
// position in the run's trace, counting from zero in evaluation order.
type Observation struct {
	Index int         `json:"index"`
	Point space.Point `json:"point"`
	Value float64     `json:"value"`
}

// Optimizer is a minimization algorithm over a search space.
type Optimizer interface {
	// Minimize runs the optimization to completion and returns its result.
	Minimize(evaluate Objective, sp *space.Space, cfg Config) (*Result, error)
}

// DefaultCallBudget is the total number of objective evaluations per run when
// Config.CallBudget is left zero.
const DefaultCallBudget = 100

// Config holds the per-run configuration shared by all optimizers.
type Config struct {
	// CallBudget is the total number of objective evaluations allowed in the
	// run, including any pre-supplied initial observations. Zero means
	// DefaultCallBudget; negative is an error.
	CallBudget int

	// InitialPoints are observations to seed the run with, evaluated (or
	// paired with InitialValues) before any fresh sampling happens. Use
	// ParseInitial to build these from dynamic x0/y0 shapes.
	InitialPoints []space.Point

	// InitialValues are the objective values for InitialPoints. When empty
	// and InitialPoints is not, the objective is evaluated at each initial
	// point in order. When set, its length must match InitialPoints exactly
	// and those evaluations are skipped.
	InitialValues []float64

	// Seed seeds the run's random generator when Rand is nil. Zero is a
	// valid, deterministic seed.
	Seed int64

	// Rand, when set, is used for every random draw of the run and takes
	// precedence over Seed. The run owns it exclusively for its duration.
	Rand *rand.Rand

	// Callback, when set, is invoked synchronously after each observation is
	// recorded, including pre-supplied initial observations. It must not
	// block for long; it runs on the optimization goroutine.
	Callback func(Observation)
}

// rng returns the generator for this run: the supplied handle if any,
// otherwise a fresh generator seeded from Seed.
func (cfg Config) rng() *rand.Rand {
	if cfg.Rand != nil {
		return cfg.Rand
	}
	return rand.New(rand.NewSource(cfg.Seed))
}

// TimeSeed returns a nondeterministic seed for callers that want unseeded
// runs.
func TimeSeed() int64 {
	return time.Now().UnixNano()
}

// evalAt invokes the objective at p and coerces its return value to a scalar.
func evalAt(evaluate Objective, p space.Point) (float64, error) {
	raw, err := evaluate(p)
	if err != nil {
		return 0, err
	}
	return toScalar(raw)
}

// toScalar coerces a dynamic objective return value to float64.
func toScalar(v any) (float64, error) {
	f, ok := space.Float64(v)
	if !ok {
		return 0, &InvalidObjectiveReturnError{Got: fmt.Sprintf("%T", v)}
	}
	return f, nil
}

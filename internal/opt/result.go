package opt

import "github.com/cwbudde/randsearch/internal/space"

// Result is a read-only view over a completed run's trace. It is constructed
// once when the run finishes and never mutated afterwards.
type Result struct {
	// BestPoint is the evaluated point with the lowest objective value. Ties
	// resolve to the earliest evaluation.
	BestPoint space.Point `json:"bestPoint"`

	// BestValue is the objective value at BestPoint.
	BestValue float64 `json:"bestValue"`

	// Points holds every evaluated point in evaluation order: initial
	// observations first (in caller order), then freshly sampled points (in
	// sampling order).
	Points []space.Point `json:"points"`

	// Values holds the objective values, index-aligned with Points.
	Values []float64 `json:"values"`

	// Space is the search space the run sampled from, attached for
	// downstream consumers that want to re-sample or inspect dimensions.
	Space *space.Space `json:"-"`

	// Models is always empty for random search; it exists for structural
	// compatibility with model-based optimizers that record surrogate
	// history.
	Models []any `json:"models"`
}

// Len returns the number of observations recorded.
func (r *Result) Len() int {
	return len(r.Values)
}

// Observations returns the trace as indexed (point, value) pairs.
func (r *Result) Observations() []Observation {
	obs := make([]Observation, len(r.Values))
	for i := range r.Values {
		obs[i] = Observation{Index: i, Point: r.Points[i], Value: r.Values[i]}
	}
	return obs
}

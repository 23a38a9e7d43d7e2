package store

import (
	"time"

	"github.com/cwbudde/randsearch/internal/space"
)

// RunConfig describes an optimization run request. It is the shape shared by
// the CLI, YAML problem files, and HTTP job submissions, so dimension specs
// and initial observations stay dynamic until the boundary parses them.
type RunConfig struct {
	// Objective is the registered benchmark objective name.
	Objective string `json:"objective" yaml:"objective"`

	// Dimensions holds dynamic dimension specs; empty means the objective's
	// canonical space with Dim dimensions.
	Dimensions []any `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`

	// Dim is the dimensionality used when Dimensions is empty.
	Dim int `json:"dim,omitempty" yaml:"dim,omitempty"`

	// Optimizer selects the algorithm: "random" (default) or "mayfly".
	Optimizer string `json:"optimizer,omitempty" yaml:"optimizer,omitempty"`

	// CallBudget is the total number of objective evaluations, including
	// initial observations. Zero means the driver default.
	CallBudget int `json:"callBudget,omitempty" yaml:"budget,omitempty"`

	// Iters and PopSize tune the mayfly optimizer; ignored by random search.
	Iters   int `json:"iters,omitempty" yaml:"iters,omitempty"`
	PopSize int `json:"popSize,omitempty" yaml:"pop,omitempty"`

	// Seed seeds the run's random generator. Zero is a valid seed.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// X0 and Y0 carry dynamic initial observations (a point or list of
	// points, and a scalar or list of scalars).
	X0 any `json:"x0,omitempty" yaml:"x0,omitempty"`
	Y0 any `json:"y0,omitempty" yaml:"y0,omitempty"`
}

// RunRecord is the persisted result of a completed optimization run.
// The full evaluation trace lives next to it in trace.jsonl.
type RunRecord struct {
	// RunID is the unique identifier for this run
	RunID string `json:"runId"`

	// Config is the configuration the run was started with, kept so results
	// can be reproduced or compared later
	Config RunConfig `json:"config"`

	// BestPoint is the evaluated point that achieved the lowest value
	BestPoint space.Point `json:"bestPoint"`

	// BestValue is the objective value at BestPoint
	BestValue float64 `json:"bestValue"`

	// Evaluations is the number of objective values recorded in the trace
	Evaluations int `json:"evaluations"`

	// StartedAt and FinishedAt bracket the run
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// RunInfo contains metadata about a stored run without the point data.
// Used for listing runs efficiently.
type RunInfo struct {
	RunID       string    `json:"runId"`
	Objective   string    `json:"objective"`
	Optimizer   string    `json:"optimizer"`
	BestValue   float64   `json:"bestValue"`
	Evaluations int       `json:"evaluations"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// NewRunRecord creates a record from run results.
func NewRunRecord(runID string, config RunConfig, bestPoint space.Point, bestValue float64, evaluations int, started, finished time.Time) *RunRecord {
	return &RunRecord{
		RunID:       runID,
		Config:      config,
		BestPoint:   bestPoint,
		BestValue:   bestValue,
		Evaluations: evaluations,
		StartedAt:   started,
		FinishedAt:  finished,
	}
}

// ToInfo converts a full RunRecord to RunInfo (metadata only).
func (r *RunRecord) ToInfo() RunInfo {
	optimizer := r.Config.Optimizer
	if optimizer == "" {
		optimizer = "random"
	}
	return RunInfo{
		RunID:       r.RunID,
		Objective:   r.Config.Objective,
		Optimizer:   optimizer,
		BestValue:   r.BestValue,
		Evaluations: r.Evaluations,
		FinishedAt:  r.FinishedAt,
	}
}

// Validate checks if the record has valid data.
// Returns an error if any required field is missing or invalid.
func (r *RunRecord) Validate() error {
	if r.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if len(r.BestPoint) == 0 {
		return &ValidationError{Field: "BestPoint", Reason: "cannot be empty"}
	}
	if r.Evaluations <= 0 {
		return &ValidationError{Field: "Evaluations", Reason: "must be positive"}
	}
	if r.Config.Objective == "" {
		return &ValidationError{Field: "Config.Objective", Reason: "cannot be empty"}
	}
	if r.StartedAt.IsZero() {
		return &ValidationError{Field: "StartedAt", Reason: "cannot be zero"}
	}
	if r.FinishedAt.IsZero() {
		return &ValidationError{Field: "FinishedAt", Reason: "cannot be zero"}
	}
	if r.FinishedAt.Before(r.StartedAt) {
		return &ValidationError{Field: "FinishedAt", Reason: "cannot precede StartedAt"}
	}
	return nil
}

// ValidationError represents a run record validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

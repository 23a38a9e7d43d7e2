package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/randsearch/internal/objective"
	"github.com/cwbudde/randsearch/internal/opt"
	"github.com/cwbudde/randsearch/internal/space"
	"github.com/cwbudde/randsearch/internal/store"
	"github.com/rcrowley/go-metrics"
)

// runJob executes an optimization job in the background.
// If runStore is not nil, the result record and evaluation trace are persisted
// under the job's ID.
func runJob(ctx context.Context, jm *JobManager, runStore *store.FSStore, jobID string) error {
	// Get the job
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	// Update state to running
	err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	})
	if err != nil {
		return err
	}

	slog.Info("Starting job", "job_id", jobID, "objective", job.Config.Objective)

	// Resolve the named objective
	bench, err := objective.Lookup(job.Config.Objective)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	// Build the search space: explicit dimension specs win over the
	// benchmark's canonical bounds
	sp, err := jobSpace(bench, job.Config)
	if err != nil {
		markJobFailed(jm, jobID, fmt.Errorf("failed to build search space: %w", err))
		return err
	}

	slog.Info("Built search space", "job_id", jobID, "dimensions", sp.Len())

	// Parse initial observations, if any
	x0, y0, err := opt.ParseInitial(job.Config.X0, job.Config.Y0)
	if err != nil {
		markJobFailed(jm, jobID, fmt.Errorf("invalid initial observations: %w", err))
		return err
	}

	// Create optimizer
	optimizer, err := jobOptimizer(job.Config)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	// Open trace writer if persistence is enabled
	var trace *store.TraceWriter
	if runStore != nil {
		trace, err = store.NewTraceWriter(runStore.BaseDir(), jobID, false)
		if err != nil {
			markJobFailed(jm, jobID, fmt.Errorf("failed to open trace: %w", err))
			return err
		}
		defer trace.Close()
	}

	// Throughput meter, fed by the observation callback
	meter := metrics.NewMeter()
	defer meter.Stop()

	cfg := opt.Config{
		CallBudget:    job.Config.CallBudget,
		InitialPoints: x0,
		InitialValues: y0,
		Seed:          job.Config.Seed,
		Callback: func(obs opt.Observation) {
			meter.Mark(1)
			if trace != nil {
				trace.Write(store.TraceEntry{
					Index:     obs.Index,
					Point:     obs.Point,
					Value:     obs.Value,
					Timestamp: time.Now(),
				})
			}
			jm.UpdateJob(jobID, func(j *Job) {
				j.Evaluations = obs.Index + 1
				if j.BestPoint == nil || obs.Value < j.BestValue {
					j.BestPoint = obs.Point
					j.BestValue = obs.Value
				}
			})
		},
	}

	// Check for cancellation before starting expensive operation
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	// Start progress monitoring goroutine
	progressDone := make(chan struct{})
	go monitorProgress(ctx, jm, jobID, meter, progressDone)

	start := time.Now()
	result, err := optimizer.Minimize(bench.Objective(), sp, cfg)
	close(progressDone)
	elapsed := time.Since(start)

	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	// Check for cancellation after optimization
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	// Update job with results
	endTime := time.Now()
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.BestPoint = result.BestPoint
		j.BestValue = result.BestValue
		j.Evaluations = result.Len()
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	evalsPerSec := float64(result.Len()) / elapsed.Seconds()

	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"best_value", result.BestValue,
		"evaluations", result.Len(),
		"evals_per_second", evalsPerSec,
	)

	// Persist the run record
	if runStore != nil {
		if trace != nil {
			if err := trace.Flush(); err != nil {
				slog.Warn("Failed to flush trace", "job_id", jobID, "error", err)
			}
		}
		record := store.NewRunRecord(jobID, job.Config, result.BestPoint, result.BestValue, result.Len(), job.StartTime, endTime)
		if err := runStore.SaveRun(jobID, record); err != nil {
			slog.Warn("Failed to persist run record", "job_id", jobID, "error", err)
		}
	}

	// Broadcast final completion event
	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:       jobID,
		State:       StateCompleted,
		Evaluations: result.Len(),
		BestValue:   result.BestValue,
		EvalsPerSec: evalsPerSec,
		Timestamp:   time.Now(),
	})

	return nil
}

// jobSpace builds the search space for a job from its configuration.
func jobSpace(bench objective.Benchmark, cfg RunConfig) (*space.Space, error) {
	if len(cfg.Dimensions) > 0 {
		return space.Parse(cfg.Dimensions)
	}

	dim := cfg.Dim
	if dim <= 0 {
		dim = 2
	}
	return bench.Space(dim)
}

// jobOptimizer selects the optimization algorithm for a job.
func jobOptimizer(cfg RunConfig) (opt.Optimizer, error) {
	switch cfg.Optimizer {
	case "", "random":
		return opt.NewRandomSearch(), nil
	case "mayfly":
		iters := cfg.Iters
		if iters <= 0 {
			iters = 100
		}
		popSize := cfg.PopSize
		if popSize <= 0 {
			popSize = 30
		}
		return opt.NewMayfly(iters, popSize), nil
	default:
		return nil, fmt.Errorf("unknown optimizer: %s", cfg.Optimizer)
	}
}

// monitorProgress periodically broadcasts progress events during optimization
func monitorProgress(ctx context.Context, jm *JobManager, jobID string, meter metrics.Meter, done chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond) // Throttle to 2 updates per second
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Get current job state
			job, exists := jm.GetJob(jobID)
			if !exists {
				return
			}

			// Broadcast progress event
			jm.broadcaster.Broadcast(ProgressEvent{
				JobID:       jobID,
				State:       job.State,
				Evaluations: job.Evaluations,
				BestValue:   job.BestValue,
				EvalsPerSec: meter.RateMean(),
				Timestamp:   time.Now(),
			})
		}
	}
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)
}

package server

import (
	"context"
	"testing"
	"time"

	"github.com/cwbudde/randsearch/internal/store"
)

func TestRunJob_Success(t *testing.T) {
	jm := NewJobManager()
	config := RunConfig{
		Objective:  "sphere",
		Dim:        2,
		CallBudget: 50,
		Seed:       42,
	}

	job := jm.CreateJob(config)

	ctx := context.Background()
	err := runJob(ctx, jm, nil, job.ID)

	if err != nil {
		t.Errorf("runJob should succeed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCompleted {
		t.Errorf("Job should be completed, got %s", updated.State)
	}

	if updated.Evaluations != 50 {
		t.Errorf("Expected 50 evaluations, got %d", updated.Evaluations)
	}

	if len(updated.BestPoint) != 2 {
		t.Errorf("Expected 2 coordinates, got %d", len(updated.BestPoint))
	}

	if updated.EndTime == nil {
		t.Error("EndTime should be set")
	}
}

func TestRunJob_UnknownObjective(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(RunConfig{Objective: "nonexistent", Dim: 2})

	err := runJob(context.Background(), jm, nil, job.ID)
	if err == nil {
		t.Fatal("Expected error for unknown objective")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("Job should be failed, got %s", updated.State)
	}
	if updated.Error == "" {
		t.Error("Error message should be set")
	}
}

func TestRunJob_NotFound(t *testing.T) {
	jm := NewJobManager()

	err := runJob(context.Background(), jm, nil, "nonexistent")
	if err == nil {
		t.Error("Expected error for nonexistent job")
	}
}

func TestRunJob_CustomDimensions(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(RunConfig{
		Objective: "sphere",
		Dimensions: []any{
			[]any{-1.0, 1.0},
			[]any{-2.0, 2.0},
			[]any{-3.0, 3.0},
		},
		CallBudget: 20,
		Seed:       7,
	})

	if err := runJob(context.Background(), jm, nil, job.ID); err != nil {
		t.Fatalf("runJob failed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCompleted {
		t.Fatalf("Job should be completed, got %s", updated.State)
	}
	if len(updated.BestPoint) != 3 {
		t.Errorf("Expected 3 coordinates, got %d", len(updated.BestPoint))
	}
}

func TestRunJob_InvalidDimensions(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(RunConfig{
		Objective:  "sphere",
		Dimensions: []any{[]any{5.0, 1.0}}, // low > high
		CallBudget: 10,
	})

	err := runJob(context.Background(), jm, nil, job.ID)
	if err == nil {
		t.Fatal("Expected error for invalid dimension spec")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("Job should be failed, got %s", updated.State)
	}
}

func TestRunJob_WithInitialObservations(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(RunConfig{
		Objective:  "sphere",
		Dim:        2,
		CallBudget: 10,
		Seed:       1,
		X0:         []any{[]any{1.0, 1.0}},
		Y0:         []any{2.0},
	})

	if err := runJob(context.Background(), jm, nil, job.ID); err != nil {
		t.Fatalf("runJob failed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCompleted {
		t.Fatalf("Job should be completed, got %s", updated.State)
	}
	// One observation was supplied, so only 9 fresh evaluations happen
	if updated.Evaluations != 10 {
		t.Errorf("Expected 10 total evaluations, got %d", updated.Evaluations)
	}
	if updated.BestValue > 2.0 {
		t.Errorf("Best value should not exceed the supplied observation, got %f", updated.BestValue)
	}
}

func TestRunJob_MayflyOptimizer(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(RunConfig{
		Objective: "sphere",
		Dim:       2,
		Optimizer: "mayfly",
		Iters:     20,
		PopSize:   10,
		Seed:      42,
	})

	if err := runJob(context.Background(), jm, nil, job.ID); err != nil {
		t.Fatalf("runJob failed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCompleted {
		t.Fatalf("Job should be completed, got %s", updated.State)
	}
	if updated.Evaluations == 0 {
		t.Error("Evaluations should be recorded")
	}
}

func TestRunJob_UnknownOptimizer(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(RunConfig{
		Objective: "sphere",
		Dim:       2,
		Optimizer: "gradient-descent",
	})

	err := runJob(context.Background(), jm, nil, job.ID)
	if err == nil {
		t.Fatal("Expected error for unknown optimizer")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("Job should be failed, got %s", updated.State)
	}
}

func TestRunJob_PersistsRunAndTrace(t *testing.T) {
	tmpDir := t.TempDir()
	runStore, err := store.NewFSStore(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	jm := NewJobManager()
	job := jm.CreateJob(RunConfig{
		Objective:  "sphere",
		Dim:        2,
		CallBudget: 25,
		Seed:       42,
	})

	if err := runJob(context.Background(), jm, runStore, job.ID); err != nil {
		t.Fatalf("runJob failed: %v", err)
	}

	// The run record should be persisted under the job's ID
	record, err := runStore.LoadRun(job.ID)
	if err != nil {
		t.Fatalf("Failed to load persisted run: %v", err)
	}
	if record.Evaluations != 25 {
		t.Errorf("Expected 25 evaluations in record, got %d", record.Evaluations)
	}
	if err := record.Validate(); err != nil {
		t.Errorf("Persisted record should validate: %v", err)
	}

	// The trace should contain one entry per evaluation
	reader, err := store.NewTraceReader(tmpDir, job.ID)
	if err != nil {
		t.Fatalf("Failed to open trace: %v", err)
	}
	defer reader.Close()

	entries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read trace: %v", err)
	}
	if len(entries) != 25 {
		t.Errorf("Expected 25 trace entries, got %d", len(entries))
	}
	for i, entry := range entries {
		if entry.Index != i {
			t.Errorf("Entry %d: expected index %d, got %d", i, i, entry.Index)
		}
	}
}

func TestRunJob_CancelledContext(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(RunConfig{
		Objective:  "sphere",
		Dim:        2,
		CallBudget: 10,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel before starting

	err := runJob(ctx, jm, nil, job.ID)
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCancelled {
		t.Errorf("Job should be cancelled, got %s", updated.State)
	}
	if updated.EndTime == nil {
		t.Error("EndTime should be set on cancellation")
	}
}

func TestMarkJobFailed(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(RunConfig{Objective: "sphere"})

	markJobFailed(jm, job.ID, context.DeadlineExceeded)

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("Expected failed state, got %s", updated.State)
	}
	if updated.Error == "" {
		t.Error("Error should be set")
	}
	if updated.EndTime == nil {
		t.Error("EndTime should be set")
	}
	if time.Since(*updated.EndTime) > time.Minute {
		t.Error("EndTime should be recent")
	}
}

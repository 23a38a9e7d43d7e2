package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cwbudde/randsearch/internal/objective"
	"github.com/cwbudde/randsearch/internal/opt"
	"github.com/cwbudde/randsearch/internal/space"
	"github.com/cwbudde/randsearch/internal/store"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	runObjective  string
	runDim        int
	runBudget     int
	runOptimizer  string
	runIters      int
	runPop        int
	runSeed       int64
	runX0         string
	runY0         string
	runConfigPath string
	runDataDir    string
	runSave       bool
	runOut        string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single optimization",
	Long: `Minimizes a named objective over its search space and prints the best
point found. With --save, the run record and full evaluation trace are
persisted under --data-dir.`,
	RunE: runOptimization,
}

func init() {
	runCmd.Flags().StringVar(&runObjective, "objective", "", "Objective name (required unless --config is given)")
	runCmd.Flags().IntVar(&runDim, "dim", 2, "Search space dimensionality")
	runCmd.Flags().IntVar(&runBudget, "budget", 100, "Total number of objective evaluations")
	runCmd.Flags().StringVar(&runOptimizer, "optimizer", "random", "Optimizer: random, mayfly")
	runCmd.Flags().IntVar(&runIters, "iters", 100, "Max iterations (mayfly only)")
	runCmd.Flags().IntVar(&runPop, "pop", 30, "Population size (mayfly only)")
	runCmd.Flags().Int64Var(&runSeed, "seed", -1, "Random seed (-1 = time-based)")
	runCmd.Flags().StringVar(&runX0, "x0", "", "Initial point(s) as JSON, e.g. [[1,2],[3,4]]")
	runCmd.Flags().StringVar(&runY0, "y0", "", "Initial value(s) as JSON, e.g. [0.5,1.2]")
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "Problem file (YAML)")
	runCmd.Flags().StringVar(&runDataDir, "data-dir", "./data", "Base directory for run storage")
	runCmd.Flags().BoolVar(&runSave, "save", false, "Persist the run record and trace")
	runCmd.Flags().StringVar(&runOut, "out", "", "Write the full result as JSON to this file")

	rootCmd.AddCommand(runCmd)
}

func runOptimization(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig()
	if err != nil {
		return err
	}

	bench, err := objective.Lookup(cfg.Objective)
	if err != nil {
		return err
	}

	sp, err := runSpace(bench, cfg)
	if err != nil {
		return fmt.Errorf("failed to build search space: %w", err)
	}

	x0, y0, err := opt.ParseInitial(cfg.X0, cfg.Y0)
	if err != nil {
		return fmt.Errorf("invalid initial observations: %w", err)
	}

	optimizer, err := selectOptimizer(cfg)
	if err != nil {
		return err
	}

	slog.Info("Starting optimization",
		"objective", cfg.Objective,
		"optimizer", optimizerName(cfg),
		"dimensions", sp.Len(),
		"budget", cfg.CallBudget,
		"seed", cfg.Seed,
	)

	runID := uuid.New().String()

	var trace *store.TraceWriter
	if runSave {
		trace, err = store.NewTraceWriter(runDataDir, runID, false)
		if err != nil {
			return fmt.Errorf("failed to open trace: %w", err)
		}
		defer trace.Close()
	}

	optCfg := opt.Config{
		CallBudget:    cfg.CallBudget,
		InitialPoints: x0,
		InitialValues: y0,
		Seed:          cfg.Seed,
	}
	if trace != nil {
		optCfg.Callback = func(obs opt.Observation) {
			trace.Write(store.TraceEntry{
				Index:     obs.Index,
				Point:     obs.Point,
				Value:     obs.Value,
				Timestamp: time.Now(),
			})
		}
	}

	started := time.Now()
	result, err := optimizer.Minimize(bench.Objective(), sp, optCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(started)
	finished := time.Now()

	slog.Info("Optimization complete",
		"elapsed", elapsed,
		"best_value", result.BestValue,
		"evaluations", result.Len(),
		"evals_per_second", fmt.Sprintf("%.0f", float64(result.Len())/elapsed.Seconds()),
	)

	if runSave {
		if err := trace.Flush(); err != nil {
			slog.Warn("Failed to flush trace", "error", err)
		}

		runStore, err := store.NewFSStore(runDataDir)
		if err != nil {
			return fmt.Errorf("failed to create run store: %w", err)
		}
		record := store.NewRunRecord(runID, cfg, result.BestPoint, result.BestValue, result.Len(), started, finished)
		if err := runStore.SaveRun(runID, record); err != nil {
			return fmt.Errorf("failed to save run record: %w", err)
		}
		fmt.Printf("Saved run %s\n", runID)
	}

	if runOut != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		if err := os.WriteFile(runOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}

	fmt.Printf("Best value: %g\n", result.BestValue)
	fmt.Printf("Best point: %v\n", formatPoint(result.BestPoint))
	fmt.Printf("Evaluations: %d\n", result.Len())

	return nil
}

// buildRunConfig assembles the run configuration from the problem file
// and command-line flags. Flags override file values when set explicitly.
func buildRunConfig() (store.RunConfig, error) {
	var cfg store.RunConfig

	if runConfigPath != "" {
		loaded, err := loadProblemFile(runConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if runObjective != "" {
		cfg.Objective = runObjective
	}
	if cfg.Objective == "" {
		return cfg, fmt.Errorf("objective is required (use --objective or --config)")
	}

	if cfg.Dim == 0 {
		cfg.Dim = runDim
	}
	if cfg.CallBudget == 0 {
		cfg.CallBudget = runBudget
	}
	if cfg.Optimizer == "" {
		cfg.Optimizer = runOptimizer
	}
	if cfg.Iters == 0 {
		cfg.Iters = runIters
	}
	if cfg.PopSize == 0 {
		cfg.PopSize = runPop
	}

	if runSeed >= 0 {
		cfg.Seed = runSeed
	} else if cfg.Seed == 0 {
		cfg.Seed = opt.TimeSeed()
	}

	if runX0 != "" {
		var x0 any
		if err := json.Unmarshal([]byte(runX0), &x0); err != nil {
			return cfg, fmt.Errorf("invalid --x0: %w", err)
		}
		cfg.X0 = x0
	}
	if runY0 != "" {
		var y0 any
		if err := json.Unmarshal([]byte(runY0), &y0); err != nil {
			return cfg, fmt.Errorf("invalid --y0: %w", err)
		}
		cfg.Y0 = y0
	}

	return cfg, nil
}

// runSpace builds the search space from explicit dimension specs or the
// benchmark's canonical bounds.
func runSpace(bench objective.Benchmark, cfg store.RunConfig) (*space.Space, error) {
	if len(cfg.Dimensions) > 0 {
		return space.Parse(cfg.Dimensions)
	}
	dim := cfg.Dim
	if dim <= 0 {
		dim = 2
	}
	return bench.Space(dim)
}

func selectOptimizer(cfg store.RunConfig) (opt.Optimizer, error) {
	switch cfg.Optimizer {
	case "", "random":
		return opt.NewRandomSearch(), nil
	case "mayfly":
		return opt.NewMayfly(cfg.Iters, cfg.PopSize), nil
	default:
		return nil, fmt.Errorf("unknown optimizer: %s", cfg.Optimizer)
	}
}

func optimizerName(cfg store.RunConfig) string {
	if cfg.Optimizer == "" {
		return "random"
	}
	return cfg.Optimizer
}

func formatPoint(p space.Point) string {
	out := "["
	for i, v := range p {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%v", v)
	}
	return out + "]"
}

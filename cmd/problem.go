package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/randsearch/internal/store"
	"gopkg.in/yaml.v3"
)

// loadProblemFile reads a YAML problem file into a run configuration.
//
// Example:
//
//	objective: rastrigin
//	budget: 200
//	seed: 42
//	dimensions:
//	  - [-5.12, 5.12]
//	  - [-5.12, 5.12]
//	x0:
//	  - [0.5, -0.5]
//	y0:
//	  - 12.3
func loadProblemFile(path string) (store.RunConfig, error) {
	var cfg store.RunConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read problem file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse problem file: %w", err)
	}

	if cfg.Objective == "" {
		return cfg, fmt.Errorf("problem file %s: objective is required", path)
	}

	return cfg, nil
}

package preflight

import (
	"context"

	"flowlist/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	if cfg.Paths.ExportDir != "" {
		results = append(results, CheckDirectoryAccess("Export directory", cfg.Paths.ExportDir))
	}

	results = append(results, CheckStateStore(ctx, cfg.StatePath()))
	results = append(results, CheckLock(cfg.LockPath()))

	results = append(results, CheckLLM(ctx, "Classification LLM", cfg.ClassificationLLM()))
	if deconstructionUsesDistinctLLM(cfg) {
		results = append(results, CheckLLM(ctx, "Deconstruction LLM", cfg.DeconstructionLLM()))
	}

	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// deconstructionUsesDistinctLLM returns true when deconstruction overrides
// the model. Otherwise the classification check already covers it.
func deconstructionUsesDistinctLLM(cfg *config.Config) bool {
	return cfg.ClassificationLLM().Model != cfg.DeconstructionLLM().Model
}

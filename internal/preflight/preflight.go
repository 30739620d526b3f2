package preflight

import (
	"context"
	"fmt"
	"strings"

	"deadair/internal/config"
	"deadair/internal/deps"
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

	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	results = append(results, CheckFreeSpace("Output free space", cfg.Paths.OutputDir, cfg.Encode.MinFreeGiB))
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	if cfg.Encode.ArchiveAV1 {
		results = append(results, CheckDirectoryAccess("Archive directory", cfg.Encode.ArchiveDir))
	}

	for _, status := range CheckSystemDeps(ctx, cfg) {
		results = append(results, FromStatus(status))
	}

	results = append(results, CheckFFmpegFilters(ctx, cfg.FFmpegBinary()))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summary joins failed checks into a single line for error messages.
func Summary(results []Result) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return strings.Join(parts, "; ")
}

// FromStatus converts a dependency status into a preflight result. Optional
// dependencies never fail preflight.
func FromStatus(status deps.Status) Result {
	if status.Available {
		return Result{Name: status.Name, Passed: true, Detail: status.Command}
	}
	detail := status.Detail
	if status.Optional {
		return Result{Name: status.Name, Passed: true, Detail: detail + " (optional)"}
	}
	return Result{Name: status.Name, Detail: detail}
}

package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"deadair/internal/logging"
	"deadair/internal/preflight"
)

// runPreflightChecks validates binaries and directories before a batch.
// Returns nil when all checks pass, or an error describing all failures.
func (m *Manager) runPreflightChecks(ctx context.Context, logger *slog.Logger) error {
	results := preflight.RunAll(ctx, m.cfg)
	for _, r := range results {
		if r.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
			continue
		}
		logger.Error("preflight check failed",
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "fix the reported issue and rerun the batch"),
		)
	}
	if failed := preflight.Failed(results); len(failed) > 0 {
		return fmt.Errorf("preflight checks failed: %s", preflight.Summary(failed))
	}
	return nil
}

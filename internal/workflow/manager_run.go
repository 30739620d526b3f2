package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"deadair/internal/history"
	"deadair/internal/logging"
	"deadair/internal/logs"
	"deadair/internal/notifications"
	"deadair/internal/services"
)

// ErrBatchRunning is returned when another batch holds the state lock.
var ErrBatchRunning = errors.New("another deadair batch is running")

// AcquireBatchLock takes the non-blocking state lock that keeps two batches
// (or a batch and a cleanup) from touching the same files. The caller
// unlocks it.
func AcquireBatchLock(path string) (*flock.Flock, error) {
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrBatchRunning, path)
	}
	return lock, nil
}

// Run processes files with the configured number of workers. It returns an
// error only when the batch could not start; per-file failures are reported
// in the summary.
func (m *Manager) Run(ctx context.Context, files []string) (BatchSummary, error) {
	started := time.Now()
	runID := uuid.NewString()
	summary := BatchSummary{RunID: runID, Total: len(files)}

	lock, err := AcquireBatchLock(m.cfg.LockPath())
	if err != nil {
		return summary, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			m.logger.Warn("failed to release batch lock", logging.Error(err))
		}
	}()

	ctx = services.WithRunID(ctx, runID)
	run := m
	runLogger, closer, err := logging.OpenRunLog(m.base, m.cfg.Paths.LogDir, runID)
	if err != nil {
		logging.WarnWithContext(m.logger, "run log unavailable", "run_log_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "batch logs only go to the main log"),
		)
	} else {
		defer func() { _ = closer.Close() }()
		run = m.withLogger(runLogger)
	}
	logger := logging.WithContext(ctx, run.logger)

	runLogPath := logs.RunLogPath(m.cfg.Paths.LogDir, runID)
	if removed := logging.CleanupOldLogs(logger, m.cfg.Logging.RetentionDays, m.cfg.Paths.LogDir, logging.RunLogPattern, runLogPath); removed > 0 {
		logger.Info("pruned old run logs", logging.Int("removed", removed))
	}

	if !run.skipPreflight {
		if err := run.runPreflightChecks(ctx, logger); err != nil {
			return summary, services.Wrap(services.ErrConfiguration, "preflight", "check readiness", "", err)
		}
	}

	if m.store != nil {
		if n, err := m.store.AbandonRunning(ctx, "interrupted before completion"); err != nil {
			logger.Warn("failed to reset interrupted conversions", logging.Error(err))
		} else if n > 0 {
			logger.Info("marked interrupted conversions as failed", logging.Int64("count", n))
		}
	}

	pending := run.filterCompleted(ctx, logger, files, &summary)
	logger.Info("batch started",
		logging.Int("files", len(files)),
		logging.Int("pending", len(pending)),
		logging.Int("workers", m.workers()),
		logging.String(logging.FieldEventType, "batch_start"),
	)

	results := run.runWorkers(ctx, runID, pending)
	for _, r := range results {
		summary.Results = append(summary.Results, r)
		if r.Err == nil {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	summary.Elapsed = time.Since(started)

	logger.Info(summary.String(),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("elapsed", summary.Elapsed),
		logging.String(logging.FieldEventType, "batch_complete"),
	)
	run.notify(logger, "batch_complete", func(ctx context.Context, n notifications.Notifier) error {
		return n.BatchCompleted(ctx, summary.report())
	})
	return summary, nil
}

// notify delivers a push with its own timeout so a cancelled batch still
// reports. Failures are logged and otherwise ignored.
func (m *Manager) notify(logger *slog.Logger, event string, send func(context.Context, notifications.Notifier) error) {
	if m.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.NotifyTimeout()+time.Second)
	defer cancel()
	if err := send(ctx, m.notifier); err != nil {
		logging.WarnWithContext(logger, "notification failed", "notification_failed",
			logging.String("notification", event),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
		)
	}
}

func (m *Manager) workers() int {
	if m.cfg.Workflow.Workers < 1 {
		return 1
	}
	return m.cfg.Workflow.Workers
}

func (m *Manager) filterCompleted(ctx context.Context, logger *slog.Logger, files []string, summary *BatchSummary) []string {
	if m.store == nil || !m.cfg.Workflow.SkipCompleted {
		return files
	}
	pending := make([]string, 0, len(files))
	for _, path := range files {
		done, err := m.store.Completed(ctx, path)
		if err != nil || !done {
			pending = append(pending, path)
			continue
		}
		summary.Skipped++
		summary.Results = append(summary.Results, FileResult{Source: path, Skipped: true, Status: history.StatusCompleted})
		logger.Info("skipping completed file", logging.String("path", path))
	}
	return pending
}

// runWorkers fans files out to the worker pool and returns results in input
// order.
func (m *Manager) runWorkers(ctx context.Context, runID string, files []string) []FileResult {
	results := make([]FileResult, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < min(m.workers(), len(files)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = m.ProcessFile(ctx, runID, files[idx])
			}
		}()
	}

	for idx := range files {
		if ctx.Err() != nil {
			results[idx] = FileResult{Source: files[idx], Status: history.StatusFailed, Err: ctx.Err()}
			continue
		}
		select {
		case jobs <- idx:
		case <-ctx.Done():
			results[idx] = FileResult{Source: files[idx], Status: history.StatusFailed, Err: ctx.Err()}
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

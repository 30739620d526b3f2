package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"deadair/internal/fileutil"
	"deadair/internal/history"
	"deadair/internal/logging"
	"deadair/internal/notifications"
	"deadair/internal/render"
	"deadair/internal/services"
)

// ProcessFile runs the full pipeline for one video and records the outcome.
func (m *Manager) ProcessFile(ctx context.Context, runID, path string) FileResult {
	started := time.Now()
	result := FileResult{Source: path}
	fileCtx := services.WithFile(ctx, path)
	logger := logging.WithContext(fileCtx, m.logger)

	rec := m.beginRecord(fileCtx, logger, runID, path)

	err := m.processFile(fileCtx, logger, path, &result)
	result.Elapsed = time.Since(started)
	if err != nil {
		result.Err = err
		result.Status = services.FailureStatus(err)
		if errors.Is(err, context.Canceled) {
			result.Status = history.StatusFailed
		}
		m.recordFailure(logger, rec, result.Status, err)
		logger.Error("conversion failed",
			logging.Error(err),
			logging.String("status", string(result.Status)),
			logging.String(logging.FieldEventType, "file_failed"),
			logging.String(logging.FieldErrorHint, failureHint(err)),
			logging.Duration("elapsed", result.Elapsed),
		)
		m.notify(logger, "file_failed", func(ctx context.Context, n notifications.Notifier) error {
			return n.FileFailed(ctx, path, err)
		})
		return result
	}

	result.Status = history.StatusCompleted
	m.recordSuccess(fileCtx, logger, rec, result)
	logger.Info("conversion complete",
		logging.String("output", result.Output),
		logging.Float64("removed_seconds", result.Summary.RemovedSeconds),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result
}

func (m *Manager) processFile(ctx context.Context, logger *slog.Logger, path string, result *FileResult) error {
	plan, err := m.Plan(ctx, path)
	if err != nil {
		return err
	}
	result.Summary = plan.Summary
	result.Silences = len(plan.Intervals)

	output := render.OutputPath(path, m.cfg.Paths.OutputDir, m.cfg.Cut.OutputSuffix, m.cfg.Cut.OutputExt)
	renderCtx := services.WithStage(ctx, stageRender)
	rendered, err := m.renderer.Render(renderCtx, render.Job{
		Input:           path,
		Output:          output,
		Script:          plan.Script,
		ExpectedSeconds: plan.Summary.OutputSeconds,
	})
	if err != nil {
		return services.WrapTool(stageRender, "ffmpeg", "render cut", err)
	}
	result.Output = rendered.OutputPath

	if m.cfg.Encode.ArchiveAV1 && m.archiver != nil {
		archiveCtx := services.WithStage(ctx, stageArchive)
		archived, err := m.archiver.Archive(archiveCtx, rendered.OutputPath)
		if err != nil {
			logging.WarnWithContext(logging.WithContext(archiveCtx, m.logger), "archive copy failed", "archive_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check encode.archive_dir and the drapto encoder"),
				logging.String(logging.FieldImpact, "cut is kept without an AV1 archive"),
			)
		} else {
			result.Archive = archived
		}
	}

	if m.cfg.Cut.MarkDone {
		finalizeCtx := services.WithStage(ctx, stageFinalize)
		if done, err := fileutil.MarkDone(path); err != nil {
			logging.WarnWithContext(logging.WithContext(finalizeCtx, m.logger), "failed to mark source done", "mark_done_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "source will be picked up again by discovery"),
			)
		} else {
			logger.Debug("source marked done", logging.String("path", done))
		}
	}
	return nil
}

func (m *Manager) beginRecord(ctx context.Context, logger *slog.Logger, runID, path string) *history.Record {
	if m.store == nil {
		return nil
	}
	rec, err := m.store.Begin(ctx, runID, path)
	if err != nil {
		logging.WarnWithContext(logger, "failed to record conversion start", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "conversion is not tracked in history"),
		)
		return nil
	}
	return rec
}

func (m *Manager) recordSuccess(ctx context.Context, logger *slog.Logger, rec *history.Record, result FileResult) {
	if m.store == nil || rec == nil {
		return
	}
	outcome := history.Outcome{
		OutputPath:     result.Output,
		Silences:       result.Silences,
		Clips:          result.Summary.Clips,
		Crossfades:     result.Summary.Crossfades,
		SourceSeconds:  result.Summary.SourceSeconds,
		KeptSeconds:    result.Summary.KeptSeconds,
		RemovedSeconds: result.Summary.RemovedSeconds,
	}
	if err := m.store.Complete(ctx, rec, outcome); err != nil {
		logger.Error("failed to persist conversion result", logging.Error(err))
	}
}

func (m *Manager) recordFailure(logger *slog.Logger, rec *history.Record, status history.Status, cause error) {
	if m.store == nil || rec == nil {
		return
	}
	// The file context may already be cancelled; the failure still needs
	// to land in history.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.Fail(ctx, rec, status, cause); err != nil {
		logger.Error("failed to persist conversion failure", logging.Error(err))
	}
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, services.ErrTimeout):
		return "raise the matching ffmpeg timeout in the config"
	case errors.Is(err, services.ErrValidation):
		return "inspect the silencedetect log; rerun with --refresh or adjust detection settings"
	case errors.Is(err, services.ErrExternalTool):
		return "check the ffmpeg log beside the output file"
	default:
		return "see error for details"
	}
}

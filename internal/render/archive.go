package render

import (
	"context"
	"fmt"
	"log/slog"

	"deadair/internal/logging"
	"deadair/internal/services/drapto"
)

// Archiver wraps a Drapto archiver with progress logging.
type Archiver struct {
	client drapto.Archiver
	dir    string
	logger *slog.Logger
}

// NewArchiver constructs an Archiver writing into dir.
func NewArchiver(client drapto.Archiver, dir string, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Archiver{client: client, dir: dir, logger: logging.NewComponentLogger(logger, "archive")}
}

// Archive encodes the finished cut at path into the archive directory.
func (a *Archiver) Archive(ctx context.Context, path string) (string, error) {
	sampler := logging.NewProgressSampler(10)
	progress := func(update drapto.ProgressUpdate) {
		switch update.Type {
		case drapto.EventTypeEncodingProgress, drapto.EventTypeStageProgress:
			if sampler.ShouldLog(update.Percent) {
				a.logger.Info("archive progress",
					logging.String(logging.FieldStage, update.Stage),
					logging.Float64("percent", float64(int(update.Percent))),
					logging.Float64("speed", update.Speed),
					logging.Duration("eta", update.ETA),
				)
			}
		case drapto.EventTypeWarning:
			logging.WarnWithContext(a.logger, "archive warning", "archive_warning",
				logging.String("detail", update.Message))
		case drapto.EventTypeError:
			a.logger.Error("archive error", logging.String("detail", update.Message))
		case drapto.EventTypeValidation:
			if !update.ValidationPassed {
				logging.WarnWithContext(a.logger, "archive validation failed", "archive_validation",
					logging.Any("failed_steps", update.FailedSteps))
			}
		case drapto.EventTypeEncodingComplete:
			a.logger.Info("archive encoded",
				logging.String("output", update.OutputPath),
				logging.Float64("size_reduction_percent", update.SizeReduction()),
			)
		default:
			a.logger.Debug("archive event", logging.String(logging.FieldStage, update.Stage), logging.String("detail", update.Message))
		}
	}

	out, err := a.client.Archive(ctx, path, a.dir, progress)
	if err != nil {
		return "", fmt.Errorf("archive %s: %w", path, err)
	}
	return out, nil
}

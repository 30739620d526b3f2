package drapto

import (
	"fmt"
	"time"

	draptolib "github.com/five82/drapto"
)

// archiveReporter adapts the Drapto Reporter interface to the ProgressUpdate
// callback. Batch and hardware events carry nothing the archive step uses
// and are folded into EventTypeInfo messages.
type archiveReporter struct {
	callback func(ProgressUpdate)
	now      func() time.Time
}

func newArchiveReporter(callback func(ProgressUpdate)) *archiveReporter {
	return &archiveReporter{callback: callback, now: time.Now}
}

func (r *archiveReporter) emit(update ProgressUpdate) {
	update.Timestamp = r.now()
	r.callback(update)
}

func (r *archiveReporter) info(stage, message string) {
	r.emit(ProgressUpdate{Type: EventTypeInfo, Stage: stage, Message: message})
}

func (r *archiveReporter) Hardware(s draptolib.HardwareSummary) {
	r.info("hardware", s.Hostname)
}

func (r *archiveReporter) Initialization(s draptolib.InitializationSummary) {
	r.info("initialization", fmt.Sprintf("%v %v %v", s.InputFile, s.Resolution, s.Duration))
}

func (r *archiveReporter) StageProgress(s draptolib.StageProgress) {
	var eta time.Duration
	if s.ETA != nil {
		eta = *s.ETA
	}
	r.emit(ProgressUpdate{
		Type:    EventTypeStageProgress,
		Percent: float64(s.Percent),
		Stage:   s.Stage,
		Message: s.Message,
		ETA:     eta,
	})
}

func (r *archiveReporter) CropResult(s draptolib.CropSummary) {
	r.info("crop", s.Message)
}

func (r *archiveReporter) EncodingConfig(s draptolib.EncodingConfigSummary) {
	r.info("config", fmt.Sprintf("%v preset %v quality %v", s.Encoder, s.Preset, s.Quality))
}

func (r *archiveReporter) EncodingStarted(totalFrames uint64) {
	r.emit(ProgressUpdate{
		Type:        EventTypeEncodingStarted,
		Stage:       "encoding",
		TotalFrames: int64(totalFrames), //nolint:gosec
	})
}

func (r *archiveReporter) EncodingProgress(s draptolib.ProgressSnapshot) {
	r.emit(ProgressUpdate{
		Type:         EventTypeEncodingProgress,
		Percent:      float64(s.Percent),
		Stage:        "encoding",
		Speed:        float64(s.Speed),
		FPS:          float64(s.FPS),
		ETA:          s.ETA,
		TotalFrames:  int64(s.TotalFrames),  //nolint:gosec
		CurrentFrame: int64(s.CurrentFrame), //nolint:gosec
	})
}

func (r *archiveReporter) ValidationComplete(s draptolib.ValidationSummary) {
	var failed []string
	for _, step := range s.Steps {
		if !step.Passed {
			failed = append(failed, step.Name)
		}
	}
	r.emit(ProgressUpdate{
		Type:             EventTypeValidation,
		Stage:            "validation",
		ValidationPassed: s.Passed,
		FailedSteps:      failed,
	})
}

func (r *archiveReporter) EncodingComplete(s draptolib.EncodingOutcome) {
	r.emit(ProgressUpdate{
		Type:         EventTypeEncodingComplete,
		Percent:      100,
		Stage:        "complete",
		OriginalSize: int64(s.OriginalSize), //nolint:gosec
		EncodedSize:  int64(s.EncodedSize),  //nolint:gosec
		OutputPath:   s.OutputPath,
		Speed:        float64(s.AverageSpeed),
	})
}

func (r *archiveReporter) Warning(message string) {
	r.emit(ProgressUpdate{Type: EventTypeWarning, Message: message})
}

func (r *archiveReporter) Error(e draptolib.ReporterError) {
	message := e.Title
	if e.Message != "" {
		message += ": " + e.Message
	}
	r.emit(ProgressUpdate{Type: EventTypeError, Message: message, Stage: e.Context})
}

func (r *archiveReporter) OperationComplete(message string) {
	r.info("complete", message)
}

func (r *archiveReporter) BatchStarted(s draptolib.BatchStartInfo) {
	r.info("batch", fmt.Sprintf("%v files to %v", s.TotalFiles, s.OutputDir))
}

func (r *archiveReporter) FileProgress(s draptolib.FileProgressContext) {
	r.info("batch", fmt.Sprintf("file %v of %v", s.CurrentFile, s.TotalFiles))
}

func (r *archiveReporter) BatchComplete(s draptolib.BatchSummary) {
	r.info("batch", fmt.Sprintf("%v of %v files succeeded", s.SuccessfulCount, s.TotalFiles))
}

var _ draptolib.Reporter = (*archiveReporter)(nil)

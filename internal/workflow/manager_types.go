package workflow

import (
	"context"
	"fmt"
	"time"

	"deadair/internal/cutplan"
	"deadair/internal/filtergraph"
	"deadair/internal/history"
	"deadair/internal/notifications"
	"deadair/internal/render"
	"deadair/internal/silence"
	"deadair/internal/silencedetect"
)

// Stage names used in logs, error wrapping, and context.
const (
	stageDiscover = "discover"
	stageProbe    = "probe"
	stageDetect   = "detect"
	stagePlan     = "plan"
	stageRender   = "render"
	stageArchive  = "archive"
	stageFinalize = "finalize"
)

// PlanResult is everything known about a cut before rendering.
type PlanResult struct {
	Source    string
	Duration  float64
	Intervals []silence.Interval
	Warnings  []*silence.MalformedLogError
	Segments  []cutplan.Segment
	Summary   cutplan.Summary
	Script    filtergraph.Script
	// LogCached reports whether the detection log came from cache.
	LogCached bool
}

// FileResult is the outcome of one file in a batch.
type FileResult struct {
	Source   string
	Output   string
	Archive  string
	Status   history.Status
	Skipped  bool
	Err      error
	Silences int
	Summary  cutplan.Summary
	Elapsed  time.Duration
}

// BatchSummary totals a batch run.
type BatchSummary struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Results   []FileResult
	Elapsed   time.Duration
}

// Attempted returns the number of files that were not skipped.
func (s BatchSummary) Attempted() int {
	return s.Total - s.Skipped
}

// String reports "N of M conversions succeeded".
func (s BatchSummary) String() string {
	return fmt.Sprintf("%d of %d conversions succeeded", s.Succeeded, s.Attempted())
}

func (s BatchSummary) report() notifications.BatchReport {
	report := notifications.BatchReport{
		RunID:     s.RunID,
		Attempted: s.Attempted(),
		Succeeded: s.Succeeded,
		Failed:    s.Failed,
		Skipped:   s.Skipped,
		Elapsed:   s.Elapsed,
	}
	for _, r := range s.Results {
		if !r.Skipped && r.Err == nil {
			report.RemovedSeconds += r.Summary.RemovedSeconds
		}
	}
	return report
}

type prober func(ctx context.Context, binary, path string) (float64, error)

type detector interface {
	Detect(ctx context.Context, videoPath string) (silencedetect.Log, error)
}

type renderer interface {
	Render(ctx context.Context, job render.Job) (render.Result, error)
}

type archiver interface {
	Archive(ctx context.Context, path string) (string, error)
}

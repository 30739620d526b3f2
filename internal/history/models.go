package history

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a record.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusReview    Status = "review"
)

var allStatuses = []Status{StatusRunning, StatusCompleted, StatusFailed, StatusReview}

// AllStatuses returns every known status in display order.
func AllStatuses() []Status {
	return append([]Status(nil), allStatuses...)
}

// ParseStatus converts a user-supplied string into a Status.
func ParseStatus(value string) (Status, bool) {
	candidate := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == candidate {
			return status, true
		}
	}
	return "", false
}

// IsTerminal reports whether the status ends a record's lifecycle.
func (s Status) IsTerminal() bool {
	return s != StatusRunning
}

// Record is one attempt at cutting one video.
type Record struct {
	ID             int64
	RunID          string
	SourcePath     string
	OutputPath     string
	Status         Status
	Silences       int
	Clips          int
	Crossfades     int
	SourceSeconds  float64
	KeptSeconds    float64
	RemovedSeconds float64
	ErrorMessage   string
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Elapsed returns how long the attempt ran, or zero while it is running.
func (r Record) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome carries the results recorded when a file completes.
type Outcome struct {
	OutputPath     string
	Silences       int
	Clips          int
	Crossfades     int
	SourceSeconds  float64
	KeptSeconds    float64
	RemovedSeconds float64
}

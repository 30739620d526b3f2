package drapto

import "time"

// EventType classifies a ProgressUpdate.
type EventType string

const (
	EventTypeStageProgress    EventType = "stage_progress"
	EventTypeEncodingStarted  EventType = "encoding_started"
	EventTypeEncodingProgress EventType = "encoding_progress"
	EventTypeValidation       EventType = "validation"
	EventTypeEncodingComplete EventType = "encoding_complete"
	EventTypeWarning          EventType = "warning"
	EventTypeError            EventType = "error"
	EventTypeInfo             EventType = "info"
)

// ProgressUpdate captures one Drapto reporter event.
type ProgressUpdate struct {
	Type      EventType
	Timestamp time.Time
	Percent   float64
	Stage     string
	Message   string
	ETA       time.Duration
	Speed     float64
	FPS       float64

	TotalFrames  int64
	CurrentFrame int64

	// Populated on EventTypeEncodingComplete.
	OriginalSize int64
	EncodedSize  int64
	OutputPath   string

	// Populated on EventTypeValidation.
	ValidationPassed bool
	FailedSteps      []string
}

// SizeReduction returns the percentage saved by the archive copy, or 0 when
// sizes are unknown.
func (u ProgressUpdate) SizeReduction() float64 {
	if u.OriginalSize <= 0 || u.EncodedSize <= 0 {
		return 0
	}
	return 100 * (1 - float64(u.EncodedSize)/float64(u.OriginalSize))
}

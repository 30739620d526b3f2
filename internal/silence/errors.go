package silence

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLog marks detector output that breaks the start/end alternation.
	ErrMalformedLog = errors.New("malformed silence log")
	// ErrDurationMismatch marks an interval whose reported duration disagrees with its bounds.
	ErrDurationMismatch = errors.New("silence duration mismatch")
)

// MalformedLogError describes one event that could not be paired.
type MalformedLogError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedLogError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", ErrMalformedLog, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedLog, e.Reason)
}

func (e *MalformedLogError) Unwrap() error { return ErrMalformedLog }

// DurationMismatchError reports the parsed and reported durations of a rejected interval.
type DurationMismatchError struct {
	Line     int
	Start    float64
	End      float64
	Reported float64
	Computed float64
}

func (e *DurationMismatchError) Error() string {
	prefix := ErrDurationMismatch.Error()
	if e.Line > 0 {
		prefix = fmt.Sprintf("%s: line %d", prefix, e.Line)
	}
	return fmt.Sprintf("%s: computed %.4fs (%.4f-%.4f) vs reported %.4fs", prefix, e.Computed, e.End, e.Start, e.Reported)
}

func (e *DurationMismatchError) Unwrap() error { return ErrDurationMismatch }

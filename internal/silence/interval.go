package silence

import (
	"fmt"
	"math"
)

// DurationTolerance is the largest accepted difference, in seconds, between
// end-start and the duration ffmpeg reports for the same interval.
const DurationTolerance = 0.1

// Interval is a detected span of silence in source seconds.
type Interval struct {
	start    float64
	end      float64
	duration float64
}

// NewInterval validates a start/end pair against the reported duration. An
// end before the start is a malformed event rather than a duration mismatch.
func NewInterval(start, end, reported float64) (Interval, error) {
	if math.IsNaN(start) || math.IsNaN(end) || math.IsNaN(reported) {
		return Interval{}, &DurationMismatchError{Start: start, End: end, Reported: reported, Computed: end - start}
	}
	computed := end - start
	if computed < 0 {
		return Interval{}, &MalformedLogError{Reason: fmt.Sprintf("silence_end %.4f precedes silence_start %.4f", end, start)}
	}
	if reported < 0 || math.Abs(computed-reported) > DurationTolerance {
		return Interval{}, &DurationMismatchError{Start: start, End: end, Reported: reported, Computed: computed}
	}
	return Interval{start: start, end: end, duration: reported}, nil
}

// Start returns the first silent second.
func (i Interval) Start() float64 { return i.start }

// End returns the second at which sound resumes.
func (i Interval) End() float64 { return i.end }

// Duration returns the duration reported by the detector.
func (i Interval) Duration() float64 { return i.duration }

func (i Interval) String() string {
	return fmt.Sprintf("silence[%.3f-%.3f %.3fs]", i.start, i.end, i.duration)
}

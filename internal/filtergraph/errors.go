package filtergraph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTrim marks a trim whose end does not follow its start.
	ErrInvalidTrim = errors.New("invalid trim")
	// ErrCrossfadeDurationMismatch marks a crossfade between clips of different lengths.
	ErrCrossfadeDurationMismatch = errors.New("crossfade duration mismatch")
	// ErrEmptyConcat marks a concat without inputs.
	ErrEmptyConcat = errors.New("concat requires at least one input")
	// ErrForeignNode marks a node built by a different graph.
	ErrForeignNode = errors.New("node belongs to another graph")
	// ErrNodeReused marks a node that already has a consumer.
	ErrNodeReused = errors.New("node already consumed")
	// ErrUnknownDuration marks a crossfade input whose duration cannot be derived.
	ErrUnknownDuration = errors.New("node duration unknown")
)

// InvalidTrimError carries the rejected trim bounds.
type InvalidTrimError struct {
	Start float64
	End   float64
}

func (e *InvalidTrimError) Error() string {
	return fmt.Sprintf("%s: end %s does not follow start %s", ErrInvalidTrim, formatSeconds(e.End), formatSeconds(e.Start))
}

func (e *InvalidTrimError) Unwrap() error { return ErrInvalidTrim }

// CrossfadeDurationMismatchError carries the durations of both crossfade inputs.
type CrossfadeDurationMismatchError struct {
	FadeOut float64
	FadeIn  float64
}

func (e *CrossfadeDurationMismatchError) Error() string {
	return fmt.Sprintf("%s: fade-out %ss vs fade-in %ss", ErrCrossfadeDurationMismatch, formatSeconds(e.FadeOut), formatSeconds(e.FadeIn))
}

func (e *CrossfadeDurationMismatchError) Unwrap() error { return ErrCrossfadeDurationMismatch }

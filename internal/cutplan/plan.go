package cutplan

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"deadair/internal/silence"
)

// Default planning parameters.
const (
	DefaultWindow        = 3.0
	DefaultStartFraction = 0.75
	DefaultFadeLength    = 0.5
)

// tolerance absorbs floating point noise when comparing boundaries.
const tolerance = 1e-6

var (
	// ErrInvalidParams is returned for out-of-range planning parameters.
	ErrInvalidParams = errors.New("invalid cut plan parameters")
	// ErrNothingToKeep is returned when no positive-length media survives.
	ErrNothingToKeep = errors.New("cut plan keeps no media")
	// ErrCoverage is returned when the planned segments do not reproduce the kept spans.
	ErrCoverage = errors.New("cut plan coverage violated")
)

// Params controls how much of each silence is kept and how clips are joined.
type Params struct {
	// Window is the minimum silence duration used for detection; it is also
	// the amount of silence left in place around each cut.
	Window float64
	// StartFraction is the share of Window kept after a silence starts. The
	// remainder is kept before it ends.
	StartFraction float64
	// FadeLength is the crossfade length between adjacent kept spans.
	FadeLength float64
}

// DefaultParams returns the 3s window, 75/25 split and 0.5s fade.
func DefaultParams() Params {
	return Params{Window: DefaultWindow, StartFraction: DefaultStartFraction, FadeLength: DefaultFadeLength}
}

// Validate reports parameters the planner cannot work with.
func (p Params) Validate() error {
	switch {
	case math.IsNaN(p.Window) || p.Window < 0:
		return fmt.Errorf("%w: window must be >= 0, got %v", ErrInvalidParams, p.Window)
	case math.IsNaN(p.StartFraction) || p.StartFraction < 0 || p.StartFraction > 1:
		return fmt.Errorf("%w: start fraction must be within [0, 1], got %v", ErrInvalidParams, p.StartFraction)
	case math.IsNaN(p.FadeLength) || p.FadeLength < 0:
		return fmt.Errorf("%w: fade length must be >= 0, got %v", ErrInvalidParams, p.FadeLength)
	}
	return nil
}

// KeptSpans returns the source ranges that survive the cuts, clamped to
// [0, total]. Silences too short to remove anything are skipped.
func KeptSpans(silences []silence.Interval, total float64, p Params) []Span {
	keepAfterStart := p.StartFraction * p.Window
	keepBeforeEnd := (1 - p.StartFraction) * p.Window

	spans := make([]Span, 0, len(silences)+1)
	cursor := 0.0
	for _, s := range silences {
		cutIn := clamp(s.Start()+keepAfterStart, 0, total)
		cutOut := clamp(s.End()-keepBeforeEnd, 0, total)
		if cutOut-cutIn <= tolerance {
			continue
		}
		if cutIn < cursor {
			cutIn = cursor
		}
		spans = append(spans, Span{Start: cursor, End: cutIn})
		cursor = math.Max(cursor, cutOut)
	}
	spans = append(spans, Span{Start: cursor, End: total})
	return spans
}

// Plan produces the ordered segments for the given silences. Zero-length
// clips are omitted; a fade that shrinks to zero becomes a hard cut.
func Plan(silences []silence.Interval, total float64, p Params) ([]Segment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(total) || total <= 0 {
		return nil, fmt.Errorf("%w: source duration %v", ErrNothingToKeep, total)
	}

	spans := KeptSpans(silences, total, p)
	segments := make([]Segment, 0, len(spans)*2)

	var (
		fadeIn     float64
		pendingOut Span
	)
	for i, span := range spans {
		available := math.Max(span.Duration()-fadeIn, 0)

		fadeOut := 0.0
		if i < len(spans)-1 {
			fadeOut = math.Min(p.FadeLength, math.Min(available, spans[i+1].Duration()))
			if fadeOut <= tolerance {
				fadeOut = 0
			}
		}

		if fadeIn > 0 {
			segments = append(segments, Segment{
				Kind:    KindCrossfade,
				FadeOut: pendingOut,
				FadeIn:  Span{Start: span.Start, End: span.Start + fadeIn},
			})
		}

		main := Span{Start: span.Start + fadeIn, End: span.End - fadeOut}
		if main.Duration() > tolerance {
			segments = append(segments, Segment{Kind: KindClip, Clip: main})
		}

		fadeIn = fadeOut
		if fadeOut > 0 {
			pendingOut = Span{Start: span.End - fadeOut, End: span.End}
		}
	}

	if len(segments) == 0 {
		return nil, ErrNothingToKeep
	}
	if err := verifyCoverage(spans, segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// Coverage reconstructs the kept spans from segments by chaining clips and
// crossfade halves that touch end to start.
func Coverage(segments []Segment) []Span {
	var pieces []Span
	for _, seg := range segments {
		switch seg.Kind {
		case KindClip:
			pieces = append(pieces, seg.Clip)
		case KindCrossfade:
			pieces = append(pieces, seg.FadeOut, seg.FadeIn)
		}
	}
	sort.SliceStable(pieces, func(i, j int) bool { return pieces[i].Start < pieces[j].Start })

	var merged []Span
	for _, piece := range pieces {
		if n := len(merged); n > 0 && math.Abs(merged[n-1].End-piece.Start) <= tolerance {
			merged[n-1].End = math.Max(merged[n-1].End, piece.End)
			continue
		}
		merged = append(merged, piece)
	}
	return merged
}

func verifyCoverage(spans []Span, segments []Segment) error {
	want := make([]Span, 0, len(spans))
	for _, span := range spans {
		if span.Duration() > tolerance {
			want = append(want, span)
		}
	}
	got := Coverage(segments)

	if len(got) != len(want) {
		return fmt.Errorf("%w: planned %d kept spans, segments cover %d", ErrCoverage, len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i].Start-want[i].Start) > tolerance || math.Abs(got[i].End-want[i].End) > tolerance {
			return fmt.Errorf("%w: span %d planned %s, covered %s", ErrCoverage, i, want[i], got[i])
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

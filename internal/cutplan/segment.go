package cutplan

import "fmt"

// Kind distinguishes plain clips from crossfade pairs.
type Kind int

const (
	// KindClip keeps [Start, End) of the source unchanged.
	KindClip Kind = iota
	// KindCrossfade blends FadeOut (tail of the previous clip) into FadeIn
	// (head of the next one).
	KindCrossfade
)

func (k Kind) String() string {
	switch k {
	case KindClip:
		return "clip"
	case KindCrossfade:
		return "crossfade"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Span is a half-open range of source seconds.
type Span struct {
	Start float64
	End   float64
}

// Duration returns End-Start.
func (s Span) Duration() float64 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("[%.3f, %.3f)", s.Start, s.End)
}

// Segment is one planning unit. Clip is set for KindClip; FadeOut and FadeIn
// are set for KindCrossfade and always have equal durations.
type Segment struct {
	Kind    Kind
	Clip    Span
	FadeOut Span
	FadeIn  Span
}

func (s Segment) String() string {
	if s.Kind == KindCrossfade {
		return fmt.Sprintf("crossfade %s => %s", s.FadeOut, s.FadeIn)
	}
	return "clip " + s.Clip.String()
}

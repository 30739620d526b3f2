package cutplan

// Summary describes the effect of a plan on the source timeline.
type Summary struct {
	Clips          int
	Crossfades     int
	SourceSeconds  float64
	KeptSeconds    float64
	RemovedSeconds float64
	// OutputSeconds counts each crossfade once, since both halves play
	// over each other.
	OutputSeconds float64
}

// Summarize totals the segments of a plan for a source of the given duration.
func Summarize(segments []Segment, total float64) Summary {
	summary := Summary{SourceSeconds: total}
	for _, seg := range segments {
		switch seg.Kind {
		case KindClip:
			summary.Clips++
			summary.KeptSeconds += seg.Clip.Duration()
			summary.OutputSeconds += seg.Clip.Duration()
		case KindCrossfade:
			summary.Crossfades++
			summary.KeptSeconds += seg.FadeOut.Duration() + seg.FadeIn.Duration()
			summary.OutputSeconds += seg.FadeIn.Duration()
		}
	}
	summary.RemovedSeconds = total - summary.KeptSeconds
	if summary.RemovedSeconds < 0 {
		summary.RemovedSeconds = 0
	}
	return summary
}

package filtergraph

import (
	"fmt"

	"deadair/internal/cutplan"
)

// Compile turns an ordered edit plan into a concat of trims and
// crossfades over src. Nothing is emitted; a failure leaves no usable
// root.
func Compile(g *Graph, src *Node, segments []cutplan.Segment, fade float64) (*Node, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyConcat
	}
	parts := make([]*Node, 0, len(segments))
	for i, seg := range segments {
		node, err := compileSegment(g, src, seg, fade)
		if err != nil {
			return nil, fmt.Errorf("segment %d (%s): %w", i, seg, err)
		}
		parts = append(parts, node)
	}
	return g.Concat(parts...)
}

func compileSegment(g *Graph, src *Node, seg cutplan.Segment, fade float64) (*Node, error) {
	switch seg.Kind {
	case cutplan.KindClip:
		return g.Trim(src, seg.Clip.Start, seg.Clip.End)
	case cutplan.KindCrossfade:
		out, err := g.Trim(src, seg.FadeOut.Start, seg.FadeOut.End)
		if err != nil {
			return nil, err
		}
		in, err := g.Trim(src, seg.FadeIn.Start, seg.FadeIn.End)
		if err != nil {
			return nil, err
		}
		return g.Crossfade(out, in, fade)
	default:
		return nil, fmt.Errorf("unknown segment kind %s", seg.Kind)
	}
}

package filtergraph

import (
	"fmt"
	"math"
)

// durationTolerance bounds the difference allowed between the two inputs
// of a crossfade.
const durationTolerance = 1e-6

// Graph is the compilation context for one filter script. It owns the
// identifier counter and the start node every source hangs from.
type Graph struct {
	last  int
	start *Node
}

// New returns an empty graph. The first node built through it gets id 0.
func New() *Graph {
	g := &Graph{last: -1}
	g.start = &Node{kind: KindStart, id: -1, graph: g}
	return g
}

// Start returns the graph's root node.
func (g *Graph) Start() *Node { return g.start }

// Allocated reports how many identifiers the graph has handed out.
func (g *Graph) Allocated() int { return g.last + 1 }

func (g *Graph) nextID() int {
	g.last++
	return g.last
}

// Source references an input file. The node's id doubles as the ffmpeg
// input index, so sources are normally created first.
func (g *Graph) Source(videoStream, audioStream int) *Node {
	return &Node{
		kind:        KindSource,
		id:          g.nextID(),
		graph:       g,
		inputs:      []*Node{g.start},
		videoStream: videoStream,
		audioStream: audioStream,
	}
}

// Trim selects [start, end) of src and resets its timestamps to zero.
func (g *Graph) Trim(src *Node, start, end float64) (*Node, error) {
	if err := g.adopt(src); err != nil {
		return nil, err
	}
	if math.IsNaN(start) || math.IsNaN(end) || start < 0 || end <= start {
		return nil, &InvalidTrimError{Start: start, End: end}
	}
	n := &Node{kind: KindTrim, id: g.nextID(), graph: g, inputs: []*Node{src}, start: start, end: end}
	claim(src)
	return n, nil
}

// Crossfade blends the tail clip out into the head clip in. Both must
// have the same duration. fade is clamped to that duration; a
// non-positive fade uses the full duration.
func (g *Graph) Crossfade(out, in *Node, fade float64) (*Node, error) {
	if err := g.adopt(out, in); err != nil {
		return nil, err
	}
	outDur, ok := out.Duration()
	if !ok {
		return nil, fmt.Errorf("crossfade fade-out %s: %w", out, ErrUnknownDuration)
	}
	inDur, ok := in.Duration()
	if !ok {
		return nil, fmt.Errorf("crossfade fade-in %s: %w", in, ErrUnknownDuration)
	}
	if math.Abs(outDur-inDur) > durationTolerance {
		return nil, &CrossfadeDurationMismatchError{FadeOut: outDur, FadeIn: inDur}
	}
	if fade <= 0 || fade > inDur {
		fade = inDur
	}
	n := &Node{kind: KindCrossfade, id: g.nextID(), graph: g, inputs: []*Node{out, in}, fade: fade}
	claim(out, in)
	return n, nil
}

// Concat joins nodes end to end in the given order.
func (g *Graph) Concat(nodes ...*Node) (*Node, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyConcat
	}
	if err := g.adopt(nodes...); err != nil {
		return nil, err
	}
	inputs := make([]*Node, len(nodes))
	copy(inputs, nodes)
	n := &Node{kind: KindConcat, id: g.nextID(), graph: g, inputs: inputs}
	claim(nodes...)
	return n, nil
}

// adopt checks that every node was built by g and has no consumer yet.
func (g *Graph) adopt(nodes ...*Node) error {
	seen := make(map[*Node]struct{}, len(nodes))
	for _, n := range nodes {
		if n == nil {
			return fmt.Errorf("filtergraph: nil node")
		}
		if n.graph != g {
			return fmt.Errorf("%s: %w", n, ErrForeignNode)
		}
		if n.shared() {
			continue
		}
		if _, dup := seen[n]; dup || n.owned {
			return fmt.Errorf("%s: %w", n, ErrNodeReused)
		}
		seen[n] = struct{}{}
	}
	return nil
}

func claim(nodes ...*Node) {
	for _, n := range nodes {
		if !n.shared() {
			n.owned = true
		}
	}
}

package filtergraph

import (
	"fmt"
	"strconv"
)

// Kind tags the variant a Node represents.
type Kind int

const (
	KindStart Kind = iota
	KindSource
	KindTrim
	KindConcat
	KindCrossfade
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindSource:
		return "source"
	case KindTrim:
		return "trim"
	case KindConcat:
		return "concat"
	case KindCrossfade:
		return "crossfade"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is one vertex of a filter graph. Node parameters and identifiers are
// immutable once built; the graph records ownership when a node is attached.
type Node struct {
	kind   Kind
	id     int
	graph  *Graph
	inputs []*Node
	owned  bool

	videoStream int
	audioStream int

	start float64
	end   float64

	fade float64
}

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// ID returns the identifier assigned at construction. The graph root is -1.
func (n *Node) ID() int { return n.id }

// Inputs returns the node's predecessors in consumption order.
func (n *Node) Inputs() []*Node {
	out := make([]*Node, len(n.inputs))
	copy(out, n.inputs)
	return out
}

// VideoLabel returns the label of the node's video output.
func (n *Node) VideoLabel() string {
	if n.kind == KindSource {
		return fmt.Sprintf("[%d:v:%d]", n.id, n.videoStream)
	}
	return fmt.Sprintf("[v%d]", n.id)
}

// AudioLabel returns the label of the node's audio output.
func (n *Node) AudioLabel() string {
	if n.kind == KindSource {
		return fmt.Sprintf("[%d:a:%d]", n.id, n.audioStream)
	}
	return fmt.Sprintf("[a%d]", n.id)
}

// Duration returns the length in seconds of the node's output when it can
// be derived from its parameters.
func (n *Node) Duration() (float64, bool) {
	switch n.kind {
	case KindTrim:
		return n.end - n.start, true
	case KindCrossfade:
		return n.inputs[1].Duration()
	case KindConcat:
		total := 0.0
		for _, in := range n.inputs {
			d, ok := in.Duration()
			if !ok {
				return 0, false
			}
			total += d
		}
		return total, true
	default:
		return 0, false
	}
}

func (n *Node) String() string {
	switch n.kind {
	case KindTrim:
		return fmt.Sprintf("trim#%d(%s-%s)", n.id, formatSeconds(n.start), formatSeconds(n.end))
	case KindCrossfade:
		return fmt.Sprintf("crossfade#%d(%s => %s)", n.id, n.inputs[0], n.inputs[1])
	default:
		return fmt.Sprintf("%s#%d", n.kind, n.id)
	}
}

// shared reports whether the node may feed more than one consumer.
func (n *Node) shared() bool {
	return n.kind == KindStart || n.kind == KindSource
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

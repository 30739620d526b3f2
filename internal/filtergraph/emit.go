package filtergraph

import (
	"fmt"
	"strings"
)

// Walk visits every node reachable from root in post-order: a node's
// inputs, left to right, before the node itself. Shared nodes are visited
// once.
func Walk(root *Node, visit func(*Node)) {
	if root == nil {
		return
	}
	seen := make(map[*Node]struct{})
	var walk func(*Node)
	walk = func(n *Node) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		for _, in := range n.inputs {
			walk(in)
		}
		visit(n)
	}
	walk(root)
}

// Emit returns the filter expressions for the tree rooted at root. Every
// label appears as an output before any expression consumes it.
func Emit(root *Node) []string {
	var filters []string
	Walk(root, func(n *Node) {
		filters = append(filters, expressions(n)...)
	})
	return filters
}

func expressions(n *Node) []string {
	switch n.kind {
	case KindTrim:
		src := n.inputs[0]
		bounds := fmt.Sprintf("start=%s:end=%s", formatSeconds(n.start), formatSeconds(n.end))
		return []string{
			fmt.Sprintf("%strim=%s,setpts=PTS-STARTPTS%s", src.VideoLabel(), bounds, n.VideoLabel()),
			fmt.Sprintf("%satrim=%s,asetpts=PTS-STARTPTS%s", src.AudioLabel(), bounds, n.AudioLabel()),
		}
	case KindConcat:
		var b strings.Builder
		for _, in := range n.inputs {
			b.WriteString(in.VideoLabel())
			b.WriteString(in.AudioLabel())
		}
		fmt.Fprintf(&b, "concat=n=%d:v=1:a=1%s%s", len(n.inputs), n.VideoLabel(), n.AudioLabel())
		return []string{b.String()}
	case KindCrossfade:
		out, in := n.inputs[0], n.inputs[1]
		d := formatSeconds(n.fade)
		id := n.id
		return []string{
			fmt.Sprintf("%sformat=pix_fmts=yuva420p,fade=t=out:st=0:d=%s:alpha=1[z%d]", out.VideoLabel(), d, id),
			fmt.Sprintf("[z%d]fifo[y%d]", id, id),
			fmt.Sprintf("%sformat=pix_fmts=yuva420p,fade=t=in:st=0:d=%s:alpha=1[b%d]", in.VideoLabel(), d, id),
			fmt.Sprintf("[b%d]fifo[c%d]", id, id),
			fmt.Sprintf("[y%d][c%d]overlay%s", id, id, n.VideoLabel()),
			fmt.Sprintf("%s%sacrossfade=d=%s%s", out.AudioLabel(), in.AudioLabel(), d, n.AudioLabel()),
		}
	default:
		return nil
	}
}

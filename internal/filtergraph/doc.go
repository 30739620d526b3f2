// Package filtergraph compiles an edit plan into an ffmpeg filter_complex
// script.
//
// A Graph is the compilation context for one source file. It owns the only
// identifier counter: every node built through it (sources, trims, concats
// and crossfades) takes the next identifier at construction, and each
// node's channel labels are derived from that identifier. Nodes form a
// tree; only the graph root and source references may be shared.
//
// Emit walks a tree in post-order so every label is defined before it is
// consumed, which is what ffmpeg requires of a filter script. Assemble
// joins the expressions and reports the root's labels for -map.
//
// A Graph is not safe for concurrent use. Build one per file.
package filtergraph

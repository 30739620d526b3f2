// Package workflow drives batches of videos through the silence-cutting
// pipeline.
//
// For each file the Manager probes the duration, obtains the silencedetect
// log, extracts silence intervals, plans the cut, compiles and assembles the
// filter graph, renders it, and records the outcome in the history store.
// Files are independent: a failure is logged and recorded and the batch
// moves on. A batch holds an exclusive lock on the state directory, runs
// preflight checks once, and tees its logs into a per-run JSON file.
//
// BuildPlan exposes the pure planning half (log text and duration in, filter
// script out) so callers can dry-run a cut without touching ffmpeg.
package workflow

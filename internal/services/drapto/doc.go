// Package drapto integrates the Drapto Go library so a finished cut can be
// archived as an AV1 copy while structured progress flows back to the caller.
//
// It exposes an Archiver interface, a Library implementation that calls
// Drapto directly, and a reporter adapter that folds Drapto's Reporter
// callbacks into ProgressUpdate values. Tests swap in fakes so the workflow
// can be exercised without running the real encoder.
package drapto

// Package history persists one record per processed video in a SQLite
// database under the state directory.
//
// The batch driver opens a record when it starts on a file, then completes
// or fails it with the plan summary and output path. The CLI reads the same
// records for `deadair history`, and the driver consults them to skip files
// that were already cut.
package history

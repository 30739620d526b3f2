// Package sidecar finds and removes the files deadair leaves next to source
// videos: silencedetect caches (<video>.sc<min>), their lock files, and
// filter scripts (<video>.cfs).
//
// A sidecar is orphaned once its video is gone, usually because a finished
// source was renamed to <video>.done. Clean removes orphans older than a
// minimum age and leaves sidecars of videos that still exist alone.
package sidecar

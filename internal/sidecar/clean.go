package sidecar

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"deadair/internal/logging"
)

var sidecarPattern = regexp.MustCompile(`^(.+)(\.sc[0-9][0-9.]*(\.lock)?|\.cfs)$`)

// Options controls a cleanup pass.
type Options struct {
	// MinAge skips orphans modified more recently than this.
	MinAge time.Duration
	// DryRun reports what would be removed without removing it.
	DryRun bool
}

// File is a sidecar and the video it belongs to.
type File struct {
	Path    string
	Owner   string
	Size    int64
	ModTime time.Time
}

// CleanupError pairs a path with the error hit while removing it.
type CleanupError struct {
	Path string
	Err  error
}

// Result lists what a cleanup pass removed (or would remove on a dry run).
type Result struct {
	Removed []File
	Bytes   int64
	Errors  []CleanupError
}

// Owner returns the video path a sidecar name belongs to, or false when
// name is not a sidecar.
func Owner(path string) (string, bool) {
	m := sidecarPattern.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Orphans walks root and returns sidecars whose video no longer exists.
// Hidden directories are skipped.
func Orphans(ctx context.Context, root string) ([]File, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, nil
	}
	var orphans []File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) && path == root {
				return filepath.SkipAll
			}
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		owner, ok := Owner(path)
		if !ok {
			return nil
		}
		if _, err := os.Stat(owner); err == nil || !errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		orphans = append(orphans, File{Path: path, Owner: owner, Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	return orphans, err
}

// Clean removes orphaned sidecars under root that are older than
// opts.MinAge.
func Clean(ctx context.Context, root string, opts Options, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	var result Result

	orphans, err := Orphans(ctx, root)
	if err != nil {
		return result, err
	}
	cutoff := time.Now().Add(-opts.MinAge)
	for _, file := range orphans {
		if file.ModTime.After(cutoff) {
			continue
		}
		if !opts.DryRun {
			if err := os.Remove(file.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				result.Errors = append(result.Errors, CleanupError{Path: file.Path, Err: err})
				logger.Warn("failed to remove orphaned sidecar",
					logging.String("path", file.Path),
					logging.Error(err),
					logging.String(logging.FieldEventType, "sidecar_cleanup_failed"),
					logging.String(logging.FieldErrorHint, "check input_dir permissions"),
					logging.String(logging.FieldImpact, "disk space not reclaimed"),
				)
				continue
			}
			logger.Debug("removed orphaned sidecar",
				logging.String("path", file.Path),
				logging.Duration("age", time.Since(file.ModTime)),
				logging.String(logging.FieldEventType, "sidecar_cleanup"),
			)
		}
		result.Removed = append(result.Removed, file)
		result.Bytes += file.Size
	}
	return result, nil
}

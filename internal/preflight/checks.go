package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"deadair/internal/config"
	"deadair/internal/deps"
)

const bytesPerGiB = 1 << 30

// statfs is swapped in tests.
var statfs = unix.Statfs

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minGiB
// available. A minimum of zero disables the check.
func CheckFreeSpace(name, path string, minGiB int) Result {
	if minGiB <= 0 {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	var st unix.Statfs_t
	if err := statfs(path, &st); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := st.Bavail * uint64(st.Bsize) //nolint:gosec
	freeGiB := float64(free) / bytesPerGiB
	if free < uint64(minGiB)*bytesPerGiB {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%.1f GiB free, need %d GiB)", path, freeGiB, minGiB)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%.1f GiB free)", path, freeGiB)}
}

// CheckSystemDeps evaluates the binaries the pipeline shells out to. Both
// the batch driver and the status command use it.
func CheckSystemDeps(_ context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for silence detection and rendering",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for duration probing",
		},
	}
	return deps.CheckBinaries(requirements)
}

// CheckFFmpegFilters verifies ffmpeg was built with every filter the
// generated filter graphs reference.
func CheckFFmpegFilters(ctx context.Context, ffmpegBinary string) Result {
	const name = "FFmpeg filters"

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	missing, err := deps.CheckFilters(checkCtx, ffmpegBinary, deps.RequiredFilters)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if len(missing) > 0 {
		return Result{Name: name, Detail: "missing " + strings.Join(missing, ", ")}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d filters available", len(deps.RequiredFilters))}
}

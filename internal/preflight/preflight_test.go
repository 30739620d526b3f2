package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"deadair/internal/config"
	"deadair/internal/deps"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func stubStatfs(t *testing.T, availBlocks uint64, err error) {
	t.Helper()
	prev := statfs
	statfs = func(_ string, st *unix.Statfs_t) error {
		if err != nil {
			return err
		}
		st.Bsize = 4096
		st.Bavail = availBlocks
		return nil
	}
	t.Cleanup(func() { statfs = prev })
}

func TestCheckFreeSpace(t *testing.T) {
	const blocksPerGiB = bytesPerGiB / 4096

	stubStatfs(t, 10*blocksPerGiB, nil)
	if r := CheckFreeSpace("space", "/out", 5); !r.Passed {
		t.Fatalf("expected pass with 10 GiB free, got %s", r.Detail)
	}

	stubStatfs(t, 2*blocksPerGiB, nil)
	r := CheckFreeSpace("space", "/out", 5)
	if r.Passed {
		t.Fatal("expected failure with 2 GiB free")
	}
	if !strings.Contains(r.Detail, "need 5 GiB") {
		t.Fatalf("unexpected detail: %s", r.Detail)
	}

	stubStatfs(t, 0, errors.New("boom"))
	if r := CheckFreeSpace("space", "/out", 5); r.Passed {
		t.Fatal("expected failure when statfs errors")
	}
	if r := CheckFreeSpace("space", "/out", 0); !r.Passed {
		t.Fatal("expected zero minimum to disable the check")
	}
}

func TestFromStatus(t *testing.T) {
	if r := FromStatus(deps.Status{Name: "FFmpeg", Available: true, Command: "/usr/bin/ffmpeg"}); !r.Passed {
		t.Fatal("expected available status to pass")
	}
	if r := FromStatus(deps.Status{Name: "FFmpeg", Detail: "missing"}); r.Passed {
		t.Fatal("expected missing required status to fail")
	}
	if r := FromStatus(deps.Status{Name: "Extra", Optional: true, Detail: "missing"}); !r.Passed {
		t.Fatal("expected optional status to pass")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MissingBinariesFail(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Encode.MinFreeGiB = 0
	cfg.FFmpeg.FFmpegBinary = "clearly-not-present-ffmpeg"
	cfg.FFmpeg.FFprobeBinary = "clearly-not-present-ffprobe"

	results := RunAll(context.Background(), &cfg)
	failed := Failed(results)
	names := make(map[string]bool)
	for _, r := range failed {
		names[r.Name] = true
	}
	for _, want := range []string{"FFmpeg", "FFprobe", "FFmpeg filters"} {
		if !names[want] {
			t.Errorf("expected %s to fail, failures: %s", want, Summary(failed))
		}
	}
	for _, r := range results {
		if strings.HasSuffix(r.Name, "directory") && !r.Passed {
			t.Errorf("directory check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestRunAll_ChecksArchiveWhenEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Encode.MinFreeGiB = 0
	cfg.Encode.ArchiveAV1 = true
	cfg.Encode.ArchiveDir = filepath.Join(t.TempDir(), "missing")

	found := false
	for _, r := range RunAll(context.Background(), &cfg) {
		if r.Name == "Archive directory" {
			found = true
			if r.Passed {
				t.Fatal("expected missing archive directory to fail")
			}
		}
	}
	if !found {
		t.Fatal("expected archive directory check")
	}
}

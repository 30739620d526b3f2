package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"deadair/internal/config"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	writeMode(t, path, content, 0o644)
}

// WriteExecutable writes a script that can be run directly.
func WriteExecutable(t testing.TB, path, content string) {
	t.Helper()
	writeMode(t, path, content, 0o755)
}

// AddVideo creates a placeholder video at rel under the configured input
// directory and returns its path.
func AddVideo(t testing.TB, cfg *config.Config, rel string) string {
	t.Helper()
	path := filepath.Join(cfg.Paths.InputDir, rel)
	WriteFile(t, path, "video")
	return path
}

func writeMode(t testing.TB, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := os.Chmod(path, mode); err != nil {
		t.Fatalf("chmod %s: %v", path, err)
	}
}

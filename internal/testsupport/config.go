package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"deadair/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t         testing.TB
	baseDir   string
	cfg       *config.Config
	stubs     bool
	detectLog string
}

// NewConfig returns a config whose directories live under a per-test temp
// dir. The input, output, log, and state directories exist on return.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = filepath.Join(base, "raw")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Encode.ArchiveDir = filepath.Join(base, "archive")
	cfg.Encode.MinFreeGiB = 0

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfg, detectLog: SilenceLog}
	for _, opt := range opts {
		opt(builder)
	}
	if builder.stubs {
		builder.writeStubs()
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := os.MkdirAll(cfg.Paths.InputDir, 0o755); err != nil {
		t.Fatalf("mkdir input dir: %v", err)
	}
	return &cfg
}

// WithStubbedFFmpeg points the config at shell stubs for ffmpeg and ffprobe.
// See writeStubs for their behavior.
func WithStubbedFFmpeg() ConfigOption {
	return func(b *configBuilder) {
		b.stubs = true
	}
}

// WithDetectLog replaces the silencedetect output printed by the ffmpeg stub.
func WithDetectLog(text string) ConfigOption {
	return func(b *configBuilder) {
		b.detectLog = text
	}
}

// BaseDir returns the temp directory backing a config built by NewConfig.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// WriteConfigFile serializes cfg as TOML so CLI tests can pass --config.
func WriteConfigFile(t testing.TB, cfg *config.Config, path string) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	WriteFile(t, path, string(data))
}

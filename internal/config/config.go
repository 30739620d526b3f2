package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	StateDir  string `toml:"state_dir"`
}

// Detection controls the ffmpeg silencedetect pass.
type Detection struct {
	NoiseDB           float64 `toml:"noise_db"`
	MinSilenceSeconds float64 `toml:"min_silence_seconds"`
	CacheEnabled      bool    `toml:"cache_enabled"`
}

// Cut controls how detected silences become an edit plan.
type Cut struct {
	StartFraction float64  `toml:"start_fraction"`
	FadeSeconds   float64  `toml:"fade_seconds"`
	AudioStream   int      `toml:"audio_stream"`
	StrictLog     bool     `toml:"strict_log"`
	Extensions    []string `toml:"extensions"`
	OutputSuffix  string   `toml:"output_suffix"`
	OutputExt     string   `toml:"output_ext"`
	MarkDone      bool     `toml:"mark_done"`
}

// Encode contains the encoder settings used for the cut render and the
// optional AV1 archive copy.
type Encode struct {
	VideoCodec string   `toml:"video_codec"`
	Preset     string   `toml:"preset"`
	CRF        int      `toml:"crf"`
	AudioCodec string   `toml:"audio_codec"`
	PixFmt     string   `toml:"pix_fmt"`
	ExtraArgs  []string `toml:"extra_args"`
	ArchiveAV1 bool     `toml:"archive_av1"`
	ArchiveDir string   `toml:"archive_dir"`
	MinFreeGiB int      `toml:"min_free_gib"`
}

// FFmpeg contains binary locations and per-call timeouts in seconds.
type FFmpeg struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	ProbeTimeout  int    `toml:"probe_timeout"`
	DetectTimeout int    `toml:"detect_timeout"`
	RenderTimeout int    `toml:"render_timeout"`
}

// Workflow contains batch driver settings.
type Workflow struct {
	Workers       int  `toml:"workers"`
	SkipCompleted bool `toml:"skip_completed"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Notifications configures ntfy pushes for batch events.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	FileFailures   bool   `toml:"file_failures"`
}

// Config encapsulates all configuration values for deadair.
//
// Configuration sections by subsystem:
//   - Paths: input, output, log, and state directories
//   - Detection: silencedetect threshold, minimum length, and cache
//   - Cut: cut placement, crossfade length, and output naming
//   - Encode: encoder settings and the optional AV1 archive
//   - FFmpeg: binaries and timeouts
//   - Workflow: batch parallelism and history-based skipping
//   - Logging: log format, level, and retention
//   - Notifications: ntfy topic for batch results
type Config struct {
	Paths     Paths     `toml:"paths"`
	Detection Detection `toml:"detection"`
	Cut       Cut       `toml:"cut"`
	Encode    Encode    `toml:"encode"`
	FFmpeg    FFmpeg    `toml:"ffmpeg"`
	Workflow  Workflow  `toml:"workflow"`
	Logging   Logging   `toml:"logging"`

	Notifications Notifications `toml:"notifications"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("deadair.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output, log, and state directories. The
// input directory is left alone; a missing one is reported by preflight.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.OutputDir, c.Paths.LogDir, c.Paths.StateDir}
	if c.Encode.ArchiveAV1 {
		dirs = append(dirs, c.Encode.ArchiveDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for detection and rendering.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.FFmpeg.FFmpegBinary); bin != "" {
		return bin
	}
	return defaultFFmpegBinary
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.FFmpeg.FFprobeBinary); bin != "" {
		return bin
	}
	return defaultFFprobeBinary
}

// ProbeTimeout bounds a single ffprobe call.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.FFmpeg.ProbeTimeout) * time.Second
}

// DetectTimeout bounds a single silencedetect pass.
func (c *Config) DetectTimeout() time.Duration {
	return time.Duration(c.FFmpeg.DetectTimeout) * time.Second
}

// RenderTimeout bounds a single render.
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.FFmpeg.RenderTimeout) * time.Second
}

// NotifyTimeout returns the ntfy request timeout.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Notifications.RequestTimeout) * time.Second
}

// HistoryPath returns the location of the run history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LockPath returns the batch lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "deadair.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

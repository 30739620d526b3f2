package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCut()
	c.normalizeEncode()
	c.normalizeFFmpeg()
	c.normalizeWorkflow()
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Encode.ArchiveDir) == "" {
		c.Encode.ArchiveDir = defaultArchiveDir
	}
	if c.Encode.ArchiveDir, err = expandPath(c.Encode.ArchiveDir); err != nil {
		return fmt.Errorf("encode.archive_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCut() {
	if len(c.Cut.Extensions) == 0 {
		c.Cut.Extensions = []string{defaultExtensionMP4, defaultExtensionMKV}
	} else {
		exts := make([]string, 0, len(c.Cut.Extensions))
		seen := make(map[string]struct{}, len(c.Cut.Extensions))
		for _, ext := range c.Cut.Extensions {
			normalized := normalizeExtension(ext)
			if normalized == "" {
				continue
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			exts = append(exts, normalized)
		}
		c.Cut.Extensions = exts
	}
	c.Cut.OutputSuffix = strings.TrimSpace(c.Cut.OutputSuffix)
	c.Cut.OutputExt = normalizeExtension(c.Cut.OutputExt)
	if c.Cut.OutputExt == "" {
		c.Cut.OutputExt = defaultOutputExt
	}
}

func (c *Config) normalizeEncode() {
	c.Encode.VideoCodec = strings.TrimSpace(c.Encode.VideoCodec)
	if c.Encode.VideoCodec == "" {
		c.Encode.VideoCodec = defaultVideoCodec
	}
	c.Encode.Preset = strings.TrimSpace(c.Encode.Preset)
	c.Encode.AudioCodec = strings.TrimSpace(c.Encode.AudioCodec)
	if c.Encode.AudioCodec == "" {
		c.Encode.AudioCodec = defaultAudioCodec
	}
	c.Encode.PixFmt = strings.TrimSpace(c.Encode.PixFmt)
	if c.Encode.MinFreeGiB < 0 {
		c.Encode.MinFreeGiB = 0
	}
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.FFmpegBinary = strings.TrimSpace(c.FFmpeg.FFmpegBinary)
	if c.FFmpeg.FFmpegBinary == "" {
		if value, ok := os.LookupEnv(ffmpegBinaryEnvVariable); ok {
			c.FFmpeg.FFmpegBinary = strings.TrimSpace(value)
		}
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if c.FFmpeg.FFprobeBinary == "" {
		if value, ok := os.LookupEnv(ffprobeBinaryEnvVariable); ok {
			c.FFmpeg.FFprobeBinary = strings.TrimSpace(value)
		}
	}
	if c.FFmpeg.ProbeTimeout == 0 {
		c.FFmpeg.ProbeTimeout = defaultProbeTimeout
	}
	if c.FFmpeg.DetectTimeout == 0 {
		c.FFmpeg.DetectTimeout = defaultDetectTimeout
	}
	if c.FFmpeg.RenderTimeout == 0 {
		c.FFmpeg.RenderTimeout = defaultRenderTimeout
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.Workers == 0 {
		c.Workflow.Workers = defaultWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateCut(); err != nil {
		return err
	}
	if err := c.validateEncode(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateNotifications()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return errors.New("paths.input_dir must be set")
	}
	if c.Paths.InputDir == c.Paths.OutputDir && strings.TrimSpace(c.Cut.OutputSuffix) == "" {
		return errors.New("cut.output_suffix must be set when paths.output_dir equals paths.input_dir")
	}
	return nil
}

func (c *Config) validateDetection() error {
	if c.Detection.NoiseDB > maxDetectionNoiseDB || c.Detection.NoiseDB < minDetectionNoiseDB {
		return fmt.Errorf("detection.noise_db must be between %g and %g", minDetectionNoiseDB, maxDetectionNoiseDB)
	}
	if c.Detection.MinSilenceSeconds <= 0 {
		return errors.New("detection.min_silence_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCut() error {
	if c.Cut.StartFraction < minStartFraction || c.Cut.StartFraction > maxStartFraction {
		return errors.New("cut.start_fraction must be between 0 and 1")
	}
	if c.Cut.FadeSeconds < 0 {
		return errors.New("cut.fade_seconds must be >= 0")
	}
	if c.Cut.AudioStream < 0 {
		return errors.New("cut.audio_stream must be >= 0")
	}
	if len(c.Cut.Extensions) == 0 {
		return errors.New("cut.extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateEncode() error {
	if c.Encode.CRF < 0 || c.Encode.CRF > maxCRF {
		return fmt.Errorf("encode.crf must be between 0 and %d", maxCRF)
	}
	if c.Encode.ArchiveAV1 && strings.TrimSpace(c.Encode.ArchiveDir) == "" {
		return errors.New("encode.archive_dir must be set when encode.archive_av1 is true")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	return ensurePositiveMap(map[string]int{
		"ffmpeg.probe_timeout":  c.FFmpeg.ProbeTimeout,
		"ffmpeg.detect_timeout": c.FFmpeg.DetectTimeout,
		"ffmpeg.render_timeout": c.FFmpeg.RenderTimeout,
	})
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.Workers <= 0 {
		return errors.New("workflow.workers must be positive")
	}
	if c.Workflow.Workers > maxWorkers {
		return fmt.Errorf("workflow.workers must be <= %d", maxWorkers)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic == "" {
		return nil
	}
	if !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return errors.New("notifications.ntfy_topic must be a full http(s) URL")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

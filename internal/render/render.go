package render

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"deadair/internal/fileutil"
	"deadair/internal/filtergraph"
	"deadair/internal/logging"
)

var commandContext = exec.CommandContext

// ErrEmptyScript is returned when asked to render a script with no filters.
var ErrEmptyScript = errors.New("render: empty filter script")

// Settings holds encoder and binary settings for a render.
type Settings struct {
	FFmpegBinary string
	VideoCodec   string
	Preset       string
	CRF          int
	AudioCodec   string
	PixFmt       string
	ExtraArgs    []string
	Timeout      time.Duration
}

// Job describes one render.
type Job struct {
	Input  string
	Output string
	Script filtergraph.Script
	// ExpectedSeconds is the planned output length, used for progress.
	ExpectedSeconds float64
}

// Result describes a finished render.
type Result struct {
	OutputPath string
	ScriptPath string
	LogPath    string
	Elapsed    time.Duration
}

// Renderer runs ffmpeg renders.
type Renderer struct {
	settings Settings
	logger   *slog.Logger
}

// New constructs a Renderer.
func New(settings Settings, logger *slog.Logger) *Renderer {
	if strings.TrimSpace(settings.FFmpegBinary) == "" {
		settings.FFmpegBinary = "ffmpeg"
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Renderer{settings: settings, logger: logging.NewComponentLogger(logger, "render")}
}

// OutputPath returns "<outputDir>/<stem><suffix><ext>" for input.
func OutputPath(input, outputDir, suffix, ext string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+suffix+ext)
}

// ScriptPath returns where the filter script for input is written.
func ScriptPath(input string) string {
	return input + ".cfs"
}

// LogPath returns where ffmpeg output for a render is saved.
func LogPath(output string) string {
	return output + ".log"
}

// Args builds the ffmpeg command line for a render.
func Args(settings Settings, input, scriptPath string, script filtergraph.Script, output string) []string {
	args := []string{
		"-hide_banner", "-nostats", "-y",
		"-progress", "pipe:1",
		"-i", input,
		"-filter_complex_script", scriptPath,
	}
	args = append(args, script.MapArgs()...)
	if settings.VideoCodec != "" {
		args = append(args, "-c:v", settings.VideoCodec)
	}
	if settings.Preset != "" {
		args = append(args, "-preset", settings.Preset)
	}
	if settings.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(settings.CRF))
	}
	if settings.AudioCodec != "" {
		args = append(args, "-c:a", settings.AudioCodec)
	}
	if settings.PixFmt != "" {
		args = append(args, "-pix_fmt", settings.PixFmt)
	}
	args = append(args, settings.ExtraArgs...)
	return append(args, output)
}

// Render runs the job. On failure the partial output is removed; the log
// file is kept for inspection.
func (r *Renderer) Render(ctx context.Context, job Job) (Result, error) {
	if len(job.Script.Filters) == 0 {
		return Result{}, ErrEmptyScript
	}
	result := Result{
		OutputPath: job.Output,
		ScriptPath: ScriptPath(job.Input),
		LogPath:    LogPath(job.Output),
	}

	if err := job.Script.WriteFile(result.ScriptPath); err != nil {
		return result, err
	}
	if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil {
		return result, fmt.Errorf("ensure output dir: %w", err)
	}
	if err := fileutil.RemoveIfExists(job.Output); err != nil {
		return result, fmt.Errorf("remove previous output: %w", err)
	}

	logFile, err := os.Create(result.LogPath)
	if err != nil {
		return result, fmt.Errorf("create render log: %w", err)
	}
	defer logFile.Close()

	if r.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.settings.Timeout)
		defer cancel()
	}

	args := Args(r.settings, job.Input, result.ScriptPath, job.Script, job.Output)
	cmd := commandContext(ctx, r.settings.FFmpegBinary, args...) //nolint:gosec
	cmd.Stderr = logFile
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return result, fmt.Errorf("stdout pipe: %w", err)
	}

	r.logger.Info("render started",
		logging.String("input", job.Input),
		logging.String("output", job.Output),
		logging.Int("filters", len(job.Script.Filters)),
		logging.String("script", result.ScriptPath),
	)
	started := time.Now()
	if err := cmd.Start(); err != nil {
		return result, fmt.Errorf("start ffmpeg: %w", err)
	}

	r.followProgress(stdout, logFile, job.ExpectedSeconds)

	waitErr := cmd.Wait()
	result.Elapsed = time.Since(started)
	if waitErr != nil {
		_ = fileutil.RemoveIfExists(job.Output)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("ffmpeg render: %w", ctxErr)
		}
		return result, fmt.Errorf("ffmpeg render: %w (see %s)", waitErr, result.LogPath)
	}

	r.logger.Info("render finished",
		logging.String("output", job.Output),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// followProgress copies ffmpeg's -progress stream to the log and emits
// sampled progress lines.
func (r *Renderer) followProgress(stdout io.Reader, logFile io.Writer, expectedSeconds float64) {
	sampler := logging.NewProgressSampler(10)
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		_, _ = fmt.Fprintln(logFile, line)

		seconds, ok := parseOutTime(line)
		if !ok || expectedSeconds <= 0 {
			continue
		}
		percent := 100 * seconds / expectedSeconds
		if sampler.ShouldLog(percent) {
			r.logger.Info("render progress",
				logging.Float64("percent", float64(int(percent))),
				logging.Float64("out_seconds", seconds),
			)
		}
	}
	if err := scanner.Err(); err != nil {
		r.logger.Debug("progress stream ended", logging.Error(err))
	}
}

// parseOutTime reads "out_time_us=<µs>" (or the identically scaled
// "out_time_ms") from an ffmpeg -progress line.
func parseOutTime(line string) (float64, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok || (key != "out_time_us" && key != "out_time_ms") {
		return 0, false
	}
	micros, err := strconv.ParseInt(value, 10, 64)
	if err != nil || micros < 0 {
		return 0, false
	}
	return float64(micros) / 1e6, true
}

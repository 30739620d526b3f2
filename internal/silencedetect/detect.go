package silencedetect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"deadair/internal/fileutil"
	"deadair/internal/logging"
)

// ErrEmptyPath is returned when Detect is called without a video path.
var ErrEmptyPath = errors.New("silencedetect: empty video path")

const cacheHeaderPrefix = "# deadair silencedetect "

var commandContext = exec.CommandContext

// Options configures a detection run.
type Options struct {
	FFmpegBinary string
	NoiseDB      float64
	MinSilence   float64
	AudioStream  int
	CacheEnabled bool
	// Refresh ignores an existing cache entry and rewrites it.
	Refresh bool
	Timeout time.Duration
}

// Log is the outcome of a detection run.
type Log struct {
	Text      string
	CachePath string
	Cached    bool
}

// Detector runs silencedetect and manages the cache.
type Detector struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a Detector.
func New(opts Options, logger *slog.Logger) *Detector {
	if strings.TrimSpace(opts.FFmpegBinary) == "" {
		opts.FFmpegBinary = "ffmpeg"
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Detector{opts: opts, logger: logging.NewComponentLogger(logger, "silencedetect")}
}

// CachePath returns the cache location for a video and minimum silence.
func CachePath(videoPath string, minSilence float64) string {
	return videoPath + ".sc" + strconv.FormatFloat(minSilence, 'f', -1, 64)
}

// Args returns the ffmpeg arguments for a detection run.
func Args(videoPath string, noiseDB, minSilence float64, audioStream int) []string {
	filter := fmt.Sprintf("silencedetect=noise=%sdB:d=%s",
		strconv.FormatFloat(noiseDB, 'f', -1, 64),
		strconv.FormatFloat(minSilence, 'f', -1, 64))
	return []string{
		"-hide_banner", "-nostats",
		"-i", videoPath,
		"-map", fmt.Sprintf("0:a:%d", audioStream),
		"-af", filter,
		"-f", "null", "-",
	}
}

// Detect returns the silencedetect log for videoPath, from cache when a
// matching entry exists.
func (d *Detector) Detect(ctx context.Context, videoPath string) (Log, error) {
	if strings.TrimSpace(videoPath) == "" {
		return Log{}, ErrEmptyPath
	}
	if !d.opts.CacheEnabled {
		text, err := d.run(ctx, videoPath)
		if err != nil {
			return Log{}, err
		}
		return Log{Text: text}, nil
	}

	cachePath := CachePath(videoPath, d.opts.MinSilence)
	lock := flock.New(cachePath + ".lock")
	if err := lock.Lock(); err != nil {
		return Log{}, fmt.Errorf("lock detection cache: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			d.logger.Warn("failed to release cache lock", logging.String("path", cachePath), logging.Error(err))
		}
	}()

	header := d.header()
	if !d.opts.Refresh {
		if text, ok := readCache(cachePath, header); ok {
			d.logger.Debug("detection cache hit", logging.String("path", cachePath))
			return Log{Text: text, CachePath: cachePath, Cached: true}, nil
		}
	}

	text, err := d.run(ctx, videoPath)
	if err != nil {
		return Log{}, err
	}
	if err := fileutil.WriteFileAtomic(cachePath, []byte(header+"\n"+text), 0o644); err != nil {
		logging.WarnWithContext(d.logger, "failed to write detection cache", "cache_write_failed",
			logging.String("path", cachePath),
			logging.Error(err),
			logging.String(logging.FieldImpact, "next run repeats detection"),
		)
		return Log{Text: text}, nil
	}
	d.logger.Debug("detection cache written", logging.String("path", cachePath))
	return Log{Text: text, CachePath: cachePath}, nil
}

func (d *Detector) header() string {
	return fmt.Sprintf("%snoise=%sdB d=%s stream=%d", cacheHeaderPrefix,
		strconv.FormatFloat(d.opts.NoiseDB, 'f', -1, 64),
		strconv.FormatFloat(d.opts.MinSilence, 'f', -1, 64),
		d.opts.AudioStream)
}

func readCache(path, header string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	first, rest, _ := strings.Cut(string(data), "\n")
	if strings.TrimRight(first, "\r") != header {
		return "", false
	}
	return rest, true
}

func (d *Detector) run(ctx context.Context, videoPath string) (string, error) {
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	args := Args(videoPath, d.opts.NoiseDB, d.opts.MinSilence, d.opts.AudioStream)
	cmd := commandContext(ctx, d.opts.FFmpegBinary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	started := time.Now()
	d.logger.Info("running silence detection",
		logging.String("video", videoPath),
		logging.Float64("noise_db", d.opts.NoiseDB),
		logging.Float64("min_silence", d.opts.MinSilence),
		logging.Int("audio_stream", d.opts.AudioStream),
	)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("silencedetect %s: %w", videoPath, ctxErr)
		}
		return "", fmt.Errorf("silencedetect %s: %w: %s", videoPath, err, lastLine(stderr.String()))
	}
	d.logger.Info("silence detection finished",
		logging.String("video", videoPath),
		logging.Duration("elapsed", time.Since(started)),
	)
	return stderr.String(), nil
}

func lastLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	return text
}

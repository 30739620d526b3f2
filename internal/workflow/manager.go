package workflow

import (
	"log/slog"

	"deadair/internal/config"
	"deadair/internal/history"
	"deadair/internal/logging"
	"deadair/internal/media/ffprobe"
	"deadair/internal/notifications"
	"deadair/internal/render"
	"deadair/internal/services/drapto"
	"deadair/internal/silencedetect"
)

// Manager coordinates batch processing of videos.
type Manager struct {
	cfg    *config.Config
	store  *history.Store
	base   *slog.Logger
	logger *slog.Logger

	refresh       bool
	skipPreflight bool

	archiveClient drapto.Archiver
	notifier      notifications.Notifier

	probe    prober
	detector detector
	renderer renderer
	archiver archiver
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithRefresh ignores cached detection logs and rewrites them.
func WithRefresh(refresh bool) ManagerOption {
	return func(m *Manager) {
		m.refresh = refresh
	}
}

// WithArchiver replaces the Drapto archive client.
func WithArchiver(client drapto.Archiver) ManagerOption {
	return func(m *Manager) {
		m.archiveClient = client
	}
}

// WithNotifier replaces the ntfy notifier built from the config.
func WithNotifier(n notifications.Notifier) ManagerOption {
	return func(m *Manager) {
		m.notifier = n
	}
}

// WithoutPreflight skips the batch preflight checks.
func WithoutPreflight() ManagerOption {
	return func(m *Manager) {
		m.skipPreflight = true
	}
}

// NewManager constructs a Manager. store may be nil, in which case nothing
// is recorded and completed files are never skipped.
func NewManager(cfg *config.Config, store *history.Store, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		cfg:    cfg,
		store:  store,
		base:   logger,
		logger: logging.NewComponentLogger(logger, "workflow"),
		probe:  ffprobe.Duration,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.notifier == nil {
		m.notifier = notifications.New(cfg)
	}
	if m.archiveClient == nil && cfg.Encode.ArchiveAV1 {
		m.archiveClient = drapto.NewLibrary()
	}
	m.buildStages(logger)
	return m
}

// buildStages constructs the detect, render and archive stages so they log
// through logger.
func (m *Manager) buildStages(logger *slog.Logger) {
	cfg := m.cfg
	m.detector = silencedetect.New(silencedetect.Options{
		FFmpegBinary: cfg.FFmpegBinary(),
		NoiseDB:      cfg.Detection.NoiseDB,
		MinSilence:   cfg.Detection.MinSilenceSeconds,
		AudioStream:  cfg.Cut.AudioStream,
		CacheEnabled: cfg.Detection.CacheEnabled,
		Refresh:      m.refresh,
		Timeout:      cfg.DetectTimeout(),
	}, logger)
	m.renderer = render.New(render.Settings{
		FFmpegBinary: cfg.FFmpegBinary(),
		VideoCodec:   cfg.Encode.VideoCodec,
		Preset:       cfg.Encode.Preset,
		CRF:          cfg.Encode.CRF,
		AudioCodec:   cfg.Encode.AudioCodec,
		PixFmt:       cfg.Encode.PixFmt,
		ExtraArgs:    cfg.Encode.ExtraArgs,
		Timeout:      cfg.RenderTimeout(),
	}, logger)
	if m.archiveClient != nil {
		m.archiver = render.NewArchiver(m.archiveClient, cfg.Encode.ArchiveDir, logger)
	}
}

// withLogger returns a copy of m whose stages log through logger.
func (m *Manager) withLogger(logger *slog.Logger) *Manager {
	cp := *m
	cp.base = logger
	cp.logger = logging.NewComponentLogger(logger, "workflow")
	cp.buildStages(logger)
	return &cp
}

package config

const (
	defaultConfigPath        = "~/.config/deadair/config.toml"
	defaultInputDir          = "~/Videos/raw"
	defaultOutputDir         = "~/Videos/silenced"
	defaultLogDir            = "~/.local/share/deadair/logs"
	defaultStateDir          = "~/.local/share/deadair"
	defaultArchiveDir        = "~/Videos/archive"
	defaultNoiseDB           = -30.0
	defaultMinSilenceSeconds = 3.0
	defaultStartFraction     = 0.75
	defaultFadeSeconds       = 0.5
	defaultOutputSuffix      = "_silenced"
	defaultOutputExt         = ".mp4"
	defaultVideoCodec        = "libx264"
	defaultPreset            = "superfast"
	defaultCRF               = 18
	defaultAudioCodec        = "aac"
	defaultPixFmt            = "yuv420p"
	defaultMinFreeGiB        = 5
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultProbeTimeout      = 60
	defaultDetectTimeout     = 3600
	defaultRenderTimeout     = 4 * 3600
	defaultWorkers           = 1
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogRetentionDays  = 30
	defaultNotifyTimeout     = 10
	maxWorkers               = 16
	maxDetectionNoiseDB      = 0.0
	minDetectionNoiseDB      = -120.0
	maxStartFraction         = 1.0
	minStartFraction         = 0.0
	maxCRF                   = 63
	defaultExtensionMP4      = ".mp4"
	defaultExtensionMKV      = ".mkv"
	ffmpegBinaryEnvVariable  = "DEADAIR_FFMPEG"
	ffprobeBinaryEnvVariable = "DEADAIR_FFPROBE"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
		},
		Detection: Detection{
			NoiseDB:           defaultNoiseDB,
			MinSilenceSeconds: defaultMinSilenceSeconds,
			CacheEnabled:      true,
		},
		Cut: Cut{
			StartFraction: defaultStartFraction,
			FadeSeconds:   defaultFadeSeconds,
			Extensions:    []string{defaultExtensionMP4, defaultExtensionMKV},
			OutputSuffix:  defaultOutputSuffix,
			OutputExt:     defaultOutputExt,
			MarkDone:      true,
		},
		Encode: Encode{
			VideoCodec: defaultVideoCodec,
			Preset:     defaultPreset,
			CRF:        defaultCRF,
			AudioCodec: defaultAudioCodec,
			PixFmt:     defaultPixFmt,
			ArchiveDir: defaultArchiveDir,
			MinFreeGiB: defaultMinFreeGiB,
		},
		FFmpeg: FFmpeg{
			ProbeTimeout:  defaultProbeTimeout,
			DetectTimeout: defaultDetectTimeout,
			RenderTimeout: defaultRenderTimeout,
		},
		Workflow: Workflow{
			Workers:       defaultWorkers,
			SkipCompleted: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
	}
}

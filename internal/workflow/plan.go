package workflow

import (
	"context"
	"time"

	"deadair/internal/config"
	"deadair/internal/cutplan"
	"deadair/internal/filtergraph"
	"deadair/internal/logging"
	"deadair/internal/services"
	"deadair/internal/silence"
)

// PlanOptions are the planning inputs taken from configuration.
type PlanOptions struct {
	Params      cutplan.Params
	Strict      bool
	AudioStream int
}

// PlanOptionsFromConfig derives PlanOptions from cfg.
func PlanOptionsFromConfig(cfg *config.Config) PlanOptions {
	return PlanOptions{
		Params: cutplan.Params{
			Window:        cfg.Detection.MinSilenceSeconds,
			StartFraction: cfg.Cut.StartFraction,
			FadeLength:    cfg.Cut.FadeSeconds,
		},
		Strict:      cfg.Cut.StrictLog,
		AudioStream: cfg.Cut.AudioStream,
	}
}

// BuildPlan turns a silencedetect log and a source duration into a filter
// script. Every call compiles into a fresh graph.
func BuildPlan(logText string, duration float64, opts PlanOptions) (PlanResult, error) {
	result := PlanResult{Duration: duration}

	extracted, err := silence.NewExtractor(silence.Options{Strict: opts.Strict}).Extract(logText)
	if err != nil {
		return result, services.Wrap(services.ErrValidation, stagePlan, "extract silences", "unusable silencedetect log", err)
	}
	result.Intervals = extracted.Intervals
	result.Warnings = extracted.Warnings

	segments, err := cutplan.Plan(extracted.Intervals, duration, opts.Params)
	if err != nil {
		return result, services.Wrap(services.ErrValidation, stagePlan, "plan cuts", "", err)
	}
	result.Segments = segments
	result.Summary = cutplan.Summarize(segments, duration)

	g := filtergraph.New()
	src := g.Source(0, opts.AudioStream)
	root, err := filtergraph.Compile(g, src, segments, opts.Params.FadeLength)
	if err != nil {
		return result, services.Wrap(services.ErrValidation, stagePlan, "compile graph", "", err)
	}
	result.Script = filtergraph.Assemble(root)
	return result, nil
}

// Plan probes and detects silence in path and builds its cut plan without
// rendering.
func (m *Manager) Plan(ctx context.Context, path string) (PlanResult, error) {
	ctx = services.WithFile(ctx, path)

	probeCtx := services.WithStage(ctx, stageProbe)
	duration, err := m.probeDuration(probeCtx, path)
	if err != nil {
		return PlanResult{Source: path}, err
	}

	detectCtx := services.WithStage(ctx, stageDetect)
	log, err := m.detector.Detect(detectCtx, path)
	if err != nil {
		return PlanResult{Source: path, Duration: duration}, services.WrapTool(stageDetect, "silencedetect", "", err)
	}

	planCtx := services.WithStage(ctx, stagePlan)
	result, err := BuildPlan(log.Text, duration, PlanOptionsFromConfig(m.cfg))
	result.Source = path
	result.LogCached = log.Cached
	logger := logging.WithContext(planCtx, m.logger)
	for _, warning := range result.Warnings {
		logging.WarnWithContext(logger, "discarded silencedetect event", "malformed_log",
			logging.Error(warning),
			logging.String(logging.FieldErrorHint, "set cut.strict_log to fail on malformed logs"),
			logging.String(logging.FieldImpact, "event ignored while planning"),
		)
	}
	if err != nil {
		return result, err
	}

	logger.Info("cut planned",
		logging.Int("silences", len(result.Intervals)),
		logging.Int("clips", result.Summary.Clips),
		logging.Int("crossfades", result.Summary.Crossfades),
		logging.Float64("kept_seconds", result.Summary.KeptSeconds),
		logging.Float64("removed_seconds", result.Summary.RemovedSeconds),
		logging.Bool("log_cached", log.Cached),
	)
	return result, nil
}

func (m *Manager) probeDuration(ctx context.Context, path string) (float64, error) {
	timeout := m.cfg.ProbeTimeout()
	if timeout <= 0 {
		timeout = time.Minute
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	duration, err := m.probe(probeCtx, m.cfg.FFprobeBinary(), path)
	if err != nil {
		return 0, services.WrapTool(stageProbe, "ffprobe", "probe duration", err)
	}
	logging.WithContext(ctx, m.logger).Debug("duration probed", logging.Float64("seconds", duration))
	return duration, nil
}

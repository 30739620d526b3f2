package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"deadair/internal/history"
	"deadair/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check dependencies, directories, and conversion history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			p := newStatusPrinter(cmd.OutOrStdout())

			p.section("Configuration")
			p.line("Config file", statusInfo, ctx.configPath)
			p.line("Input directory", statusInfo, cfg.Paths.InputDir)
			p.line("Output directory", statusInfo, cfg.Paths.OutputDir)
			p.line("Detection", statusInfo, fmt.Sprintf("noise=%gdB min=%gs cache=%s",
				cfg.Detection.NoiseDB, cfg.Detection.MinSilenceSeconds, yesNo(cfg.Detection.CacheEnabled)))
			p.line("Cut", statusInfo, fmt.Sprintf("start=%.2f fade=%gs stream=%d",
				cfg.Cut.StartFraction, cfg.Cut.FadeSeconds, cfg.Cut.AudioStream))
			p.line("AV1 archive", statusInfo, yesNo(cfg.Encode.ArchiveAV1))
			notify := "disabled"
			if cfg.Notifications.NtfyTopic != "" {
				notify = cfg.Notifications.NtfyTopic
			}
			p.line("Notifications", statusInfo, notify)

			fmt.Fprintln(cmd.OutOrStdout())
			p.section("Preflight")
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				p.line(r.Name, kind, r.Detail)
			}

			fmt.Fprintln(cmd.OutOrStdout())
			p.section("History")
			store, err := ctx.openStore()
			if err != nil {
				p.line("Database", statusError, err.Error())
				return nil
			}
			defer store.Close()
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				p.line("Database", statusError, err.Error())
				return nil
			}
			for _, status := range history.AllStatuses() {
				kind := statusInfo
				if (status == history.StatusFailed || status == history.StatusReview) && stats[status] > 0 {
					kind = statusWarn
				}
				p.line(titleStatus(string(status)), kind, fmt.Sprintf("%d", stats[status]))
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%s failed", pluralize(len(failed), "preflight check", "preflight checks"))
			}
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"deadair/internal/notifications"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test push to the configured ntfy topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Notifications.NtfyTopic == "" {
				fmt.Fprintln(out, "Notifications are disabled (notifications.ntfy_topic is empty)")
				return nil
			}
			if err := notifications.New(cfg).Test(cmd.Context()); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintf(out, "Sent test notification to %s\n", cfg.Notifications.NtfyTopic)
			return nil
		},
	}
}

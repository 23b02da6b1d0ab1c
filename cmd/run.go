package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newRunCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Authenticate all accounts and stay resident",
		Long:  "Performs an orchestration pass, then keeps the process alive, sweeping dropped sessions out of the registry at the configured reconnect interval until interrupted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			settings, err := app.settings.LoadSettings(ctx, app.tag())
			if err != nil {
				return fmt.Errorf("load session settings: %w", err)
			}
			settings.ApplyDefaults()

			added, err := app.orchestrator.Run(ctx, app.tag())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Merged %d new session(s); sweeping every %s\n",
				added, settings.ReconnectInterval)

			ticker := time.NewTicker(settings.ReconnectInterval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					if ctx.Err() == context.Canceled {
						return nil
					}
					return ctx.Err()
				case <-ticker.C:
					removed, err := app.registry.PruneOffline()
					if err != nil {
						return err
					}
					if removed > 0 {
						app.logger.Warn("sessions dropped offline", "removed", removed)
					}
				}
			}
		},
	}
}

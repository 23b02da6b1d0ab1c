package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	sessionsrender "github.com/relvane/botsessions/internal/adapters/render/sessions"
)

func newLoginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate all configured accounts once",
		Long:  "Runs one orchestration pass: every configured account is driven through its login challenges sequentially, and the sessions that come online are merged into the registry.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			added, err := app.orchestrator.Run(cmd.Context(), app.tag())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Merged %d new session(s)\n", added)

			entries, err := app.registry.List()
			if err != nil {
				return err
			}

			rendered, err := app.renderSessions(entries, sessionsrender.RenderOptions{})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rendered)

			return nil
		},
	}
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	sessionsrender "github.com/relvane/botsessions/internal/adapters/render/sessions"
	"github.com/relvane/botsessions/internal/domain"
)

// The registry lives in-process, so every sessions subcommand first runs an
// orchestration pass to populate it before querying.
func newSessionsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Authenticate accounts and query the live session registry",
	}

	cmd.AddCommand(
		newSessionsListCmd(app),
		newSessionsOnlineCmd(app),
		newSessionsFirstCmd(app),
		newSessionsFindCmd(app),
		newSessionsPruneCmd(app),
	)

	return cmd
}

func populateRegistry(ctx context.Context, app *app) error {
	_, err := app.orchestrator.Run(ctx, app.tag())
	return err
}

func newSessionsListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every registered session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := populateRegistry(cmd.Context(), app); err != nil {
				return err
			}

			entries, err := app.registry.List()
			if err != nil {
				return err
			}

			return renderToOut(cmd, app, entries, sessionsrender.RenderOptions{})
		},
	}
}

func newSessionsOnlineCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "online",
		Short: "List sessions that still hold a live connection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := populateRegistry(cmd.Context(), app); err != nil {
				return err
			}

			entries, err := app.registry.ListOnline()
			if err != nil {
				return err
			}

			return renderToOut(cmd, app, entries, sessionsrender.RenderOptions{OnlineOnly: true})
		},
	}
}

func newSessionsFirstCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "first",
		Short: "Show the first online session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := populateRegistry(cmd.Context(), app); err != nil {
				return err
			}

			session, err := app.registry.First()
			if err != nil {
				return err
			}

			return renderToOut(cmd, app, []domain.Session{session}, sessionsrender.RenderOptions{})
		},
	}
}

func newSessionsFindCmd(app *app) *cobra.Command {
	var (
		name string
		id   string
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find an online session by display name or client identifier",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" && id == "" {
				return fmt.Errorf("one of --name or --id is required")
			}

			if err := populateRegistry(cmd.Context(), app); err != nil {
				return err
			}

			var (
				session domain.Session
				err     error
			)
			if name != "" {
				session, err = app.registry.FindByDisplayName(name)
			} else {
				session, err = app.registry.FindByIdentifier(id)
			}
			if err != nil {
				return err
			}

			return renderToOut(cmd, app, []domain.Session{session}, sessionsrender.RenderOptions{})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name to look up")
	cmd.Flags().StringVar(&id, "id", "", "Client identifier to look up")

	return cmd
}

func newSessionsPruneCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop sessions whose connection has gone away",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := populateRegistry(cmd.Context(), app); err != nil {
				return err
			}

			var removed int
			err := runPruneSpinner(cmd.Context(), cmd.OutOrStdout(), func(context.Context) error {
				var pruneErr error
				removed, pruneErr = app.registry.PruneOffline()
				return pruneErr
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d offline session(s)\n", removed)

			entries, err := app.registry.List()
			if err != nil {
				return err
			}
			return renderToOut(cmd, app, entries, sessionsrender.RenderOptions{})
		},
	}
}

func renderToOut(cmd *cobra.Command, app *app, entries []domain.Session, opts sessionsrender.RenderOptions) error {
	rendered, err := app.renderSessions(entries, opts)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return nil
}

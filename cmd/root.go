package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var serverTag string

	rootCmd := &cobra.Command{
		Use:           "bots",
		Short:         "Bot session orchestrator: authenticate accounts and track live sessions",
		Long:          "bots drives each configured account through its interactive login challenges (slider, QR scan, SMS), keeps a registry of the sessions that came online, and serves lookups over it.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&serverTag, "server", "", "Deployment server tag selecting the settings override")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}
	app.serverTag = &serverTag

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newLoginCmd(app),
		newRunCmd(app),
		newSessionsCmd(app),
	)

	return rootCmd
}

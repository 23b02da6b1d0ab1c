package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relvane/botsessions/internal/domain"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(app),
		newAccountAddCmd(app),
	)

	return cmd
}

func newAccountListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := app.accounts.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}

			for _, account := range accounts {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", account.ID, account.DisplayName)
			}

			return nil
		},
	}
}

func newAccountAddCmd(app *app) *cobra.Command {
	var (
		id     string
		name   string
		secret string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account := domain.Account{
				ID:          domain.AccountID(id),
				DisplayName: name,
				Secret:      secret,
			}

			if err := app.accounts.SaveAccount(cmd.Context(), account); err != nil {
				return fmt.Errorf("save account: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved account %s (%s)\n", account.ID, account.DisplayName)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Account identifier")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&secret, "secret", "", "Account secret")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paulndambo/nismart-go/client"
)

func newAdminCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Staff-only commands",
	}
	cmd.AddCommand(newAdminStatsCmd(app), newAdminTransactionsCmd(app))
	return cmd
}

func newAdminStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate platform statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.newClient()
			if err != nil {
				return err
			}
			stats, err := c.AdminStats(cmd.Context())
			if err != nil {
				return err
			}
			renderStats(app.out, stats)
			return nil
		},
	}
}

func newAdminTransactionsCmd(app *App) *cobra.Command {
	var query client.AdminTransactionsQuery

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List transactions across all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.newClient()
			if err != nil {
				return err
			}
			page, err := c.AdminTransactions(cmd.Context(), query)
			if err != nil {
				return err
			}
			renderTransactions(app.out, page.Results)
			fmt.Fprintf(app.out, "Page %d, %d of %d transactions.\n", page.Page, len(page.Results), page.Count)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&query.Type, "type", "", "Filter by type: DEPOSIT, WITHDRAWAL, TRANSFER")
	flags.StringVar(&query.Status, "status", "", "Filter by status: PENDING, COMPLETED, FAILED")
	flags.IntVar(&query.UserID, "user", 0, "Filter by user id")
	flags.IntVar(&query.Page, "page", 0, "Page number")
	flags.IntVar(&query.PageSize, "page-size", 0, "Items per page")
	return cmd
}

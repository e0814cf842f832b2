package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Paulndambo/nismart-go/client"
)

// resolveUserID turns an optional positional argument into a user id,
// defaulting to the logged-in user.
func (a *App) resolveUserID(args []string) (int, error) {
	if len(args) > 0 {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("invalid user id %q", args[0])
		}
		return id, nil
	}
	return a.currentUserID()
}

func newBalanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [user-id]",
		Short: "Show an account balance (defaults to your own)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := app.resolveUserID(args)
			if err != nil {
				return err
			}
			c, err := app.newClient()
			if err != nil {
				return err
			}
			balance, err := c.Balance(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Account %d: %s %s\n", balance.AccountID, balance.Balance, balance.Currency)
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history [user-id]",
		Short: "List transaction history (defaults to your own)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := app.resolveUserID(args)
			if err != nil {
				return err
			}
			c, err := app.newClient()
			if err != nil {
				return err
			}
			history, err := c.TransactionHistory(cmd.Context(), userID)
			if err != nil {
				return err
			}
			renderTransactions(app.out, history)
			return nil
		},
	}
}

func newUsersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users (transfer destinations)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.newClient()
			if err != nil {
				return err
			}
			users, err := c.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			renderUsers(app.out, users)
			return nil
		},
	}
}

func newDepositCmd(app *App) *cobra.Command {
	var accountID int
	var amount string

	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Deposit funds into an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.newClient()
			if err != nil {
				return err
			}
			tx, err := c.Deposit(cmd.Context(), client.DepositRequest{
				AccountID:      accountID,
				Amount:         amount,
				IdempotencyKey: client.NewIdempotencyKey(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Deposit %s: %s (transaction %d)\n", tx.Amount, tx.Status, tx.ID)
			return nil
		},
	}
	cmd.Flags().IntVar(&accountID, "account", 0, "Account id")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 250.00")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newWithdrawCmd(app *App) *cobra.Command {
	var accountID int
	var amount string

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw funds from an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.newClient()
			if err != nil {
				return err
			}
			tx, err := c.Withdraw(cmd.Context(), client.WithdrawRequest{
				AccountID:      accountID,
				Amount:         amount,
				IdempotencyKey: client.NewIdempotencyKey(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Withdrawal %s: %s (transaction %d)\n", tx.Amount, tx.Status, tx.ID)
			return nil
		},
	}
	cmd.Flags().IntVar(&accountID, "account", 0, "Account id")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 50.00")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newTransferCmd(app *App) *cobra.Command {
	var fromID, toID int
	var amount string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer funds between accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.newClient()
			if err != nil {
				return err
			}
			tx, err := c.Transfer(cmd.Context(), client.TransferRequest{
				SourceAccountID:      fromID,
				DestinationAccountID: toID,
				Amount:               amount,
				IdempotencyKey:       client.NewIdempotencyKey(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Transfer %s: %s (transaction %d)\n", tx.Amount, tx.Status, tx.ID)
			return nil
		},
	}
	cmd.Flags().IntVar(&fromID, "from", 0, "Source account id")
	cmd.Flags().IntVar(&toID, "to", 0, "Destination account id")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 100.00")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

package cli

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Paulndambo/nismart-go/api"
)

func renderUsers(out io.Writer, users []api.User) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"ID", "Name", "Email", "Staff"})
	for _, u := range users {
		staff := ""
		if u.IsStaff {
			staff = "yes"
		}
		tw.AppendRow(table.Row{u.ID, u.FullName(), u.Email, staff})
	}
	tw.Render()
}

func renderTransactions(out io.Writer, transactions []api.Transaction) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"ID", "Type", "Amount", "Status", "From", "To", "Created"})
	for _, tx := range transactions {
		tw.AppendRow(table.Row{
			tx.ID,
			tx.TransactionType,
			tx.Amount,
			tx.Status,
			tx.SourceAccountEmail,
			tx.DestinationAccountEmail,
			tx.CreatedAt.Format(time.RFC3339),
		})
	}
	tw.Render()
}

func renderStats(out io.Writer, stats *api.AdminStats) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendRow(table.Row{"Users", stats.TotalUsers})
	tw.AppendRow(table.Row{"Wallets value", stats.TotalWalletsValue})
	tw.AppendRow(table.Row{"Deposits", stats.TotalDeposits})
	tw.AppendRow(table.Row{"Withdrawals", stats.TotalWithdrawals})
	tw.AppendRow(table.Row{"Transfers", stats.TotalTransfers})
	tw.AppendRow(table.Row{"All transactions", stats.TotalTransactions})
	tw.Render()
}

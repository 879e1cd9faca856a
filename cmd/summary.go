package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pfm/internal/cli"
	"github.com/theirongolddev/pfm/internal/controller"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/router"
)

var flagRecent int

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Balance, income, expenses and recent transactions",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().IntVarP(&flagRecent, "recent", "n", 10, "Number of recent transactions to show")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	if err := requireRoute(router.Dashboard); err != nil {
		return err
	}

	dash := controller.NewDashboard(env.client, env.session, env.log)
	progress("Fetching dashboard...")
	if !dash.Load(commandContext(cmd)) {
		return failed(dash.ErrMsg())
	}

	sum := dash.Summary()
	fmt.Println()
	fmt.Println(cli.RenderTitle("PERSONAL FINANCE  " + env.session.User().Email))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Rows: [][]string{
			{"Total Balance", cli.FormatMoneyGrouped(sum.TotalBalance)},
			{"---"},
			{"Total Income", cli.FormatMoneyGrouped(sum.TotalIncome)},
			{"Total Expenses", cli.FormatMoneyGrouped(sum.TotalExpenses)},
		},
	}))
	fmt.Println()

	recent := dash.Recent(flagRecent)
	if len(recent) == 0 {
		fmt.Println(cli.RenderNotice("  No transactions yet. Add one with `pfm tx add`."))
		return nil
	}
	fmt.Print(transactionTable(
		fmt.Sprintf("Recent Transactions (%d of %d)", len(recent), len(dash.Transactions())),
		recent))
	return nil
}

// transactionTable renders transactions in the order given.
func transactionTable(title string, txs []model.Transaction) string {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", tx.ID),
			cli.FormatDate(tx.Date),
			cli.Truncate(tx.Description, 32),
			tx.Category,
			cli.FormatSigned(tx),
		})
	}
	return cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"ID", "Date", "Description", "Category", "Amount"},
		Rows:    rows,
		Left:    4,
	})
}

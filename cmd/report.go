package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pfm/internal/cli"
	"github.com/theirongolddev/pfm/internal/controller"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/router"
)

var flagPeriod string

var reportCmd = &cobra.Command{
	Use:     "report",
	Aliases: []string{"reports"},
	Short:   "Spending over time and by category",
	Args:    cobra.NoArgs,
	RunE:    runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&flagPeriod, "period", "p", "", "3months, 6months or 1year (default from config)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	if err := requireRoute(router.Reports); err != nil {
		return err
	}

	period := env.cfg.Period()
	if flagPeriod != "" {
		p, err := model.ParsePeriod(flagPeriod)
		if err != nil {
			return err
		}
		period = p
	}

	reports := controller.NewReports(env.client, env.session, env.log, period)
	progress("Fetching reports...")
	if !reports.Load(commandContext(cmd)) {
		return failed(reports.ErrMsg())
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SPENDING  Last " + period.Label()))
	fmt.Println()

	patterns := reports.Patterns()
	if len(patterns) == 0 {
		fmt.Println(cli.RenderNotice("  No spending in this period."))
	} else {
		peak := 0.0
		values := make([]float64, len(patterns))
		for i, p := range patterns {
			values[i] = p.Value.InexactFloat64()
			peak = max(peak, values[i])
		}
		fmt.Println("  " + cli.RenderSparkline(values))
		fmt.Println()
		for i, p := range patterns {
			fmt.Println(cli.RenderHorizontalBar(p.Name, 10, values[i], peak, 36, cli.FormatMoneyGrouped(p.Value)))
		}
	}
	fmt.Println()

	shares := reports.Shares()
	if len(shares) == 0 {
		fmt.Println(cli.RenderNotice("  No expenses by category."))
		return nil
	}
	rows := make([][]string, 0, len(shares)+2)
	for _, s := range shares {
		rows = append(rows, []string{s.Category, cli.FormatMoneyGrouped(s.Amount), cli.FormatPercent(s.Percent)})
	}
	rows = append(rows, []string{"---"}, []string{"Total", cli.FormatMoneyGrouped(reports.Total()), ""})
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Category",
		Headers: []string{"Category", "Amount", "Share"},
		Rows:    rows,
	}))
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pfm/internal/cli"
	"github.com/theirongolddev/pfm/internal/controller"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/report"
	"github.com/theirongolddev/pfm/internal/router"
)

var (
	flagBudgetCategory string
	flagBudgetAmount   string
	flagBudgetStart    string
	flagBudgetEnd      string
)

var budgetCmd = &cobra.Command{
	Use:     "budget",
	Aliases: []string{"budgets"},
	Short:   "List and edit budgets",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return requireRoute(router.Budgeting)
	},
}

var budgetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List budgets with spending so far",
	Args:  cobra.NoArgs,
	RunE:  runBudgetList,
}

var budgetAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a budget",
	Args:  cobra.NoArgs,
	RunE:  runBudgetAdd,
}

var budgetUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change fields of a budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetUpdate,
}

var budgetRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a budget",
	Args:    cobra.ExactArgs(1),
	RunE:    runBudgetRm,
}

func init() {
	for _, c := range []*cobra.Command{budgetAddCmd, budgetUpdateCmd} {
		c.Flags().StringVarP(&flagBudgetCategory, "category", "c", "", "Category")
		c.Flags().StringVarP(&flagBudgetAmount, "amount", "a", "", "Limit, e.g. 200")
		c.Flags().StringVar(&flagBudgetStart, "start", "", "Start date as YYYY-MM-DD (default first of this month)")
		c.Flags().StringVar(&flagBudgetEnd, "end", "", "End date as YYYY-MM-DD (default last of this month)")
	}
	budgetRmCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Delete without asking")

	budgetCmd.AddCommand(budgetListCmd, budgetAddCmd, budgetUpdateCmd, budgetRmCmd)
	rootCmd.AddCommand(budgetCmd)
}

func newBudgetController() *controller.Budgets {
	return controller.NewBudgets(env.client, env.session, env.log)
}

func runBudgetList(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	budgets := newBudgetController()
	txs := newTxController()

	progress("Fetching budgets...")
	if !budgets.Load(ctx) {
		return failed(budgets.ErrMsg())
	}
	if len(budgets.Items()) == 0 {
		fmt.Println(cli.RenderNotice("  No budgets yet. Add one with `pfm budget add`."))
		return nil
	}

	// Spending is shown when transactions load; the list stands on its own.
	spendingOK := txs.Load(ctx)

	rows := make([][]string, 0, len(budgets.Items()))
	for _, u := range report.Usage(budgets.Items(), txs.Items()) {
		used := "-"
		if spendingOK {
			used = cli.RenderProgressBar(u.Spent, u.Budget.Amount, 20)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", u.Budget.ID),
			u.Budget.Category,
			cli.FormatRange(u.Budget.StartDate, u.Budget.EndDate),
			cli.FormatMoney(u.Budget.Amount),
			used,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Budgets (%d)", len(rows)),
		Headers: []string{"ID", "Category", "Period", "Limit", "Spent"},
		Rows:    rows,
		Left:    3,
	}))
	if !spendingOK {
		fmt.Println(cli.RenderError("spending unavailable: " + txs.ErrMsg()))
	}
	return nil
}

func runBudgetAdd(cmd *cobra.Command, _ []string) error {
	fields := model.NewBudgetFields()
	applyBudgetFlags(cmd, &fields)

	budgets := newBudgetController()
	if !budgets.SubmitCreate(commandContext(cmd), fields) {
		return failed(budgets.ErrMsg())
	}
	fmt.Println(cli.RenderSuccess(fmt.Sprintf("Added %s budget of %s (%s to %s)",
		fields.Category, fields.Amount, fields.StartDate, fields.EndDate)))
	return nil
}

func runBudgetUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	budgets := newBudgetController()
	ctx := commandContext(cmd)
	if !budgets.Load(ctx) {
		return failed(budgets.ErrMsg())
	}
	current, ok := budgets.Find(id)
	if !ok {
		return fmt.Errorf("no budget with id %d", id)
	}

	fields := model.FieldsFromBudget(current)
	applyBudgetFlags(cmd, &fields)
	if !budgets.SubmitUpdate(ctx, id, fields) {
		return failed(budgets.ErrMsg())
	}
	fmt.Println(cli.RenderSuccess(fmt.Sprintf("Updated budget %d", id)))
	return nil
}

func runBudgetRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	budgets := newBudgetController()
	ctx := commandContext(cmd)
	what := fmt.Sprintf("budget %d", id)
	if budgets.Load(ctx) {
		if b, ok := budgets.Find(id); ok {
			what = fmt.Sprintf("the %s budget (%s)", b.Category, cli.FormatRange(b.StartDate, b.EndDate))
		}
	}

	ok, err := confirmDelete(what)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println(cli.RenderNotice("  Cancelled."))
		return nil
	}
	if !budgets.Remove(ctx, id) {
		return failed(budgets.ErrMsg())
	}
	fmt.Println(cli.RenderSuccess("Deleted " + what))
	return nil
}

// applyBudgetFlags overwrites fields with the flags set on the command line.
func applyBudgetFlags(cmd *cobra.Command, f *model.BudgetFields) {
	flags := cmd.Flags()
	if flags.Changed("category") {
		f.Category = flagBudgetCategory
	}
	if flags.Changed("amount") {
		f.Amount = flagBudgetAmount
	}
	if flags.Changed("start") {
		f.StartDate = flagBudgetStart
	}
	if flags.Changed("end") {
		f.EndDate = flagBudgetEnd
	}
}

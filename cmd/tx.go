package cmd

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/pfm/internal/cli"
	"github.com/theirongolddev/pfm/internal/controller"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/router"
)

var (
	flagTxDescription string
	flagTxAmount      string
	flagTxType        string
	flagTxCategory    string
	flagTxDate        string
	flagYes           bool
)

var txCmd = &cobra.Command{
	Use:     "tx",
	Aliases: []string{"transactions"},
	Short:   "List and edit transactions",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return requireRoute(router.Transactions)
	},
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTxList,
}

var txAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a transaction",
	Args:  cobra.NoArgs,
	RunE:  runTxAdd,
}

var txUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change fields of a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runTxUpdate,
}

var txRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a transaction",
	Args:    cobra.ExactArgs(1),
	RunE:    runTxRm,
}

func init() {
	for _, c := range []*cobra.Command{txAddCmd, txUpdateCmd} {
		c.Flags().StringVarP(&flagTxDescription, "description", "d", "", "Description")
		c.Flags().StringVarP(&flagTxAmount, "amount", "a", "", "Amount, e.g. 12.50")
		c.Flags().StringVarP(&flagTxType, "type", "t", string(model.Expense), "income or expense")
		c.Flags().StringVarP(&flagTxCategory, "category", "c", "", "Category")
		c.Flags().StringVar(&flagTxDate, "date", "", "Date as YYYY-MM-DD (default today)")
	}
	txRmCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Delete without asking")

	txCmd.AddCommand(txListCmd, txAddCmd, txUpdateCmd, txRmCmd)
	rootCmd.AddCommand(txCmd)
}

func newTxController() *controller.Transactions {
	return controller.NewTransactions(env.client, env.session, env.log)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// confirmDelete asks before deleting unless --yes was given.
func confirmDelete(what string) (bool, error) {
	if flagYes {
		return true, nil
	}
	ok := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete %s?", what)).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}

func runTxList(cmd *cobra.Command, _ []string) error {
	txs := newTxController()
	progress("Fetching transactions...")
	if !txs.Load(commandContext(cmd)) {
		return failed(txs.ErrMsg())
	}

	items := slices.Clone(txs.Items())
	if len(items) == 0 {
		fmt.Println(cli.RenderNotice("  No transactions yet."))
		return nil
	}
	controller.SortNewestFirst(items)
	fmt.Print(transactionTable(fmt.Sprintf("Transactions (%d)", len(items)), items))
	return nil
}

func runTxAdd(cmd *cobra.Command, _ []string) error {
	fields := model.NewTransactionFields()
	applyTxFlags(cmd, &fields)

	txs := newTxController()
	if !txs.SubmitCreate(commandContext(cmd), fields) {
		return failed(txs.ErrMsg())
	}
	fmt.Println(cli.RenderSuccess(fmt.Sprintf("Added %s %s (%s)",
		fields.Type, cli.Truncate(fields.Description, 40), fields.Amount)))
	return nil
}

func runTxUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	txs := newTxController()
	ctx := commandContext(cmd)
	if !txs.Load(ctx) {
		return failed(txs.ErrMsg())
	}
	current, ok := txs.Find(id)
	if !ok {
		return fmt.Errorf("no transaction with id %d", id)
	}

	fields := model.FieldsFromTransaction(current)
	applyTxFlags(cmd, &fields)
	if !txs.SubmitUpdate(ctx, id, fields) {
		return failed(txs.ErrMsg())
	}
	fmt.Println(cli.RenderSuccess(fmt.Sprintf("Updated transaction %d", id)))
	return nil
}

func runTxRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	txs := newTxController()
	ctx := commandContext(cmd)
	what := fmt.Sprintf("transaction %d", id)
	if txs.Load(ctx) {
		if tx, ok := txs.Find(id); ok {
			what = fmt.Sprintf("%q (%s)", tx.Description, cli.FormatSigned(tx))
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
	if !txs.Remove(ctx, id) {
		return failed(txs.ErrMsg())
	}
	fmt.Println(cli.RenderSuccess("Deleted " + what))
	return nil
}

// applyTxFlags overwrites fields with the flags set on the command line.
func applyTxFlags(cmd *cobra.Command, f *model.TransactionFields) {
	flags := cmd.Flags()
	if flags.Changed("description") {
		f.Description = flagTxDescription
	}
	if flags.Changed("amount") {
		f.Amount = flagTxAmount
	}
	if flags.Changed("type") {
		f.Type = flagTxType
	}
	if flags.Changed("category") {
		f.Category = flagTxCategory
	}
	if flags.Changed("date") {
		f.Date = flagTxDate
	}
}

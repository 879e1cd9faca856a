package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pfm/internal/cli"
	"github.com/theirongolddev/pfm/internal/controller"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/tui/components"
	"github.com/theirongolddev/pfm/internal/tui/theme"
)

func (a App) dashboardKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "a":
		a.dash.OpenQuickAdd()
		draft, _ := controller.Draft[model.TransactionFields](a.dash.Form())
		a.vals = &formValues{}
		a.vals.setTransactionFields(draft)
		a.formErr = ""
		return a.openForm(formQuickAdd, newTransactionForm(a.vals, "Quick add"))
	}
	return a, nil
}

func (a App) renderDashboard(cw int) string {
	t := theme.Active

	switch a.dash.State() {
	case controller.Idle, controller.Loading:
		if len(a.dash.Transactions()) == 0 {
			return components.ContentCard("Dashboard", a.loadingLine("dashboard"), cw)
		}
	case controller.LoadFailed:
		if len(a.dash.Transactions()) == 0 {
			errStyle := lipgloss.NewStyle().Foreground(t.Expense).Background(t.Surface)
			hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
			return components.ContentCard("Dashboard",
				errStyle.Render(a.dash.ErrMsg())+"\n\n"+hintStyle.Render("[r] retry"), cw)
		}
	}

	sum := a.dash.Summary()
	balanceColor := t.Income
	if sum.TotalBalance.IsNegative() {
		balanceColor = t.Expense
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Total Balance", Value: cli.FormatMoney(sum.TotalBalance), Color: balanceColor},
		{Label: "Total Income", Value: cli.FormatMoney(sum.TotalIncome), Color: t.Income},
		{Label: "Total Expenses", Value: cli.FormatMoney(sum.TotalExpenses), Color: t.Expense},
	}, cw))
	b.WriteString("\n")

	recent := a.dash.Recent(recentCount)
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Recent Transactions (%d of %d)", len(recent), len(a.dash.Transactions())),
		renderTransactionRows(recent, -1, components.CardInnerWidth(cw)),
		cw))
	b.WriteString("\n")

	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
	b.WriteString(hintStyle.Render(" [n] quick add  [r] refresh  [t] all transactions"))

	return b.String()
}

// renderTransactionRows lays out one line per transaction, highlighting the
// row at cursor (-1 for none).
func renderTransactionRows(txs []model.Transaction, cursor, innerW int) string {
	t := theme.Active
	if len(txs) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No transactions yet.")
	}

	const dateW, catW, amtW = 10, 14, 12
	descW := max(innerW-dateW-catW-amtW-6, 8)

	dimStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	headStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Bold(true)

	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf("  %-*s %-*s %-*s %*s",
		dateW, "Date", descW, "Description", catW, "Category", amtW, "Amount")))

	for i, tx := range txs {
		b.WriteString("\n")
		bg := t.Surface
		marker := "  "
		if i == cursor {
			bg = t.SurfaceBright
			marker = "▸ "
		}
		amtColor := t.Income
		if tx.Type == model.Expense {
			amtColor = t.Expense
		}

		line := dimStyle.Background(bg).Foreground(t.AccentBright).Render(marker) +
			dimStyle.Background(bg).Render(fmt.Sprintf("%-*s ", dateW, cli.FormatDate(tx.Date))) +
			textStyle.Background(bg).Render(fmt.Sprintf("%-*s ", descW, cli.Truncate(tx.Description, descW))) +
			dimStyle.Background(bg).Render(fmt.Sprintf("%-*s ", catW, cli.Truncate(tx.Category, catW))) +
			lipgloss.NewStyle().Foreground(amtColor).Background(bg).Bold(true).
				Render(fmt.Sprintf("%*s", amtW, cli.FormatSigned(tx)))
		if i == cursor {
			if pad := innerW - lipgloss.Width(line); pad > 0 {
				line += lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", pad))
			}
		}
		b.WriteString(line)
	}
	return b.String()
}

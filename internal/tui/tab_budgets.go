package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pfm/internal/cli"
	"github.com/theirongolddev/pfm/internal/controller"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/report"
	"github.com/theirongolddev/pfm/internal/tui/components"
	"github.com/theirongolddev/pfm/internal/tui/theme"
)

func (a App) selectedBudget() (model.Budget, bool) {
	items := a.budgets.Items()
	if a.budCursor < 0 || a.budCursor >= len(items) {
		return model.Budget{}, false
	}
	return items[a.budCursor], true
}

func (a App) budgetFormTitle() string {
	if _, editing := a.budgets.Form().(controller.FormEditing[model.BudgetFields]); editing {
		return "Edit budget"
	}
	return "New budget"
}

func (a App) budgetsKey(key string) (tea.Model, tea.Cmd) {
	n := len(a.budgets.Items())
	switch key {
	case "j", "down":
		a.budCursor = moveCursor(a.budCursor, 1, n)
	case "k", "up":
		a.budCursor = moveCursor(a.budCursor, -1, n)
	case "n":
		a.budgets.OpenCreate(model.NewBudgetFields())
		draft, _ := controller.Draft[model.BudgetFields](a.budgets.Form())
		a.vals = &formValues{}
		a.vals.setBudgetFields(draft)
		a.formErr = ""
		return a.openForm(formBudget, newBudgetForm(a.vals, a.budgetFormTitle()))
	case "e", "enter":
		b, ok := a.selectedBudget()
		if !ok {
			return a, nil
		}
		a.budgets.OpenEdit(b.ID, model.FieldsFromBudget(b))
		a.vals = &formValues{EditingID: b.ID}
		a.vals.setBudgetFields(model.FieldsFromBudget(b))
		a.formErr = ""
		return a.openForm(formBudget, newBudgetForm(a.vals, a.budgetFormTitle()))
	case "D", "delete":
		b, ok := a.selectedBudget()
		if !ok {
			return a, nil
		}
		a.vals = &formValues{DeleteID: b.ID}
		what := fmt.Sprintf("the %s budget (%s)", b.Category, cli.FormatRange(b.StartDate, b.EndDate))
		return a.openForm(formDelete, newDeleteForm(a.vals, what))
	}
	return a, nil
}

func (a App) renderBudgets(cw, h int) string {
	t := theme.Active
	items := a.budgets.Items()

	if len(items) == 0 {
		switch a.budgets.State() {
		case controller.Idle, controller.Loading:
			return components.ContentCard("Budgets", a.loadingLine("budgets"), cw)
		case controller.LoadFailed:
			errStyle := lipgloss.NewStyle().Foreground(t.Expense).Background(t.Surface)
			return components.ContentCard("Budgets", errStyle.Render(a.budgets.ErrMsg()), cw)
		default:
			dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
			return components.ContentCard("Budgets", dim.Render("No budgets yet. Press [n] to add one."), cw)
		}
	}

	innerW := components.CardInnerWidth(cw)
	const catW, rangeW, amtW = 14, 23, 10
	barW := max(innerW-catW-rangeW-amtW-30, 10)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	markStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	// Two lines per budget plus the card chrome and hint.
	visible := max((h-4)/2, 2)
	offset := 0
	if a.budCursor >= visible {
		offset = a.budCursor - visible + 1
	}

	usage := report.Usage(items, a.txs.Items())
	end := min(offset+visible, len(usage))

	var b strings.Builder
	for i := offset; i < end; i++ {
		u := usage[i]
		marker := "  "
		if i == a.budCursor {
			marker = "▸ "
		}
		if i > offset {
			b.WriteString("\n")
		}
		b.WriteString(markStyle.Render(marker))
		b.WriteString(labelStyle.Bold(true).Render(fmt.Sprintf("%-*s ", catW, cli.Truncate(u.Budget.Category, catW))))
		b.WriteString(dimStyle.Render(fmt.Sprintf("%-*s ", rangeW, cli.FormatRange(u.Budget.StartDate, u.Budget.EndDate))))
		b.WriteString(labelStyle.Render(fmt.Sprintf("%*s", amtW, cli.FormatMoney(u.Budget.Amount))))
		b.WriteString("\n")
		b.WriteString(spaceStyle.Render("    "))
		caption := cli.FormatMoney(u.Spent) + " spent"
		if left := u.Budget.Amount.Sub(u.Spent); left.IsNegative() {
			caption += ", " + cli.FormatMoney(left.Neg()) + " over"
		} else {
			caption += ", " + cli.FormatMoney(left) + " left"
		}
		b.WriteString(components.UsageBar(u.Percent/100, caption, barW))
	}

	title := fmt.Sprintf("Budgets (%d)", len(items))
	if a.txs.State() == controller.LoadFailed {
		title += " · spending unavailable"
	}

	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
	return components.ContentCard(title, b.String(), cw) + "\n" +
		hintStyle.Render(" [j/k] move  [n] new  [e] edit  [D] delete  [r] refresh")
}

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pfm/internal/cli"
	"github.com/theirongolddev/pfm/internal/controller"
	"github.com/theirongolddev/pfm/internal/tui/components"
	"github.com/theirongolddev/pfm/internal/tui/theme"
)

func (a App) reportsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "c":
		p := a.reports.NextPeriod()
		a.notice = "Period: " + p.Label()
		return a.refresh()
	}
	return a, nil
}

func (a App) renderReports(cw, h int) string {
	t := theme.Active
	period := a.reports.Period()
	patterns := a.reports.Patterns()
	shares := a.reports.Shares()

	if len(patterns) == 0 && len(shares) == 0 {
		switch a.reports.State() {
		case controller.Idle, controller.Loading:
			return components.ContentCard("Reports", a.loadingLine("reports"), cw)
		case controller.LoadFailed:
			errStyle := lipgloss.NewStyle().Foreground(t.Expense).Background(t.Surface)
			return components.ContentCard("Reports", errStyle.Render(a.reports.ErrMsg()), cw)
		}
	}

	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	innerW := components.CardInnerWidth(cw)

	// Split the height between the chart and the category list.
	chartH := max(min(h/2, 14), 6)

	var b strings.Builder

	chart := dimStyle.Render("No spending in this period.")
	if len(patterns) > 0 {
		chart = a.chart(patterns, innerW, chartH)
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Spending Patterns · last %s", period.Label()), chart, cw))
	b.WriteString("\n")

	var cats strings.Builder
	if len(shares) == 0 {
		cats.WriteString(dimStyle.Render("No expenses by category."))
	}
	labelW := 14
	barW := max(innerW-labelW-24, 10)
	maxRows := max(h-chartH-8, 3)
	for i, s := range shares {
		if i >= maxRows {
			cats.WriteString("\n")
			cats.WriteString(dimStyle.Render(fmt.Sprintf("… %d more", len(shares)-maxRows)))
			break
		}
		if i > 0 {
			cats.WriteString("\n")
		}
		cats.WriteString(components.ShareBar(s.Category, s.Percent, cli.FormatMoney(s.Amount), labelW, barW))
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("By Category · total %s", cli.FormatMoney(a.reports.Total())), cats.String(), cw))
	b.WriteString("\n")

	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
	b.WriteString(hintStyle.Render(fmt.Sprintf(" [c] period (%s)  [r] refresh", period.Label())))
	return b.String()
}

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/pfm/internal/tui/theme"
)

// ProgressBar renders a block bar with a percentage, pct in 0-1.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	filled := int(pct * float64(width))
	filled = max(0, min(filled, width))

	barColor := t.Accent
	if pct >= 0.8 {
		barColor = t.AccentBright
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// ColorForUsage returns income/warning/expense colors for budget usage.
func ColorForUsage(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct > 1:
		return t.Expense
	case pct >= 0.8:
		return t.Warning
	default:
		return t.Income
	}
}

// ShareBar renders a labeled bar for a category's share of spending.
// pct is 0-100; amount is preformatted.
func ShareBar(label string, pct float64, amount string, labelW, barWidth int) string {
	t := theme.Active

	bar := progress.New(
		progress.WithSolidFill(string(t.Chart)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	frac := max(0, min(pct/100, 1))

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) +
		spaceStyle.Render(" ") +
		bar.ViewAs(frac) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", pct)) +
		spaceStyle.Render("  ") +
		amountStyle.Render(amount)
}

// UsageBar renders spent against a budget limit. used is spent/limit and
// may exceed 1; the bar is capped while the label shows the real figure.
func UsageBar(used float64, caption string, barWidth int) string {
	t := theme.Active
	color := ColorForUsage(used)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	captionStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(max(0, min(used, 1))) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", used*100)) +
		spaceStyle.Render(" ") +
		captionStyle.Render(caption)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

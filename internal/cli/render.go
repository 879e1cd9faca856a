package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/theirongolddev/pfm/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	incomeStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	expenseStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	barStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
	Left    int   // number of leading left-aligned columns; at least 1
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 60
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	// Calculate column widths
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			if n := utf8.RuneCountInString(h); n > widths[i] {
				widths[i] = n
			}
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if n := utf8.RuneCountInString(cell); i < numCols && n > widths[i] {
					widths[i] = n
				}
			}
		}
	}

	left := max(t.Left, 1)

	var b strings.Builder

	// Title above table if present
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	// Top border
	b.WriteString(dimStyle.Render("╭"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┬"))
		}
	}
	b.WriteString(dimStyle.Render("╮"))
	b.WriteString("\n")

	// Header row
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			w := widths[i]
			padded := fmt.Sprintf(" %-*s ", w, h)
			b.WriteString(headerStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")

		// Header separator
		b.WriteString(dimStyle.Render("├"))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("┼"))
			}
		}
		b.WriteString(dimStyle.Render("┤"))
		b.WriteString("\n")
	}

	// Data rows
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			// Separator row
			b.WriteString(dimStyle.Render("├"))
			for i, w := range widths {
				b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
				if i < numCols-1 {
					b.WriteString(dimStyle.Render("┼"))
				}
			}
			b.WriteString(dimStyle.Render("┤"))
			b.WriteString("\n")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			w := widths[i]
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all after the leading text columns)
			var padded string
			if i < left {
				padded = fmt.Sprintf(" %-*s ", w, cell)
			} else {
				padded = fmt.Sprintf(" %*s ", w, cell)
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	// Bottom border
	b.WriteString(dimStyle.Render("╰"))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < numCols-1 {
			b.WriteString(dimStyle.Render("┴"))
		}
	}
	b.WriteString(dimStyle.Render("╯"))
	b.WriteString("\n")

	return b.String()
}

// RenderProgressBar renders spent against a limit, e.g. a budget.
// The bar turns orange past 80% and red past 100%.
func RenderProgressBar(spent, limit decimal.Decimal, width int) string {
	if !limit.IsPositive() {
		return ""
	}

	pct := spent.Div(limit).InexactFloat64()
	style := incomeStyle
	switch {
	case pct > 1:
		style = expenseStyle
	case pct > 0.8:
		style = warnStyle
	}
	fill := pct
	if fill > 1 {
		fill = 1
	}
	if fill < 0 {
		fill = 0
	}

	filled := int(fill * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s/%s",
		style.Render(bar),
		FormatMoney(spent),
		FormatMoney(limit),
	)
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}

	return barStyle.Render(b.String())
}

// RenderHorizontalBar renders one labeled bar chart row.
func RenderHorizontalBar(label string, labelWidth int, value, maxValue float64, maxWidth int, suffix string) string {
	barLen := 0
	if maxValue > 0 {
		barLen = int(value / maxValue * float64(maxWidth))
	}
	if barLen < 0 {
		barLen = 0
	}
	bar := strings.Repeat("█", barLen) + strings.Repeat(" ", maxWidth-min(barLen, maxWidth))
	return fmt.Sprintf("  %-*s %s %s", labelWidth, Truncate(label, labelWidth), barStyle.Render(bar), mutedStyle.Render(suffix))
}

// RenderAmount colors a signed amount string by transaction type.
func RenderAmount(tx model.Transaction) string {
	if tx.Type == model.Income {
		return incomeStyle.Render(FormatSigned(tx))
	}
	return expenseStyle.Render(FormatSigned(tx))
}

// RenderError renders a one-line error message.
func RenderError(msg string) string {
	return errorStyle.Render("✗ ") + valueStyle.Render(msg)
}

// RenderNotice renders a one-line muted note.
func RenderNotice(msg string) string {
	return mutedStyle.Render(msg)
}

// RenderSuccess renders a one-line confirmation.
func RenderSuccess(msg string) string {
	return incomeStyle.Render("✓ ") + valueStyle.Render(msg)
}

package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/pfm/internal/model"
	"github.com/theirongolddev/pfm/internal/tui/theme"
)

// ChartRenderer draws labeled report points into a width x height block.
type ChartRenderer func(points []model.ReportPoint, width, height int) string

// DefaultChart is used for spending patterns unless the caller picks another.
var DefaultChart ChartRenderer = SpendingBars

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = math.Max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// SpendingSparkline is a ChartRenderer for cramped layouts.
func SpendingSparkline(points []model.ReportPoint, _, _ int) string {
	return Sparkline(pointValues(points), theme.Active.Chart)
}

// SpendingBars renders one vertical bar per point with a money y-axis and
// the point names underneath. Falls back to a sparkline when too small.
func SpendingBars(points []model.ReportPoint, width, height int) string {
	if len(points) == 0 {
		return ""
	}
	values := pointValues(points)
	if width < 20 || height < 4 {
		return Sparkline(values, theme.Active.Chart)
	}

	t := theme.Active
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Chart).Background(t.Surface)
	blankStyle := lipgloss.NewStyle().Background(t.Surface)

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	ceiling := niceCeiling(peak)

	top := moneyLabel(ceiling)
	mid := moneyLabel(ceiling / 2)
	yLabelW := max(len(top), len("$0")) + 1

	n := len(values)
	chartW := width - yLabelW - 1
	gap := 1
	barW := (chartW - (n-1)*gap) / n
	if barW < 1 {
		return Sparkline(values, t.Chart)
	}
	barW = min(barW, 8)

	// Leave one row for the labels.
	chartH := height - 2
	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		label := ""
		switch row {
		case chartH:
			label = top
		case (chartH + 1) / 2:
			label = mid
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		for i, v := range values {
			if i > 0 {
				b.WriteString(blankStyle.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= rowTop:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > rowBottom:
				idx := int((v - rowBottom) / (rowTop - rowBottom) * 8)
				idx = max(1, min(idx, 8))
				b.WriteString(barStyle.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(blankStyle.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + (n-1)*gap
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", yLabelW, "$0", strings.Repeat("─", axisLen))))
	b.WriteString("\n")

	// Names are cut to the bar width so they never overlap.
	var labels strings.Builder
	labels.WriteString(strings.Repeat(" ", yLabelW+1))
	for i, p := range points {
		if i > 0 {
			labels.WriteString(strings.Repeat(" ", gap))
		}
		labels.WriteString(fmt.Sprintf("%-*s", barW, shortLabel(p.Name, barW)))
	}
	b.WriteString(axisStyle.Render(strings.TrimRight(labels.String(), " ")))

	return b.String()
}

func pointValues(points []model.ReportPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value.InexactFloat64()
	}
	return values
}

// niceCeiling rounds v up to 1, 2 or 5 times a power of ten.
func niceCeiling(v float64) float64 {
	if v <= 0 {
		return 1
	}
	base := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10, 20} {
		if m*base >= v {
			return m * base
		}
	}
	return v
}

func moneyLabel(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("$%.0fk", v/1e3)
		}
		return fmt.Sprintf("$%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("$%.0f", v)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// shortLabel fits a label like "Jan 2025" into n columns, preferring the
// month part.
func shortLabel(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if month, _, ok := strings.Cut(s, " "); ok && len([]rune(month)) <= n {
		return month
	}
	return string(r[:n])
}

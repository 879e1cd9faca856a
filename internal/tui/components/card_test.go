package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/theirongolddev/pfm/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToWidth(t *testing.T) {
	for _, tc := range []struct{ total, n int }{{100, 3}, {80, 4}, {7, 2}, {10, 1}} {
		sum := 0
		for _, w := range LayoutRow(tc.total, tc.n) {
			sum += w
		}
		if sum != tc.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("Test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("Joined height should match tallest card: got %d, want %d", len(lines), tallLines)
	}

	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("Line %d has no ANSI codes, padding is unstyled", i)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	row := MetricCardRow([]Metric{
		{Label: "Balance", Value: "$10.00"},
		{Label: "Income", Value: "$20.00", Color: theme.Active.Income},
		{Label: "Expenses", Value: "$10.00", Note: "this month"},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
}

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/theirongolddev/pfm/internal/model"
)

func points(vals ...int64) []model.ReportPoint {
	names := []string{"Jan 2025", "Feb 2025", "Mar 2025", "Apr 2025", "May 2025", "Jun 2025"}
	out := make([]model.ReportPoint, len(vals))
	for i, v := range vals {
		out[i] = model.ReportPoint{Name: names[i%len(names)], Value: decimal.NewFromInt(v)}
	}
	return out
}

func TestSpendingBarsHeight(t *testing.T) {
	out := SpendingBars(points(120, 340, 80), 60, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10:\n%s", len(lines), out)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w > 60 {
			t.Errorf("line %d is %d wide, limit 60", i, w)
		}
	}
	if !strings.Contains(out, "$500") {
		t.Errorf("axis should top out at $500:\n%s", out)
	}
	if !strings.Contains(lines[len(lines)-1], "Jan 2025") {
		t.Errorf("labels row = %q", lines[len(lines)-1])
	}
}

func TestSpendingBarsFallsBackToSparkline(t *testing.T) {
	out := SpendingBars(points(1, 2, 3), 10, 3)
	if strings.Contains(out, "\n") {
		t.Fatalf("tiny chart should be a single-line sparkline, got:\n%s", out)
	}
	if SpendingBars(nil, 80, 10) != "" {
		t.Fatal("empty input should render nothing")
	}
}

func TestNiceCeiling(t *testing.T) {
	cases := map[float64]float64{0: 1, 3: 5, 10: 10, 11: 20, 340: 500, 1200: 2000}
	for in, want := range cases {
		if got := niceCeiling(in); got != want {
			t.Errorf("niceCeiling(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestShortLabel(t *testing.T) {
	if got := shortLabel("Jan 2025", 4); got != "Jan" {
		t.Errorf("shortLabel = %q", got)
	}
	if got := shortLabel("Groceries", 3); got != "Gro" {
		t.Errorf("shortLabel = %q", got)
	}
}

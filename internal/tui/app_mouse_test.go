package tui

import (
	"testing"

	"github.com/theirongolddev/pfm/internal/router"
	"github.com/theirongolddev/pfm/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active, activeTab := range components.Tabs {
		a := App{route: activeTab.Route}
		pos := 0

		for i := range components.Tabs {
			w := tabWidthForTest(i, active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < len(components.Tabs)-1 {
				pos++ // separator
			}
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("active=%d x=%d past the last tab -> %d, want -1", active, pos+5, got)
		}
	}
}

func TestTabAtXWithoutActiveTab(t *testing.T) {
	a := App{route: router.Login}
	// Every tab is inactive: " [D]ashboard " is 13 wide.
	if got := a.tabAtX(12); got != 0 {
		t.Fatalf("tabAtX(12) = %d, want 0", got)
	}
	if got := a.tabAtX(13); got != -1 {
		t.Fatalf("tabAtX(13) on the separator = %d, want -1", got)
	}
	if got := a.tabAtX(14); got != 1 {
		t.Fatalf("tabAtX(14) = %d, want 1", got)
	}
}

func tabWidthForTest(tabIdx, activeIdx int) int {
	nameWidths := []int{
		len("Dashboard"),
		len("Transactions"),
		len("Budgets"),
		len("Reports"),
	}

	w := nameWidths[tabIdx] + 2 // horizontal padding in tab renderer
	if tabIdx != activeIdx {
		w += 2 // "[x]" brackets around the in-name key
	}
	return w
}

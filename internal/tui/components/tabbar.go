package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/pfm/internal/router"
	"github.com/theirongolddev/pfm/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
	Route  router.Route
}

// Tabs maps each protected route to a tab.
var Tabs = []Tab{
	{Name: "Dashboard", Key: 'd', KeyPos: 0, Route: router.Dashboard},
	{Name: "Transactions", Key: 't', KeyPos: 0, Route: router.Transactions},
	{Name: "Budgets", Key: 'b', KeyPos: 0, Route: router.Budgeting},
	{Name: "Reports", Key: 'p', KeyPos: 2, Route: router.Reports},
}

// TabForRoute returns the tab index showing r, or -1.
func TabForRoute(r router.Route) int {
	for i, tab := range Tabs {
		if tab.Route == r {
			return i
		}
	}
	return -1
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}

// TabVisualWidth is the rendered width of a tab, including padding and the
// [k] shortcut marker shown on inactive tabs.
func TabVisualWidth(tab Tab, active bool) int {
	w := lipgloss.Width(tab.Name) + 2
	if !active {
		w += 2 // brackets around the key
		if tab.KeyPos < 0 || tab.KeyPos >= len(tab.Name) {
			w++ // key appended, not highlighted in place
		}
	}
	return w
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceBright).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	dimKeyStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	padStyle := lipgloss.NewStyle().Background(t.Surface)

	var parts []string
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tab.Name))
			continue
		}
		var rendered string
		if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
			before := tab.Name[:tab.KeyPos]
			key := string(tab.Name[tab.KeyPos])
			after := tab.Name[tab.KeyPos+1:]
			rendered = inactiveStyle.Render(before) +
				dimKeyStyle.Render("[") + keyStyle.Render(key) + dimKeyStyle.Render("]") +
				inactiveStyle.Render(after)
		} else {
			rendered = inactiveStyle.Render(tab.Name) +
				dimKeyStyle.Render("[") + keyStyle.Render(string(tab.Key)) + dimKeyStyle.Render("]")
		}
		parts = append(parts, padStyle.Render(" ")+rendered+padStyle.Render(" "))
	}

	row := strings.Join(parts, padStyle.Render(" "))
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

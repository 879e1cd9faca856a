package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/pfm/internal/tui/theme"
)

// Status is what the bottom bar shows.
type Status struct {
	User    string // logged-in email, empty when logged out
	Server  string
	Message string // last error or notice
	IsError bool
	Busy    bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	msgStyle := style
	if s.IsError {
		msgStyle = msgStyle.Foreground(t.Expense).Bold(true)
	}

	left := style.Render(" [?]help  [q]uit ")
	if s.Busy {
		left += style.Foreground(t.Accent).Render("● ")
	}
	if s.Message != "" {
		left += msgStyle.Render(s.Message)
	}

	right := s.Server
	if s.User != "" {
		right = s.User + " @ " + s.Server
	}
	right = style.Render(right + " ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		// Drop the right side before truncating the message.
		right = ""
		padding = width - lipgloss.Width(left)
	}
	if padding < 0 {
		padding = 0
	}

	bar := left + style.Render(spaces(padding)) + right
	return lipgloss.NewStyle().MaxWidth(width).Render(bar)
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

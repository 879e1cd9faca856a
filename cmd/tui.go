package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/pfm/internal/tui"
	"github.com/theirongolddev/pfm/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(env.cfg.Appearance.Theme)

	// Force TrueColor so background styling always produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Deps{
		Config:   env.cfg,
		Client:   env.client,
		Session:  env.session,
		Logger:   env.log,
		FirstRun: env.firstRun,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pfm/internal/config"
	"github.com/theirongolddev/pfm/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := tui.RunSetup(env.cfg)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	env.cfg = cfg

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `pfm setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

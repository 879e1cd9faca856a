package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pfm/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := env.cfg

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [API]")
	fmt.Printf("    Base URL: %s\n", cfg.API.BaseURL)
	fmt.Printf("    Timeout:  %s\n", cfg.Timeout())
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Report period: %s\n", cfg.Period().Label())
	fmt.Printf("    Session file:  %s\n", cfg.SessionPath())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Printf("    File:  %s\n", cfg.LogPath())
	fmt.Println()

	if u := env.session.User(); u.Email != "" {
		fmt.Printf("  Logged in as %s\n", u.Email)
	} else {
		fmt.Println("  Not logged in.")
	}
	fmt.Println("  Run `pfm setup` to reconfigure.")
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"pecunio/internal/config"
	"pecunio/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var dashCmd = &cobra.Command{
	Use:     "dash",
	Aliases: []string{"tui"},
	Short:   "Open the interactive dashboard",
	Args:    cobra.NoArgs,
	RunE:    runDash,
}

func init() {
	rootCmd.AddCommand(dashCmd)
}

func runDash(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path, err := databasePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no ledger at %s (run `pecunio init` first)", path)
	}

	app := tui.New(path, cfg.Forecast.DefaultMonths, cfg.Appearance.Theme, cfg.General.DefaultCurrency)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

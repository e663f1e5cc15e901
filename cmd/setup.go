package cmd

import (
	"errors"
	"fmt"
	"strings"

	"pecunio/internal/config"
	"pecunio/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive first-run configuration",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	currency := cfg.General.DefaultCurrency
	dbPath := cfg.General.DatabasePath
	months := cfg.Forecast.DefaultMonths
	themeName := cfg.Appearance.Theme

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Default currency").
				Description("ISO 4217 code used when creating wallets").
				Value(&currency).
				Validate(func(s string) error {
					if len(strings.TrimSpace(s)) != 3 {
						return errors.New("enter a three-letter currency code")
					}
					return nil
				}),
			huh.NewInput().
				Title("Database path").
				Description(fmt.Sprintf("Leave empty for %s", config.DefaultDatabasePath())).
				Value(&dbPath),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Forecast horizon").
				Description("Default number of months to project").
				Options(
					huh.NewOption("3 months", 3),
					huh.NewOption("6 months", 6),
					huh.NewOption("12 months", 12),
				).
				Value(&months),
			huh.NewSelect[string]().
				Title("Dashboard theme").
				Options(themeOpts...).
				Value(&themeName),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save configuration?").
				Description(fmt.Sprintf("Writes %s", config.ConfigPath())).
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}
	if !confirmed {
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration not saved.")
		return nil
	}

	cfg.General.DefaultCurrency = strings.ToUpper(strings.TrimSpace(currency))
	cfg.General.DatabasePath = strings.TrimSpace(dbPath)
	cfg.Forecast.DefaultMonths = months
	cfg.Appearance.Theme = themeName

	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", config.ConfigPath())
	return nil
}

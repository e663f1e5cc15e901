package cmd

import (
	"fmt"
	"time"

	"pecunio/internal/cli"
	"pecunio/internal/config"

	"github.com/spf13/cobra"
)

var flagForecastMonths int

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project balances forward from active schedules",
	Long: "Simulate every active schedule's future occurrences and show the\n" +
		"projected balances. Nothing is persisted.",
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().IntVarP(&flagForecastMonths, "months", "n", 0, "Horizon in months (default from config)")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
	months := flagForecastMonths
	if months <= 0 {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		months = cfg.Forecast.DefaultMonths
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	result, err := svc.Forecast(time.Now().UTC(), months)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FORECAST  %d months", months)))
	fmt.Println()

	currency := displayCurrency()
	rows := make([][]string, 0, len(result.Snapshots))
	for _, snap := range result.Snapshots {
		event := "(today)"
		if snap.Event != nil {
			event = fmt.Sprintf("%s: %s %s -> %s",
				snap.Event.ScheduleName,
				cli.FormatMoney(snap.Event.Amount, currency),
				snap.Event.FromWallet,
				snap.Event.ToWallet,
			)
		} else if !snap.Date.Equal(result.StartDate) {
			event = "(month end)"
		}

		var total int64
		for _, balance := range snap.Balances {
			if balance > 0 {
				total += balance
			}
		}
		rows = append(rows, []string{
			cli.FormatDate(snap.Date),
			event,
			cli.FormatMoney(total, currency),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Event", "Projected holdings"},
		Rows:    rows,
	}))
	return nil
}

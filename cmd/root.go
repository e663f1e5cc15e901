// Package cmd implements the pecunio CLI commands.
package cmd

import (
	"fmt"
	"os"
	"time"

	"pecunio/internal/cli"
	"pecunio/internal/config"
	"pecunio/internal/ledger"

	"github.com/spf13/cobra"
)

var (
	flagDatabase string
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "pecunio",
	Short: "Personal finance ledger",
	Long: "Track money as transfers between wallets. Balances, budgets and\n" +
		"forecasts are always derived from the transfer history, never stored.",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDatabase, "database", "d", "", "Path to the ledger database")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress scheduler output")
}

// displayCurrency is the currency used when rendering amounts that span
// wallets (net worth, reports, budgets). Per-wallet output uses the wallet's
// own currency instead.
func displayCurrency() string {
	cfg, err := config.Load()
	if err != nil || cfg.General.DefaultCurrency == "" {
		return "EUR"
	}
	return cfg.General.DefaultCurrency
}

// databasePath resolves the database location: flag, then config, then the
// default data directory.
func databasePath() (string, error) {
	if flagDatabase != "" {
		return flagDatabase, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return config.DatabasePath(cfg), nil
}

// openService is the shared open path used by every command that touches the
// ledger. Due scheduled transfers are materialized before any command logic
// runs, so reads always observe a fully caught-up ledger.
func openService() (*ledger.Service, error) {
	path, err := databasePath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no ledger at %s (run `pecunio init` first)", path)
	}

	svc, err := ledger.Open(path)
	if err != nil {
		return nil, err
	}

	report, err := svc.ExecuteDue(time.Now().UTC())
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("running scheduler: %w", err)
	}
	printRunReport(report)

	return svc, nil
}

func printRunReport(report ledger.RunReport) {
	if flagQuiet {
		return
	}
	currency := displayCurrency()
	for _, m := range report.Materialized {
		fmt.Fprintf(os.Stderr, "  Scheduled %q executed: %s on %s\n",
			m.ScheduleName,
			cli.FormatMoney(m.Transfer.Amount, currency),
			cli.FormatDate(m.Transfer.Timestamp),
		)
	}
	for _, f := range report.Failures {
		fmt.Fprintf(os.Stderr, "  %s\n", cli.Bad(fmt.Sprintf(
			"Scheduled %q blocked at %s: %v",
			f.ScheduleName, cli.FormatDate(f.Occurrence), f.Err,
		)))
	}
	for _, name := range report.Completed {
		fmt.Fprintf(os.Stderr, "  Scheduled %q completed\n", name)
	}
}

// parseDate accepts YYYY-MM-DD or RFC 3339.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// parseDateFlag parses an optional date flag; empty means nil.
func parseDateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

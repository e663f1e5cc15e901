package cmd

import (
	"fmt"

	"pecunio/internal/cli"
	"pecunio/internal/model"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify ledger integrity (balances must sum to zero)",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, _ []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	report, err := svc.CheckIntegrity()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("INTEGRITY CHECK"))
	fmt.Println()
	fmt.Printf("  Wallets:   %d\n", report.WalletCount)
	fmt.Printf("  Transfers: %d\n", report.TransferCount)
	for _, wt := range []model.WalletType{model.Asset, model.Liability, model.Income, model.Expense, model.Equity} {
		if balance, ok := report.BalanceByType[wt]; ok {
			fmt.Printf("  %-10s %s\n", string(wt)+":", cli.FormatCents(balance))
		}
	}
	fmt.Printf("  Sum:       %s\n", cli.FormatCents(report.TotalBalance))
	fmt.Println()

	if report.IsHealthy() {
		fmt.Printf("  %s\n", cli.Good("OK: ledger is consistent"))
		return nil
	}

	fmt.Printf("  %s\n", cli.Bad(fmt.Sprintf("CORRUPT: %d issue(s) found", len(report.Issues))))
	for _, issue := range report.Issues {
		fmt.Printf("    - %s\n", issue)
	}
	// Corruption is reported, never repaired.
	return report.Err()
}

package cmd

import (
	"fmt"
	"time"

	"pecunio/internal/cli"
	"pecunio/internal/report"

	"github.com/spf13/cobra"
)

var flagBalanceAsOf string

var balanceCmd = &cobra.Command{
	Use:   "balance [wallet]",
	Short: "Show derived balances (all wallets, or one)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBalance,
}

func init() {
	balanceCmd.Flags().StringVar(&flagBalanceAsOf, "as-of", "", "Balance at a past date (YYYY-MM-DD)")
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(_ *cobra.Command, args []string) error {
	asOf, err := parseDateFlag(flagBalanceAsOf)
	if err != nil {
		return err
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	if len(args) == 1 {
		entry, err := svc.Balance(args[0])
		if err != nil {
			return err
		}
		if asOf != nil {
			entry, err = svc.BalanceAsOf(args[0], *asOf)
			if err != nil {
				return err
			}
			fmt.Printf("  %s as of %s: %s\n", entry.Wallet.Name, cli.FormatDate(*asOf),
				cli.FormatSignedMoney(entry.Balance, entry.Wallet.Currency))
			return nil
		}
		fmt.Printf("  %s: %s\n", entry.Wallet.Name,
			cli.FormatSignedMoney(entry.Balance, entry.Wallet.Currency))
		return nil
	}

	entries, err := svc.AllBalances()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		if e.Wallet.IsArchived() && e.Balance == 0 {
			continue
		}
		rows = append(rows, []string{
			e.Wallet.Name,
			string(e.Wallet.Type),
			cli.FormatSignedMoney(e.Balance, e.Wallet.Currency),
		})
	}
	if len(rows) == 0 {
		fmt.Println("\n  No wallets yet.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("BALANCES"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Wallet", "Type", "Balance"},
		Rows:    rows,
	}))

	nw := report.NetWorthFromEntries(entries, time.Now().UTC())
	currency := displayCurrency()
	fmt.Printf("\n  Net worth: %s (assets %s, owed %s)\n",
		cli.FormatMoney(nw.NetWorth, currency),
		cli.FormatMoney(nw.TotalAssets, currency),
		cli.FormatMoney(nw.TotalLiabilities, currency),
	)
	return nil
}

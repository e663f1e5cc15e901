package cmd

import (
	"fmt"
	"strings"

	"pecunio/internal/cli"
	"pecunio/internal/config"
	"pecunio/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagWalletCurrency    string
	flagWalletDescription string
	flagWalletAll         bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletCreateCmd = &cobra.Command{
	Use:   "create <name> <type>",
	Short: "Create a wallet (type: asset, liability, income, expense, equity)",
	Args:  cobra.ExactArgs(2),
	RunE:  runWalletCreate,
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets with balances",
	RunE:  runWalletList,
}

var walletShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one wallet in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runWalletShow,
}

var walletArchiveCmd = &cobra.Command{
	Use:   "archive <name>",
	Short: "Archive a wallet (no new transfers, history preserved)",
	Args:  cobra.ExactArgs(1),
	RunE:  runWalletArchive,
}

func init() {
	walletCreateCmd.Flags().StringVarP(&flagWalletCurrency, "currency", "c", "", "ISO 4217 currency code (default from config)")
	walletCreateCmd.Flags().StringVar(&flagWalletDescription, "description", "", "Free-form description")
	walletListCmd.Flags().BoolVarP(&flagWalletAll, "all", "a", false, "Include archived wallets")

	walletCmd.AddCommand(walletCreateCmd, walletListCmd, walletShowCmd, walletArchiveCmd)
	rootCmd.AddCommand(walletCmd)
}

func runWalletCreate(_ *cobra.Command, args []string) error {
	name := args[0]
	wt, ok := model.ParseWalletType(args[1])
	if !ok {
		return fmt.Errorf("unknown wallet type %q (want asset, liability, income, expense or equity)", args[1])
	}

	currency := flagWalletCurrency
	if currency == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		currency = cfg.General.DefaultCurrency
	}
	currency = strings.ToUpper(currency)

	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	w, err := svc.CreateWallet(name, wt, currency, flagWalletDescription)
	if err != nil {
		return err
	}

	fmt.Printf("  Created %s wallet %q (%s)\n", w.Type, w.Name, w.Currency)
	return nil
}

func runWalletList(_ *cobra.Command, _ []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	entries, err := svc.AllBalances()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		if e.Wallet.IsArchived() && !flagWalletAll {
			continue
		}
		status := ""
		if e.Wallet.IsArchived() {
			status = "archived"
		}
		rows = append(rows, []string{
			e.Wallet.Name,
			string(e.Wallet.Type),
			e.Wallet.Currency,
			cli.FormatSignedMoney(e.Balance, e.Wallet.Currency),
			status,
		})
	}

	if len(rows) == 0 {
		fmt.Println("\n  No wallets yet. Create one with `pecunio wallet create`.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("WALLETS"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Name", "Type", "Currency", "Balance", ""},
		Rows:    rows,
	}))
	return nil
}

func runWalletShow(_ *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	info, err := svc.WalletDetails(args[0])
	if err != nil {
		return err
	}
	w := info.Wallet

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("WALLET  %s", w.Name)))
	fmt.Println()
	fmt.Printf("  ID:          %s\n", w.ID)
	fmt.Printf("  Type:        %s\n", w.Type)
	fmt.Printf("  Currency:    %s\n", w.Currency)
	fmt.Printf("  Balance:     %s\n", cli.FormatSignedMoney(info.Balance, w.Currency))
	fmt.Printf("  Transfers:   %d in, %d out\n", info.IncomingCount, info.OutgoingCount)
	fmt.Printf("  Last active: %s\n", cli.FormatDatePtr(info.LastActivity))
	fmt.Printf("  Created:     %s\n", cli.FormatDate(w.CreatedAt))
	if w.Description != "" {
		fmt.Printf("  Description: %s\n", w.Description)
	}
	if w.IsArchived() {
		fmt.Printf("  Archived:    %s\n", cli.FormatDatePtr(w.ArchivedAt))
	}
	return nil
}

func runWalletArchive(_ *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	w, err := svc.ArchiveWallet(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("  Archived wallet %q. Its history stays in the ledger.\n", w.Name)
	return nil
}

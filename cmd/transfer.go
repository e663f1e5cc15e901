package cmd

import (
	"fmt"
	"strings"
	"time"

	"pecunio/internal/cli"
	"pecunio/internal/ledger"
	"pecunio/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	flagTransferDesc     string
	flagTransferCategory string
	flagTransferTags     []string
	flagTransferDate     string
	flagTransferRef      string
	flagTransferForce    bool

	flagListWallet   string
	flagListCategory string
	flagListFrom     string
	flagListTo       string
	flagListLimit    int

	flagReverseAmount string
)

var transferCmd = &cobra.Command{
	Use:   "transfer <from> <to> <amount>",
	Short: "Record a transfer between two wallets",
	Long: "Record a transfer of <amount> (e.g. 42.50) from one wallet to another.\n" +
		"Transfers are immutable; use `pecunio reverse` to undo one.",
	Args: cobra.ExactArgs(3),
	RunE: runTransfer,
}

var transfersCmd = &cobra.Command{
	Use:   "transfers",
	Short: "List transfers, newest first",
	RunE:  runTransfers,
}

var reverseCmd = &cobra.Command{
	Use:   "reverse <transfer-id>",
	Short: "Reverse a transfer via a compensating entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runReverse,
}

var showCmd = &cobra.Command{
	Use:   "show <transfer-id>",
	Short: "Show one transfer in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	transferCmd.Flags().StringVarP(&flagTransferDesc, "description", "m", "", "Description")
	transferCmd.Flags().StringVarP(&flagTransferCategory, "category", "c", "", "Category for budgets and reports")
	transferCmd.Flags().StringSliceVarP(&flagTransferTags, "tag", "t", nil, "Tag (repeatable)")
	transferCmd.Flags().StringVar(&flagTransferDate, "date", "", "Transfer date (YYYY-MM-DD, default now)")
	transferCmd.Flags().StringVar(&flagTransferRef, "ref", "", "External reference for import dedup")
	transferCmd.Flags().BoolVarP(&flagTransferForce, "force", "f", false, "Allow the source wallet to go negative")

	transfersCmd.Flags().StringVarP(&flagListWallet, "wallet", "w", "", "Only transfers touching this wallet")
	transfersCmd.Flags().StringVarP(&flagListCategory, "category", "c", "", "Only this category")
	transfersCmd.Flags().StringVar(&flagListFrom, "from", "", "Only on or after this date")
	transfersCmd.Flags().StringVar(&flagListTo, "to", "", "Only before this date")
	transfersCmd.Flags().IntVarP(&flagListLimit, "limit", "n", 20, "Maximum rows (0 = all)")

	reverseCmd.Flags().StringVarP(&flagReverseAmount, "amount", "a", "", "Partial reversal amount (default: full)")

	rootCmd.AddCommand(transferCmd, transfersCmd, reverseCmd, showCmd)
}

func runTransfer(_ *cobra.Command, args []string) error {
	amount, err := model.ParseCents(args[2])
	if err != nil {
		return err
	}

	timestamp := time.Now().UTC()
	if flagTransferDate != "" {
		timestamp, err = parseDate(flagTransferDate)
		if err != nil {
			return err
		}
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	t, err := svc.RecordTransfer(args[0], args[1], amount, timestamp, ledger.TransferOpts{
		Description: flagTransferDesc,
		Category:    flagTransferCategory,
		Tags:        flagTransferTags,
		ExternalRef: flagTransferRef,
		Force:       flagTransferForce,
	})
	if err != nil {
		return err
	}

	from, err := svc.Wallet(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("  Recorded transfer #%d (%s): %s  %s -> %s\n",
		t.Sequence, cli.ShortID(t.ID.String()), cli.FormatMoney(t.Amount, from.Currency), args[0], args[1])
	return nil
}

func runTransfers(_ *cobra.Command, _ []string) error {
	from, err := parseDateFlag(flagListFrom)
	if err != nil {
		return err
	}
	to, err := parseDateFlag(flagListTo)
	if err != nil {
		return err
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	transfers, err := svc.ListTransfersFiltered(ledger.TransferQuery{
		Wallet:   flagListWallet,
		Category: flagListCategory,
		From:     from,
		To:       to,
		Limit:    flagListLimit,
	})
	if err != nil {
		return err
	}
	if len(transfers) == 0 {
		fmt.Println("\n  No transfers match.")
		return nil
	}

	names, err := svc.WalletNames()
	if err != nil {
		return err
	}

	currency := displayCurrency()
	rows := make([][]string, 0, len(transfers))
	for _, t := range transfers {
		desc := t.Description
		if t.IsReversal() && desc == "" {
			desc = "(reversal)"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.Sequence),
			cli.ShortID(t.ID.String()),
			cli.FormatDate(t.Timestamp),
			names[t.FromWallet],
			names[t.ToWallet],
			cli.FormatMoney(t.Amount, currency),
			t.Category,
			desc,
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("TRANSFERS"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Seq", "ID", "Date", "From", "To", "Amount", "Category", "Description"},
		Rows:    rows,
	}))
	return nil
}

func runReverse(_ *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid transfer id %q", args[0])
	}

	var amount *model.Cents
	if flagReverseAmount != "" {
		c, err := model.ParseCents(flagReverseAmount)
		if err != nil {
			return err
		}
		amount = &c
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	result, err := svc.Reverse(id, amount)
	if err != nil {
		return err
	}

	kind := "Reversed"
	if result.IsPartial {
		kind = "Partially reversed"
	}
	fmt.Printf("  %s transfer %s: %s returned as #%d (%s)\n",
		kind,
		cli.ShortID(result.Original.ID.String()),
		cli.FormatMoney(result.Reversal.Amount, displayCurrency()),
		result.Reversal.Sequence,
		cli.ShortID(result.Reversal.ID.String()),
	)
	return nil
}

func runShow(_ *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid transfer id %q", args[0])
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	info, err := svc.TransferDetails(id)
	if err != nil {
		return err
	}
	t := info.Transfer

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TRANSFER  #%d", t.Sequence)))
	fmt.Println()
	fmt.Printf("  ID:        %s\n", t.ID)
	fmt.Printf("  Date:      %s\n", cli.FormatDate(t.Timestamp))
	fmt.Printf("  Recorded:  %s\n", cli.FormatDate(t.RecordedAt))
	fmt.Printf("  From:      %s\n", info.FromWallet.Name)
	fmt.Printf("  To:        %s\n", info.ToWallet.Name)
	fmt.Printf("  Amount:    %s\n", cli.FormatMoney(t.Amount, info.FromWallet.Currency))
	if t.Category != "" {
		fmt.Printf("  Category:  %s\n", t.Category)
	}
	if len(t.Tags) > 0 {
		fmt.Printf("  Tags:      %s\n", strings.Join(t.Tags, ", "))
	}
	if t.Description != "" {
		fmt.Printf("  Note:      %s\n", t.Description)
	}
	if t.ExternalRef != "" {
		fmt.Printf("  Ref:       %s\n", t.ExternalRef)
	}
	if t.Reverses != nil {
		fmt.Printf("  Reverses:  %s\n", *t.Reverses)
	}

	if len(info.Reversals) > 0 {
		currency := info.FromWallet.Currency
		fmt.Printf("\n  Reversed so far: %s of %s\n",
			cli.FormatMoney(info.TotalReversed, currency), cli.FormatMoney(t.Amount, currency))
		for _, r := range info.Reversals {
			fmt.Printf("    #%d  %s  %s\n", r.Sequence, cli.FormatDate(r.Timestamp), cli.FormatMoney(r.Amount, currency))
		}
	}
	return nil
}

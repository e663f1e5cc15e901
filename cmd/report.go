package cmd

import (
	"fmt"
	"time"

	"pecunio/internal/cli"
	"pecunio/internal/ledger"
	"pecunio/internal/model"
	"pecunio/internal/report"

	"github.com/spf13/cobra"
)

var (
	flagReportFrom string
	flagReportTo   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Derived reports over the transfer history",
}

var reportCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Spending by category",
	RunE:  runReportCategories,
}

var reportIncomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Income vs expenses",
	RunE:  runReportIncome,
}

var reportCashflowCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Monthly cash flow",
	RunE:  runReportCashflow,
}

var reportNetworthCmd = &cobra.Command{
	Use:   "networth",
	Short: "Assets vs liabilities",
	RunE:  runReportNetworth,
}

var reportCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the window against the prior one",
	RunE:  runReportCompare,
}

func init() {
	reportCmd.PersistentFlags().StringVar(&flagReportFrom, "from", "", "Window start (YYYY-MM-DD, default: start of month)")
	reportCmd.PersistentFlags().StringVar(&flagReportTo, "to", "", "Window end, exclusive (default: now)")

	reportCmd.AddCommand(
		reportCategoriesCmd, reportIncomeCmd, reportCashflowCmd,
		reportNetworthCmd, reportCompareCmd,
	)
	rootCmd.AddCommand(reportCmd)
}

// reportWindow resolves the [from, to) window, defaulting to the current
// calendar month so far.
func reportWindow() (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := now

	if flagReportFrom != "" {
		t, err := parseDate(flagReportFrom)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if flagReportTo != "" {
		t, err := parseDate(flagReportTo)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("window end must be after start")
	}
	return from, to, nil
}

// reportInputs loads the full transfer and wallet sets the pure report
// functions work over.
func reportInputs(svc *ledger.Service) ([]model.Transfer, []model.Wallet, error) {
	transfers, err := svc.ListTransfers()
	if err != nil {
		return nil, nil, err
	}
	wallets, err := svc.ListWallets(true)
	if err != nil {
		return nil, nil, err
	}
	return transfers, wallets, nil
}

func runReportCategories(_ *cobra.Command, _ []string) error {
	from, to, err := reportWindow()
	if err != nil {
		return err
	}
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	transfers, wallets, err := reportInputs(svc)
	if err != nil {
		return err
	}
	r := report.CategorySpending(transfers, wallets, from, to)

	if len(r.Categories) == 0 {
		fmt.Println("\n  No spending in the window.")
		return nil
	}

	currency := displayCurrency()
	rows := make([][]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		rows = append(rows, []string{
			c.Category,
			cli.FormatMoney(c.Total, currency),
			fmt.Sprintf("%d", c.Count),
			cli.FormatMoney(c.Average, currency),
			cli.FormatPercent(c.Percentage),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(windowTitle("SPENDING BY CATEGORY", from, to)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Total", "Count", "Average", "Share"},
		Rows:    rows,
	}))
	fmt.Printf("\n  Total spend: %s\n", cli.FormatMoney(r.Total, currency))
	return nil
}

func runReportIncome(_ *cobra.Command, _ []string) error {
	from, to, err := reportWindow()
	if err != nil {
		return err
	}
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	transfers, wallets, err := reportInputs(svc)
	if err != nil {
		return err
	}
	r := report.IncomeVsExpense(transfers, wallets, from, to)

	fmt.Println()
	fmt.Println(cli.RenderTitle(windowTitle("INCOME VS EXPENSES", from, to)))
	fmt.Println()
	currency := displayCurrency()
	fmt.Printf("  Income:   %s\n", cli.FormatMoney(r.TotalIncome, currency))
	fmt.Printf("  Expenses: %s\n", cli.FormatMoney(r.TotalExpense, currency))
	if r.Net >= 0 {
		fmt.Printf("  Net:      %s\n", cli.Good(cli.FormatMoney(r.Net, currency)))
	} else {
		fmt.Printf("  Net:      %s\n", cli.Bad(cli.FormatMoney(r.Net, currency)))
	}
	return nil
}

func runReportCashflow(_ *cobra.Command, _ []string) error {
	from, to, err := reportWindow()
	if err != nil {
		return err
	}
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	transfers, wallets, err := reportInputs(svc)
	if err != nil {
		return err
	}
	r := report.CashFlow(transfers, wallets, from, to)

	currency := displayCurrency()
	rows := make([][]string, 0, len(r.Periods))
	for _, p := range r.Periods {
		rows = append(rows, []string{
			p.PeriodStart.Format("2006-01"),
			cli.FormatMoney(p.Inflow, currency),
			cli.FormatMoney(p.Outflow, currency),
			cli.FormatMoney(p.Net, currency),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(windowTitle("CASH FLOW", from, to)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "In", "Out", "Net"},
		Rows:    rows,
	}))
	return nil
}

func runReportNetworth(_ *cobra.Command, _ []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	entries, err := svc.AllBalances()
	if err != nil {
		return err
	}
	r := report.NetWorthFromEntries(entries, time.Now().UTC())

	fmt.Println()
	fmt.Println(cli.RenderTitle("NET WORTH"))
	fmt.Println()
	currency := displayCurrency()
	for _, a := range r.Assets {
		fmt.Printf("  %-24s %s\n", a.WalletName, cli.FormatMoney(a.Balance, currency))
	}
	fmt.Printf("  %-24s %s\n", "Total assets", cli.FormatMoney(r.TotalAssets, currency))
	fmt.Println()
	for _, l := range r.Liabilities {
		fmt.Printf("  %-24s %s owed\n", l.WalletName, cli.FormatMoney(-l.Balance, currency))
	}
	fmt.Printf("  %-24s %s\n", "Total owed", cli.FormatMoney(r.TotalLiabilities, currency))
	fmt.Println()
	if r.NetWorth >= 0 {
		fmt.Printf("  Net worth: %s\n", cli.Good(cli.FormatMoney(r.NetWorth, currency)))
	} else {
		fmt.Printf("  Net worth: %s\n", cli.Bad(cli.FormatMoney(r.NetWorth, currency)))
	}
	return nil
}

func runReportCompare(_ *cobra.Command, _ []string) error {
	from, to, err := reportWindow()
	if err != nil {
		return err
	}
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	transfers, wallets, err := reportInputs(svc)
	if err != nil {
		return err
	}
	cmp := report.ComparePeriods(transfers, wallets, from, to)

	fmt.Println()
	fmt.Println(cli.RenderTitle(windowTitle("PERIOD COMPARISON", from, to)))
	fmt.Println()
	currency := displayCurrency()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"", "Income", "Expenses", "Net"},
		Rows: [][]string{
			{"Current", cli.FormatMoney(cmp.Current.TotalIncome, currency), cli.FormatMoney(cmp.Current.TotalExpense, currency), cli.FormatMoney(cmp.Current.Net, currency)},
			{"Previous", cli.FormatMoney(cmp.Previous.TotalIncome, currency), cli.FormatMoney(cmp.Previous.TotalExpense, currency), cli.FormatMoney(cmp.Previous.Net, currency)},
		},
	}))
	fmt.Printf("\n  Net change: %s (%s)\n",
		cli.FormatMoney(cmp.Change, currency), cli.FormatPercent(cmp.ChangePercentage))
	return nil
}

func windowTitle(name string, from, to time.Time) string {
	return fmt.Sprintf("%s  %s to %s", name, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

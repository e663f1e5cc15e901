package cmd

import (
	"fmt"
	"time"

	"pecunio/internal/cli"
	"pecunio/internal/ledger"
	"pecunio/internal/model"

	"github.com/spf13/cobra"
)

var flagBudgetAsOf string

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage category spending budgets",
}

var budgetCreateCmd = &cobra.Command{
	Use:   "create <name> <category> <period> <limit>",
	Short: "Create a budget (period: weekly, monthly, yearly)",
	Args:  cobra.ExactArgs(4),
	RunE:  runBudgetCreate,
}

var budgetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List budget definitions",
	RunE:  runBudgetList,
}

var budgetStatusCmd = &cobra.Command{
	Use:   "status [name]",
	Short: "Show spend against budgets for the current period",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBudgetStatus,
}

var budgetDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a budget definition",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetDelete,
}

func init() {
	budgetStatusCmd.Flags().StringVar(&flagBudgetAsOf, "as-of", "", "Evaluate the period containing this date (YYYY-MM-DD)")

	budgetCmd.AddCommand(budgetCreateCmd, budgetListCmd, budgetStatusCmd, budgetDeleteCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudgetCreate(_ *cobra.Command, args []string) error {
	period, ok := model.ParsePeriodType(args[2])
	if !ok {
		return fmt.Errorf("unknown period %q (want weekly, monthly or yearly)", args[2])
	}
	limit, err := model.ParseCents(args[3])
	if err != nil {
		return err
	}
	if limit <= 0 {
		return fmt.Errorf("budget limit must be positive")
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	b, err := svc.CreateBudget(args[0], args[1], period, limit)
	if err != nil {
		return err
	}

	fmt.Printf("  Created %s budget %q: %s per period on category %q\n",
		b.Period, b.Name, cli.FormatMoney(b.Limit, displayCurrency()), b.Category)
	return nil
}

func runBudgetList(_ *cobra.Command, _ []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	budgets, err := svc.ListBudgets()
	if err != nil {
		return err
	}
	if len(budgets) == 0 {
		fmt.Println("\n  No budgets yet. Create one with `pecunio budget create`.")
		return nil
	}

	currency := displayCurrency()
	rows := make([][]string, 0, len(budgets))
	for _, b := range budgets {
		rows = append(rows, []string{
			b.Name,
			b.Category,
			string(b.Period),
			cli.FormatMoney(b.Limit, currency),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGETS"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Name", "Category", "Period", "Limit"},
		Rows:    rows,
	}))
	return nil
}

func runBudgetStatus(_ *cobra.Command, args []string) error {
	asOf := time.Now().UTC()
	if flagBudgetAsOf != "" {
		t, err := parseDate(flagBudgetAsOf)
		if err != nil {
			return err
		}
		asOf = t
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	if len(args) == 1 {
		st, err := svc.BudgetStatusAsOf(args[0], asOf)
		if err != nil {
			return err
		}
		printBudgetStatus(st)
		return nil
	}

	statuses, err := svc.AllBudgetStatuses(asOf)
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		fmt.Println("\n  No budgets yet.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGET STATUS"))
	for _, st := range statuses {
		printBudgetStatus(st)
	}
	return nil
}

func printBudgetStatus(st ledger.BudgetStatus) {
	currency := displayCurrency()
	pct := 0.0
	if st.Budget.Limit > 0 {
		pct = float64(st.Spent) / float64(st.Budget.Limit) * 100
	}

	fmt.Println()
	fmt.Printf("  %s  (%s on %q, %s to %s)\n",
		st.Budget.Name,
		st.Budget.Period,
		st.Budget.Category,
		cli.FormatDate(st.PeriodStart),
		cli.FormatDate(st.PeriodEnd.AddDate(0, 0, -1)),
	)
	fmt.Printf("    %s\n", cli.RenderUsageBar(st.Spent, st.Budget.Limit, 30))
	line := fmt.Sprintf("    Spent %s of %s (%s)",
		cli.FormatMoney(st.Spent, currency),
		cli.FormatMoney(st.Budget.Limit, currency),
		cli.FormatPercent(pct),
	)
	if st.Remaining < 0 {
		fmt.Printf("%s  %s\n", line, cli.Bad(fmt.Sprintf("over by %s", cli.FormatMoney(-st.Remaining, currency))))
	} else {
		fmt.Printf("%s  %s remaining\n", line, cli.FormatMoney(st.Remaining, currency))
	}
}

func runBudgetDelete(_ *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	b, err := svc.DeleteBudget(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("  Deleted budget %q. Transfers are untouched.\n", b.Name)
	return nil
}

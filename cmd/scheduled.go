package cmd

import (
	"fmt"
	"time"

	"pecunio/internal/cli"
	"pecunio/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagSchedFrom     string
	flagSchedTo       string
	flagSchedStart    string
	flagSchedEnd      string
	flagSchedDesc     string
	flagSchedCategory string
	flagSchedAll      bool
	flagSchedForce    bool
)

var scheduledCmd = &cobra.Command{
	Use:     "scheduled",
	Aliases: []string{"sched"},
	Short:   "Manage recurring scheduled transfers",
}

var schedCreateCmd = &cobra.Command{
	Use:   "create <name> <amount> <pattern>",
	Short: "Create a schedule (pattern: daily, weekly, monthly, yearly)",
	Args:  cobra.ExactArgs(3),
	RunE:  runSchedCreate,
}

var schedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List schedules",
	RunE:  runSchedList,
}

var schedShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one schedule in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedShow,
}

var schedPauseCmd = &cobra.Command{
	Use:   "pause <name>",
	Short: "Pause a schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedPause,
}

var schedResumeCmd = &cobra.Command{
	Use:   "resume <name>",
	Short: "Resume a paused schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedResume,
}

var schedDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a schedule (materialized transfers stay)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedDelete,
}

var schedExecuteCmd = &cobra.Command{
	Use:   "execute <name>",
	Short: "Execute one schedule's due occurrences now",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedExecute,
}

var schedRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Materialize all due occurrences of all active schedules",
	RunE:  runSchedRun,
}

func init() {
	schedCreateCmd.Flags().StringVar(&flagSchedFrom, "from", "", "Source wallet (required)")
	schedCreateCmd.Flags().StringVar(&flagSchedTo, "to", "", "Destination wallet (required)")
	schedCreateCmd.Flags().StringVar(&flagSchedStart, "start", "", "First occurrence date (YYYY-MM-DD, default today)")
	schedCreateCmd.Flags().StringVar(&flagSchedEnd, "end", "", "Last possible occurrence date")
	schedCreateCmd.Flags().StringVarP(&flagSchedDesc, "description", "m", "", "Description for materialized transfers")
	schedCreateCmd.Flags().StringVarP(&flagSchedCategory, "category", "c", "", "Category for materialized transfers")
	_ = schedCreateCmd.MarkFlagRequired("from")
	_ = schedCreateCmd.MarkFlagRequired("to")

	schedListCmd.Flags().BoolVarP(&flagSchedAll, "all", "a", false, "Include paused and completed schedules")
	schedExecuteCmd.Flags().BoolVarP(&flagSchedForce, "force", "f", false, "Execute the next occurrence even if not due")

	scheduledCmd.AddCommand(
		schedCreateCmd, schedListCmd, schedShowCmd,
		schedPauseCmd, schedResumeCmd, schedDeleteCmd,
		schedExecuteCmd, schedRunCmd,
	)
	rootCmd.AddCommand(scheduledCmd)
}

func runSchedCreate(_ *cobra.Command, args []string) error {
	amount, err := model.ParseCents(args[1])
	if err != nil {
		return err
	}
	pattern, ok := model.ParseRecurrencePattern(args[2])
	if !ok {
		return fmt.Errorf("unknown pattern %q (want daily, weekly, monthly or yearly)", args[2])
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	if flagSchedStart != "" {
		start, err = parseDate(flagSchedStart)
		if err != nil {
			return err
		}
	}
	end, err := parseDateFlag(flagSchedEnd)
	if err != nil {
		return err
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	st, err := svc.CreateScheduled(args[0], flagSchedFrom, flagSchedTo, amount, pattern, start, end, flagSchedDesc, flagSchedCategory)
	if err != nil {
		return err
	}

	from, err := svc.Wallet(flagSchedFrom)
	if err != nil {
		return err
	}
	fmt.Printf("  Created %s schedule %q: %s  %s -> %s, starting %s\n",
		st.Pattern, st.Name, cli.FormatMoney(st.Amount, from.Currency),
		flagSchedFrom, flagSchedTo, cli.FormatDate(st.StartDate))
	return nil
}

func runSchedList(_ *cobra.Command, _ []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	schedules, err := svc.ListScheduled(flagSchedAll)
	if err != nil {
		return err
	}
	if len(schedules) == 0 {
		fmt.Println("\n  No schedules.")
		return nil
	}

	names, err := svc.WalletNames()
	if err != nil {
		return err
	}

	currency := displayCurrency()
	rows := make([][]string, 0, len(schedules))
	for _, st := range schedules {
		next := "-"
		if n := st.NextOccurrence(); n != nil {
			next = cli.FormatDate(*n)
		}
		rows = append(rows, []string{
			st.Name,
			names[st.FromWallet],
			names[st.ToWallet],
			cli.FormatMoney(st.Amount, currency),
			string(st.Pattern),
			next,
			string(st.Status),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SCHEDULED TRANSFERS"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Name", "From", "To", "Amount", "Pattern", "Next", "Status"},
		Rows:    rows,
	}))
	return nil
}

func runSchedShow(_ *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	st, err := svc.Scheduled(args[0])
	if err != nil {
		return err
	}
	names, err := svc.WalletNames()
	if err != nil {
		return err
	}
	from, err := svc.WalletByID(st.FromWallet)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SCHEDULE  %s", st.Name)))
	fmt.Println()
	fmt.Printf("  From:     %s\n", names[st.FromWallet])
	fmt.Printf("  To:       %s\n", names[st.ToWallet])
	fmt.Printf("  Amount:   %s\n", cli.FormatMoney(st.Amount, from.Currency))
	fmt.Printf("  Pattern:  %s\n", st.Pattern)
	fmt.Printf("  Status:   %s\n", st.Status)
	fmt.Printf("  Starts:   %s\n", cli.FormatDate(st.StartDate))
	fmt.Printf("  Ends:     %s\n", cli.FormatDatePtr(st.EndDate))
	fmt.Printf("  Last run: %s\n", cli.FormatDatePtr(st.LastExecutedAt))
	if n := st.NextOccurrence(); n != nil {
		fmt.Printf("  Next:     %s\n", cli.FormatDate(*n))
	}
	if st.Category != "" {
		fmt.Printf("  Category: %s\n", st.Category)
	}
	if st.Description != "" {
		fmt.Printf("  Note:     %s\n", st.Description)
	}
	return nil
}

func runSchedPause(_ *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	st, err := svc.PauseScheduled(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("  Paused schedule %q. Occurrences accrue and run on resume.\n", st.Name)
	return nil
}

func runSchedResume(_ *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	st, err := svc.ResumeScheduled(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("  Resumed schedule %q.\n", st.Name)
	return nil
}

func runSchedDelete(_ *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	st, err := svc.DeleteScheduled(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("  Deleted schedule %q. Materialized transfers stay in the ledger.\n", st.Name)
	return nil
}

func runSchedExecute(_ *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	results, err := svc.ExecuteScheduled(args[0], time.Now().UTC(), flagSchedForce)
	if err != nil {
		return err
	}
	currency := displayCurrency()
	for _, m := range results {
		fmt.Printf("  Executed %q: %s on %s (transfer #%d)\n",
			m.ScheduleName,
			cli.FormatMoney(m.Transfer.Amount, currency),
			cli.FormatDate(m.Transfer.Timestamp),
			m.Transfer.Sequence,
		)
	}
	return nil
}

func runSchedRun(_ *cobra.Command, _ []string) error {
	// openService already ran the scheduler; this just reports state.
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	schedules, err := svc.ListScheduled(false)
	if err != nil {
		return err
	}
	if len(schedules) == 0 {
		fmt.Println("  No active schedules.")
		return nil
	}
	fmt.Printf("  %d active schedule(s) up to date.\n", len(schedules))
	return nil
}

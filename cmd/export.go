package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"pecunio/internal/impexp"

	"github.com/spf13/cobra"
)

var flagExportOutput string

var exportCmd = &cobra.Command{
	Use:       "export <transfers|balances|budgets|scheduled|snapshot>",
	Short:     "Export ledger data as CSV, or the full state as JSON",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"transfers", "balances", "budgets", "scheduled", "snapshot"},
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	var out io.Writer = os.Stdout
	if flagExportOutput != "" {
		f, err := os.Create(flagExportOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	switch args[0] {
	case "transfers":
		err = impexp.ExportTransfersCSV(out, svc)
	case "balances":
		err = impexp.ExportBalancesCSV(out, svc)
	case "budgets":
		err = impexp.ExportBudgetsCSV(out, svc)
	case "scheduled":
		err = impexp.ExportScheduledCSV(out, svc)
	case "snapshot":
		err = impexp.ExportSnapshot(out, svc, time.Now().UTC())
	default:
		err = fmt.Errorf("unknown export %q", args[0])
	}
	if err != nil {
		return err
	}

	if flagExportOutput != "" {
		fmt.Fprintf(os.Stderr, "  Exported %s to %s\n", args[0], flagExportOutput)
	}
	return nil
}

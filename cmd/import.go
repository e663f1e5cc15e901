package cmd

import (
	"fmt"
	"os"

	"pecunio/internal/cli"
	"pecunio/internal/impexp"

	"github.com/spf13/cobra"
)

var (
	flagImportDryRun   bool
	flagImportSkipDups bool
)

var importCmd = &cobra.Command{
	Use:   "import <transfers|snapshot> <file>",
	Short: "Import transfers from CSV, or restore a JSON snapshot",
	Long: "Import replays every record through the normal validation path;\n" +
		"rows that would violate ledger rules are rejected individually.",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"transfers", "snapshot"},
	RunE:      runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "Validate without writing")
	importCmd.Flags().BoolVar(&flagImportSkipDups, "skip-duplicates", false, "Skip rows whose external_ref already exists")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	svc, err := openService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	opts := impexp.ImportOptions{
		DryRun:         flagImportDryRun,
		SkipDuplicates: flagImportSkipDups,
	}

	var result impexp.ImportResult
	switch args[0] {
	case "transfers":
		result, err = impexp.ImportTransfersCSV(f, svc, opts)
	case "snapshot":
		result, err = impexp.ImportSnapshot(f, svc, opts)
	default:
		return fmt.Errorf("unknown import %q", args[0])
	}
	if err != nil {
		return err
	}

	verb := "Imported"
	if flagImportDryRun {
		verb = "Validated"
	}
	fmt.Printf("  %s %d record(s), skipped %d\n", verb, result.Imported, result.Skipped)

	if !result.OK() {
		fmt.Printf("  %s\n", cli.Bad(fmt.Sprintf("%d record(s) rejected:", len(result.Errors))))
		for _, e := range result.Errors {
			fmt.Printf("    %s\n", e)
		}
		return fmt.Errorf("%d record(s) failed to import", len(result.Errors))
	}
	return nil
}

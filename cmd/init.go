package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"pecunio/internal/ledger"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new ledger database",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	path, err := databasePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("ledger already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	svc, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	fmt.Printf("  Ledger created at %s\n", path)
	fmt.Println("  Create wallets with `pecunio wallet create`.")
	return nil
}

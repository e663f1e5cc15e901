// Package impexp handles CSV and JSON export and import of ledger data.
package impexp

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"pecunio/internal/ledger"
	"pecunio/internal/model"
)

// Snapshot is a full JSON export of the ledger.
type Snapshot struct {
	ExportedAt time.Time                 `json:"exported_at"`
	Wallets    []model.Wallet            `json:"wallets"`
	Transfers  []model.Transfer          `json:"transfers"`
	Budgets    []model.Budget            `json:"budgets"`
	Scheduled  []model.ScheduledTransfer `json:"scheduled_transfers"`
}

// ExportSnapshot writes the full ledger state as JSON.
func ExportSnapshot(w io.Writer, svc *ledger.Service, now time.Time) error {
	wallets, err := svc.ListWallets(true)
	if err != nil {
		return fmt.Errorf("listing wallets: %w", err)
	}
	transfers, err := svc.ListTransfers()
	if err != nil {
		return fmt.Errorf("listing transfers: %w", err)
	}
	budgets, err := svc.ListBudgets()
	if err != nil {
		return fmt.Errorf("listing budgets: %w", err)
	}
	scheduled, err := svc.ListScheduled(true)
	if err != nil {
		return fmt.Errorf("listing scheduled transfers: %w", err)
	}

	snap := Snapshot{
		ExportedAt: now.UTC(),
		Wallets:    wallets,
		Transfers:  transfers,
		Budgets:    budgets,
		Scheduled:  scheduled,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

var transferCSVHeader = []string{
	"sequence", "id", "timestamp", "from_wallet", "to_wallet",
	"amount_cents", "description", "category", "tags", "reverses", "external_ref",
}

// ExportTransfersCSV writes all transfers as CSV, oldest first.
func ExportTransfersCSV(w io.Writer, svc *ledger.Service) error {
	transfers, err := svc.ListTransfers()
	if err != nil {
		return fmt.Errorf("listing transfers: %w", err)
	}
	names, err := svc.WalletNames()
	if err != nil {
		return fmt.Errorf("resolving wallet names: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(transferCSVHeader); err != nil {
		return err
	}

	for _, t := range transfers {
		reverses := ""
		if t.Reverses != nil {
			reverses = t.Reverses.String()
		}
		row := []string{
			strconv.FormatInt(t.Sequence, 10),
			t.ID.String(),
			t.Timestamp.UTC().Format(time.RFC3339),
			names[t.FromWallet],
			names[t.ToWallet],
			strconv.FormatInt(t.Amount, 10),
			t.Description,
			t.Category,
			strings.Join(t.Tags, ";"),
			reverses,
			t.ExternalRef,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportBalancesCSV writes current wallet balances as CSV.
func ExportBalancesCSV(w io.Writer, svc *ledger.Service) error {
	entries, err := svc.AllBalances()
	if err != nil {
		return fmt.Errorf("computing balances: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"wallet", "type", "currency", "balance_cents"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.Wallet.Name,
			string(e.Wallet.Type),
			e.Wallet.Currency,
			strconv.FormatInt(e.Balance, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportBudgetsCSV writes budget definitions as CSV.
func ExportBudgetsCSV(w io.Writer, svc *ledger.Service) error {
	budgets, err := svc.ListBudgets()
	if err != nil {
		return fmt.Errorf("listing budgets: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "category", "period", "limit_cents"}); err != nil {
		return err
	}
	for _, b := range budgets {
		row := []string{b.Name, b.Category, string(b.Period), strconv.FormatInt(b.Limit, 10)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportScheduledCSV writes scheduled transfer definitions as CSV.
func ExportScheduledCSV(w io.Writer, svc *ledger.Service) error {
	scheduled, err := svc.ListScheduled(true)
	if err != nil {
		return fmt.Errorf("listing scheduled transfers: %w", err)
	}
	names, err := svc.WalletNames()
	if err != nil {
		return fmt.Errorf("resolving wallet names: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{
		"name", "from_wallet", "to_wallet", "amount_cents", "pattern",
		"start_date", "end_date", "last_executed_at", "status", "category", "description",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, st := range scheduled {
		row := []string{
			st.Name,
			names[st.FromWallet],
			names[st.ToWallet],
			strconv.FormatInt(st.Amount, 10),
			string(st.Pattern),
			st.StartDate.UTC().Format(time.RFC3339),
			fmtOptTime(st.EndDate),
			fmtOptTime(st.LastExecutedAt),
			string(st.Status),
			st.Category,
			st.Description,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtOptTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

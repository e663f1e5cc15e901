package impexp

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"pecunio/internal/ledger"
	"pecunio/internal/model"
)

func newTestService(t *testing.T) *ledger.Service {
	t.Helper()
	svc, err := ledger.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

// seedLedger builds a ledger with wallets, transfers (one reversed), a
// budget, and a schedule with an advanced cursor.
func seedLedger(t *testing.T, svc *ledger.Service) {
	t.Helper()
	for _, w := range []struct {
		name string
		wt   model.WalletType
	}{
		{"checking", model.Asset},
		{"salary", model.Income},
		{"grocer", model.Expense},
	} {
		if _, err := svc.CreateWallet(w.name, w.wt, "EUR", ""); err != nil {
			t.Fatalf("create wallet: %v", err)
		}
	}

	if _, err := svc.RecordTransfer("salary", "checking", 100000, mustDate(t, "2024-01-05"), ledger.TransferOpts{
		Description: "january pay", ExternalRef: "pay-2024-01",
	}); err != nil {
		t.Fatalf("seed transfer: %v", err)
	}
	spent, err := svc.RecordTransfer("checking", "grocer", 4000, mustDate(t, "2024-01-10"), ledger.TransferOpts{
		Category: "food", Tags: []string{"weekly", "market"},
	})
	if err != nil {
		t.Fatalf("seed transfer: %v", err)
	}
	partial := model.Cents(1500)
	if _, err := svc.ReverseAt(spent.ID, &partial, mustDate(t, "2024-01-11")); err != nil {
		t.Fatalf("seed reversal: %v", err)
	}

	if _, err := svc.CreateBudget("food", "food", model.PeriodMonthly, 60000); err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	if _, err := svc.CreateScheduled("monthly-rent", "checking", "grocer", 5000,
		model.RecurMonthly, mustDate(t, "2024-01-01"), nil, "rent", "housing"); err != nil {
		t.Fatalf("seed schedule: %v", err)
	}
	if _, err := svc.ExecuteDue(mustDate(t, "2024-02-02")); err != nil {
		t.Fatalf("seed scheduler run: %v", err)
	}
}

func TestExportTransfersCSV(t *testing.T) {
	svc := newTestService(t)
	seedLedger(t, svc)

	var buf bytes.Buffer
	if err := ExportTransfersCSV(&buf, svc); err != nil {
		t.Fatalf("export: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	// Header + 5 transfers (2 manual, 1 reversal, 2 materialized).
	if len(records) != 6 {
		t.Fatalf("rows = %d, want 6", len(records))
	}
	if records[0][0] != "sequence" || records[0][3] != "from_wallet" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][3] != "salary" || records[1][5] != "100000" {
		t.Fatalf("first row = %v", records[1])
	}
	if records[2][8] != "weekly;market" {
		t.Fatalf("tags cell = %q", records[2][8])
	}
	if records[3][9] == "" {
		t.Fatal("reversal row missing reverses reference")
	}
}

func TestImportTransfersCSV_RoundTrip(t *testing.T) {
	src := newTestService(t)
	seedLedger(t, src)

	var buf bytes.Buffer
	if err := ExportTransfersCSV(&buf, src); err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := newTestService(t)
	for _, w := range []struct {
		name string
		wt   model.WalletType
	}{
		{"checking", model.Asset},
		{"salary", model.Income},
		{"grocer", model.Expense},
	} {
		if _, err := dst.CreateWallet(w.name, w.wt, "EUR", ""); err != nil {
			t.Fatalf("create wallet: %v", err)
		}
	}

	result, err := ImportTransfersCSV(&buf, dst, ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !result.OK() {
		t.Fatalf("import errors: %v", result.Errors)
	}
	if result.Imported != 5 {
		t.Fatalf("imported = %d, want 5", result.Imported)
	}

	// Balances agree between source and restored ledger.
	for _, name := range []string{"checking", "salary", "grocer"} {
		want, err := src.Balance(name)
		if err != nil {
			t.Fatalf("source balance: %v", err)
		}
		got, err := dst.Balance(name)
		if err != nil {
			t.Fatalf("restored balance: %v", err)
		}
		if got.Balance != want.Balance {
			t.Fatalf("%s balance = %d, want %d", name, got.Balance, want.Balance)
		}
	}

	report, err := dst.CheckIntegrity()
	if err != nil {
		t.Fatalf("check integrity: %v", err)
	}
	if !report.IsHealthy() {
		t.Fatalf("restored ledger unhealthy: %v", report.Issues)
	}
}

func TestImportTransfersCSV_DryRun(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.CreateWallet("a", model.Asset, "EUR", ""); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if _, err := svc.CreateWallet("b", model.Expense, "EUR", ""); err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	input := strings.Join([]string{
		"timestamp,from_wallet,to_wallet,amount_cents",
		"2024-01-01T00:00:00Z,a,b,100",
		"2024-01-02T00:00:00Z,a,ghost,200",
		"2024-01-03T00:00:00Z,a,b,-50",
	}, "\n")

	result, err := ImportTransfersCSV(strings.NewReader(input), svc, ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("validated = %d, want 1", result.Imported)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("errors = %d, want 2", len(result.Errors))
	}

	// Nothing was written.
	transfers, err := svc.ListTransfers()
	if err != nil {
		t.Fatalf("list transfers: %v", err)
	}
	if len(transfers) != 0 {
		t.Fatalf("dry run wrote %d transfers", len(transfers))
	}
}

func TestImportTransfersCSV_DuplicateRefs(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.CreateWallet("a", model.Income, "EUR", ""); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if _, err := svc.CreateWallet("b", model.Asset, "EUR", ""); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if _, err := svc.RecordTransfer("a", "b", 100, time.Now().UTC(), ledger.TransferOpts{ExternalRef: "ref-1"}); err != nil {
		t.Fatalf("seed transfer: %v", err)
	}

	input := strings.Join([]string{
		"timestamp,from_wallet,to_wallet,amount_cents,external_ref",
		"2024-01-01T00:00:00Z,a,b,100,ref-1",
		"2024-01-02T00:00:00Z,a,b,200,ref-2",
		"2024-01-03T00:00:00Z,a,b,300,ref-2",
	}, "\n")

	// Without SkipDuplicates the duplicate rows are errors.
	result, err := ImportTransfersCSV(strings.NewReader(input), svc, ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 1 || len(result.Errors) != 2 {
		t.Fatalf("imported %d / %d errors, want 1 / 2", result.Imported, len(result.Errors))
	}

	// With SkipDuplicates they are counted as skipped.
	svc2 := newTestService(t)
	if _, err := svc2.CreateWallet("a", model.Income, "EUR", ""); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	if _, err := svc2.CreateWallet("b", model.Asset, "EUR", ""); err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	result, err = ImportTransfersCSV(strings.NewReader(input), svc2, ImportOptions{SkipDuplicates: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !result.OK() {
		t.Fatalf("errors: %v", result.Errors)
	}
	if result.Imported != 2 || result.Skipped != 1 {
		t.Fatalf("imported %d / skipped %d, want 2 / 1", result.Imported, result.Skipped)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := newTestService(t)
	seedLedger(t, src)

	var buf bytes.Buffer
	if err := ExportSnapshot(&buf, src, mustDate(t, "2024-03-01")); err != nil {
		t.Fatalf("export snapshot: %v", err)
	}

	dst := newTestService(t)
	result, err := ImportSnapshot(&buf, dst, ImportOptions{})
	if err != nil {
		t.Fatalf("import snapshot: %v", err)
	}
	if !result.OK() {
		t.Fatalf("errors: %v", result.Errors)
	}

	// Balances match wallet for wallet.
	srcBalances, err := src.AllBalances()
	if err != nil {
		t.Fatalf("source balances: %v", err)
	}
	for _, e := range srcBalances {
		got, err := dst.Balance(e.Wallet.Name)
		if err != nil {
			t.Fatalf("restored balance %q: %v", e.Wallet.Name, err)
		}
		if got.Balance != e.Balance {
			t.Fatalf("%s balance = %d, want %d", e.Wallet.Name, got.Balance, e.Balance)
		}
	}

	// Reversal back-links were rebuilt.
	transfers, err := dst.ListTransfers()
	if err != nil {
		t.Fatalf("list transfers: %v", err)
	}
	var reversals int
	for _, tr := range transfers {
		if tr.IsReversal() {
			reversals++
			info, err := dst.TransferDetails(*tr.Reverses)
			if err != nil {
				t.Fatalf("reversal points at missing transfer: %v", err)
			}
			if info.TotalReversed != tr.Amount {
				t.Fatalf("total reversed = %d, want %d", info.TotalReversed, tr.Amount)
			}
		}
	}
	if reversals != 1 {
		t.Fatalf("reversals = %d, want 1", reversals)
	}

	// Budget and schedule definitions came across, cursor included.
	if _, err := dst.Budget("food"); err != nil {
		t.Fatalf("restored budget: %v", err)
	}
	st, err := dst.Scheduled("monthly-rent")
	if err != nil {
		t.Fatalf("restored schedule: %v", err)
	}
	if st.LastExecutedAt == nil || !st.LastExecutedAt.Equal(mustDate(t, "2024-02-01")) {
		t.Fatalf("schedule cursor = %v, want 2024-02-01", st.LastExecutedAt)
	}

	// The restored ledger is internally consistent and does not re-run
	// already-materialized occurrences.
	report, err := dst.CheckIntegrity()
	if err != nil {
		t.Fatalf("check integrity: %v", err)
	}
	if !report.IsHealthy() {
		t.Fatalf("restored ledger unhealthy: %v", report.Issues)
	}
	run, err := dst.ExecuteDue(mustDate(t, "2024-02-02"))
	if err != nil {
		t.Fatalf("execute due: %v", err)
	}
	if len(run.Materialized) != 0 {
		t.Fatalf("restored scheduler re-materialized %d transfers", len(run.Materialized))
	}
}

func TestImportSnapshot_DryRunCatchesBadReferences(t *testing.T) {
	snapshot := `{
		"exported_at": "2024-03-01T00:00:00Z",
		"wallets": [],
		"transfers": [
			{"id": "11111111-1111-1111-1111-111111111111",
			 "sequence": 1,
			 "from_wallet": "22222222-2222-2222-2222-222222222222",
			 "to_wallet": "33333333-3333-3333-3333-333333333333",
			 "amount_cents": 100,
			 "timestamp": "2024-01-01T00:00:00Z",
			 "recorded_at": "2024-01-01T00:00:00Z"}
		],
		"budgets": [],
		"scheduled_transfers": []
	}`

	svc := newTestService(t)
	result, err := ImportSnapshot(strings.NewReader(snapshot), svc, ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if result.OK() {
		t.Fatal("dangling wallet reference passed validation")
	}
}

func TestExportBalancesCSV(t *testing.T) {
	svc := newTestService(t)
	seedLedger(t, svc)

	var buf bytes.Buffer
	if err := ExportBalancesCSV(&buf, svc); err != nil {
		t.Fatalf("export: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 4 { // header + 3 wallets
		t.Fatalf("rows = %d, want 4", len(records))
	}

	var total int64
	for _, rec := range records[1:] {
		cents, err := strconv.ParseInt(rec[3], 10, 64)
		if err != nil {
			t.Fatalf("bad balance cell %q: %v", rec[3], err)
		}
		total += cents
	}
	if total != 0 {
		t.Fatalf("exported balances sum to %d, want 0", total)
	}
}

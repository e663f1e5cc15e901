// Package store provides SQLite-backed persistence for the ledger.
// It is the only component that writes rows; balances are never stored,
// only derived via SQL aggregation over the transfer set.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"pecunio/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store wraps the SQLite database. Single-writer access is assumed;
// concurrent processes opening the same file are not supported.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ------------------------
// Wallets
// ------------------------

const walletCols = "id, name, wallet_type, currency, allow_negative, description, created_at, archived_at"

// SaveWallet inserts a new wallet row.
func (s *Store) SaveWallet(w model.Wallet) error {
	_, err := s.db.Exec(`INSERT INTO wallets (`+walletCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID.String(), w.Name, string(w.Type), w.Currency, boolInt(w.AllowNegative),
		nullStr(w.Description), fmtTime(w.CreatedAt), fmtTimePtr(w.ArchivedAt),
	)
	if err != nil {
		return fmt.Errorf("saving wallet: %w", err)
	}
	return nil
}

// WalletByID fetches a wallet by id. Returns (nil, nil) when absent.
func (s *Store) WalletByID(id uuid.UUID) (*model.Wallet, error) {
	row := s.db.QueryRow("SELECT "+walletCols+" FROM wallets WHERE id = ?", id.String())
	return scanWalletRow(row)
}

// WalletByName fetches a wallet by its unique name. Returns (nil, nil) when absent.
func (s *Store) WalletByName(name string) (*model.Wallet, error) {
	row := s.db.QueryRow("SELECT "+walletCols+" FROM wallets WHERE name = ?", name)
	return scanWalletRow(row)
}

// ListWallets returns wallets ordered by name, optionally including archived.
func (s *Store) ListWallets(includeArchived bool) ([]model.Wallet, error) {
	query := "SELECT " + walletCols + " FROM wallets WHERE archived_at IS NULL ORDER BY name"
	if includeArchived {
		query = "SELECT " + walletCols + " FROM wallets ORDER BY name"
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing wallets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var wallets []model.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// ArchiveWallet sets the wallet's archive timestamp (soft delete).
func (s *Store) ArchiveWallet(id uuid.UUID, at time.Time) error {
	_, err := s.db.Exec("UPDATE wallets SET archived_at = ? WHERE id = ?",
		fmtTime(at), id.String())
	if err != nil {
		return fmt.Errorf("archiving wallet: %w", err)
	}
	return nil
}

// ------------------------
// Transfers
// ------------------------

const transferCols = "id, sequence, from_wallet_id, to_wallet_id, amount_cents, timestamp, recorded_at, description, category, tags, reverses, external_ref"

// SaveTransfer assigns the next sequence number and inserts the transfer in
// a single transaction. If the insert fails the counter increment is rolled
// back too, so no sequence number is ever burned on a failed write.
func (s *Store) SaveTransfer(t *model.Transfer) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var seq int64
	err = tx.QueryRow(`UPDATE sequence_counter SET value = value + 1
		WHERE name = 'transfer_sequence' RETURNING value`).Scan(&seq)
	if err != nil {
		return fmt.Errorf("assigning sequence: %w", err)
	}
	t.Sequence = seq

	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return err
	}

	var reverses any
	if t.Reverses != nil {
		reverses = t.Reverses.String()
	}

	_, err = tx.Exec(`INSERT INTO transfers (`+transferCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.Sequence, t.FromWallet.String(), t.ToWallet.String(), t.Amount,
		fmtTime(t.Timestamp), fmtTime(t.RecordedAt), nullStr(t.Description),
		nullStr(t.Category), string(tagsJSON), reverses, nullStr(t.ExternalRef),
	)
	if err != nil {
		return fmt.Errorf("saving transfer: %w", err)
	}

	return tx.Commit()
}

// TransferByID fetches a transfer by id. Returns (nil, nil) when absent.
func (s *Store) TransferByID(id uuid.UUID) (*model.Transfer, error) {
	row := s.db.QueryRow("SELECT "+transferCols+" FROM transfers WHERE id = ?", id.String())
	t, err := scanTransfer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTransfers returns all transfers ordered by sequence.
func (s *Store) ListTransfers() ([]model.Transfer, error) {
	return s.queryTransfers("SELECT " + transferCols + " FROM transfers ORDER BY sequence")
}

// ListTransfersForWallet returns transfers touching the wallet as either endpoint.
func (s *Store) ListTransfersForWallet(walletID uuid.UUID) ([]model.Transfer, error) {
	id := walletID.String()
	return s.queryTransfers("SELECT "+transferCols+` FROM transfers
		WHERE from_wallet_id = ? OR to_wallet_id = ? ORDER BY sequence`, id, id)
}

// TransferFilter narrows a transfer listing. Zero values mean "no filter".
type TransferFilter struct {
	WalletID *uuid.UUID
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
}

// ListTransfersFiltered returns transfers matching the filter, newest first.
func (s *Store) ListTransfersFiltered(f TransferFilter) ([]model.Transfer, error) {
	query := "SELECT " + transferCols + " FROM transfers WHERE 1=1"
	var args []any

	if f.WalletID != nil {
		query += " AND (from_wallet_id = ? OR to_wallet_id = ?)"
		args = append(args, f.WalletID.String(), f.WalletID.String())
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}
	if f.From != nil {
		query += " AND timestamp >= ?"
		args = append(args, fmtTime(*f.From))
	}
	if f.To != nil {
		query += " AND timestamp < ?"
		args = append(args, fmtTime(*f.To))
	}
	query += " ORDER BY sequence DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	return s.queryTransfers(query, args...)
}

// ReversalsFor returns all transfers that reverse the given transfer.
func (s *Store) ReversalsFor(id uuid.UUID) ([]model.Transfer, error) {
	return s.queryTransfers("SELECT "+transferCols+` FROM transfers
		WHERE reverses = ? ORDER BY sequence`, id.String())
}

// TotalReversed sums the amounts of all reversals against a transfer.
func (s *Store) TotalReversed(id uuid.UUID) (model.Cents, error) {
	var total model.Cents
	err := s.db.QueryRow(`SELECT COALESCE(SUM(amount_cents), 0)
		FROM transfers WHERE reverses = ?`, id.String()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing reversals: %w", err)
	}
	return total, nil
}

func (s *Store) queryTransfers(query string, args ...any) ([]model.Transfer, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transfers []model.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

// ------------------------
// Balances (derived, SQL-side)
// ------------------------

// Balance computes a wallet's balance: incoming minus outgoing amounts.
func (s *Store) Balance(walletID uuid.UUID) (model.Cents, error) {
	return s.BalanceAsOf(walletID, nil)
}

// BalanceAsOf computes a wallet's balance counting only transfers with
// transaction timestamp at or before the cutoff. Nil means no cutoff.
func (s *Store) BalanceAsOf(walletID uuid.UUID, cutoff *time.Time) (model.Cents, error) {
	id := walletID.String()
	query := `SELECT
		COALESCE(SUM(CASE WHEN to_wallet_id = ? THEN amount_cents ELSE 0 END), 0) -
		COALESCE(SUM(CASE WHEN from_wallet_id = ? THEN amount_cents ELSE 0 END), 0)
		FROM transfers WHERE (from_wallet_id = ? OR to_wallet_id = ?)`
	args := []any{id, id, id, id}
	if cutoff != nil {
		query += " AND timestamp <= ?"
		args = append(args, fmtTime(*cutoff))
	}

	var balance model.Cents
	if err := s.db.QueryRow(query, args...).Scan(&balance); err != nil {
		return 0, fmt.Errorf("computing balance: %w", err)
	}
	return balance, nil
}

// AllBalances computes every wallet's balance in one pass over the transfers.
func (s *Store) AllBalances() (map[uuid.UUID]model.Cents, error) {
	rows, err := s.db.Query("SELECT from_wallet_id, to_wallet_id, amount_cents FROM transfers")
	if err != nil {
		return nil, fmt.Errorf("computing balances: %w", err)
	}
	defer func() { _ = rows.Close() }()

	balances := make(map[uuid.UUID]model.Cents)
	for rows.Next() {
		var fromStr, toStr string
		var amount model.Cents
		if err := rows.Scan(&fromStr, &toStr, &amount); err != nil {
			return nil, err
		}
		from, err := uuid.Parse(fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from_wallet_id: %w", err)
		}
		to, err := uuid.Parse(toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to_wallet_id: %w", err)
		}
		balances[from] -= amount
		balances[to] += amount
	}
	return balances, rows.Err()
}

// WalletActivity returns incoming/outgoing transfer counts and the most
// recent transaction timestamp for a wallet.
func (s *Store) WalletActivity(walletID uuid.UUID) (incoming, outgoing int64, last *time.Time, err error) {
	id := walletID.String()
	err = s.db.QueryRow(`SELECT
		COALESCE(SUM(CASE WHEN to_wallet_id = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN from_wallet_id = ? THEN 1 ELSE 0 END), 0),
		MAX(timestamp)
		FROM transfers WHERE from_wallet_id = ? OR to_wallet_id = ?`,
		id, id, id, id).Scan(&incoming, &outgoing, &nullTimeScanner{&last})
	if err != nil {
		return 0, 0, nil, fmt.Errorf("querying wallet activity: %w", err)
	}
	return incoming, outgoing, last, nil
}

// SumCategorySpend sums transfers in [start, end) with the given category
// whose destination wallet is expense-type. That is the spend convention:
// money flowing out to an expense wallet counts against the budget.
func (s *Store) SumCategorySpend(category string, start, end time.Time) (model.Cents, error) {
	var total model.Cents
	err := s.db.QueryRow(`SELECT COALESCE(SUM(t.amount_cents), 0)
		FROM transfers t
		JOIN wallets w ON w.id = t.to_wallet_id
		WHERE t.category = ? AND w.wallet_type = 'expense'
		  AND t.timestamp >= ? AND t.timestamp < ?`,
		category, fmtTime(start), fmtTime(end)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing category spend: %w", err)
	}
	return total, nil
}

// ------------------------
// Budgets
// ------------------------

const budgetCols = "id, name, category, period_type, amount_cents, created_at"

// SaveBudget inserts a new budget row.
func (s *Store) SaveBudget(b model.Budget) error {
	_, err := s.db.Exec(`INSERT INTO budgets (`+budgetCols+`) VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID.String(), b.Name, b.Category, string(b.Period), b.Limit, fmtTime(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("saving budget: %w", err)
	}
	return nil
}

// BudgetByName fetches a budget by its unique name. Returns (nil, nil) when absent.
func (s *Store) BudgetByName(name string) (*model.Budget, error) {
	row := s.db.QueryRow("SELECT "+budgetCols+" FROM budgets WHERE name = ?", name)
	b, err := scanBudget(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBudgets returns all budgets ordered by name.
func (s *Store) ListBudgets() ([]model.Budget, error) {
	rows, err := s.db.Query("SELECT " + budgetCols + " FROM budgets ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// DeleteBudget removes a budget by name.
func (s *Store) DeleteBudget(name string) error {
	_, err := s.db.Exec("DELETE FROM budgets WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}
	return nil
}

// ------------------------
// Scheduled transfers
// ------------------------

const scheduledCols = "id, name, from_wallet_id, to_wallet_id, amount_cents, pattern, start_date, end_date, last_executed_at, description, category, status, created_at"

// SaveScheduled inserts a new scheduled transfer row.
func (s *Store) SaveScheduled(st model.ScheduledTransfer) error {
	_, err := s.db.Exec(`INSERT INTO scheduled_transfers (`+scheduledCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID.String(), st.Name, st.FromWallet.String(), st.ToWallet.String(), st.Amount,
		string(st.Pattern), fmtTime(st.StartDate), fmtTimePtr(st.EndDate),
		fmtTimePtr(st.LastExecutedAt), nullStr(st.Description), nullStr(st.Category),
		string(st.Status), fmtTime(st.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving scheduled transfer: %w", err)
	}
	return nil
}

// ScheduledByName fetches a scheduled transfer by its unique name.
// Returns (nil, nil) when absent.
func (s *Store) ScheduledByName(name string) (*model.ScheduledTransfer, error) {
	row := s.db.QueryRow("SELECT "+scheduledCols+" FROM scheduled_transfers WHERE name = ?", name)
	st, err := scanScheduled(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ListScheduled returns scheduled transfers ordered by name. When
// includeInactive is false only active schedules are returned.
func (s *Store) ListScheduled(includeInactive bool) ([]model.ScheduledTransfer, error) {
	query := "SELECT " + scheduledCols + " FROM scheduled_transfers WHERE status = 'active' ORDER BY name"
	if includeInactive {
		query = "SELECT " + scheduledCols + " FROM scheduled_transfers ORDER BY name"
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing scheduled transfers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scheduled []model.ScheduledTransfer
	for rows.Next() {
		st, err := scanScheduled(rows)
		if err != nil {
			return nil, err
		}
		scheduled = append(scheduled, st)
	}
	return scheduled, rows.Err()
}

// UpdateScheduledStatus sets a schedule's status.
func (s *Store) UpdateScheduledStatus(id uuid.UUID, status model.ScheduleStatus) error {
	_, err := s.db.Exec("UPDATE scheduled_transfers SET status = ? WHERE id = ?",
		string(status), id.String())
	if err != nil {
		return fmt.Errorf("updating schedule status: %w", err)
	}
	return nil
}

// UpdateLastExecuted advances a schedule's execution cursor.
func (s *Store) UpdateLastExecuted(id uuid.UUID, at time.Time) error {
	_, err := s.db.Exec("UPDATE scheduled_transfers SET last_executed_at = ? WHERE id = ?",
		fmtTime(at), id.String())
	if err != nil {
		return fmt.Errorf("updating last executed: %w", err)
	}
	return nil
}

// DeleteScheduled removes a scheduled transfer definition.
func (s *Store) DeleteScheduled(id uuid.UUID) error {
	_, err := s.db.Exec("DELETE FROM scheduled_transfers WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("deleting scheduled transfer: %w", err)
	}
	return nil
}

// ------------------------
// Integrity
// ------------------------

// IntegrityStats holds raw counters for the integrity check.
type IntegrityStats struct {
	WalletCount       int64
	TransferCount     int64
	SequenceGaps      bool
	DuplicateSeqs     int64
	InvalidWalletRefs int64
	InvalidAmounts    int64
}

// CollectIntegrityStats scans for structural problems in the stored ledger.
func (s *Store) CollectIntegrityStats() (IntegrityStats, error) {
	var st IntegrityStats

	if err := s.db.QueryRow("SELECT COUNT(*) FROM wallets").Scan(&st.WalletCount); err != nil {
		return st, err
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM transfers").Scan(&st.TransferCount); err != nil {
		return st, err
	}

	// Gap check: with N transfers, max(sequence) - min(sequence) must be N-1.
	if st.TransferCount > 0 {
		var minSeq, maxSeq int64
		if err := s.db.QueryRow("SELECT MIN(sequence), MAX(sequence) FROM transfers").Scan(&minSeq, &maxSeq); err != nil {
			return st, err
		}
		st.SequenceGaps = maxSeq-minSeq != st.TransferCount-1
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM
		(SELECT sequence FROM transfers GROUP BY sequence HAVING COUNT(*) > 1)`).Scan(&st.DuplicateSeqs); err != nil {
		return st, err
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM transfers t
		WHERE NOT EXISTS (SELECT 1 FROM wallets w WHERE w.id = t.from_wallet_id)
		   OR NOT EXISTS (SELECT 1 FROM wallets w WHERE w.id = t.to_wallet_id)`).Scan(&st.InvalidWalletRefs); err != nil {
		return st, err
	}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM transfers WHERE amount_cents <= 0").Scan(&st.InvalidAmounts); err != nil {
		return st, err
	}

	return st, nil
}

// ------------------------
// Scan helpers
// ------------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWalletRow(row *sql.Row) (*model.Wallet, error) {
	w, err := scanWallet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func scanWallet(r rowScanner) (model.Wallet, error) {
	var w model.Wallet
	var idStr, typeStr, createdStr string
	var allowNegative int
	var description, archivedStr sql.NullString

	err := r.Scan(&idStr, &w.Name, &typeStr, &w.Currency, &allowNegative,
		&description, &createdStr, &archivedStr)
	if err != nil {
		return w, err
	}

	w.ID, err = uuid.Parse(idStr)
	if err != nil {
		return w, fmt.Errorf("invalid wallet id: %w", err)
	}
	wt, ok := model.ParseWalletType(typeStr)
	if !ok {
		return w, fmt.Errorf("invalid wallet type: %q", typeStr)
	}
	w.Type = wt
	w.AllowNegative = allowNegative != 0
	w.Description = description.String
	if w.CreatedAt, err = parseTime(createdStr); err != nil {
		return w, err
	}
	if archivedStr.Valid {
		at, err := parseTime(archivedStr.String)
		if err != nil {
			return w, err
		}
		w.ArchivedAt = &at
	}
	return w, nil
}

func scanTransfer(r rowScanner) (model.Transfer, error) {
	var t model.Transfer
	var idStr, fromStr, toStr, tsStr, recordedStr, tagsJSON string
	var description, category, reversesStr, externalRef sql.NullString

	err := r.Scan(&idStr, &t.Sequence, &fromStr, &toStr, &t.Amount, &tsStr,
		&recordedStr, &description, &category, &tagsJSON, &reversesStr, &externalRef)
	if err != nil {
		return t, err
	}

	if t.ID, err = uuid.Parse(idStr); err != nil {
		return t, fmt.Errorf("invalid transfer id: %w", err)
	}
	if t.FromWallet, err = uuid.Parse(fromStr); err != nil {
		return t, fmt.Errorf("invalid from_wallet_id: %w", err)
	}
	if t.ToWallet, err = uuid.Parse(toStr); err != nil {
		return t, fmt.Errorf("invalid to_wallet_id: %w", err)
	}
	if t.Timestamp, err = parseTime(tsStr); err != nil {
		return t, err
	}
	if t.RecordedAt, err = parseTime(recordedStr); err != nil {
		return t, err
	}
	t.Description = description.String
	t.Category = category.String
	t.ExternalRef = externalRef.String
	if err := json.Unmarshal([]byte(tagsJSON), &t.Tags); err != nil {
		t.Tags = nil
	}
	if reversesStr.Valid {
		rev, err := uuid.Parse(reversesStr.String)
		if err != nil {
			return t, fmt.Errorf("invalid reverses id: %w", err)
		}
		t.Reverses = &rev
	}
	return t, nil
}

func scanBudget(r rowScanner) (model.Budget, error) {
	var b model.Budget
	var idStr, periodStr, createdStr string

	err := r.Scan(&idStr, &b.Name, &b.Category, &periodStr, &b.Limit, &createdStr)
	if err != nil {
		return b, err
	}

	if b.ID, err = uuid.Parse(idStr); err != nil {
		return b, fmt.Errorf("invalid budget id: %w", err)
	}
	pt, ok := model.ParsePeriodType(periodStr)
	if !ok {
		return b, fmt.Errorf("invalid period type: %q", periodStr)
	}
	b.Period = pt
	if b.CreatedAt, err = parseTime(createdStr); err != nil {
		return b, err
	}
	return b, nil
}

func scanScheduled(r rowScanner) (model.ScheduledTransfer, error) {
	var st model.ScheduledTransfer
	var idStr, fromStr, toStr, patternStr, startStr, statusStr, createdStr string
	var endStr, lastStr, description, category sql.NullString

	err := r.Scan(&idStr, &st.Name, &fromStr, &toStr, &st.Amount, &patternStr,
		&startStr, &endStr, &lastStr, &description, &category, &statusStr, &createdStr)
	if err != nil {
		return st, err
	}

	if st.ID, err = uuid.Parse(idStr); err != nil {
		return st, fmt.Errorf("invalid schedule id: %w", err)
	}
	if st.FromWallet, err = uuid.Parse(fromStr); err != nil {
		return st, fmt.Errorf("invalid from_wallet_id: %w", err)
	}
	if st.ToWallet, err = uuid.Parse(toStr); err != nil {
		return st, fmt.Errorf("invalid to_wallet_id: %w", err)
	}
	pattern, ok := model.ParseRecurrencePattern(patternStr)
	if !ok {
		return st, fmt.Errorf("invalid recurrence pattern: %q", patternStr)
	}
	st.Pattern = pattern
	status, ok := model.ParseScheduleStatus(statusStr)
	if !ok {
		return st, fmt.Errorf("invalid schedule status: %q", statusStr)
	}
	st.Status = status
	if st.StartDate, err = parseTime(startStr); err != nil {
		return st, err
	}
	if endStr.Valid {
		end, err := parseTime(endStr.String)
		if err != nil {
			return st, err
		}
		st.EndDate = &end
	}
	if lastStr.Valid {
		last, err := parseTime(lastStr.String)
		if err != nil {
			return st, err
		}
		st.LastExecutedAt = &last
	}
	st.Description = description.String
	st.Category = category.String
	if st.CreatedAt, err = parseTime(createdStr); err != nil {
		return st, err
	}
	return st, nil
}

// ------------------------
// Value helpers
// ------------------------

// timeLayout is fixed-width so the stored strings order lexicographically
// exactly as the times do; SQL range predicates compare them as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type nullTimeScanner struct {
	dst **time.Time
}

func (n *nullTimeScanner) Scan(v any) error {
	if v == nil {
		*n.dst = nil
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("unexpected timestamp type %T", v)
	}
	t, err := parseTime(s)
	if err != nil {
		return err
	}
	*n.dst = &t
	return nil
}

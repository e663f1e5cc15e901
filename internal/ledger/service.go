package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"pecunio/internal/model"
	"pecunio/internal/store"
)

// Service provides the high-level ledger operations. Every client (CLI,
// import/export) goes through it so invariants are enforced uniformly.
type Service struct {
	store *store.Store
}

// NewService wraps a store.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Open opens (or creates) the ledger database at path and returns a service.
func Open(path string) (*Service, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	return NewService(st), nil
}

// Close closes the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}

// ------------------------
// Wallets
// ------------------------

// CreateWallet creates a new wallet with a unique name.
func (s *Service) CreateWallet(name string, wt model.WalletType, currency, description string) (model.Wallet, error) {
	if !wt.Valid() {
		return model.Wallet{}, fmt.Errorf("%w: %q", ErrInvalidWalletType, wt)
	}
	existing, err := s.store.WalletByName(name)
	if err != nil {
		return model.Wallet{}, err
	}
	if existing != nil {
		return model.Wallet{}, fmt.Errorf("%w: wallet %q", ErrDuplicateName, name)
	}

	w := model.NewWallet(name, wt, currency)
	w.Description = description
	if err := s.store.SaveWallet(w); err != nil {
		return model.Wallet{}, err
	}
	return w, nil
}

// Wallet fetches a wallet by name.
func (s *Service) Wallet(name string) (model.Wallet, error) {
	w, err := s.store.WalletByName(name)
	if err != nil {
		return model.Wallet{}, err
	}
	if w == nil {
		return model.Wallet{}, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	return *w, nil
}

// WalletByID fetches a wallet by id.
func (s *Service) WalletByID(id uuid.UUID) (model.Wallet, error) {
	w, err := s.store.WalletByID(id)
	if err != nil {
		return model.Wallet{}, err
	}
	if w == nil {
		return model.Wallet{}, fmt.Errorf("%w: %s", ErrWalletNotFound, id)
	}
	return *w, nil
}

// ListWallets lists wallets, optionally including archived ones.
func (s *Service) ListWallets(includeArchived bool) ([]model.Wallet, error) {
	return s.store.ListWallets(includeArchived)
}

// ArchiveWallet soft-deletes a wallet. Archived wallets accept no new
// transfers but stay resolvable for historical balance queries.
func (s *Service) ArchiveWallet(name string) (model.Wallet, error) {
	w, err := s.Wallet(name)
	if err != nil {
		return model.Wallet{}, err
	}
	at := time.Now().UTC()
	if err := s.store.ArchiveWallet(w.ID, at); err != nil {
		return model.Wallet{}, err
	}
	w.ArchivedAt = &at
	return w, nil
}

// WalletInfo is a wallet with derived activity details.
type WalletInfo struct {
	Wallet        model.Wallet
	Balance       model.Cents
	IncomingCount int64
	OutgoingCount int64
	LastActivity  *time.Time
}

// WalletDetails returns a wallet plus its derived balance and activity.
func (s *Service) WalletDetails(name string) (WalletInfo, error) {
	w, err := s.Wallet(name)
	if err != nil {
		return WalletInfo{}, err
	}
	balance, err := s.store.Balance(w.ID)
	if err != nil {
		return WalletInfo{}, err
	}
	in, out, last, err := s.store.WalletActivity(w.ID)
	if err != nil {
		return WalletInfo{}, err
	}
	return WalletInfo{Wallet: w, Balance: balance, IncomingCount: in, OutgoingCount: out, LastActivity: last}, nil
}

// BalanceEntry pairs a wallet with its derived balance.
type BalanceEntry struct {
	Wallet  model.Wallet
	Balance model.Cents
}

// Balance resolves a single wallet's balance from the transfer set.
func (s *Service) Balance(name string) (BalanceEntry, error) {
	w, err := s.Wallet(name)
	if err != nil {
		return BalanceEntry{}, err
	}
	balance, err := s.store.Balance(w.ID)
	if err != nil {
		return BalanceEntry{}, err
	}
	return BalanceEntry{Wallet: w, Balance: balance}, nil
}

// BalanceAsOf resolves a wallet's balance counting only transfers dated at
// or before the cutoff.
func (s *Service) BalanceAsOf(name string, cutoff time.Time) (BalanceEntry, error) {
	w, err := s.Wallet(name)
	if err != nil {
		return BalanceEntry{}, err
	}
	balance, err := s.store.BalanceAsOf(w.ID, &cutoff)
	if err != nil {
		return BalanceEntry{}, err
	}
	return BalanceEntry{Wallet: w, Balance: balance}, nil
}

// AllBalances resolves every active wallet's balance.
func (s *Service) AllBalances() ([]BalanceEntry, error) {
	wallets, err := s.store.ListWallets(false)
	if err != nil {
		return nil, err
	}
	balances, err := s.store.AllBalances()
	if err != nil {
		return nil, err
	}

	entries := make([]BalanceEntry, 0, len(wallets))
	for _, w := range wallets {
		entries = append(entries, BalanceEntry{Wallet: w, Balance: balances[w.ID]})
	}
	return entries, nil
}

// ------------------------
// Transfers
// ------------------------

// TransferOpts carries the optional fields of a new transfer.
type TransferOpts struct {
	Description string
	Category    string
	Tags        []string
	ExternalRef string
	// Force bypasses the negative-balance check on the debit wallet.
	Force bool
}

// RecordTransfer validates and appends a new transfer to the ledger.
// The timestamp may be in the past; the sequence number assigned at insert
// is the canonical order regardless.
func (s *Service) RecordTransfer(fromName, toName string, amount model.Cents, timestamp time.Time, opts TransferOpts) (model.Transfer, error) {
	if amount <= 0 {
		return model.Transfer{}, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}

	from, err := s.Wallet(fromName)
	if err != nil {
		return model.Transfer{}, err
	}
	to, err := s.Wallet(toName)
	if err != nil {
		return model.Transfer{}, err
	}

	if from.ID == to.ID {
		return model.Transfer{}, fmt.Errorf("%w: %q", ErrSameWallet, fromName)
	}
	if from.IsArchived() {
		return model.Transfer{}, fmt.Errorf("%w: %q", ErrWalletArchived, fromName)
	}
	if to.IsArchived() {
		return model.Transfer{}, fmt.Errorf("%w: %q", ErrWalletArchived, toName)
	}
	if from.Currency != to.Currency {
		return model.Transfer{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, from.Currency, to.Currency)
	}

	// Negative-balance policy is evaluated at the debit wallet's
	// post-transfer balance.
	if !from.AllowNegative && !opts.Force {
		balance, err := s.store.Balance(from.ID)
		if err != nil {
			return model.Transfer{}, err
		}
		if balance-amount < 0 {
			return model.Transfer{}, insufficientFunds(fromName, balance, amount)
		}
	}

	t := model.NewTransfer(from.ID, to.ID, amount, timestamp)
	t.Description = opts.Description
	t.Category = opts.Category
	t.Tags = opts.Tags
	t.ExternalRef = opts.ExternalRef

	if err := s.store.SaveTransfer(&t); err != nil {
		return model.Transfer{}, err
	}
	return t, nil
}

// Transfer fetches a transfer by id.
func (s *Service) Transfer(id uuid.UUID) (model.Transfer, error) {
	t, err := s.store.TransferByID(id)
	if err != nil {
		return model.Transfer{}, err
	}
	if t == nil {
		return model.Transfer{}, fmt.Errorf("%w: %s", ErrTransferNotFound, id)
	}
	return *t, nil
}

// ListTransfers returns all transfers in sequence order.
func (s *Service) ListTransfers() ([]model.Transfer, error) {
	return s.store.ListTransfers()
}

// TransferQuery narrows ListTransfersFiltered. Zero values mean no filter.
type TransferQuery struct {
	Wallet   string
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
}

// ListTransfersFiltered returns transfers matching the query, newest first.
func (s *Service) ListTransfersFiltered(q TransferQuery) ([]model.Transfer, error) {
	filter := store.TransferFilter{
		Category: q.Category,
		From:     q.From,
		To:       q.To,
		Limit:    q.Limit,
	}
	if q.Wallet != "" {
		w, err := s.Wallet(q.Wallet)
		if err != nil {
			return nil, err
		}
		filter.WalletID = &w.ID
	}
	return s.store.ListTransfersFiltered(filter)
}

// TransferInfo is a transfer with its endpoints and reversal state.
type TransferInfo struct {
	Transfer      model.Transfer
	FromWallet    model.Wallet
	ToWallet      model.Wallet
	TotalReversed model.Cents
	Reversals     []model.Transfer
}

// TransferDetails returns a transfer plus endpoint wallets and the derived
// "total reversed so far" view.
func (s *Service) TransferDetails(id uuid.UUID) (TransferInfo, error) {
	t, err := s.Transfer(id)
	if err != nil {
		return TransferInfo{}, err
	}
	from, err := s.WalletByID(t.FromWallet)
	if err != nil {
		return TransferInfo{}, err
	}
	to, err := s.WalletByID(t.ToWallet)
	if err != nil {
		return TransferInfo{}, err
	}
	reversed, err := s.store.TotalReversed(id)
	if err != nil {
		return TransferInfo{}, err
	}
	reversals, err := s.store.ReversalsFor(id)
	if err != nil {
		return TransferInfo{}, err
	}
	return TransferInfo{Transfer: t, FromWallet: from, ToWallet: to, TotalReversed: reversed, Reversals: reversals}, nil
}

// ReversalResult describes a recorded reversal.
type ReversalResult struct {
	Reversal  model.Transfer
	Original  model.Transfer
	IsPartial bool
}

// Reverse records a compensating transfer against the original: endpoints
// swapped and linked via the Reverses back-reference. amount == nil means a
// full reversal. Multiple partial reversals are allowed as long as the
// cumulative reversed amount never exceeds the original; a reversal may
// itself be reversed.
func (s *Service) Reverse(id uuid.UUID, amount *model.Cents) (ReversalResult, error) {
	return s.ReverseAt(id, amount, time.Now().UTC())
}

// ReverseAt is Reverse with an explicit timestamp for the compensating
// transfer. Snapshot restore uses it to keep original reversal timestamps.
func (s *Service) ReverseAt(id uuid.UUID, amount *model.Cents, timestamp time.Time) (ReversalResult, error) {
	original, err := s.Transfer(id)
	if err != nil {
		return ReversalResult{}, err
	}

	reversalAmount := original.Amount
	if amount != nil {
		reversalAmount = *amount
	}
	if reversalAmount <= 0 {
		return ReversalResult{}, fmt.Errorf("%w: got %d", ErrInvalidAmount, reversalAmount)
	}

	alreadyReversed, err := s.store.TotalReversed(id)
	if err != nil {
		return ReversalResult{}, err
	}
	remaining := original.Amount - alreadyReversed
	if remaining == 0 {
		return ReversalResult{}, fmt.Errorf("%w: transfer %s", ErrAlreadyFullyReversed, id)
	}
	if reversalAmount > remaining {
		return ReversalResult{}, fmt.Errorf("%w: requested %s, %s of %s still reversible",
			ErrReversalExceedsOriginal,
			model.FormatCents(reversalAmount),
			model.FormatCents(remaining),
			model.FormatCents(original.Amount))
	}

	reversal := original.Reversal(reversalAmount, timestamp)
	if err := s.store.SaveTransfer(&reversal); err != nil {
		return ReversalResult{}, err
	}

	return ReversalResult{
		Reversal:  reversal,
		Original:  original,
		IsPartial: reversalAmount != original.Amount,
	}, nil
}

// ------------------------
// Integrity
// ------------------------

// CheckIntegrity verifies the closed-system invariant (all balances sum to
// exactly zero) and the structural health of the store. Any deviation is
// reported as corruption, never silently corrected.
func (s *Service) CheckIntegrity() (IntegrityReport, error) {
	stats, err := s.store.CollectIntegrityStats()
	if err != nil {
		return IntegrityReport{}, err
	}
	wallets, err := s.store.ListWallets(true)
	if err != nil {
		return IntegrityReport{}, err
	}
	balances, err := s.store.AllBalances()
	if err != nil {
		return IntegrityReport{}, err
	}

	report := IntegrityReport{
		WalletCount:   stats.WalletCount,
		TransferCount: stats.TransferCount,
		BalanceByType: make(map[model.WalletType]model.Cents),
	}
	for _, w := range wallets {
		report.BalanceByType[w.Type] += balances[w.ID]
	}
	for _, b := range balances {
		report.TotalBalance += b
	}

	if stats.SequenceGaps {
		report.Issues = append(report.Issues, "sequence numbers have gaps")
	}
	if stats.DuplicateSeqs > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("%d duplicate sequence numbers", stats.DuplicateSeqs))
	}
	if stats.InvalidWalletRefs > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("%d transfers reference missing wallets", stats.InvalidWalletRefs))
	}
	if stats.InvalidAmounts > 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("%d transfers have non-positive amounts", stats.InvalidAmounts))
	}
	if report.TotalBalance != 0 {
		report.Issues = append(report.Issues, fmt.Sprintf("ledger is unbalanced by %s", model.FormatCents(report.TotalBalance)))
	}

	return report, nil
}

// WalletNames returns an id -> name map for display.
func (s *Service) WalletNames() (map[uuid.UUID]string, error) {
	wallets, err := s.store.ListWallets(true)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(wallets))
	for _, w := range wallets {
		names[w.ID] = w.Name
	}
	return names, nil
}

// ------------------------
// Budgets
// ------------------------

// CreateBudget creates a category-scoped spending limit.
func (s *Service) CreateBudget(name, category string, period model.PeriodType, limit model.Cents) (model.Budget, error) {
	if limit <= 0 {
		return model.Budget{}, fmt.Errorf("%w: got %d", ErrInvalidAmount, limit)
	}
	existing, err := s.store.BudgetByName(name)
	if err != nil {
		return model.Budget{}, err
	}
	if existing != nil {
		return model.Budget{}, fmt.Errorf("%w: budget %q", ErrDuplicateName, name)
	}

	b := model.NewBudget(name, category, period, limit)
	if err := s.store.SaveBudget(b); err != nil {
		return model.Budget{}, err
	}
	return b, nil
}

// Budget fetches a budget by name.
func (s *Service) Budget(name string) (model.Budget, error) {
	b, err := s.store.BudgetByName(name)
	if err != nil {
		return model.Budget{}, err
	}
	if b == nil {
		return model.Budget{}, fmt.Errorf("%w: %q", ErrBudgetNotFound, name)
	}
	return *b, nil
}

// ListBudgets lists all budgets.
func (s *Service) ListBudgets() ([]model.Budget, error) {
	return s.store.ListBudgets()
}

// DeleteBudget removes a budget. The transfer history is untouched.
func (s *Service) DeleteBudget(name string) (model.Budget, error) {
	b, err := s.Budget(name)
	if err != nil {
		return model.Budget{}, err
	}
	if err := s.store.DeleteBudget(name); err != nil {
		return model.Budget{}, err
	}
	return b, nil
}

// BudgetStatus is the computed spend position of a budget for one period.
// Remaining may be negative: that signals overspend, not an error.
type BudgetStatus struct {
	Budget      model.Budget
	Spent       model.Cents
	Remaining   model.Cents
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// BudgetStatusAsOf computes spend against the budget's limit for the period
// containing asOf. Spend counts transfers with the budget's category whose
// destination wallet is expense-type.
func (s *Service) BudgetStatusAsOf(name string, asOf time.Time) (BudgetStatus, error) {
	b, err := s.Budget(name)
	if err != nil {
		return BudgetStatus{}, err
	}
	return s.statusFor(b, asOf)
}

// AllBudgetStatuses computes the status of every budget at asOf.
func (s *Service) AllBudgetStatuses(asOf time.Time) ([]BudgetStatus, error) {
	budgets, err := s.store.ListBudgets()
	if err != nil {
		return nil, err
	}
	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		st, err := s.statusFor(b, asOf)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func (s *Service) statusFor(b model.Budget, asOf time.Time) (BudgetStatus, error) {
	start, end := b.Period.Window(asOf)
	spent, err := s.store.SumCategorySpend(b.Category, start, end)
	if err != nil {
		return BudgetStatus{}, err
	}
	return BudgetStatus{
		Budget:      b,
		Spent:       spent,
		Remaining:   b.Limit - spent,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil
}

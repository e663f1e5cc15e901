package ledger

import (
	"errors"
	"fmt"

	"pecunio/internal/model"
)

// Validation errors. These report bad input, leave no state behind, and are
// matched with errors.Is.
var (
	ErrWalletNotFound          = errors.New("wallet not found")
	ErrDuplicateName           = errors.New("name already exists")
	ErrInvalidWalletType       = errors.New("invalid wallet type")
	ErrSameWallet              = errors.New("source and destination wallet are the same")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrWalletArchived          = errors.New("wallet is archived")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrCurrencyMismatch        = errors.New("currency mismatch between wallets")
	ErrTransferNotFound        = errors.New("transfer not found")
	ErrReversalExceedsOriginal = errors.New("reversal exceeds original amount")
	ErrAlreadyFullyReversed    = errors.New("transfer already fully reversed")
	ErrBudgetNotFound          = errors.New("budget not found")
	ErrScheduleNotFound        = errors.New("scheduled transfer not found")
	ErrScheduleCompleted       = errors.New("scheduled transfer has completed")
	ErrScheduleNotDue          = errors.New("scheduled transfer is not due")
)

// IntegrityError signals ledger corruption: the zero-sum invariant is broken,
// sequences have gaps or duplicates, or rows reference missing wallets.
// It is never auto-repaired; auto-repair could hide real data loss.
type IntegrityError struct {
	Issues []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("ledger integrity violated: %d issue(s)", len(e.Issues))
}

// insufficientFunds wraps ErrInsufficientFunds with the balance detail.
func insufficientFunds(wallet string, balance, required model.Cents) error {
	return fmt.Errorf("%w: wallet %q has %s, transfer needs %s",
		ErrInsufficientFunds, wallet, model.FormatCents(balance), model.FormatCents(required))
}

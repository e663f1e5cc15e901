// Package ledger implements the derived-state engine: transfers are the only
// source of truth, and balances, budget status, forecasts, and integrity are
// all computed from the transfer set on demand.
package ledger

import (
	"github.com/google/uuid"

	"pecunio/internal/model"
)

// ComputeBalance folds a wallet's balance out of a transfer slice:
// +amount where the wallet is the destination, -amount where it is the source.
func ComputeBalance(walletID uuid.UUID, transfers []model.Transfer) model.Cents {
	var balance model.Cents
	for _, t := range transfers {
		if t.ToWallet == walletID {
			balance += t.Amount
		} else if t.FromWallet == walletID {
			balance -= t.Amount
		}
	}
	return balance
}

// ComputeAllBalances computes every wallet's balance in a single pass.
func ComputeAllBalances(transfers []model.Transfer) map[uuid.UUID]model.Cents {
	balances := make(map[uuid.UUID]model.Cents)
	for _, t := range transfers {
		balances[t.FromWallet] -= t.Amount
		balances[t.ToWallet] += t.Amount
	}
	return balances
}

// TotalReversed sums the amounts of all transfers that reverse originalID.
func TotalReversed(originalID uuid.UUID, transfers []model.Transfer) model.Cents {
	var total model.Cents
	for _, t := range transfers {
		if t.Reverses != nil && *t.Reverses == originalID {
			total += t.Amount
		}
	}
	return total
}

// IntegrityReport is the result of checking the closed-system invariant and
// the structural health of the stored ledger.
type IntegrityReport struct {
	WalletCount   int64
	TransferCount int64
	BalanceByType map[model.WalletType]model.Cents
	TotalBalance  model.Cents
	Issues        []string
}

// IsHealthy reports whether the ledger balances to zero with no issues.
func (r IntegrityReport) IsHealthy() bool {
	return len(r.Issues) == 0
}

// Err returns an IntegrityError when the report has issues, nil otherwise.
func (r IntegrityReport) Err() error {
	if r.IsHealthy() {
		return nil
	}
	return &IntegrityError{Issues: r.Issues}
}

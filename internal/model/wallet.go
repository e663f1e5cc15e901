package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WalletType classifies a wallet for reporting and balance rules.
type WalletType string

const (
	// Asset covers bank accounts, cash, investments.
	Asset WalletType = "asset"
	// Liability covers credit cards and loans.
	Liability WalletType = "liability"
	// Income covers external money sources (employers, interest).
	Income WalletType = "income"
	// Expense covers external money destinations (merchants, bills).
	Expense WalletType = "expense"
	// Equity covers opening balances and adjustments.
	Equity WalletType = "equity"
)

// ParseWalletType parses a wallet type string, case-insensitively.
func ParseWalletType(s string) (WalletType, bool) {
	wt := WalletType(strings.ToLower(s))
	switch wt {
	case Asset, Liability, Income, Expense, Equity:
		return wt, true
	}
	return "", false
}

// Valid reports whether wt is one of the known wallet types.
func (wt WalletType) Valid() bool {
	switch wt {
	case Asset, Liability, Income, Expense, Equity:
		return true
	}
	return false
}

// IsExternal reports whether the type represents money entering or leaving
// the tracked system rather than something the user owns or owes.
func (wt WalletType) IsExternal() bool {
	return wt == Income || wt == Expense || wt == Equity
}

// Wallet is a named account. Balances are never stored on the wallet;
// they are always derived from the transfer set.
type Wallet struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Type          WalletType `json:"type"`
	Currency      string     `json:"currency"`
	AllowNegative bool       `json:"allow_negative"`
	Description   string     `json:"description,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ArchivedAt    *time.Time `json:"archived_at,omitempty"`
}

// NewWallet creates a wallet. Only asset wallets disallow negative balances
// by default; liabilities and external wallets routinely go negative.
func NewWallet(name string, wt WalletType, currency string) Wallet {
	return Wallet{
		ID:            uuid.New(),
		Name:          name,
		Type:          wt,
		Currency:      currency,
		AllowNegative: wt != Asset,
		CreatedAt:     time.Now().UTC(),
	}
}

// IsArchived reports whether the wallet has been soft-deleted.
func (w Wallet) IsArchived() bool {
	return w.ArchivedAt != nil
}

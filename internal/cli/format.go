// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"time"

	"github.com/Rhymond/go-money"

	"pecunio/internal/model"
)

// FormatMoney renders cents with the currency's own symbol and separators.
// e.g., 123456 EUR -> "€1,234.56". Unknown currency codes fall back to a
// plain decimal with the code appended.
func FormatMoney(cents model.Cents, currency string) string {
	if money.GetCurrency(currency) == nil {
		return model.FormatCents(cents) + " " + currency
	}
	return money.New(cents, currency).Display()
}

// FormatCents renders cents as a plain decimal, no currency.
func FormatCents(cents model.Cents) string {
	return model.FormatCents(cents)
}

// FormatSignedMoney is FormatMoney with an explicit plus sign for positives.
func FormatSignedMoney(cents model.Cents, currency string) string {
	if cents > 0 {
		return "+" + FormatMoney(cents, currency)
	}
	return FormatMoney(cents, currency)
}

// FormatDate renders a timestamp as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDatePtr renders an optional timestamp, "-" when nil.
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return FormatDate(*t)
}

// FormatPercent formats a 0-100 float as a percentage string.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// ShortID renders the first 8 hex chars of a UUID string for compact tables.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Package model defines the domain types for the ledger: wallets, transfers,
// budgets, and scheduled transfers. Amounts are integer minor-currency units
// (cents) to avoid floating-point drift.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Cents is a money amount in minor currency units. 5000 = 50.00 EUR/USD.
type Cents = int64

// FormatCents renders cents as a plain decimal string: 5000 -> "50.00".
func FormatCents(c Cents) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// ParseCents parses a decimal money string into cents.
// "50" -> 5000, "12.5" -> 1250, "100.999" -> 10099 (extra digits truncated).
func ParseCents(input string) (Cents, error) {
	s := strings.TrimSpace(input)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid money format: %q", input)
	}
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return 0, fmt.Errorf("invalid money format: %q", input)
	}

	var units int64
	if whole != "" {
		var err error
		units, err = strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid money format: %q", input)
		}
	}

	var cents int64
	if frac != "" {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		c, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid money format: %q", input)
		}
		if len(frac) == 1 {
			c *= 10
		}
		cents = c
	}

	cents += units * 100
	if negative {
		cents = -cents
	}
	return cents, nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

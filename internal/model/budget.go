package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PeriodType is the rolling window a budget applies to.
type PeriodType string

const (
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
	PeriodYearly  PeriodType = "yearly"
)

// ParsePeriodType parses a period type string, case-insensitively.
func ParsePeriodType(s string) (PeriodType, bool) {
	pt := PeriodType(strings.ToLower(s))
	switch pt {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return pt, true
	}
	return "", false
}

// Window returns the half-open period [start, end) containing asOf.
// Weeks start on Monday, months on the 1st, years on January 1st.
func (pt PeriodType) Window(asOf time.Time) (start, end time.Time) {
	asOf = asOf.UTC()
	switch pt {
	case PeriodWeekly:
		daysSinceMonday := (int(asOf.Weekday()) + 6) % 7
		start = time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, -daysSinceMonday)
		return start, start.AddDate(0, 0, 7)
	case PeriodYearly:
		start = time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	default: // Monthly
		start = time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
}

// Budget is a category-scoped spending limit for a rolling period.
// Spend against it is always computed from the transfer set, never stored.
type Budget struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Period    PeriodType `json:"period"`
	Limit     Cents      `json:"limit_cents"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewBudget creates a budget with a generated ID.
func NewBudget(name, category string, period PeriodType, limit Cents) Budget {
	return Budget{
		ID:        uuid.New(),
		Name:      name,
		Category:  category,
		Period:    period,
		Limit:     limit,
		CreatedAt: time.Now().UTC(),
	}
}

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecurrencePattern is how often a scheduled transfer repeats.
type RecurrencePattern string

const (
	RecurDaily   RecurrencePattern = "daily"
	RecurWeekly  RecurrencePattern = "weekly"
	RecurMonthly RecurrencePattern = "monthly"
	RecurYearly  RecurrencePattern = "yearly"
)

// ParseRecurrencePattern parses a pattern string, case-insensitively.
func ParseRecurrencePattern(s string) (RecurrencePattern, bool) {
	p := RecurrencePattern(strings.ToLower(s))
	switch p {
	case RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
		return p, true
	}
	return "", false
}

// Next returns the occurrence one period after t. Monthly steps clamp to the
// last day of the target month (Jan 31 -> Feb 29/28); yearly steps map
// Feb 29 to Feb 28 in non-leap years. Time of day is preserved.
func (p RecurrencePattern) Next(t time.Time) time.Time {
	switch p {
	case RecurDaily:
		return t.AddDate(0, 0, 1)
	case RecurWeekly:
		return t.AddDate(0, 0, 7)
	case RecurYearly:
		return addClamped(t, t.Year()+1, t.Month())
	default: // monthly
		y, m := t.Year(), t.Month()+1
		if m > time.December {
			y, m = y+1, time.January
		}
		return addClamped(t, y, m)
	}
}

// addClamped keeps t's day-of-month if it exists in (year, month),
// otherwise uses the last day of that month.
func addClamped(t time.Time, year int, month time.Month) time.Time {
	day := t.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ScheduleStatus is the lifecycle state of a scheduled transfer.
// Valid transitions: active<->paused, active->completed. Completed is terminal.
type ScheduleStatus string

const (
	ScheduleActive    ScheduleStatus = "active"
	SchedulePaused    ScheduleStatus = "paused"
	ScheduleCompleted ScheduleStatus = "completed"
)

// ParseScheduleStatus parses a status string, case-insensitively.
func ParseScheduleStatus(s string) (ScheduleStatus, bool) {
	st := ScheduleStatus(strings.ToLower(s))
	switch st {
	case ScheduleActive, SchedulePaused, ScheduleCompleted:
		return st, true
	}
	return "", false
}

// ScheduledTransfer is a recurring transfer definition. The scheduler
// materializes due occurrences into real transfers and advances
// LastExecutedAt; the definition itself never moves money.
type ScheduledTransfer struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	FromWallet     uuid.UUID         `json:"from_wallet"`
	ToWallet       uuid.UUID         `json:"to_wallet"`
	Amount         Cents             `json:"amount_cents"`
	Pattern        RecurrencePattern `json:"pattern"`
	StartDate      time.Time         `json:"start_date"`
	EndDate        *time.Time        `json:"end_date,omitempty"`
	LastExecutedAt *time.Time        `json:"last_executed_at,omitempty"`
	Description    string            `json:"description,omitempty"`
	Category       string            `json:"category,omitempty"`
	Status         ScheduleStatus    `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
}

// NewScheduledTransfer creates an active schedule starting at startDate.
func NewScheduledTransfer(name string, from, to uuid.UUID, amount Cents, pattern RecurrencePattern, startDate time.Time) ScheduledTransfer {
	return ScheduledTransfer{
		ID:         uuid.New(),
		Name:       name,
		FromWallet: from,
		ToWallet:   to,
		Amount:     amount,
		Pattern:    pattern,
		StartDate:  startDate,
		Status:     ScheduleActive,
		CreatedAt:  time.Now().UTC(),
	}
}

// NextOccurrence returns the next date to materialize (which may already be
// due), or nil when the schedule is inactive or the next date falls past
// EndDate.
func (st ScheduledTransfer) NextOccurrence() *time.Time {
	if st.Status != ScheduleActive {
		return nil
	}
	var next time.Time
	if st.LastExecutedAt == nil {
		next = st.StartDate
	} else {
		next = st.Pattern.Next(*st.LastExecutedAt)
	}
	if st.EndDate != nil && next.After(*st.EndDate) {
		return nil
	}
	return &next
}

// PendingOccurrences lists every execution date due at or before now,
// oldest first. The start date itself is the first occurrence for a schedule
// that has never executed. Dates past EndDate are never included.
func (st ScheduledTransfer) PendingOccurrences(now time.Time) []time.Time {
	if st.Status != ScheduleActive {
		return nil
	}

	var due []time.Time
	cursor := st.StartDate
	if st.LastExecutedAt != nil {
		cursor = *st.LastExecutedAt
	} else {
		if st.StartDate.After(now) {
			return nil
		}
		if st.EndDate != nil && st.StartDate.After(*st.EndDate) {
			return nil
		}
		due = append(due, st.StartDate)
	}

	for {
		next := st.Pattern.Next(cursor)
		if next.After(now) {
			break
		}
		if st.EndDate != nil && next.After(*st.EndDate) {
			break
		}
		due = append(due, next)
		cursor = next
	}
	return due
}

// IsDue reports whether at least one occurrence is due at now.
func (st ScheduledTransfer) IsDue(now time.Time) bool {
	return len(st.PendingOccurrences(now)) > 0
}

// Exhausted reports whether the next candidate occurrence would fall past
// EndDate, meaning the schedule has nothing left to materialize. For a
// schedule that has never executed, the first candidate is StartDate itself;
// afterwards it is one period past the cursor.
func (st ScheduledTransfer) Exhausted(cursor time.Time, everExecuted bool) bool {
	if st.EndDate == nil {
		return false
	}
	if !everExecuted {
		return st.StartDate.After(*st.EndDate)
	}
	return st.Pattern.Next(cursor).After(*st.EndDate)
}

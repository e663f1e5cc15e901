package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestRecurrenceNext_MonthEndClamp(t *testing.T) {
	cases := []struct {
		pattern RecurrencePattern
		from    string
		want    string
	}{
		{RecurMonthly, "2024-01-31", "2024-02-29"}, // leap year
		{RecurMonthly, "2023-01-31", "2023-02-28"},
		{RecurMonthly, "2024-02-29", "2024-03-29"}, // day kept where it exists
		{RecurMonthly, "2024-03-31", "2024-04-30"},
		{RecurMonthly, "2024-12-15", "2025-01-15"},
		{RecurYearly, "2024-02-29", "2025-02-28"},
		{RecurYearly, "2024-06-01", "2025-06-01"},
		{RecurDaily, "2024-02-28", "2024-02-29"},
		{RecurWeekly, "2024-01-01", "2024-01-08"},
	}
	for _, c := range cases {
		got := c.pattern.Next(mustDate(t, c.from))
		if want := mustDate(t, c.want); !got.Equal(want) {
			t.Fatalf("%s.Next(%s) = %s, want %s", c.pattern, c.from,
				got.Format("2006-01-02"), c.want)
		}
	}
}

func TestRecurrenceNext_PreservesTimeOfDay(t *testing.T) {
	from := time.Date(2024, time.January, 31, 9, 30, 0, 0, time.UTC)
	got := RecurMonthly.Next(from)
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Fatalf("time of day lost: got %s", got)
	}
}

func newTestSchedule(t *testing.T, start string) ScheduledTransfer {
	t.Helper()
	return NewScheduledTransfer("rent", uuid.New(), uuid.New(), 5000,
		RecurMonthly, mustDate(t, start))
}

func TestPendingOccurrences_StartDateIsFirst(t *testing.T) {
	st := newTestSchedule(t, "2024-01-01")

	due := st.PendingOccurrences(mustDate(t, "2024-03-02"))
	if len(due) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(due))
	}
	for i, want := range []string{"2024-01-01", "2024-02-01", "2024-03-01"} {
		if !due[i].Equal(mustDate(t, want)) {
			t.Fatalf("occurrence %d = %s, want %s", i, due[i].Format("2006-01-02"), want)
		}
	}
}

func TestPendingOccurrences_FutureStart(t *testing.T) {
	st := newTestSchedule(t, "2024-06-01")
	if due := st.PendingOccurrences(mustDate(t, "2024-03-01")); due != nil {
		t.Fatalf("future start produced %d occurrences", len(due))
	}
	if st.IsDue(mustDate(t, "2024-03-01")) {
		t.Fatal("future start reported due")
	}
}

func TestPendingOccurrences_ResumesFromCursor(t *testing.T) {
	st := newTestSchedule(t, "2024-01-01")
	last := mustDate(t, "2024-02-01")
	st.LastExecutedAt = &last

	due := st.PendingOccurrences(mustDate(t, "2024-04-15"))
	if len(due) != 2 {
		t.Fatalf("got %d occurrences, want 2", len(due))
	}
	if !due[0].Equal(mustDate(t, "2024-03-01")) || !due[1].Equal(mustDate(t, "2024-04-01")) {
		t.Fatalf("wrong occurrences: %v", due)
	}
}

func TestPendingOccurrences_RespectsEndDate(t *testing.T) {
	st := newTestSchedule(t, "2024-01-01")
	end := mustDate(t, "2024-02-15")
	st.EndDate = &end

	due := st.PendingOccurrences(mustDate(t, "2024-12-01"))
	if len(due) != 2 {
		t.Fatalf("got %d occurrences, want 2 (Jan and Feb)", len(due))
	}
}

func TestPendingOccurrences_InactiveStatus(t *testing.T) {
	st := newTestSchedule(t, "2024-01-01")
	st.Status = SchedulePaused
	if due := st.PendingOccurrences(mustDate(t, "2024-06-01")); due != nil {
		t.Fatalf("paused schedule produced %d occurrences", len(due))
	}
}

func TestNextOccurrence(t *testing.T) {
	st := newTestSchedule(t, "2024-05-01")

	// Never executed: StartDate, even when it is already past.
	next := st.NextOccurrence()
	if next == nil || !next.Equal(mustDate(t, "2024-05-01")) {
		t.Fatalf("NextOccurrence = %v, want start date", next)
	}

	last := mustDate(t, "2024-05-01")
	st.LastExecutedAt = &last
	next = st.NextOccurrence()
	if next == nil || !next.Equal(mustDate(t, "2024-06-01")) {
		t.Fatalf("NextOccurrence after cursor = %v, want 2024-06-01", next)
	}

	end := mustDate(t, "2024-05-15")
	st.EndDate = &end
	if next = st.NextOccurrence(); next != nil {
		t.Fatalf("NextOccurrence past end date = %v, want nil", next)
	}
}

func TestExhausted(t *testing.T) {
	st := newTestSchedule(t, "2024-01-01")
	if st.Exhausted(mustDate(t, "2099-01-01"), true) {
		t.Fatal("no end date should never exhaust")
	}

	end := mustDate(t, "2024-03-15")
	st.EndDate = &end
	if st.Exhausted(mustDate(t, "2024-02-01"), true) {
		t.Fatal("exhausted before end date")
	}
	if !st.Exhausted(mustDate(t, "2024-03-01"), true) {
		t.Fatal("not exhausted when next occurrence falls past end date")
	}

	// Never executed: start date past end date.
	st.StartDate = mustDate(t, "2024-04-01")
	if !st.Exhausted(time.Time{}, false) {
		t.Fatal("start past end date should exhaust immediately")
	}
}

func TestParseScheduleStatus(t *testing.T) {
	if st, ok := ParseScheduleStatus("Active"); !ok || st != ScheduleActive {
		t.Fatalf("ParseScheduleStatus(Active) = %q, %v", st, ok)
	}
	if _, ok := ParseScheduleStatus("done"); ok {
		t.Fatal("ParseScheduleStatus accepted invalid status")
	}
}

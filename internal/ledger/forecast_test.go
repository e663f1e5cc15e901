package ledger

import (
	"testing"

	"pecunio/internal/model"
)

func TestForecast_ProjectsScheduledOccurrences(t *testing.T) {
	svc := newTestService(t)
	seedScheduled(t, svc)
	now := mustDate(t, "2024-01-15")

	// Catch up first so the projection starts from a settled state.
	if _, err := svc.ExecuteDue(now); err != nil {
		t.Fatalf("execute due: %v", err)
	}

	result, err := svc.Forecast(now, 3)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}

	if !result.EndDate.Equal(mustDate(t, "2024-04-15")) {
		t.Fatalf("end date = %s, want 2024-04-15", result.EndDate.Format("2006-01-02"))
	}
	if len(result.Snapshots) == 0 {
		t.Fatal("no snapshots")
	}
	if !result.Snapshots[0].Date.Equal(now) {
		t.Fatalf("first snapshot at %s, want now", result.Snapshots[0].Date)
	}

	// Feb, Mar, Apr occurrences of the rent schedule.
	var events int
	var last map[string]model.Cents
	for _, snap := range result.Snapshots {
		if snap.Event != nil {
			events++
			if snap.Event.ScheduleName != "monthly-rent" {
				t.Fatalf("unexpected event %q", snap.Event.ScheduleName)
			}
		}
		last = snap.Balances
	}
	if events != 3 {
		t.Fatalf("projected %d occurrences, want 3", events)
	}

	// Started at 95000 after the Jan occurrence; three more take 15000.
	if last["checking"] != 80000 {
		t.Fatalf("projected checking = %d, want 80000", last["checking"])
	}
}

func TestForecast_DoesNotPersist(t *testing.T) {
	svc := newTestService(t)
	seedScheduled(t, svc)
	now := mustDate(t, "2024-01-15")

	if _, err := svc.ExecuteDue(now); err != nil {
		t.Fatalf("execute due: %v", err)
	}
	before, err := svc.ListTransfers()
	if err != nil {
		t.Fatalf("list transfers: %v", err)
	}

	if _, err := svc.Forecast(now, 6); err != nil {
		t.Fatalf("forecast: %v", err)
	}

	after, err := svc.ListTransfers()
	if err != nil {
		t.Fatalf("list transfers: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("forecast persisted transfers: %d -> %d", len(before), len(after))
	}

	st, err := svc.Scheduled("monthly-rent")
	if err != nil {
		t.Fatalf("fetch schedule: %v", err)
	}
	if st.LastExecutedAt == nil || !st.LastExecutedAt.Equal(mustDate(t, "2024-01-01")) {
		t.Fatalf("forecast moved the cursor: %v", st.LastExecutedAt)
	}
}

func TestForecast_IgnoresPausedSchedules(t *testing.T) {
	svc := newTestService(t)
	seedScheduled(t, svc)
	now := mustDate(t, "2024-01-15")

	if _, err := svc.ExecuteDue(now); err != nil {
		t.Fatalf("execute due: %v", err)
	}
	if _, err := svc.PauseScheduled("monthly-rent"); err != nil {
		t.Fatalf("pause: %v", err)
	}

	result, err := svc.Forecast(now, 3)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	for _, snap := range result.Snapshots {
		if snap.Event != nil {
			t.Fatalf("paused schedule projected an event at %s", snap.Date)
		}
	}
}

package ledger

import (
	"errors"
	"testing"

	"pecunio/internal/model"
)

// seedScheduled creates wallets and a monthly 50.00 rent schedule starting
// 2024-01-01.
func seedScheduled(t *testing.T, svc *Service) model.ScheduledTransfer {
	t.Helper()
	mustWallet(t, svc, "checking", model.Asset)
	mustWallet(t, svc, "salary", model.Income)
	mustWallet(t, svc, "rent", model.Expense)
	mustTransfer(t, svc, "salary", "checking", 100000)

	st, err := svc.CreateScheduled("monthly-rent", "checking", "rent", 5000,
		model.RecurMonthly, mustDate(t, "2024-01-01"), nil, "rent payment", "housing")
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	return st
}

func TestExecuteDue_MaterializesBacklog(t *testing.T) {
	svc := newTestService(t)
	seedScheduled(t, svc)

	report, err := svc.ExecuteDue(mustDate(t, "2024-03-02"))
	if err != nil {
		t.Fatalf("execute due: %v", err)
	}
	if len(report.Materialized) != 3 {
		t.Fatalf("materialized %d transfers, want 3 (Jan, Feb, Mar)", len(report.Materialized))
	}
	for i, want := range []string{"2024-01-01", "2024-02-01", "2024-03-01"} {
		got := report.Materialized[i].Transfer.Timestamp
		if !got.Equal(mustDate(t, want)) {
			t.Fatalf("occurrence %d at %s, want %s", i, got.Format("2006-01-02"), want)
		}
	}

	st, err := svc.Scheduled("monthly-rent")
	if err != nil {
		t.Fatalf("fetch schedule: %v", err)
	}
	if st.LastExecutedAt == nil || !st.LastExecutedAt.Equal(mustDate(t, "2024-03-01")) {
		t.Fatalf("cursor = %v, want 2024-03-01", st.LastExecutedAt)
	}

	entry, err := svc.Balance("rent")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if entry.Balance != 15000 {
		t.Fatalf("rent balance = %d, want 15000", entry.Balance)
	}
}

func TestExecuteDue_Idempotent(t *testing.T) {
	svc := newTestService(t)
	seedScheduled(t, svc)
	now := mustDate(t, "2024-03-02")

	if _, err := svc.ExecuteDue(now); err != nil {
		t.Fatalf("first run: %v", err)
	}
	report, err := svc.ExecuteDue(now)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(report.Materialized) != 0 {
		t.Fatalf("second run materialized %d transfers, want 0", len(report.Materialized))
	}

	transfers, err := svc.ListTransfers()
	if err != nil {
		t.Fatalf("list transfers: %v", err)
	}
	if len(transfers) != 4 { // seed + 3 occurrences
		t.Fatalf("transfer count = %d, want 4", len(transfers))
	}
}

func TestExecuteDue_MaterializedCarriesMetadata(t *testing.T) {
	svc := newTestService(t)
	seedScheduled(t, svc)

	report, err := svc.ExecuteDue(mustDate(t, "2024-01-02"))
	if err != nil {
		t.Fatalf("execute due: %v", err)
	}
	if len(report.Materialized) != 1 {
		t.Fatalf("materialized %d, want 1", len(report.Materialized))
	}
	tr := report.Materialized[0].Transfer
	if tr.Description != "rent payment" || tr.Category != "housing" {
		t.Fatalf("metadata not carried: %q / %q", tr.Description, tr.Category)
	}
}

func TestExecuteDue_BlockedScheduleDoesNotAdvance(t *testing.T) {
	svc := newTestService(t)
	mustWallet(t, svc, "checking", model.Asset)
	mustWallet(t, svc, "salary", model.Income)
	mustWallet(t, svc, "rent", model.Expense)
	// Only enough for one occurrence.
	mustTransfer(t, svc, "salary", "checking", 5000)

	if _, err := svc.CreateScheduled("monthly-rent", "checking", "rent", 5000,
		model.RecurMonthly, mustDate(t, "2024-01-01"), nil, "", ""); err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	// An independent schedule that can always run.
	if _, err := svc.CreateScheduled("monthly-income", "salary", "checking", 1000,
		model.RecurMonthly, mustDate(t, "2024-01-01"), nil, "", ""); err != nil {
		t.Fatalf("create schedule: %v", err)
	}

	report, err := svc.ExecuteDue(mustDate(t, "2024-03-02"))
	if err != nil {
		t.Fatalf("execute due: %v", err)
	}

	var rentRuns, incomeRuns int
	for _, m := range report.Materialized {
		switch m.ScheduleName {
		case "monthly-rent":
			rentRuns++
		case "monthly-income":
			incomeRuns++
		}
	}
	// Rent materializes January, then halts on insufficient funds; the income
	// schedule still runs independently for all three months.
	if rentRuns != 1 {
		t.Fatalf("rent schedule ran %d times, want 1", rentRuns)
	}
	if incomeRuns != 3 {
		t.Fatalf("income schedule ran %d times, want 3", incomeRuns)
	}
	if len(report.Failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(report.Failures))
	}
	if !errors.Is(report.Failures[0].Err, ErrInsufficientFunds) {
		t.Fatalf("failure = %v, want ErrInsufficientFunds", report.Failures[0].Err)
	}

	// Cursor stays at the last materialized occurrence so the blocked one is
	// retried next run.
	st, err := svc.Scheduled("monthly-rent")
	if err != nil {
		t.Fatalf("fetch schedule: %v", err)
	}
	if st.LastExecutedAt == nil || !st.LastExecutedAt.Equal(mustDate(t, "2024-01-01")) {
		t.Fatalf("rent cursor = %v, want 2024-01-01", st.LastExecutedAt)
	}
}

func TestExecuteDue_CompletesAtEndDate(t *testing.T) {
	svc := newTestService(t)
	mustWallet(t, svc, "salary", model.Income)
	mustWallet(t, svc, "checking", model.Asset)

	end := mustDate(t, "2024-02-15")
	if _, err := svc.CreateScheduled("short", "salary", "checking", 1000,
		model.RecurMonthly, mustDate(t, "2024-01-01"), &end, "", ""); err != nil {
		t.Fatalf("create schedule: %v", err)
	}

	report, err := svc.ExecuteDue(mustDate(t, "2024-06-01"))
	if err != nil {
		t.Fatalf("execute due: %v", err)
	}
	if len(report.Materialized) != 2 { // Jan 1 and Feb 1
		t.Fatalf("materialized %d, want 2", len(report.Materialized))
	}
	if len(report.Completed) != 1 || report.Completed[0] != "short" {
		t.Fatalf("completed = %v, want [short]", report.Completed)
	}

	st, err := svc.Scheduled("short")
	if err != nil {
		t.Fatalf("fetch schedule: %v", err)
	}
	if st.Status != model.ScheduleCompleted {
		t.Fatalf("status = %s, want completed", st.Status)
	}
}

func TestExecuteDue_SkipsPaused(t *testing.T) {
	svc := newTestService(t)
	seedScheduled(t, svc)

	if _, err := svc.PauseScheduled("monthly-rent"); err != nil {
		t.Fatalf("pause: %v", err)
	}
	report, err := svc.ExecuteDue(mustDate(t, "2024-03-02"))
	if err != nil {
		t.Fatalf("execute due: %v", err)
	}
	if len(report.Materialized) != 0 {
		t.Fatalf("paused schedule materialized %d transfers", len(report.Materialized))
	}

	// Resume picks the backlog up again.
	if _, err := svc.ResumeScheduled("monthly-rent"); err != nil {
		t.Fatalf("resume: %v", err)
	}
	report, err = svc.ExecuteDue(mustDate(t, "2024-03-02"))
	if err != nil {
		t.Fatalf("execute due after resume: %v", err)
	}
	if len(report.Materialized) != 3 {
		t.Fatalf("materialized %d after resume, want 3", len(report.Materialized))
	}
}

func TestScheduleLifecycle_CompletedIsTerminal(t *testing.T) {
	svc := newTestService(t)
	mustWallet(t, svc, "salary", model.Income)
	mustWallet(t, svc, "checking", model.Asset)

	end := mustDate(t, "2024-01-15")
	if _, err := svc.CreateScheduled("once", "salary", "checking", 1000,
		model.RecurMonthly, mustDate(t, "2024-01-01"), &end, "", ""); err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	if _, err := svc.ExecuteDue(mustDate(t, "2024-02-01")); err != nil {
		t.Fatalf("execute due: %v", err)
	}

	if _, err := svc.ResumeScheduled("once"); !errors.Is(err, ErrScheduleCompleted) {
		t.Fatalf("resume completed: %v", err)
	}
	if _, err := svc.PauseScheduled("once"); !errors.Is(err, ErrScheduleCompleted) {
		t.Fatalf("pause completed: %v", err)
	}
}

func TestExecuteScheduled_NotDue(t *testing.T) {
	svc := newTestService(t)
	mustWallet(t, svc, "salary", model.Income)
	mustWallet(t, svc, "checking", model.Asset)

	if _, err := svc.CreateScheduled("future", "salary", "checking", 1000,
		model.RecurMonthly, mustDate(t, "2099-01-01"), nil, "", ""); err != nil {
		t.Fatalf("create schedule: %v", err)
	}

	if _, err := svc.ExecuteScheduled("future", mustDate(t, "2024-01-01"), false); !errors.Is(err, ErrScheduleNotDue) {
		t.Fatalf("not due: %v", err)
	}

	// Force materializes one occurrence dated now.
	results, err := svc.ExecuteScheduled("future", mustDate(t, "2024-01-01"), true)
	if err != nil {
		t.Fatalf("forced execute: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("forced execute materialized %d, want 1", len(results))
	}
	if !results[0].Transfer.Timestamp.Equal(mustDate(t, "2024-01-01")) {
		t.Fatalf("forced occurrence at %s, want now", results[0].Transfer.Timestamp)
	}
}

func TestDeleteScheduled_KeepsMaterialized(t *testing.T) {
	svc := newTestService(t)
	seedScheduled(t, svc)

	if _, err := svc.ExecuteDue(mustDate(t, "2024-01-02")); err != nil {
		t.Fatalf("execute due: %v", err)
	}
	if _, err := svc.DeleteScheduled("monthly-rent"); err != nil {
		t.Fatalf("delete schedule: %v", err)
	}
	if _, err := svc.Scheduled("monthly-rent"); !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("deleted schedule lookup: %v", err)
	}

	transfers, err := svc.ListTransfers()
	if err != nil {
		t.Fatalf("list transfers: %v", err)
	}
	if len(transfers) != 2 { // seed + materialized Jan occurrence
		t.Fatalf("transfer count = %d, want 2", len(transfers))
	}
}

func TestRestoreScheduled_KeepsCursorAndStatus(t *testing.T) {
	svc := newTestService(t)
	mustWallet(t, svc, "salary", model.Income)
	checking := mustWallet(t, svc, "checking", model.Asset)
	salary, err := svc.Wallet("salary")
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}

	last := mustDate(t, "2024-02-01")
	st := model.NewScheduledTransfer("restored", salary.ID, checking.ID, 1000,
		model.RecurMonthly, mustDate(t, "2024-01-01"))
	st.LastExecutedAt = &last
	st.Status = model.SchedulePaused

	if _, err := svc.RestoreScheduled(st); err != nil {
		t.Fatalf("restore: %v", err)
	}

	got, err := svc.Scheduled("restored")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Status != model.SchedulePaused {
		t.Fatalf("status = %s, want paused", got.Status)
	}
	if got.LastExecutedAt == nil || !got.LastExecutedAt.Equal(last) {
		t.Fatalf("cursor = %v, want 2024-02-01", got.LastExecutedAt)
	}
}

package ledger

import (
	"fmt"
	"time"

	"pecunio/internal/model"
)

// CreateScheduled creates a recurring transfer definition. Nothing moves
// until the scheduler materializes due occurrences.
func (s *Service) CreateScheduled(name, fromName, toName string, amount model.Cents, pattern model.RecurrencePattern, startDate time.Time, endDate *time.Time, description, category string) (model.ScheduledTransfer, error) {
	existing, err := s.store.ScheduledByName(name)
	if err != nil {
		return model.ScheduledTransfer{}, err
	}
	if existing != nil {
		return model.ScheduledTransfer{}, fmt.Errorf("%w: schedule %q", ErrDuplicateName, name)
	}
	if amount <= 0 {
		return model.ScheduledTransfer{}, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}

	from, err := s.Wallet(fromName)
	if err != nil {
		return model.ScheduledTransfer{}, err
	}
	to, err := s.Wallet(toName)
	if err != nil {
		return model.ScheduledTransfer{}, err
	}
	if from.ID == to.ID {
		return model.ScheduledTransfer{}, fmt.Errorf("%w: %q", ErrSameWallet, fromName)
	}
	if from.IsArchived() {
		return model.ScheduledTransfer{}, fmt.Errorf("%w: %q", ErrWalletArchived, fromName)
	}
	if to.IsArchived() {
		return model.ScheduledTransfer{}, fmt.Errorf("%w: %q", ErrWalletArchived, toName)
	}
	if from.Currency != to.Currency {
		return model.ScheduledTransfer{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, from.Currency, to.Currency)
	}

	st := model.NewScheduledTransfer(name, from.ID, to.ID, amount, pattern, startDate)
	st.EndDate = endDate
	st.Description = description
	st.Category = category

	if err := s.store.SaveScheduled(st); err != nil {
		return model.ScheduledTransfer{}, err
	}
	return st, nil
}

// Scheduled fetches a scheduled transfer by name.
func (s *Service) Scheduled(name string) (model.ScheduledTransfer, error) {
	st, err := s.store.ScheduledByName(name)
	if err != nil {
		return model.ScheduledTransfer{}, err
	}
	if st == nil {
		return model.ScheduledTransfer{}, fmt.Errorf("%w: %q", ErrScheduleNotFound, name)
	}
	return *st, nil
}

// ListScheduled lists scheduled transfers, optionally including paused and
// completed ones.
func (s *Service) ListScheduled(includeInactive bool) ([]model.ScheduledTransfer, error) {
	return s.store.ListScheduled(includeInactive)
}

// PauseScheduled moves an active schedule to paused.
func (s *Service) PauseScheduled(name string) (model.ScheduledTransfer, error) {
	st, err := s.Scheduled(name)
	if err != nil {
		return model.ScheduledTransfer{}, err
	}
	if st.Status == model.ScheduleCompleted {
		return model.ScheduledTransfer{}, fmt.Errorf("%w: %q", ErrScheduleCompleted, name)
	}
	if err := s.store.UpdateScheduledStatus(st.ID, model.SchedulePaused); err != nil {
		return model.ScheduledTransfer{}, err
	}
	st.Status = model.SchedulePaused
	return st, nil
}

// ResumeScheduled moves a paused schedule back to active. Completed is
// terminal and cannot be resumed.
func (s *Service) ResumeScheduled(name string) (model.ScheduledTransfer, error) {
	st, err := s.Scheduled(name)
	if err != nil {
		return model.ScheduledTransfer{}, err
	}
	if st.Status == model.ScheduleCompleted {
		return model.ScheduledTransfer{}, fmt.Errorf("%w: %q", ErrScheduleCompleted, name)
	}
	if err := s.store.UpdateScheduledStatus(st.ID, model.ScheduleActive); err != nil {
		return model.ScheduledTransfer{}, err
	}
	st.Status = model.ScheduleActive
	return st, nil
}

// DeleteScheduled removes a schedule definition. Transfers it already
// materialized remain in the ledger.
func (s *Service) DeleteScheduled(name string) (model.ScheduledTransfer, error) {
	st, err := s.Scheduled(name)
	if err != nil {
		return model.ScheduledTransfer{}, err
	}
	if err := s.store.DeleteScheduled(st.ID); err != nil {
		return model.ScheduledTransfer{}, err
	}
	return st, nil
}

// RestoreScheduled saves a schedule definition as-is, keeping its status and
// execution cursor. Snapshot restore uses it; interactive creation goes
// through CreateScheduled.
func (s *Service) RestoreScheduled(st model.ScheduledTransfer) (model.ScheduledTransfer, error) {
	existing, err := s.store.ScheduledByName(st.Name)
	if err != nil {
		return model.ScheduledTransfer{}, err
	}
	if existing != nil {
		return model.ScheduledTransfer{}, fmt.Errorf("%w: schedule %q", ErrDuplicateName, st.Name)
	}
	if st.Amount <= 0 {
		return model.ScheduledTransfer{}, fmt.Errorf("%w: got %d", ErrInvalidAmount, st.Amount)
	}
	if _, err := s.WalletByID(st.FromWallet); err != nil {
		return model.ScheduledTransfer{}, err
	}
	if _, err := s.WalletByID(st.ToWallet); err != nil {
		return model.ScheduledTransfer{}, err
	}
	if err := s.store.SaveScheduled(st); err != nil {
		return model.ScheduledTransfer{}, err
	}
	return st, nil
}

// MaterializedTransfer records one occurrence turned into a real transfer.
type MaterializedTransfer struct {
	ScheduleName string
	Transfer     model.Transfer
}

// ScheduleFailure records a schedule whose due occurrence could not be
// materialized. The schedule's cursor stays before the failed occurrence so
// the same occurrence is retried on the next run.
type ScheduleFailure struct {
	ScheduleName string
	Occurrence   time.Time
	Err          error
}

// RunReport summarizes one scheduler run.
type RunReport struct {
	Materialized []MaterializedTransfer
	Failures     []ScheduleFailure
	Completed    []string
}

// ExecuteDue materializes every due occurrence of every active schedule, in
// order, up to now. Each occurrence is a normal transfer subject to the same
// validation as a manual one. A failed occurrence halts that one schedule for
// this run without advancing its cursor; other schedules continue
// independently. Running twice with no time elapsed is a no-op the second
// time. Entry points call this before any other command logic so reads
// always observe a fully-materialized state.
func (s *Service) ExecuteDue(now time.Time) (RunReport, error) {
	schedules, err := s.store.ListScheduled(false)
	if err != nil {
		return RunReport{}, err
	}

	var report RunReport
	for _, st := range schedules {
		if st.Status != model.ScheduleActive {
			continue
		}

		// A schedule whose first candidate occurrence already falls past
		// its end date has nothing left to do.
		cursor := st.StartDate
		everExecuted := st.LastExecutedAt != nil
		if everExecuted {
			cursor = *st.LastExecutedAt
		}
		if st.Exhausted(cursor, everExecuted) {
			if err := s.store.UpdateScheduledStatus(st.ID, model.ScheduleCompleted); err != nil {
				return report, err
			}
			report.Completed = append(report.Completed, st.Name)
			continue
		}

		due := st.PendingOccurrences(now)
		advanced := false
		blocked := false
		for _, occurrence := range due {
			t, err := s.materialize(st, occurrence)
			if err != nil {
				report.Failures = append(report.Failures, ScheduleFailure{
					ScheduleName: st.Name,
					Occurrence:   occurrence,
					Err:          err,
				})
				blocked = true
				break
			}
			report.Materialized = append(report.Materialized, MaterializedTransfer{
				ScheduleName: st.Name,
				Transfer:     t,
			})
			cursor = occurrence
			advanced = true
		}

		if advanced {
			everExecuted = true
			if err := s.store.UpdateLastExecuted(st.ID, cursor); err != nil {
				return report, err
			}
		}
		if !blocked && st.Exhausted(cursor, everExecuted) {
			if err := s.store.UpdateScheduledStatus(st.ID, model.ScheduleCompleted); err != nil {
				return report, err
			}
			report.Completed = append(report.Completed, st.Name)
		}
	}

	return report, nil
}

// ExecuteScheduled runs a single schedule by name. With force, the next
// occurrence is materialized at now even if not yet due (paused schedules
// included); otherwise the schedule must be active with a due occurrence.
func (s *Service) ExecuteScheduled(name string, now time.Time, force bool) ([]MaterializedTransfer, error) {
	st, err := s.Scheduled(name)
	if err != nil {
		return nil, err
	}
	if st.Status == model.ScheduleCompleted {
		return nil, fmt.Errorf("%w: %q", ErrScheduleCompleted, name)
	}
	if st.Status == model.SchedulePaused && !force {
		return nil, fmt.Errorf("%w: %q is paused", ErrScheduleNotDue, name)
	}

	if force {
		t, err := s.materialize(st, now)
		if err != nil {
			return nil, err
		}
		if err := s.store.UpdateLastExecuted(st.ID, now); err != nil {
			return nil, err
		}
		return []MaterializedTransfer{{ScheduleName: name, Transfer: t}}, nil
	}

	due := st.PendingOccurrences(now)
	if len(due) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrScheduleNotDue, name)
	}

	var results []MaterializedTransfer
	cursor := st.StartDate
	for _, occurrence := range due {
		t, err := s.materialize(st, occurrence)
		if err != nil {
			if len(results) > 0 {
				if uerr := s.store.UpdateLastExecuted(st.ID, cursor); uerr != nil {
					return results, uerr
				}
			}
			return results, err
		}
		results = append(results, MaterializedTransfer{ScheduleName: name, Transfer: t})
		cursor = occurrence
	}
	if err := s.store.UpdateLastExecuted(st.ID, cursor); err != nil {
		return results, err
	}
	if st.Exhausted(cursor, true) {
		if err := s.store.UpdateScheduledStatus(st.ID, model.ScheduleCompleted); err != nil {
			return results, err
		}
	}
	return results, nil
}

// materialize turns one occurrence into a real transfer through the normal
// write path, so wallet-existence, archive, and balance checks all apply.
func (s *Service) materialize(st model.ScheduledTransfer, occurrence time.Time) (model.Transfer, error) {
	from, err := s.WalletByID(st.FromWallet)
	if err != nil {
		return model.Transfer{}, err
	}
	to, err := s.WalletByID(st.ToWallet)
	if err != nil {
		return model.Transfer{}, err
	}
	return s.RecordTransfer(from.Name, to.Name, st.Amount, occurrence, TransferOpts{
		Description: st.Description,
		Category:    st.Category,
	})
}

package ledger

import (
	"sort"
	"time"

	"pecunio/internal/model"
)

// ForecastEvent is one simulated scheduled occurrence.
type ForecastEvent struct {
	ScheduleName string
	FromWallet   string
	ToWallet     string
	Amount       model.Cents
}

// ForecastSnapshot is the projected balance set at one point in time.
// Event is nil for the initial and month-end filler snapshots.
type ForecastSnapshot struct {
	Date     time.Time
	Balances map[string]model.Cents
	Event    *ForecastEvent
}

// ForecastResult is a projection of wallet balances over a horizon.
type ForecastResult struct {
	StartDate time.Time
	EndDate   time.Time
	Snapshots []ForecastSnapshot
}

// Forecast projects balances months ahead by simulating every active
// schedule's occurrences with the same due-occurrence algorithm the
// scheduler uses. The simulation is purely functional: nothing is persisted
// and no schedule cursor moves.
func (s *Service) Forecast(now time.Time, months int) (ForecastResult, error) {
	end := now.AddDate(0, months, 0)

	entries, err := s.AllBalances()
	if err != nil {
		return ForecastResult{}, err
	}
	balances := make(map[string]model.Cents, len(entries))
	for _, e := range entries {
		balances[e.Wallet.Name] = e.Balance
	}

	names, err := s.WalletNames()
	if err != nil {
		return ForecastResult{}, err
	}

	schedules, err := s.store.ListScheduled(false)
	if err != nil {
		return ForecastResult{}, err
	}

	type event struct {
		date time.Time
		st   model.ScheduledTransfer
	}
	var events []event
	for _, st := range schedules {
		if st.Status != model.ScheduleActive {
			continue
		}
		for _, date := range st.PendingOccurrences(end) {
			if date.After(now) && !date.After(end) {
				events = append(events, event{date: date, st: st})
			}
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].date.Before(events[j].date) })

	snapshots := []ForecastSnapshot{{Date: now, Balances: cloneBalances(balances)}}

	for _, ev := range events {
		balances[names[ev.st.FromWallet]] -= ev.st.Amount
		balances[names[ev.st.ToWallet]] += ev.st.Amount
		snapshots = append(snapshots, ForecastSnapshot{
			Date:     ev.date,
			Balances: cloneBalances(balances),
			Event: &ForecastEvent{
				ScheduleName: ev.st.Name,
				FromWallet:   names[ev.st.FromWallet],
				ToWallet:     names[ev.st.ToWallet],
				Amount:       ev.st.Amount,
			},
		})
	}

	// Month-end fillers so quiet months still show a data point.
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !monthStart.After(end) {
		monthEnd := monthStart.AddDate(0, 1, 0)
		covered := false
		for _, snap := range snapshots {
			if !snap.Date.Before(monthStart) && snap.Date.Before(monthEnd) {
				covered = true
				break
			}
		}
		if !covered && monthEnd.After(now) {
			snapshots = append(snapshots, ForecastSnapshot{
				Date:     monthEnd.AddDate(0, 0, -1),
				Balances: cloneBalances(balances),
			})
		}
		monthStart = monthEnd
	}

	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Date.Before(snapshots[j].Date) })

	return ForecastResult{StartDate: now, EndDate: end, Snapshots: snapshots}, nil
}

func cloneBalances(m map[string]model.Cents) map[string]model.Cents {
	out := make(map[string]model.Cents, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

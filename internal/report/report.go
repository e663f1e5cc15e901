// Package report derives read-side views from the transfer set: category
// totals, income vs expense, cash flow, net worth, and period comparisons.
// Conventions: spend is a transfer INTO an expense-type wallet, income is a
// transfer OUT OF an income-type wallet. The same convention backs the
// budget tracker so the two never disagree.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"pecunio/internal/ledger"
	"pecunio/internal/model"
)

// CategorySummary aggregates one category's transfers in a window.
type CategorySummary struct {
	Category   string
	Total      model.Cents
	Count      int64
	Average    model.Cents
	Percentage float64
}

// CategoryReport summarizes spending per category over a date range.
type CategoryReport struct {
	From       time.Time
	To         time.Time
	Categories []CategorySummary
	Total      model.Cents
}

// walletTypes indexes wallet id -> type for attribution.
func walletTypes(wallets []model.Wallet) map[uuid.UUID]model.WalletType {
	types := make(map[uuid.UUID]model.WalletType, len(wallets))
	for _, w := range wallets {
		types[w.ID] = w.Type
	}
	return types
}

// FilterByTime returns transfers whose transaction timestamp falls in [from, to).
func FilterByTime(transfers []model.Transfer, from, to time.Time) []model.Transfer {
	var result []model.Transfer
	for _, t := range transfers {
		if t.Timestamp.Before(from) || !t.Timestamp.Before(to) {
			continue
		}
		result = append(result, t)
	}
	return result
}

// CategorySpending aggregates spend per category: transfers into
// expense-type wallets, grouped by category. Uncategorized spend is grouped
// under "(uncategorized)".
func CategorySpending(transfers []model.Transfer, wallets []model.Wallet, from, to time.Time) CategoryReport {
	types := walletTypes(wallets)
	filtered := FilterByTime(transfers, from, to)

	totals := make(map[string]*CategorySummary)
	var grand model.Cents

	for _, t := range filtered {
		if types[t.ToWallet] != model.Expense {
			continue
		}
		category := t.Category
		if category == "" {
			category = "(uncategorized)"
		}
		cs, ok := totals[category]
		if !ok {
			cs = &CategorySummary{Category: category}
			totals[category] = cs
		}
		cs.Total += t.Amount
		cs.Count++
		grand += t.Amount
	}

	categories := make([]CategorySummary, 0, len(totals))
	for _, cs := range totals {
		if cs.Count > 0 {
			cs.Average = cs.Total / cs.Count
		}
		if grand > 0 {
			cs.Percentage = float64(cs.Total) / float64(grand) * 100
		}
		categories = append(categories, *cs)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Total > categories[j].Total
	})

	return CategoryReport{From: from, To: to, Categories: categories, Total: grand}
}

// IncomeExpenseReport nets income against expenses for a window.
type IncomeExpenseReport struct {
	From         time.Time
	To           time.Time
	TotalIncome  model.Cents
	TotalExpense model.Cents
	Net          model.Cents
}

// IncomeVsExpense sums income (out of income wallets) and spend (into
// expense wallets) and nets them.
func IncomeVsExpense(transfers []model.Transfer, wallets []model.Wallet, from, to time.Time) IncomeExpenseReport {
	types := walletTypes(wallets)
	r := IncomeExpenseReport{From: from, To: to}

	for _, t := range FilterByTime(transfers, from, to) {
		if types[t.FromWallet] == model.Income {
			r.TotalIncome += t.Amount
		}
		if types[t.ToWallet] == model.Expense {
			r.TotalExpense += t.Amount
		}
	}
	r.Net = r.TotalIncome - r.TotalExpense
	return r
}

// CashFlowPeriod is one month's inflow/outflow bucket.
type CashFlowPeriod struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Inflow      model.Cents
	Outflow     model.Cents
	Net         model.Cents
}

// CashFlowReport buckets income and spend by calendar month.
type CashFlowReport struct {
	From    time.Time
	To      time.Time
	Periods []CashFlowPeriod
}

// CashFlow buckets income/spend month by month across [from, to). Months
// with no activity still appear as zero rows so charts show the gaps.
func CashFlow(transfers []model.Transfer, wallets []model.Wallet, from, to time.Time) CashFlowReport {
	types := walletTypes(wallets)
	report := CashFlowReport{From: from, To: to}

	monthStart := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	for monthStart.Before(to) {
		monthEnd := monthStart.AddDate(0, 1, 0)
		period := CashFlowPeriod{PeriodStart: monthStart, PeriodEnd: monthEnd}

		for _, t := range FilterByTime(transfers, maxTime(monthStart, from), minTime(monthEnd, to)) {
			if types[t.FromWallet] == model.Income {
				period.Inflow += t.Amount
			}
			if types[t.ToWallet] == model.Expense {
				period.Outflow += t.Amount
			}
		}
		period.Net = period.Inflow - period.Outflow
		report.Periods = append(report.Periods, period)
		monthStart = monthEnd
	}
	return report
}

// WalletBalance pairs a wallet name with its balance for display.
type WalletBalance struct {
	WalletName string
	Balance    model.Cents
}

// NetWorthReport is the asset-vs-liability position at a point in time.
// TotalLiabilities is the amount owed (liability balances negated), so
// NetWorth = TotalAssets - TotalLiabilities.
type NetWorthReport struct {
	AsOf             time.Time
	TotalAssets      model.Cents
	TotalLiabilities model.Cents
	NetWorth         model.Cents
	Assets           []WalletBalance
	Liabilities      []WalletBalance
}

// NetWorth computes assets minus owed liabilities from derived balances.
func NetWorth(wallets []model.Wallet, balances map[uuid.UUID]model.Cents, asOf time.Time) NetWorthReport {
	r := NetWorthReport{AsOf: asOf}

	for _, w := range wallets {
		balance := balances[w.ID]
		switch w.Type {
		case model.Asset:
			r.TotalAssets += balance
			r.Assets = append(r.Assets, WalletBalance{WalletName: w.Name, Balance: balance})
		case model.Liability:
			// A liability wallet goes negative as it pays out; owed is the negation.
			r.TotalLiabilities += -balance
			r.Liabilities = append(r.Liabilities, WalletBalance{WalletName: w.Name, Balance: balance})
		}
	}
	r.NetWorth = r.TotalAssets - r.TotalLiabilities
	return r
}

// PeriodSummary is one window's income/expense totals.
type PeriodSummary struct {
	PeriodStart  time.Time
	PeriodEnd    time.Time
	TotalIncome  model.Cents
	TotalExpense model.Cents
	Net          model.Cents
}

// PeriodComparison compares a window against the adjacent prior window.
type PeriodComparison struct {
	Current          PeriodSummary
	Previous         PeriodSummary
	Change           model.Cents
	ChangePercentage float64
}

// ComparePeriods computes net income/expense for [from, to) and the
// same-length window immediately before it, with delta and percent change
// on net. Percent change is 0 when the previous net is 0.
func ComparePeriods(transfers []model.Transfer, wallets []model.Wallet, from, to time.Time) PeriodComparison {
	length := to.Sub(from)
	prevFrom := from.Add(-length)

	current := summarize(transfers, wallets, from, to)
	previous := summarize(transfers, wallets, prevFrom, from)

	cmp := PeriodComparison{
		Current:  current,
		Previous: previous,
		Change:   current.Net - previous.Net,
	}
	if previous.Net != 0 {
		cmp.ChangePercentage = float64(cmp.Change) / float64(abs(previous.Net)) * 100
	}
	return cmp
}

func summarize(transfers []model.Transfer, wallets []model.Wallet, from, to time.Time) PeriodSummary {
	ie := IncomeVsExpense(transfers, wallets, from, to)
	return PeriodSummary{
		PeriodStart:  from,
		PeriodEnd:    to,
		TotalIncome:  ie.TotalIncome,
		TotalExpense: ie.TotalExpense,
		Net:          ie.Net,
	}
}

// NetWorthFromEntries adapts service balance entries for NetWorth.
func NetWorthFromEntries(entries []ledger.BalanceEntry, asOf time.Time) NetWorthReport {
	wallets := make([]model.Wallet, 0, len(entries))
	balances := make(map[uuid.UUID]model.Cents, len(entries))
	for _, e := range entries {
		wallets = append(wallets, e.Wallet)
		balances[e.Wallet.ID] = e.Balance
	}
	return NetWorth(wallets, balances, asOf)
}

func abs(c model.Cents) model.Cents {
	if c < 0 {
		return -c
	}
	return c
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

package report

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"pecunio/internal/model"
)

// fixture builds a small wallet set and a transfer history for report tests.
type fixture struct {
	checking, visa, salary, grocer, landlord model.Wallet
	wallets                                  []model.Wallet
	transfers                                []model.Transfer
}

func newFixture() *fixture {
	f := &fixture{
		checking: model.NewWallet("checking", model.Asset, "EUR"),
		visa:     model.NewWallet("visa", model.Liability, "EUR"),
		salary:   model.NewWallet("salary", model.Income, "EUR"),
		grocer:   model.NewWallet("grocer", model.Expense, "EUR"),
		landlord: model.NewWallet("landlord", model.Expense, "EUR"),
	}
	f.wallets = []model.Wallet{f.checking, f.visa, f.salary, f.grocer, f.landlord}
	return f
}

func (f *fixture) add(from, to uuid.UUID, amount model.Cents, ts time.Time, category string) {
	t := model.NewTransfer(from, to, amount, ts)
	t.Category = category
	f.transfers = append(f.transfers, t)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCategorySpending(t *testing.T) {
	f := newFixture()
	jan := date(2024, time.January, 15)
	f.add(f.salary.ID, f.checking.ID, 300000, jan, "")
	f.add(f.checking.ID, f.grocer.ID, 15000, jan, "food")
	f.add(f.checking.ID, f.grocer.ID, 5000, jan, "food")
	f.add(f.checking.ID, f.landlord.ID, 80000, jan, "housing")
	f.add(f.checking.ID, f.grocer.ID, 2000, jan, "")

	r := CategorySpending(f.transfers, f.wallets, date(2024, time.January, 1), date(2024, time.February, 1))

	if r.Total != 102000 {
		t.Fatalf("total = %d, want 102000", r.Total)
	}
	if len(r.Categories) != 3 {
		t.Fatalf("categories = %d, want 3", len(r.Categories))
	}
	// Sorted by total descending.
	if r.Categories[0].Category != "housing" || r.Categories[0].Total != 80000 {
		t.Fatalf("top category = %+v", r.Categories[0])
	}
	if r.Categories[1].Category != "food" || r.Categories[1].Count != 2 || r.Categories[1].Average != 10000 {
		t.Fatalf("food summary = %+v", r.Categories[1])
	}
	if r.Categories[2].Category != "(uncategorized)" {
		t.Fatalf("uncategorized bucket missing: %+v", r.Categories[2])
	}
}

func TestCategorySpending_IgnoresNonExpenseDestinations(t *testing.T) {
	f := newFixture()
	jan := date(2024, time.January, 15)
	// Income and asset-to-asset movement are not spend.
	f.add(f.salary.ID, f.checking.ID, 300000, jan, "salary")
	f.add(f.checking.ID, f.visa.ID, 50000, jan, "payment")

	r := CategorySpending(f.transfers, f.wallets, date(2024, time.January, 1), date(2024, time.February, 1))
	if r.Total != 0 || len(r.Categories) != 0 {
		t.Fatalf("non-spend counted: %+v", r)
	}
}

func TestIncomeVsExpense(t *testing.T) {
	f := newFixture()
	jan := date(2024, time.January, 15)
	f.add(f.salary.ID, f.checking.ID, 300000, jan, "")
	f.add(f.checking.ID, f.grocer.ID, 40000, jan, "food")
	f.add(f.visa.ID, f.landlord.ID, 80000, jan, "housing")

	r := IncomeVsExpense(f.transfers, f.wallets, date(2024, time.January, 1), date(2024, time.February, 1))
	if r.TotalIncome != 300000 {
		t.Fatalf("income = %d, want 300000", r.TotalIncome)
	}
	if r.TotalExpense != 120000 {
		t.Fatalf("expense = %d, want 120000", r.TotalExpense)
	}
	if r.Net != 180000 {
		t.Fatalf("net = %d, want 180000", r.Net)
	}
}

func TestFilterByTime_HalfOpen(t *testing.T) {
	f := newFixture()
	f.add(f.salary.ID, f.checking.ID, 1, date(2024, time.January, 1), "")  // at from: included
	f.add(f.salary.ID, f.checking.ID, 2, date(2024, time.January, 20), "")
	f.add(f.salary.ID, f.checking.ID, 3, date(2024, time.February, 1), "") // at to: excluded

	got := FilterByTime(f.transfers, date(2024, time.January, 1), date(2024, time.February, 1))
	if len(got) != 2 {
		t.Fatalf("filtered %d transfers, want 2", len(got))
	}
}

func TestCashFlow_MonthBuckets(t *testing.T) {
	f := newFixture()
	f.add(f.salary.ID, f.checking.ID, 300000, date(2024, time.January, 25), "")
	f.add(f.checking.ID, f.grocer.ID, 50000, date(2024, time.January, 26), "food")
	// February has no activity; March spends only.
	f.add(f.checking.ID, f.grocer.ID, 20000, date(2024, time.March, 5), "food")

	r := CashFlow(f.transfers, f.wallets, date(2024, time.January, 1), date(2024, time.April, 1))
	if len(r.Periods) != 3 {
		t.Fatalf("periods = %d, want 3", len(r.Periods))
	}
	if r.Periods[0].Inflow != 300000 || r.Periods[0].Outflow != 50000 || r.Periods[0].Net != 250000 {
		t.Fatalf("january = %+v", r.Periods[0])
	}
	if r.Periods[1].Inflow != 0 || r.Periods[1].Outflow != 0 {
		t.Fatalf("quiet february not zero: %+v", r.Periods[1])
	}
	if r.Periods[2].Net != -20000 {
		t.Fatalf("march net = %d, want -20000", r.Periods[2].Net)
	}
}

func TestNetWorth(t *testing.T) {
	f := newFixture()
	balances := map[uuid.UUID]model.Cents{
		f.checking.ID: 250000,
		f.visa.ID:     -40000, // owes 400.00
		f.salary.ID:   -300000,
		f.grocer.ID:   90000,
	}

	r := NetWorth(f.wallets, balances, date(2024, time.June, 1))
	if r.TotalAssets != 250000 {
		t.Fatalf("assets = %d, want 250000", r.TotalAssets)
	}
	if r.TotalLiabilities != 40000 {
		t.Fatalf("owed = %d, want 40000", r.TotalLiabilities)
	}
	if r.NetWorth != 210000 {
		t.Fatalf("net worth = %d, want 210000", r.NetWorth)
	}
	// Income and expense wallets are excluded entirely.
	if len(r.Assets) != 1 || len(r.Liabilities) != 1 {
		t.Fatalf("wallet breakdown = %d assets / %d liabilities", len(r.Assets), len(r.Liabilities))
	}
}

func TestComparePeriods(t *testing.T) {
	f := newFixture()
	// Previous window: net +100000.
	f.add(f.salary.ID, f.checking.ID, 150000, date(2024, time.January, 10), "")
	f.add(f.checking.ID, f.grocer.ID, 50000, date(2024, time.January, 12), "food")
	// Current window: net +250000.
	f.add(f.salary.ID, f.checking.ID, 300000, date(2024, time.February, 10), "")
	f.add(f.checking.ID, f.grocer.ID, 50000, date(2024, time.February, 12), "food")

	cmp := ComparePeriods(f.transfers, f.wallets, date(2024, time.February, 1), date(2024, time.March, 1))
	if cmp.Previous.Net != 100000 {
		t.Fatalf("previous net = %d, want 100000", cmp.Previous.Net)
	}
	if cmp.Current.Net != 250000 {
		t.Fatalf("current net = %d, want 250000", cmp.Current.Net)
	}
	if cmp.Change != 150000 {
		t.Fatalf("change = %d, want 150000", cmp.Change)
	}
	if cmp.ChangePercentage != 150 {
		t.Fatalf("change pct = %.1f, want 150", cmp.ChangePercentage)
	}
}

func TestComparePeriods_ZeroPrevious(t *testing.T) {
	f := newFixture()
	f.add(f.salary.ID, f.checking.ID, 100000, date(2024, time.February, 10), "")

	cmp := ComparePeriods(f.transfers, f.wallets, date(2024, time.February, 1), date(2024, time.March, 1))
	if cmp.ChangePercentage != 0 {
		t.Fatalf("change pct with zero previous = %.1f, want 0", cmp.ChangePercentage)
	}
}

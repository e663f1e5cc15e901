package tui

import (
	"strings"
	"testing"
	"time"

	"pecunio/internal/ledger"
	"pecunio/internal/model"
	"pecunio/internal/report"
)

func TestViewOverview_CurrencyAwareAmounts(t *testing.T) {
	a := New("", 3, "flexoki-dark", "EUR")
	a.width = 100
	a.height = 30
	a.loaded = true

	w := model.NewWallet("checking", model.Asset, "EUR")
	a.data = ledgerData{
		Balances: []ledger.BalanceEntry{{Wallet: w, Balance: 123456}},
		NetWorth: report.NetWorthReport{NetWorth: 123456, TotalAssets: 123456},
		LoadedAt: time.Now(),
	}

	out := a.viewOverview()
	if !strings.Contains(out, "€1,234.56") {
		t.Fatalf("overview renders plain cents, want currency symbols:\n%s", out)
	}
}

func TestNew_EmptyCurrencyFallsBack(t *testing.T) {
	a := New("", 3, "flexoki-dark", "")
	if a.currency != "EUR" {
		t.Fatalf("currency = %q, want EUR", a.currency)
	}
}

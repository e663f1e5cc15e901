package components

import (
	"strings"
	"testing"

	"pecunio/internal/tui/theme"
)

func TestLayoutRow_SumsToTotal(t *testing.T) {
	for _, tc := range []struct {
		total, n int
	}{
		{100, 4},
		{103, 4},
		{7, 3},
		{80, 1},
	} {
		widths := LayoutRow(tc.total, tc.n)
		if len(widths) != tc.n {
			t.Fatalf("LayoutRow(%d, %d) returned %d widths", tc.total, tc.n, len(widths))
		}
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Fatalf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
	if LayoutRow(100, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestTabIdxByKey(t *testing.T) {
	for i, tab := range Tabs {
		if got := TabIdxByKey(tab.Key); got != i {
			t.Fatalf("TabIdxByKey(%q) = %d, want %d", tab.Key, got, i)
		}
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey(z) = %d, want -1", got)
	}
}

func TestColorForPct(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{0.2, string(theme.Active.Green)},
		{0.6, string(theme.Active.Yellow)},
		{0.9, string(theme.Active.Orange)},
		{1.0, string(theme.Active.Red)},
		{1.5, string(theme.Active.Red)},
	}
	for _, c := range cases {
		if got := string(ColorForPct(c.pct)); got != c.want {
			t.Fatalf("ColorForPct(%.1f) = %s, want %s", c.pct, got, c.want)
		}
	}
}

func TestRenderStatusBar(t *testing.T) {
	bar := RenderStatusBar(80, StatusInfo{NetWorth: "€1,234.56", Age: "2s ago"})
	for _, want := range []string{"refresh", "help", "quit", "net €1,234.56", "loaded 2s ago"} {
		if !strings.Contains(bar, want) {
			t.Fatalf("status bar missing %q:\n%s", want, bar)
		}
	}
	if strings.Contains(bar, "over limit") {
		t.Fatal("warning shown without one set")
	}

	warned := RenderStatusBar(80, StatusInfo{Warning: "2 budget(s) over limit"})
	if !strings.Contains(warned, "2 budget(s) over limit") {
		t.Fatalf("warning not rendered:\n%s", warned)
	}
}

func TestSparkline(t *testing.T) {
	s := Sparkline([]float64{0, 50, 100}, theme.Active.Green)
	if s == "" {
		t.Fatal("empty sparkline for non-empty input")
	}
	runes := []rune{}
	for _, r := range s {
		if r >= '▁' && r <= '█' {
			runes = append(runes, r)
		}
	}
	if len(runes) != 3 {
		t.Fatalf("sparkline has %d bars, want 3", len(runes))
	}
	// Monotonic input yields non-decreasing bar heights.
	if runes[0] > runes[1] || runes[1] > runes[2] {
		t.Fatalf("bars not non-decreasing: %q", string(runes))
	}

	if Sparkline(nil, theme.Active.Green) != "" {
		t.Fatal("nil input should render empty")
	}
}

package tui

import (
	"fmt"
	"strings"

	"pecunio/internal/cli"
	"pecunio/internal/model"
	"pecunio/internal/tui/components"
	"pecunio/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

func (a App) viewOverview() string {
	t := theme.Active
	w := a.contentWidth()
	nw := a.data.NetWorth

	metrics := []components.Metric{
		{Label: "Net worth", Value: cli.FormatMoney(nw.NetWorth, a.currency)},
		{Label: "Assets", Value: cli.FormatMoney(nw.TotalAssets, a.currency)},
		{Label: "Owed", Value: cli.FormatMoney(nw.TotalLiabilities, a.currency)},
		{Label: "Net this month", Value: cli.FormatMoney(a.data.Income.Net, a.currency),
			Note: fmt.Sprintf("in %s / out %s",
				cli.FormatMoney(a.data.Income.TotalIncome, a.currency),
				cli.FormatMoney(a.data.Income.TotalExpense, a.currency))},
	}

	var balances strings.Builder
	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	for _, e := range a.data.Balances {
		if e.Wallet.ArchivedAt != nil && e.Balance == 0 {
			continue
		}
		val := cli.FormatMoney(e.Balance, e.Wallet.Currency)
		style := lipgloss.NewStyle().Foreground(t.Green)
		if e.Balance < 0 {
			style = lipgloss.NewStyle().Foreground(t.Red)
		}
		balances.WriteString(fmt.Sprintf("%s %s %s\n",
			nameStyle.Render(fmt.Sprintf("%-20s", e.Wallet.Name)),
			dimStyle.Render(fmt.Sprintf("%-10s", string(e.Wallet.Type))),
			style.Render(fmt.Sprintf("%14s", val))))
	}
	if balances.Len() == 0 {
		balances.WriteString(dimStyle.Render("No wallets yet. Run `pecunio wallet create`."))
	}

	return components.MetricCardRow(metrics, w) + "\n" +
		components.ContentCard("Balances", strings.TrimRight(balances.String(), "\n"), w)
}

func (a App) viewTransfers() string {
	t := theme.Active
	w := a.contentWidth()
	dim := lipgloss.NewStyle().Foreground(t.TextMuted)

	if len(a.data.Transfers) == 0 {
		return components.ContentCard("Transfers", dim.Render("No transfers recorded."), w)
	}

	// Rows visible inside the card, minus header and status chrome.
	visible := a.height - 12
	if visible < 5 {
		visible = 5
	}

	offset := a.transferOffset
	if offset > len(a.data.Transfers)-1 {
		offset = len(a.data.Transfers) - 1
	}
	end := offset + visible
	if end > len(a.data.Transfers) {
		end = len(a.data.Transfers)
	}

	var b strings.Builder
	for _, tr := range a.data.Transfers[offset:end] {
		desc := tr.Description
		if desc == "" {
			desc = dim.Render("(no description)")
		}
		route := fmt.Sprintf("%s -> %s", a.walletName(tr.FromWallet), a.walletName(tr.ToWallet))
		line := fmt.Sprintf("%s  %-30s %14s  %s",
			dim.Render(tr.Timestamp.Format("2006-01-02")),
			route,
			cli.FormatMoney(tr.Amount, a.currency),
			desc)
		if tr.Reverses != nil {
			line += " " + lipgloss.NewStyle().Foreground(t.Orange).Render("(reversal)")
		}
		b.WriteString(line + "\n")
	}

	title := fmt.Sprintf("Transfers (%d-%d of %d)", offset+1, end, len(a.data.Transfers))
	return components.ContentCard(title, strings.TrimRight(b.String(), "\n"), w)
}

func (a App) viewBudgets() string {
	t := theme.Active
	w := a.contentWidth()
	dim := lipgloss.NewStyle().Foreground(t.TextMuted)

	if len(a.data.Budgets) == 0 {
		return components.ContentCard("Budgets", dim.Render("No budgets defined."), w)
	}

	labelW := 0
	for _, st := range a.data.Budgets {
		if n := len(st.Budget.Name); n > labelW {
			labelW = n
		}
	}

	barW := components.CardInnerWidth(w) - labelW - 40
	if barW < 10 {
		barW = 10
	}
	if barW > 40 {
		barW = 40
	}

	var b strings.Builder
	for _, st := range a.data.Budgets {
		pct := 0.0
		if st.Budget.Limit > 0 {
			pct = float64(st.Spent) / float64(st.Budget.Limit)
		}
		b.WriteString(components.BudgetBar(st.Budget.Name, pct, st.PeriodEnd, labelW, barW))
		b.WriteString("\n")
		b.WriteString(dim.Render(fmt.Sprintf("    %s of %s (%s)",
			cli.FormatMoney(st.Spent, a.currency),
			cli.FormatMoney(st.Budget.Limit, a.currency),
			st.Budget.Period)) + "\n")
	}

	return components.ContentCard("Budgets", strings.TrimRight(b.String(), "\n"), w)
}

func (a App) viewSchedules() string {
	t := theme.Active
	w := a.contentWidth()
	dim := lipgloss.NewStyle().Foreground(t.TextMuted)

	if len(a.data.Schedules) == 0 {
		return components.ContentCard("Schedules", dim.Render("No scheduled transfers."), w)
	}

	var b strings.Builder
	for _, st := range a.data.Schedules {
		status := string(st.Status)
		switch st.Status {
		case model.ScheduleActive:
			status = lipgloss.NewStyle().Foreground(t.Green).Render(status)
		case model.SchedulePaused:
			status = lipgloss.NewStyle().Foreground(t.Yellow).Render(status)
		case model.ScheduleCompleted:
			status = dim.Render(status)
		}

		next := "-"
		if n := st.NextOccurrence(); n != nil {
			next = n.Format("2006-01-02")
		}

		b.WriteString(fmt.Sprintf("%-20s %10s  %-9s  %s -> %s  next %s\n",
			st.Name,
			cli.FormatMoney(st.Amount, a.currency),
			string(st.Pattern),
			a.walletName(st.FromWallet),
			a.walletName(st.ToWallet),
			next))
		b.WriteString("  " + status + "\n")
	}

	return components.ContentCard("Schedules", strings.TrimRight(b.String(), "\n"), w)
}

func (a App) viewForecast() string {
	t := theme.Active
	w := a.contentWidth()
	dim := lipgloss.NewStyle().Foreground(t.TextMuted)
	fc := a.data.Forecast

	if len(fc.Snapshots) == 0 {
		return components.ContentCard("Forecast", dim.Render("Nothing to project. Create a scheduled transfer first."), w)
	}

	values := make([]float64, 0, len(fc.Snapshots))
	labels := make([]string, 0, len(fc.Snapshots))
	for _, snap := range fc.Snapshots {
		values = append(values, float64(projectedHoldings(snap.Balances)))
		labels = append(labels, snap.Date.Format("Jan 02"))
	}

	chartH := a.height - 16
	if chartH < 6 {
		chartH = 6
	}
	if chartH > 14 {
		chartH = 14
	}
	chart := components.BalanceChart(values, labels, components.CardInnerWidth(w), chartH)

	var events strings.Builder
	for _, snap := range fc.Snapshots {
		if snap.Event == nil {
			continue
		}
		events.WriteString(fmt.Sprintf("%s  %s: %s %s -> %s\n",
			dim.Render(snap.Date.Format("2006-01-02")),
			snap.Event.ScheduleName,
			cli.FormatMoney(snap.Event.Amount, a.currency),
			snap.Event.FromWallet,
			snap.Event.ToWallet))
	}
	if events.Len() == 0 {
		events.WriteString(dim.Render("No occurrences in the horizon."))
	}

	title := fmt.Sprintf("Projected holdings through %s", fc.EndDate.Format("2006-01-02"))
	return components.ContentCard(title, chart, w) + "\n" +
		components.ContentCard("Upcoming", strings.TrimRight(events.String(), "\n"), w)
}

// projectedHoldings sums the positive balances of a projection snapshot.
func projectedHoldings(balances map[string]model.Cents) model.Cents {
	var total model.Cents
	for _, c := range balances {
		if c > 0 {
			total += c
		}
	}
	return total
}

func (a App) walletName(id uuid.UUID) string {
	if name, ok := a.data.Names[id]; ok {
		return name
	}
	return "?"
}

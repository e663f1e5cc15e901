// Package tui provides the interactive Bubble Tea dashboard for pecunio.
package tui

import (
	"fmt"
	"time"

	"pecunio/internal/cli"
	"pecunio/internal/ledger"
	"pecunio/internal/model"
	"pecunio/internal/report"
	"pecunio/internal/tui/components"
	"pecunio/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// transferWindow caps how many recent transfers the dashboard keeps in memory.
const transferWindow = 200

// ledgerData is everything the dashboard shows, loaded in one pass.
type ledgerData struct {
	Balances  []ledger.BalanceEntry
	NetWorth  report.NetWorthReport
	Income    report.IncomeExpenseReport
	Transfers []model.Transfer
	Names     map[uuid.UUID]string
	Budgets   []ledger.BudgetStatus
	Schedules []model.ScheduledTransfer
	Forecast  ledger.ForecastResult
	LoadedAt  time.Time
}

// DataLoadedMsg is sent when the ledger load finishes.
type DataLoadedMsg struct {
	Data ledgerData
}

// LoadFailedMsg is sent when the ledger load fails.
type LoadFailedMsg struct {
	Err error
}

// App is the root Bubble Tea model.
type App struct {
	dbPath         string
	forecastMonths int
	currency       string

	data   ledgerData
	loaded bool
	err    error

	width     int
	height    int
	activeTab int
	showHelp  bool

	// Transfers tab scroll offset.
	transferOffset int

	spinner spinner.Model
}

// New creates the dashboard model for the ledger at dbPath. Aggregate
// amounts render in currency; per-wallet rows use the wallet's own.
func New(dbPath string, forecastMonths int, themeName, currency string) App {
	theme.SetActive(themeName)
	if currency == "" {
		currency = "EUR"
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		dbPath:         dbPath,
		forecastMonths: forecastMonths,
		currency:       currency,
		spinner:        sp,
	}
}

// Init starts the spinner and kicks off the initial load.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, loadLedger(a.dbPath, a.forecastMonths))
}

// loadLedger opens the ledger, materializes due schedules, and collects
// every view the dashboard needs. The database is not held open afterwards.
func loadLedger(dbPath string, forecastMonths int) tea.Cmd {
	return func() tea.Msg {
		now := time.Now().UTC()

		svc, err := ledger.Open(dbPath)
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		defer func() { _ = svc.Close() }()

		if _, err := svc.ExecuteDue(now); err != nil {
			return LoadFailedMsg{Err: fmt.Errorf("running scheduler: %w", err)}
		}

		balances, err := svc.AllBalances()
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		names, err := svc.WalletNames()
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		transfers, err := svc.ListTransfersFiltered(ledger.TransferQuery{Limit: transferWindow})
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		budgets, err := svc.AllBudgetStatuses(now)
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		schedules, err := svc.ListScheduled(true)
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		forecast, err := svc.Forecast(now, forecastMonths)
		if err != nil {
			return LoadFailedMsg{Err: err}
		}

		all, err := svc.ListTransfers()
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		wallets, err := svc.ListWallets(true)
		if err != nil {
			return LoadFailedMsg{Err: err}
		}
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		income := report.IncomeVsExpense(all, wallets, monthStart, now)

		return DataLoadedMsg{Data: ledgerData{
			Balances:  balances,
			NetWorth:  report.NetWorthFromEntries(balances, now),
			Income:    income,
			Transfers: transfers,
			Names:     names,
			Budgets:   budgets,
			Schedules: schedules,
			Forecast:  forecast,
			LoadedAt:  now,
		}}
	}
}

// Update handles messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case DataLoadedMsg:
		a.data = msg.Data
		a.loaded = true
		a.err = nil
		return a, nil

	case LoadFailedMsg:
		a.err = msg.Err
		a.loaded = true
		return a, nil

	case spinner.TickMsg:
		if a.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "?":
		a.showHelp = !a.showHelp
		return a, nil

	case "r":
		a.loaded = false
		return a, tea.Batch(a.spinner.Tick, loadLedger(a.dbPath, a.forecastMonths))

	case "tab", "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		a.transferOffset = 0
		return a, nil

	case "shift+tab", "left":
		a.activeTab = (a.activeTab + len(components.Tabs) - 1) % len(components.Tabs)
		a.transferOffset = 0
		return a, nil

	case "up", "k":
		if a.transferOffset > 0 {
			a.transferOffset--
		}
		return a, nil

	case "down", "j":
		if a.transferOffset < len(a.data.Transfers)-1 {
			a.transferOffset++
		}
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
			a.transferOffset = 0
		}
	}
	return a, nil
}

// View renders the dashboard.
func (a App) View() string {
	t := theme.Active

	if !a.loaded {
		return fmt.Sprintf("\n\n  %s Loading ledger...\n", a.spinner.View())
	}
	if a.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(t.Red)
		return "\n  " + errStyle.Render(fmt.Sprintf("Error: %v", a.err)) +
			"\n\n  Press [r] to retry, [q] to quit.\n"
	}

	header := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true).
		Render(" pecunio")

	var body string
	if a.showHelp {
		body = a.viewHelp()
	} else {
		switch a.activeTab {
		case 0:
			body = a.viewOverview()
		case 1:
			body = a.viewTransfers()
		case 2:
			body = a.viewBudgets()
		case 3:
			body = a.viewSchedules()
		case 4:
			body = a.viewForecast()
		}
	}

	status := components.StatusInfo{
		NetWorth: cli.FormatMoney(a.data.NetWorth.NetWorth, a.currency),
		Age:      time.Since(a.data.LoadedAt).Round(time.Second).String() + " ago",
	}
	if over := a.overBudgetCount(); over > 0 {
		status.Warning = fmt.Sprintf("%d budget(s) over limit", over)
	}

	return header + "\n" +
		components.RenderTabBar(a.activeTab) + "\n\n" +
		body + "\n" +
		components.RenderStatusBar(a.width, status)
}

func (a App) viewHelp() string {
	t := theme.Active
	key := lipgloss.NewStyle().Foreground(t.Accent).Render
	dim := lipgloss.NewStyle().Foreground(t.TextMuted).Render

	lines := []struct{ k, desc string }{
		{"o t b s f", "jump to a tab"},
		{"tab / shift+tab", "cycle tabs"},
		{"j / k", "scroll transfers"},
		{"r", "reload the ledger (runs the scheduler)"},
		{"?", "toggle this help"},
		{"q", "quit"},
	}

	out := ""
	for _, l := range lines {
		out += fmt.Sprintf("  %s  %s\n", key(fmt.Sprintf("%-16s", l.k)), dim(l.desc))
	}
	return out
}

func (a App) overBudgetCount() int {
	n := 0
	for _, st := range a.data.Budgets {
		if st.Remaining < 0 {
			n++
		}
	}
	return n
}

// contentWidth clamps the rendering width to something readable.
func (a App) contentWidth() int {
	w := a.width
	if w <= 0 {
		w = 100
	}
	if w > 160 {
		w = 160
	}
	return w
}

package components

import (
	"strings"

	"pecunio/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom status bar displays alongside the key hints.
type StatusInfo struct {
	NetWorth string
	Age      string
	Warning  string
}

// RenderStatusBar renders the bottom bar: key hints on the left, a ledger
// summary on the right, an optional warning between them.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active
	key := lipgloss.NewStyle().Foreground(t.Accent)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	warn := lipgloss.NewStyle().Foreground(t.Orange)

	hints := []struct{ key, label string }{
		{"r", "refresh"},
		{"?", "help"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, key.Render("["+h.key+"]")+muted.Render(h.label))
	}
	left := " " + strings.Join(parts, "  ")

	var summary []string
	if info.Warning != "" {
		summary = append(summary, warn.Render(info.Warning))
	}
	if info.NetWorth != "" {
		summary = append(summary, muted.Render("net "+info.NetWorth))
	}
	if info.Age != "" {
		summary = append(summary, muted.Render("loaded "+info.Age))
	}
	right := strings.Join(summary, muted.Render("  ·  ")) + " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return lipgloss.NewStyle().Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

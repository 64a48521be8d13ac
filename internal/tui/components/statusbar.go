package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/spesa/internal/cli"
	"github.com/theirongolddev/spesa/internal/model"
	"github.com/theirongolddev/spesa/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints and an optional
// message on the left, budget usage and data age on the right.
func RenderStatusBar(width int, msg string, msgIsErr bool, stats model.BudgetStats, dataAge string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)
	bg := lipgloss.NewStyle().Background(t.Surface)

	hints := bg.Foreground(t.TextMuted).Render(" [?]help  [q]uit")
	note := ""
	if msg != "" {
		msgColor := t.Green
		if msgIsErr {
			msgColor = t.Red
		}
		note = bg.Render("  ") + bg.Foreground(msgColor).Render(msg)
	}

	spent := fmt.Sprintf("%s / %s ", cli.FormatEuro(stats.Spent), cli.FormatEuro(stats.Limit))
	budget := bg.Foreground(t.TextPrimary).Render(spent) + BudgetBar(stats.UsedPercent, 16) + bg.Render(" ")
	age := ""
	if dataAge != "" {
		age = bg.Foreground(t.TextDim).Render(fmt.Sprintf(" Dati: %s ", dataAge))
	}

	// Narrow terminals drop the data age first, then the message.
	left, right := hints+note, budget+age
	if lipgloss.Width(left)+lipgloss.Width(right) >= width {
		right = budget
	}
	if lipgloss.Width(left)+lipgloss.Width(right) >= width {
		left = hints
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return style.Render(left + bg.Render(fmt.Sprintf("%*s", padding, "")) + right)
}

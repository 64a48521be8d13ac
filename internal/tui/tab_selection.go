package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/spesa/internal/cli"
	"github.com/theirongolddev/spesa/internal/tui/components"
	"github.com/theirongolddev/spesa/internal/tui/theme"
)

// selectionState holds the selection tab state.
type selectionState struct {
	cursor int
	offset int
}

func (s *selectionState) move(delta, n int) {
	s.cursor += delta
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (a App) updateSelectionKey(key string) (tea.Model, tea.Cmd, bool) {
	n := a.ledger.Len()
	switch key {
	case "j", "down":
		a.sel.move(1, n)
		return a, nil, true
	case "k", "up":
		a.sel.move(-1, n)
		return a, nil, true
	case "g", "home":
		a.sel.cursor = 0
		return a, nil, true
	case "G", "end":
		a.sel.move(n, n)
		return a, nil, true
	case "d", "delete", "backspace":
		entries := a.ledger.Snapshot()
		if a.sel.cursor >= len(entries) {
			return a, nil, true
		}
		e := entries[a.sel.cursor]
		if a.ledger.Remove(e.Item.Code) {
			a.setStatus(fmt.Sprintf(a.text.Removed, e.Item.Name), false)
		}
		a.sel.move(0, a.ledger.Len())
		return a, nil, true
	}
	return a, nil, false
}

func (a App) renderSelectionTab(cw, h int) string {
	t := theme.Active
	stats := a.ledger.Stats()

	remColor := t.Green
	if stats.UsedPercent >= 0.9 {
		remColor = t.Orange
	}
	cards := components.MetricCardRow([]components.Metric{
		{Label: a.text.Total, Value: cli.FormatEuro(stats.Spent), Color: t.Accent},
		{Label: a.text.Remaining, Value: cli.FormatEuro(stats.Remaining), Note: cli.FormatPercent(stats.UsedPercent), Color: remColor},
		{Label: a.text.Items, Value: cli.FormatNumber(int64(stats.Entries)), Note: fmt.Sprintf(a.text.Pieces, stats.Units)},
	}, cw)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	innerW := components.CardInnerWidth(cw)
	codeW, qtyW, totW := 12, 6, 12
	nameW := innerW - codeW - qtyW - totW - 3
	if nameW < 10 {
		nameW = 10
	}

	entries := a.ledger.Snapshot()

	var body strings.Builder
	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-*s %*s %*s",
		codeW, "Codice", nameW, "Prodotto", qtyW, "Q.tà", totW, "Totale")))
	body.WriteString("\n")

	if len(entries) == 0 {
		body.WriteString(mutedStyle.Render(a.text.EmptySelect))
		body.WriteString("\n")
	}

	visible := h - lipgloss.Height(cards) - 7
	if visible < 3 {
		visible = 3
	}
	offset := listOffset(a.sel.cursor, a.sel.offset, visible)
	end := offset + visible
	if end > len(entries) {
		end = len(entries)
	}

	for i := offset; i < end; i++ {
		e := entries[i]
		line := fmt.Sprintf("%-*s %-*s %*d %*s",
			codeW, cli.Truncate(e.Item.Code, codeW),
			nameW, cli.Truncate(e.Item.Name, nameW),
			qtyW, e.Quantity,
			totW, cli.FormatEuro(e.LineTotal))
		if i == a.sel.cursor {
			body.WriteString(selectedStyle.Render(line))
		} else {
			body.WriteString(rowStyle.Render(line))
		}
		body.WriteString("\n")
	}

	body.WriteString("\n")
	body.WriteString(components.ProgressBar(stats.UsedPercent, innerW-6))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(a.text.SelectionHint))

	list := components.ContentCard(a.text.Selection, body.String(), cw)
	return lipgloss.JoinVertical(lipgloss.Left, cards, list)
}

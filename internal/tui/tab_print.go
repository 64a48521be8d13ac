package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/spesa/internal/cli"
	"github.com/theirongolddev/spesa/internal/report"
	"github.com/theirongolddev/spesa/internal/tui/components"
	"github.com/theirongolddev/spesa/internal/tui/theme"
)

func (a App) printList() report.List {
	return report.Build(a.ledger.Snapshot(), a.ledger.GrandTotal(), time.Now(), a.opts.Lang)
}

func (a App) renderPrintTab(cw int) string {
	t := theme.Active
	l := a.printList()

	rows := l.Rows()
	rows = append(rows, []string{"---"}, []string{"", l.TotalLabel(), "", report.FormatAmount(l.Total)})

	var body strings.Builder
	body.WriteString(cli.RenderTitle(l.Title))
	body.WriteString("\n")
	body.WriteString(cli.RenderTable(cli.Table{
		Headers: l.Headers(),
		Rows:    rows,
		Left:    2,
	}))
	body.WriteString("\n")
	body.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Render(a.text.PrintHint))

	return components.ContentCard("", body.String(), cw)
}

// exportCSV writes the print view next to the catalog file.
func (a App) exportCSV() (string, error) {
	l := a.printList()

	dir := "."
	if a.opts.Path != "" {
		dir = filepath.Dir(a.opts.Path)
	}
	path := filepath.Join(dir, fmt.Sprintf("lista-%s.csv", l.Date.Format("2006-01")))

	f, err := os.Create(path) //nolint:gosec // path derived from the catalog location
	if err != nil {
		return "", fmt.Errorf("exporting list: %w", err)
	}
	if err := l.WriteCSV(f); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("exporting list: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("exporting list: %w", err)
	}
	return path, nil
}

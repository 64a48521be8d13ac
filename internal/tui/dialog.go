package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/spesa/internal/cli"
	"github.com/theirongolddev/spesa/internal/ledger"
	"github.com/theirongolddev/spesa/internal/model"
	"github.com/theirongolddev/spesa/internal/tui/components"
	"github.com/theirongolddev/spesa/internal/tui/theme"
)

// dialogState is the quantity dialog opened from the catalog.
type dialogState struct {
	open  bool
	item  model.CatalogItem
	input textinput.Model
	err   string
}

func newDialog(item model.CatalogItem) dialogState {
	ti := textinput.New()
	ti.CharLimit = 5
	ti.Width = 8
	ti.Prompt = "> "
	ti.SetValue("1")
	ti.CursorEnd()
	return dialogState{open: true, item: item, input: ti}
}

func (a App) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.dlg = dialogState{}
		return a, nil
	case "a", "enter":
		return a.confirmDialog()
	}

	var cmd tea.Cmd
	a.dlg.input, cmd = a.dlg.input.Update(msg)
	a.dlg.err = ""
	return a, cmd
}

// confirmDialog adds the chosen quantity; a rejected add keeps the dialog
// open with the reason.
func (a App) confirmDialog() (tea.Model, tea.Cmd) {
	qty, err := ledger.ParseQuantity(a.dlg.input.Value())
	if err == nil {
		err = a.ledger.Add(a.dlg.item, qty)
	}

	var over *ledger.BudgetExceededError
	switch {
	case errors.As(err, &over):
		a.dlg.err = fmt.Sprintf(a.text.OverBudget, cli.FormatEuro(over.Excess))
		return a, nil
	case errors.Is(err, ledger.ErrInvalidQuantity):
		a.dlg.err = a.text.BadQuantity
		return a, nil
	case err != nil:
		a.dlg.err = err.Error()
		return a, nil
	}

	item := a.dlg.item
	a.dlg = dialogState{}
	a.setStatus(fmt.Sprintf(a.text.Added, qty, item.Name), false)
	return a, nil
}

func (a App) renderDialog(cw, h int) string {
	t := theme.Active
	d := a.dlg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(t.Green)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var body strings.Builder
	body.WriteString(valueStyle.Render(d.item.Name))
	body.WriteString("\n")
	body.WriteString(labelStyle.Render(fmt.Sprintf("%s · %s", d.item.Code, cli.FormatPrice(d.item.UnitPrice))))
	body.WriteString("\n\n")
	body.WriteString(labelStyle.Render(a.text.Quantity + " "))
	body.WriteString(d.input.View())
	body.WriteString("\n\n")

	if qty, err := ledger.ParseQuantity(d.input.Value()); err == nil {
		p := a.ledger.Preview(d.item, qty)
		body.WriteString(valueStyle.Render(cli.FormatQuantity(qty, d.item.Name, p.LineTotal)))
		body.WriteString("\n")
		remStyle := okStyle
		if p.Err != nil {
			remStyle = errStyle
		}
		body.WriteString(labelStyle.Render(a.text.NewRemaining + ": "))
		body.WriteString(remStyle.Render(cli.FormatEuro(p.RemainingAfter)))
		body.WriteString("\n")
	} else {
		body.WriteString(dimStyle.Render(a.text.BadQuantity))
		body.WriteString("\n")
	}

	if d.err != "" {
		body.WriteString("\n")
		body.WriteString(errStyle.Render(d.err))
		body.WriteString("\n")
	}

	body.WriteString("\n")
	body.WriteString(dimStyle.Render(a.text.DialogHint))

	w := 56
	if w > cw {
		w = cw
	}
	card := components.DialogCard(a.text.Quantity, body.String(), w)
	return lipgloss.Place(cw, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/spesa/internal/catalog"
	"github.com/theirongolddev/spesa/internal/cli"
	"github.com/theirongolddev/spesa/internal/model"
	"github.com/theirongolddev/spesa/internal/tui/components"
	"github.com/theirongolddev/spesa/internal/tui/theme"
)

// catalogState holds the catalog tab state.
type catalogState struct {
	cursor    int
	offset    int // scroll offset for the list
	searching bool
	input     textinput.Model
	query     string
	visible   []model.CatalogItem
}

func newCatalogState() catalogState {
	return catalogState{input: newSearchInput()}
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "codice, nome o prezzo"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Prompt = "/ "
	return ti
}

// refilter recomputes the visible items for the current query.
func (s *catalogState) refilter(items []model.CatalogItem) {
	s.visible = catalog.Search(items, s.query)
	s.clamp()
}

func (s *catalogState) clamp() {
	if s.cursor >= len(s.visible) {
		s.cursor = len(s.visible) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *catalogState) move(delta int) {
	s.cursor += delta
	s.clamp()
}

// selected returns the item under the cursor.
func (s catalogState) selected() (model.CatalogItem, bool) {
	if s.cursor < 0 || s.cursor >= len(s.visible) {
		return model.CatalogItem{}, false
	}
	return s.visible[s.cursor], true
}

func (a App) updateCatalogKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "/":
		a.cat.searching = true
		a.cat.input.SetValue(a.cat.query)
		a.cat.input.CursorEnd()
		cmd := a.cat.input.Focus()
		return a, cmd, true
	case "esc":
		if a.cat.query != "" {
			a.cat.query = ""
			a.cat.cursor = 0
			a.cat.offset = 0
			a.cat.refilter(a.items)
		}
		return a, nil, true
	case "j", "down":
		a.cat.move(1)
		return a, nil, true
	case "k", "up":
		a.cat.move(-1)
		return a, nil, true
	case "g", "home":
		a.cat.cursor = 0
		a.cat.offset = 0
		return a, nil, true
	case "G", "end":
		a.cat.cursor = len(a.cat.visible) - 1
		a.cat.clamp()
		return a, nil, true
	case "enter":
		item, ok := a.cat.selected()
		if !ok {
			return a, nil, true
		}
		a.dlg = newDialog(item)
		cmd := a.dlg.input.Focus()
		return a, cmd, true
	}
	return a, nil, false
}

// updateSearch filters the catalog as the query is typed.
func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.cat.searching = false
		a.cat.input.Blur()
		return a, nil
	case "esc":
		a.cat.searching = false
		a.cat.input.Blur()
		a.cat.query = ""
		a.cat.cursor = 0
		a.cat.offset = 0
		a.cat.refilter(a.items)
		return a, nil
	}

	var cmd tea.Cmd
	a.cat.input, cmd = a.cat.input.Update(msg)
	if q := a.cat.input.Value(); q != a.cat.query {
		a.cat.query = q
		a.cat.cursor = 0
		a.cat.offset = 0
		a.cat.refilter(a.items)
	}
	return a, cmd
}

func (a App) renderCatalogTab(cw, h int) string {
	t := theme.Active
	cs := a.cat

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	priceStyle := lipgloss.NewStyle().Foreground(t.Green)

	innerW := components.CardInnerWidth(cw)
	codeW := 12
	priceW := 10
	nameW := innerW - codeW - priceW - 2
	if nameW < 10 {
		nameW = 10
	}

	var body strings.Builder
	if cs.searching {
		body.WriteString(cs.input.View())
		body.WriteString("\n")
	} else if cs.query != "" {
		body.WriteString(mutedStyle.Render(fmt.Sprintf("%s: %q  [esc]", a.text.Search, cs.query)))
		body.WriteString("\n")
	}

	body.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-*s %*s", codeW, "Codice", nameW, "Prodotto", priceW, "Prezzo")))
	body.WriteString("\n")

	if len(cs.visible) == 0 {
		body.WriteString(mutedStyle.Render(a.text.NoMatches))
		body.WriteString("\n")
	}

	visible := h - 7 // card border (2) + title + header + search line + footer (2)
	if visible < 3 {
		visible = 3
	}
	offset := listOffset(cs.cursor, cs.offset, visible)
	end := offset + visible
	if end > len(cs.visible) {
		end = len(cs.visible)
	}

	for i := offset; i < end; i++ {
		it := cs.visible[i]
		name := fmt.Sprintf("%-*s", nameW, cli.Truncate(it.Name, nameW))
		code := fmt.Sprintf("%-*s", codeW, cli.Truncate(it.Code, codeW))
		price := fmt.Sprintf("%*s", priceW, cli.FormatPrice(it.UnitPrice))

		if i == cs.cursor {
			body.WriteString(selectedStyle.Render(code + " " + name + " " + price))
		} else {
			body.WriteString(rowStyle.Render(code+" "+name+" ") + priceStyle.Render(price))
		}
		body.WriteString("\n")
	}

	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(a.text.CatalogHint))

	title := fmt.Sprintf("%s [%d/%d]", a.text.Products, len(cs.visible), len(a.items))
	if dropped := a.report.Dropped(); dropped > 0 {
		title += fmt.Sprintf("  (-%d)", dropped)
	}
	return components.ContentCard(title, body.String(), cw)
}

// listOffset keeps cursor inside a window of size visible.
func listOffset(cursor, offset, visible int) int {
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+visible {
		offset = cursor - visible + 1
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

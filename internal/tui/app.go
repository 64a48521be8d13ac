// Package tui provides the interactive Bubble Tea app for spesa.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/theirongolddev/spesa/internal/catalog"
	"github.com/theirongolddev/spesa/internal/cli"
	"github.com/theirongolddev/spesa/internal/config"
	"github.com/theirongolddev/spesa/internal/ledger"
	"github.com/theirongolddev/spesa/internal/model"
	"github.com/theirongolddev/spesa/internal/pipeline"
	"github.com/theirongolddev/spesa/internal/tui/components"
	"github.com/theirongolddev/spesa/internal/tui/theme"
	"github.com/theirongolddev/spesa/internal/watch"
)

var errNoCatalog = errors.New("no catalog file given")

// CatalogLoadedMsg is sent when a catalog import finishes.
type CatalogLoadedMsg struct {
	Result *pipeline.LoadResult
	Err    error
	Reload bool
}

// CatalogChangedMsg carries a re-import delivered by the file watcher.
type CatalogChangedMsg struct {
	Event watch.Event
}

// Options configures the app.
type Options struct {
	Path     string
	Sheet    string
	UseCache bool
	Limit    decimal.Decimal
	// LimitFixed marks Limit as given on the command line; setup answers
	// do not replace it.
	LimitFixed bool
	Lang       language.Tag
	Logger     *log.Logger
	Updates    <-chan watch.Event // optional live reloads
	NeedSetup  bool
}

// App is the root Bubble Tea model.
type App struct {
	opts Options
	text labels

	// Catalog
	items      []model.CatalogItem
	report     catalog.ImportReport
	loaded     bool
	loadErr    error
	loadedAt   time.Time
	refreshing bool

	ledger *ledger.Ledger

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	cat catalogState
	sel selectionState
	dlg dialogState

	status    string
	statusErr bool

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5

	tabCatalog   = 0
	tabSelection = 1
	tabPrint     = 2
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:      opts,
		text:      labelsFor(opts.Lang),
		ledger:    ledger.New(opts.Limit),
		cat:       newCatalogState(),
		needSetup: opts.NeedSetup,
		setupVals: SetupValuesFrom(config.DefaultConfig()),
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		loadCatalogCmd(a.opts, false),
		a.spinner.Tick,
		tickCmd(),
	}
	if a.opts.Updates != nil {
		cmds = append(cmds, waitForUpdate(a.opts.Updates))
	}
	return tea.Batch(cmds...)
}

// Ledger returns the app's selection ledger.
func (a App) Ledger() *ledger.Ledger {
	return a.ledger
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.dlg.open || a.setupForm != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case CatalogLoadedMsg:
		a.refreshing = false
		switch {
		case msg.Err != nil && a.loaded:
			a.setStatus(msg.Err.Error(), true)
			return a, nil
		case msg.Err != nil:
			a.loaded = true
			a.loadErr = msg.Err
		default:
			a.loaded = true
			a.loadErr = nil
			a.applyCatalog(msg.Result.Items, msg.Result.Report)
			if msg.Reload {
				a.setStatus(fmt.Sprintf(a.text.Reloaded, len(a.items)), false)
			}
		}

		if a.needSetup && a.setupForm == nil {
			a.setupForm = NewSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case CatalogChangedMsg:
		ev := msg.Event
		if ev.Type == watch.EventError {
			a.setStatus(ev.Err.Error(), true)
		} else {
			a.loaded = true
			a.loadErr = nil
			a.applyCatalog(ev.Items, catalog.ImportReport{Imported: len(ev.Items)})
			a.setStatus(fmt.Sprintf(a.text.Reloaded, len(a.items)), false)
		}
		return a, waitForUpdate(a.opts.Updates)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		return a, tickCmd()
	}

	// Forward unhandled messages (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.dlg.open {
		var cmd tea.Cmd
		a.dlg.input, cmd = a.dlg.input.Update(msg)
		return a, cmd
	}
	if a.cat.searching {
		var cmd tea.Cmd
		a.cat.input, cmd = a.cat.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		if key == "q" {
			return a, tea.Quit
		}
		return a, nil
	}

	// First-run setup wizard intercepts all keys; esc skips it
	if a.setupForm != nil {
		if key == "esc" {
			a.needSetup = false
			a.setupForm = nil
			return a, nil
		}
		return a.updateSetupForm(msg)
	}

	// The quantity dialog and search input own the keyboard while active
	if a.dlg.open {
		return a.updateDialog(msg)
	}
	if a.cat.searching {
		return a.updateSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabCatalog:
		if m, cmd, ok := a.updateCatalogKey(key); ok {
			return m, cmd
		}
	case tabSelection:
		if m, cmd, ok := a.updateSelectionKey(key); ok {
			return m, cmd
		}
	case tabPrint:
		if key == "e" {
			path, err := a.exportCSV()
			if err != nil {
				a.setStatus(err.Error(), true)
			} else {
				a.setStatus(fmt.Sprintf(a.text.Exported, path), false)
			}
			return a, nil
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing && a.opts.Path != "" {
			a.refreshing = true
			return a, loadCatalogCmd(a.opts, true)
		}
		return a, nil
	case "t":
		theme.Toggle()
		a.spinner.Style = a.spinner.Style.Foreground(theme.Active.Accent).Background(theme.Active.Surface)
		return a, nil
	case "tab", "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	case "shift+tab", "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	default:
		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		switch a.activeTab {
		case tabCatalog:
			a.cat.move(-1)
		case tabSelection:
			a.sel.move(-1, a.ledger.Len())
		}
	case tea.MouseButtonWheelDown:
		switch a.activeTab {
		case tabCatalog:
			a.cat.move(1)
		case tabSelection:
			a.sel.move(1, a.ledger.Len())
		}
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return a, nil
		}
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		hadPath := a.opts.Path != ""
		if err := a.saveSetup(); err != nil {
			a.setStatus(err.Error(), true)
		}
		a.needSetup = false
		a.setupForm = nil
		if !hadPath && a.opts.Path != "" {
			a.loaded = false
			a.loadErr = nil
			return a, loadCatalogCmd(a.opts, false)
		}
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

// applyCatalog replaces the catalog wholesale. The selection keeps its own
// copies of the items it holds.
func (a *App) applyCatalog(items []model.CatalogItem, report catalog.ImportReport) {
	a.items = items
	a.report = report
	a.loadedAt = time.Now()
	a.cat.refilter(items)
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	if a.opts.Logger == nil {
		return
	}
	if isErr {
		a.opts.Logger.Warn(msg, "ledger", a.ledger.ID())
	} else {
		a.opts.Logger.Debug(msg, "ledger", a.ledger.ID())
	}
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  spesa needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ spesa"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" " + a.text.Loading))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	bindings := []struct{ key, desc string }{
		{"c s p", "Catalogo / Selezione / Stampa"},
		{"tab ← →", "Previous / Next tab"},
		{"j k g G", "Navigate lists"},
		{"/", "Search products"},
		{"Enter", "Choose quantity"},
		{"a / Esc", "Confirm / Cancel"},
		{"d", "Remove selected item"},
		{"e", "Export print view as CSV"},
		{"t", "Toggle dark / light theme"},
		{"r", "Reload catalog"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	dataAge := ""
	if !a.loadedAt.IsZero() {
		dataAge = cli.FormatAge(a.loadedAt)
	}
	statusBar := components.RenderStatusBar(w, a.status, a.statusErr, a.ledger.Stats(), dataAge)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch {
	case a.loadErr != nil:
		content = components.ContentCard(a.text.NoCatalog,
			lipgloss.NewStyle().Foreground(t.Red).Render(a.loadErr.Error()), cw)
	case a.dlg.open:
		content = a.renderDialog(cw, contentH)
	case a.activeTab == tabCatalog:
		content = a.renderCatalogTab(cw, contentH)
	case a.activeTab == tabSelection:
		content = a.renderSelectionTab(cw, contentH)
	case a.activeTab == tabPrint:
		content = a.renderPrintTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

// tickCmd keeps the data age in the status bar current.
func tickCmd() tea.Cmd {
	return tea.Tick(30*time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadCatalogCmd imports the catalog in the background.
func loadCatalogCmd(opts Options, reload bool) tea.Cmd {
	return func() tea.Msg {
		if opts.Path == "" {
			return CatalogLoadedMsg{Err: errNoCatalog, Reload: reload}
		}
		res, err := pipeline.LoadFile(opts.Path, pipeline.Options{Sheet: opts.Sheet, Logger: opts.Logger}, opts.UseCache)
		return CatalogLoadedMsg{Result: res, Err: err, Reload: reload}
	}
}

// waitForUpdate blocks until the watcher delivers the next catalog.
func waitForUpdate(updates <-chan watch.Event) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-updates
		if !ok {
			return nil
		}
		return CatalogChangedMsg{Event: ev}
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

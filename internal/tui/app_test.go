package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/theirongolddev/spesa/internal/catalog"
	"github.com/theirongolddev/spesa/internal/config"
	"github.com/theirongolddev/spesa/internal/model"
	"github.com/theirongolddev/spesa/internal/pipeline"
	"github.com/theirongolddev/spesa/internal/tui/theme"
	"github.com/theirongolddev/spesa/internal/watch"
)

func testItems() []model.CatalogItem {
	return []model.CatalogItem{
		{Code: "A1", Name: "Widget", UnitPrice: decimal.NewFromInt(100)},
		{Code: "B2", Name: "Pasta", UnitPrice: decimal.RequireFromString("1.20")},
		{Code: "C3", Name: "Olio", UnitPrice: decimal.RequireFromString("7.50")},
	}
}

func newTestApp(t *testing.T) App {
	t.Helper()
	a := NewApp(Options{
		Path:  filepath.Join(t.TempDir(), "listino.csv"),
		Limit: decimal.NewFromInt(260),
		Lang:  language.Italian,
	})
	a = send(t, a, tea.WindowSizeMsg{Width: 120, Height: 40})
	return send(t, a, CatalogLoadedMsg{Result: &pipeline.LoadResult{
		Items:  testItems(),
		Report: catalog.ImportReport{Imported: 3},
	}})
}

func send(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	next, ok := m.(App)
	require.True(t, ok)
	return next
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, a App, kt tea.KeyType) App {
	t.Helper()
	return send(t, a, tea.KeyMsg{Type: kt})
}

func TestLoadedCatalogIsListed(t *testing.T) {
	a := newTestApp(t)
	require.True(t, a.loaded)
	assert.Len(t, a.cat.visible, 3)

	view := a.View()
	assert.Contains(t, view, "Widget")
	assert.Contains(t, view, "Catalogo")
	assert.Contains(t, view, "€260.00")
}

func TestLoadErrorIsShown(t *testing.T) {
	a := NewApp(Options{Limit: decimal.NewFromInt(260)})
	a = send(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})
	a = send(t, a, CatalogLoadedMsg{Err: errors.New("catalog: header row not found")})

	assert.True(t, a.loaded)
	assert.Contains(t, a.View(), "header row not found")
}

func TestAddThroughDialog(t *testing.T) {
	a := newTestApp(t)

	a = press(t, a, tea.KeyEnter)
	require.True(t, a.dlg.open)
	assert.Equal(t, "A1", a.dlg.item.Code)
	assert.Equal(t, "1", a.dlg.input.Value())

	a = press(t, a, tea.KeyBackspace)
	a = send(t, a, keys("2"))
	assert.Contains(t, a.View(), "2 x Widget = €200.00")

	a = send(t, a, keys("a"))
	assert.False(t, a.dlg.open)
	assert.True(t, a.ledger.GrandTotal().Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "Aggiunto 2 x Widget", a.status)
}

func TestDialogRejectsOverBudget(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.ledger.Add(testItems()[0], 2))

	a = press(t, a, tea.KeyEnter)
	a = send(t, a, keys("a"))

	assert.True(t, a.dlg.open)
	assert.Equal(t, "Superato il limite di budget di €40.00", a.dlg.err)
	assert.True(t, a.ledger.GrandTotal().Equal(decimal.NewFromInt(200)))
}

func TestDialogRejectsBadQuantity(t *testing.T) {
	a := newTestApp(t)

	a = press(t, a, tea.KeyEnter)
	a = press(t, a, tea.KeyBackspace)
	a = send(t, a, keys("0"))
	a = press(t, a, tea.KeyEnter)

	assert.True(t, a.dlg.open)
	assert.Equal(t, "Quantità non valida", a.dlg.err)
	assert.Equal(t, 0, a.ledger.Len())

	a = press(t, a, tea.KeyEsc)
	assert.False(t, a.dlg.open)
}

func TestSearchFiltersLive(t *testing.T) {
	a := newTestApp(t)

	a = send(t, a, keys("/"))
	require.True(t, a.cat.searching)

	a = send(t, a, keys("o"))
	a = send(t, a, keys("l"))
	require.Len(t, a.cat.visible, 1)
	assert.Equal(t, "C3", a.cat.visible[0].Code)

	a = press(t, a, tea.KeyEnter)
	assert.False(t, a.cat.searching)
	assert.Equal(t, "ol", a.cat.query)

	// Enter now opens the dialog on the filtered item.
	a = press(t, a, tea.KeyEnter)
	require.True(t, a.dlg.open)
	assert.Equal(t, "C3", a.dlg.item.Code)
	a = press(t, a, tea.KeyEsc)

	a = press(t, a, tea.KeyEsc)
	assert.Empty(t, a.cat.query)
	assert.Len(t, a.cat.visible, 3)
}

func TestRemoveFromSelection(t *testing.T) {
	a := newTestApp(t)
	items := testItems()
	require.NoError(t, a.ledger.Add(items[1], 3))
	require.NoError(t, a.ledger.Add(items[2], 1))

	a = send(t, a, keys("s"))
	require.Equal(t, tabSelection, a.activeTab)

	a = send(t, a, keys("j"))
	a = send(t, a, keys("d"))

	require.Equal(t, 1, a.ledger.Len())
	assert.Equal(t, "B2", a.ledger.Snapshot()[0].Item.Code)
	assert.True(t, a.ledger.GrandTotal().Equal(decimal.RequireFromString("3.6")))
	assert.Equal(t, "Rimosso Olio", a.status)
	assert.Equal(t, 0, a.sel.cursor)
}

func TestTabNavigation(t *testing.T) {
	a := newTestApp(t)

	a = press(t, a, tea.KeyTab)
	assert.Equal(t, tabSelection, a.activeTab)
	a = press(t, a, tea.KeyTab)
	assert.Equal(t, tabPrint, a.activeTab)
	a = press(t, a, tea.KeyTab)
	assert.Equal(t, tabCatalog, a.activeTab)

	a = send(t, a, keys("p"))
	assert.Equal(t, tabPrint, a.activeTab)
	assert.Contains(t, a.View(), "Lista di")
}

func TestThemeToggle(t *testing.T) {
	prev := theme.Active
	defer func() { theme.Active = prev }()
	theme.Active = theme.FlexokiDark

	a := newTestApp(t)
	a = send(t, a, keys("t"))
	assert.False(t, theme.Active.Dark)
	_ = send(t, a, keys("t"))
	assert.True(t, theme.Active.Dark)
}

func TestExportCSV(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.ledger.Add(testItems()[1], 2))

	a = send(t, a, keys("p"))
	a = send(t, a, keys("e"))
	require.False(t, a.statusErr, a.status)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(a.opts.Path), "lista-*.csv"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "B2,Pasta,2,2.40")
}

func TestWatcherReplacesCatalog(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.ledger.Add(testItems()[0], 1))

	fresh := []model.CatalogItem{{Code: "Z9", Name: "Caffè", UnitPrice: decimal.RequireFromString("3.10")}}
	a = send(t, a, CatalogChangedMsg{Event: watch.Event{Type: watch.EventDelta, Items: fresh}})

	require.Len(t, a.items, 1)
	assert.Equal(t, "Z9", a.cat.visible[0].Code)
	// The selection survives a catalog swap.
	assert.Equal(t, 1, a.ledger.Len())
	assert.Equal(t, "Listino aggiornato: 1 prodotti", a.status)

	a = send(t, a, CatalogChangedMsg{Event: watch.Event{Type: watch.EventError, Err: errors.New("boom")}})
	assert.True(t, a.statusErr)
	assert.Len(t, a.items, 1)
}

func TestTooNarrow(t *testing.T) {
	a := newTestApp(t)
	a = send(t, a, tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, a.View(), "Terminal too narrow")
}

func TestFirstRunShowsSetupWithoutCatalog(t *testing.T) {
	a := NewApp(Options{Limit: decimal.NewFromInt(260), Lang: language.Italian, NeedSetup: true})
	a = send(t, a, tea.WindowSizeMsg{Width: 120, Height: 40})

	a = send(t, a, loadCatalogCmd(a.opts, false)())
	require.NotNil(t, a.setupForm)
	assert.ErrorIs(t, a.loadErr, errNoCatalog)

	a = press(t, a, tea.KeyEsc)
	assert.Nil(t, a.setupForm)
	assert.Contains(t, a.View(), errNoCatalog.Error())
}

func setupTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.BudgetEnv, "")
	prev := theme.Active
	t.Cleanup(func() { theme.Active = prev })
}

func TestSaveSetup_KeepsCommandLineLimit(t *testing.T) {
	setupTestEnv(t)

	a := NewApp(Options{Limit: decimal.NewFromInt(100), LimitFixed: true, Lang: language.Italian, NeedSetup: true})
	require.NoError(t, a.saveSetup())
	assert.True(t, a.Ledger().Limit().Equal(decimal.NewFromInt(100)), "limit = %s", a.Ledger().Limit())
	assert.True(t, config.Exists())
}

func TestSaveSetup_AppliesFormLimit(t *testing.T) {
	setupTestEnv(t)

	a := NewApp(Options{Limit: decimal.NewFromInt(100), Lang: language.Italian, NeedSetup: true})
	a.setupVals.Limit = "150"
	require.NoError(t, a.saveSetup())
	assert.True(t, a.Ledger().Limit().Equal(decimal.NewFromInt(150)), "limit = %s", a.Ledger().Limit())
}

func TestSaveSetup_DefaultsKeepDarkTheme(t *testing.T) {
	setupTestEnv(t)

	a := NewApp(Options{Limit: decimal.NewFromInt(260), Lang: language.Italian, NeedSetup: true})
	assert.True(t, a.setupVals.Dark)
	require.NoError(t, a.saveSetup())
	assert.True(t, theme.Active.Dark)
	assert.Equal(t, "flexoki-dark", theme.Active.Name)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Appearance.Dark)
}

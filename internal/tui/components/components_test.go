package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/spesa/internal/model"
	"github.com/theirongolddev/spesa/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	assert.Equal(t, []int{34, 33, 33}, LayoutRow(100, 3))
	assert.Nil(t, LayoutRow(100, 0))

	sum := 0
	for _, w := range LayoutRow(97, 4) {
		sum += w
	}
	assert.Equal(t, 97, sum)
}

func TestCardRowHeight(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	require.Less(t, shortLines, tallLines)

	joined := CardRow([]string{tallCard, shortCard})
	assert.Equal(t, tallLines, lipgloss.Height(joined))
	assert.Equal(t, 44, lipgloss.Width(joined))

	for i, line := range strings.Split(joined, "\n") {
		assert.Contains(t, line, "\x1b[", "line %d lost styling", i)
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	row := MetricCardRow([]Metric{
		{Label: "Totale", Value: "€200.00"},
		{Label: "Rimanenza", Value: "€60.00", Color: theme.Active.Green},
		{Label: "Prodotti", Value: "1", Note: "2 pezzi"},
	}, 90)

	assert.Equal(t, 90, lipgloss.Width(row))
	assert.Contains(t, row, "Rimanenza")
	assert.Contains(t, row, "2 pezzi")
	assert.Empty(t, MetricCardRow(nil, 90))
}

func TestTabIdxByKey(t *testing.T) {
	assert.Equal(t, 0, TabIdxByKey('c'))
	assert.Equal(t, 1, TabIdxByKey('s'))
	assert.Equal(t, 2, TabIdxByKey('p'))
	assert.Equal(t, -1, TabIdxByKey('z'))
}

func TestTabVisualWidth(t *testing.T) {
	for i, tab := range Tabs {
		active := TabVisualWidth(tab, true)
		assert.Equal(t, len(tab.Name)+2, active, tab.Name)

		inactive := TabVisualWidth(tab, false)
		want := len(tab.Name) + 4
		if tab.KeyPos < 0 {
			want += 1
		}
		assert.Equal(t, want, inactive, "tab %d", i)
	}
}

func TestRenderStatusBarWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	stats := model.BudgetStats{
		Limit:       decimal.NewFromInt(260),
		Spent:       decimal.NewFromInt(200),
		Remaining:   decimal.NewFromInt(60),
		UsedPercent: 200.0 / 260.0,
	}
	bar := RenderStatusBar(120, "Aggiunto", false, stats, "2 minutes ago")

	assert.Equal(t, 120, lipgloss.Width(bar))
	assert.Contains(t, bar, "€200.00 / €260.00")
	assert.Contains(t, bar, "Aggiunto")
}

func TestColorForPct(t *testing.T) {
	theme.SetActive("flexoki-dark")
	assert.Equal(t, string(theme.Active.Green), ColorForPct(0.1))
	assert.Equal(t, string(theme.Active.Yellow), ColorForPct(0.6))
	assert.Equal(t, string(theme.Active.Orange), ColorForPct(0.75))
	assert.Equal(t, string(theme.Active.Red), ColorForPct(0.95))
}

func TestProgressBar(t *testing.T) {
	theme.SetActive("flexoki-dark")

	bar := ProgressBar(0.5, 20)
	assert.Equal(t, 24, lipgloss.Width(bar))
	assert.Contains(t, bar, "50%")

	over := ProgressBar(1.2, 20)
	assert.Equal(t, 20, strings.Count(over, "█"))
	assert.Contains(t, over, "120%")
}

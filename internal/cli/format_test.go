package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEuro(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "€0.00"},
		{"3.5", "€3.50"},
		{"16.745", "€16.75"},
		{"-40", "-€40.00"},
		{"1234.5", "€1234.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatEuro(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
	assert.Equal(t, "-1,000", FormatNumber(-1000))
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "never", FormatAge(time.Time{}))
	assert.Contains(t, FormatAge(time.Now().Add(-3*time.Minute)), "minutes ago")
}

func TestFormatQuantity(t *testing.T) {
	got := FormatQuantity(2, "Widget", decimal.NewFromInt(200))
	assert.Equal(t, "2 x Widget = €200.00", got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Pasta", Truncate("Pasta", 10))
	assert.Equal(t, "Past…", Truncate("Pastasciutta", 5))
	assert.Equal(t, "…", Truncate("Pasta", 1))
	assert.Equal(t, "", Truncate("Pasta", 0))
}

func TestRenderTable_Alignment(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Codice", "Prodotto", "Q.tà", "Totale"},
		Rows: [][]string{
			{"A1", "Pasta", "3", "€3.60"},
			{"---"},
			{"", "Totale", "", "€3.60"},
		},
		Left: 2,
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)

	width := lipgloss.Width(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, lipgloss.Width(l), "line %q", l)
	}
	assert.Contains(t, lines[3], "│ Pasta    │")
	assert.Contains(t, lines[3], "│  €3.60 │")
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}))
}

func TestRenderBudgetBar(t *testing.T) {
	bar := RenderBudgetBar(0.5, 10)
	assert.Contains(t, bar, "█████░░░░░")
	assert.Contains(t, bar, "50.0%")

	full := RenderBudgetBar(1.7, 4)
	assert.Contains(t, full, "████")
	assert.Contains(t, full, "100.0%")
}

package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/spesa/internal/model"
)

func sampleRows() []model.Row {
	return []model.Row{
		{"Listino prezzi ottobre"},
		{nil},
		{"CODICE", "PRODOTTO", "FORMATO", "MARCA", "PREZZO"},
		{"A1", "Pasta di semola", "500g", "Rossi", "€1,20"},
		{float64(1002), "Olio extravergine", "1l", "Verdi", 7.5},
		{"A3", "Promo Biscotti", "300g", "Bianchi", "€2,00"},
		{"A4", "", "1kg", "Neri", "€3,00"},
		{"", "Farina 00", "1kg", "Neri", "€0,90"},
		{"A6", "Caffè macinato", "250g", "Gialli", "n.d."},
		{"A7", "Zucchero", "1kg"},
		{"A1", "Pasta di semola (bis)", "500g", "Rossi", "1,10"},
	}
}

func TestImport_FiltersAndNormalizes(t *testing.T) {
	items, err := Import(sampleRows())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "A1", items[0].Code)
	assert.Equal(t, "Pasta di semola", items[0].Name)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("1.20")))

	assert.Equal(t, "1002", items[1].Code)
	assert.True(t, items[1].UnitPrice.Equal(decimal.NewFromFloat(7.5)))

	// Duplicate codes are kept in row order.
	assert.Equal(t, "A1", items[2].Code)
	assert.True(t, items[2].UnitPrice.Equal(decimal.RequireFromString("1.10")))
}

func TestImport_HeaderNotFound(t *testing.T) {
	rows := []model.Row{
		{"codice", "prodotto"},
		{"A1", "Pasta", nil, nil, 1.0},
	}
	items, err := Import(rows)
	require.ErrorIs(t, err, ErrHeaderNotFound)
	assert.Nil(t, items)
}

func TestImport_IgnoresRowsBeforeHeader(t *testing.T) {
	rows := []model.Row{
		{"Z9", "Before header", nil, nil, 4.0},
		{"CODICE", "PRODOTTO", nil, nil, "PREZZO"},
		{"B1", "After header", nil, nil, 2.0},
	}
	items, err := Import(rows)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "B1", items[0].Code)
}

func TestImport_UsesFirstHeader(t *testing.T) {
	rows := []model.Row{
		{"CODICE"},
		{"B1", "Latte", nil, nil, 1.5},
		{"CODICE", "PRODOTTO", nil, nil, "PREZZO"},
		{"B2", "Burro", nil, nil, 2.5},
	}
	items, report, err := Parse(rows)
	require.NoError(t, err)
	assert.Equal(t, 0, report.HeaderRow)
	// The second header row has no price and is filtered like any other row.
	require.Len(t, items, 2)
	assert.Equal(t, "B1", items[0].Code)
	assert.Equal(t, "B2", items[1].Code)
	assert.Equal(t, 1, report.BadPrice)
}

func TestImport_PromoIsCaseInsensitive(t *testing.T) {
	rows := []model.Row{
		{"CODICE"},
		{"P1", "SUPER PROMO", nil, nil, 1.0},
		{"P2", "PrOmOzione", nil, nil, 1.0},
		{"P3", "Pomodori", nil, nil, 1.0},
	}
	items, report, err := Parse(rows)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "P3", items[0].Code)
	assert.Equal(t, 2, report.Promotional)
}

func TestParse_Report(t *testing.T) {
	_, report, err := Parse(sampleRows())
	require.NoError(t, err)

	assert.Equal(t, 2, report.HeaderRow)
	assert.Equal(t, 8, report.Considered)
	assert.Equal(t, 3, report.Imported)
	assert.Equal(t, 2, report.MissingFields)
	assert.Equal(t, 1, report.Promotional)
	assert.Equal(t, 2, report.BadPrice)
	assert.Equal(t, report.Considered, report.Imported+report.Dropped())
}

func TestImport_EmptyAfterHeader(t *testing.T) {
	items, err := Import([]model.Row{{"CODICE"}})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCellText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"  A1 ", "A1"},
		{float64(42), "42"},
		{12.5, "12.5"},
		{time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "2025-03-01"},
		{time.Time{}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cellText(tt.in), "cellText(%#v)", tt.in)
	}
}

func TestImport_PriceWithUnitText(t *testing.T) {
	rows := []model.Row{
		{"CODICE"},
		{"K1", "Mele", nil, nil, "2,40 €/kg"},
		{"K2", "Uova", nil, nil, "€ 3,20 cad."},
		{"K3", "Sale", nil, nil, "su richiesta"},
	}
	items, report, err := Parse(rows)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("2.40")))
	assert.True(t, items[1].UnitPrice.Equal(decimal.RequireFromString("3.20")))
	assert.Equal(t, 1, report.BadPrice)
}

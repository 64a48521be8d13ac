package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/theirongolddev/spesa/internal/model"
)

func sampleEntries() []model.SelectionEntry {
	return []model.SelectionEntry{
		{
			Item:      model.CatalogItem{Code: "A1", Name: "Pasta", UnitPrice: decimal.RequireFromString("1.2")},
			Quantity:  3,
			LineTotal: decimal.RequireFromString("3.6"),
		},
		{
			Item:      model.CatalogItem{Code: "B2", Name: "Olio, extra", UnitPrice: decimal.RequireFromString("7.5")},
			Quantity:  1,
			LineTotal: decimal.RequireFromString("7.5"),
		},
	}
}

func TestTitle(t *testing.T) {
	oct := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "Lista di Ottobre 2026", Title(language.Italian, oct))
	assert.Equal(t, "List of October 2026", Title(language.English, oct))
	assert.Equal(t, "List of October 2026", Title(language.AmericanEnglish, oct))

	jan := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "Lista di Gennaio 2025", Title(language.Italian, jan))
}

func TestTitle_UnsupportedFallsBackToItalian(t *testing.T) {
	dec := time.Date(2025, time.December, 5, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "Lista di Dicembre 2025", Title(language.Japanese, dec))
}

func TestBuildRows(t *testing.T) {
	l := Build(sampleEntries(), decimal.RequireFromString("11.1"), time.Now(), language.Italian)

	assert.Equal(t, []string{"Codice", "Prodotto", "Q.tà", "Totale"}, l.Headers())
	rows := l.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"A1", "Pasta", "3", "€3.60"}, rows[0])
	assert.Equal(t, "€11.10", FormatAmount(l.Total))
}

func TestWriteCSV(t *testing.T) {
	l := Build(sampleEntries(), decimal.RequireFromString("11.1"), time.Now(), language.English)

	var buf bytes.Buffer
	require.NoError(t, l.WriteCSV(&buf))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, []string{"Code", "Product", "Qty", "Total"}, recs[0])
	assert.Equal(t, []string{"B2", "Olio, extra", "1", "7.50"}, recs[2])
	assert.Equal(t, []string{"", "Total", "", "11.10"}, recs[3])
}

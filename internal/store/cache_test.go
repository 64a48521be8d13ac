package store

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/spesa/internal/catalog"
	"github.com/theirongolddev/spesa/internal/model"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "catalogs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_SaveLookup(t *testing.T) {
	c := openTemp(t)
	fi := FileInfo{MtimeNs: 100, SizeBytes: 2048}
	entry := Entry{
		Items: []model.CatalogItem{
			{Code: "A1", Name: "Pasta", UnitPrice: decimal.RequireFromString("1.20")},
			{Code: "A1", Name: "Pasta bis", UnitPrice: decimal.RequireFromString("1.10")},
			{Code: "B2", Name: "Olio", UnitPrice: decimal.RequireFromString("7.5")},
		},
		Report: catalog.ImportReport{HeaderRow: 2, Considered: 5, BadPrice: 2},
	}

	require.NoError(t, c.Save("/data/listino.xlsx", fi, entry))

	got, ok, err := c.Lookup("/data/listino.xlsx", fi)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "Pasta", got.Items[0].Name)
	assert.Equal(t, "Pasta bis", got.Items[1].Name)
	assert.True(t, got.Items[2].UnitPrice.Equal(decimal.RequireFromString("7.5")))
	assert.Equal(t, 2, got.Report.HeaderRow)
	assert.Equal(t, 3, got.Report.Imported)
	assert.Equal(t, 2, got.Report.BadPrice)

	n, err := c.CatalogCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCache_MissOnChangedFile(t *testing.T) {
	c := openTemp(t)
	fi := FileInfo{MtimeNs: 100, SizeBytes: 10}
	require.NoError(t, c.Save("/x.csv", fi, Entry{}))

	for _, changed := range []FileInfo{
		{MtimeNs: 101, SizeBytes: 10},
		{MtimeNs: 100, SizeBytes: 11},
		{Sheet: "Altro", MtimeNs: 100, SizeBytes: 10},
	} {
		_, ok, err := c.Lookup("/x.csv", changed)
		require.NoError(t, err)
		assert.False(t, ok, "%+v should miss", changed)
	}

	_, ok, err := c.Lookup("/unknown.csv", fi)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_SaveReplaces(t *testing.T) {
	c := openTemp(t)
	first := FileInfo{MtimeNs: 1, SizeBytes: 1}
	second := FileInfo{MtimeNs: 2, SizeBytes: 1}

	require.NoError(t, c.Save("/x.csv", first, Entry{Items: []model.CatalogItem{
		{Code: "OLD", Name: "Old", UnitPrice: decimal.NewFromInt(1)},
	}}))
	require.NoError(t, c.Save("/x.csv", second, Entry{Items: []model.CatalogItem{
		{Code: "NEW", Name: "New", UnitPrice: decimal.NewFromInt(2)},
	}}))

	got, ok, err := c.Lookup("/x.csv", second)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "NEW", got.Items[0].Code)

	require.NoError(t, c.Delete("/x.csv"))
	_, ok, err = c.Lookup("/x.csv", second)
	require.NoError(t, err)
	assert.False(t, ok)
}

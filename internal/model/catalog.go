// Package model defines the data types shared by the spesa catalog, ledger
// and presentation layers.
package model

import "github.com/shopspring/decimal"

// Row is one decoded spreadsheet row. Cells are nil, string, float64 or
// time.Time.
type Row []any

// CatalogItem is a product produced by a catalog import. Items are never
// mutated after the import returns them.
type CatalogItem struct {
	Code      string
	Name      string
	UnitPrice decimal.Decimal
}

// SelectionEntry is one selected product with its quantity.
type SelectionEntry struct {
	Item      CatalogItem
	Quantity  int
	LineTotal decimal.Decimal
}

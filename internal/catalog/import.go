// Package catalog turns decoded spreadsheet rows into validated catalog items.
//
// The importer is a pure transformation: it performs no I/O and holds no
// state between calls. A new import always yields a complete catalog that
// replaces the previous one.
package catalog

import (
	"errors"
	"strings"

	"github.com/theirongolddev/spesa/internal/model"
)

// HeaderMarker is the first-cell value that identifies the header row.
const HeaderMarker = "CODICE"

// Column positions relative to the header row.
const (
	colCode  = 0
	colName  = 1
	colPrice = 4
)

// ErrHeaderNotFound is returned when no row starts with HeaderMarker.
var ErrHeaderNotFound = errors.New("catalog: header row not found")

// ImportReport summarizes what an import kept and dropped.
type ImportReport struct {
	HeaderRow     int // index of the header row in the input
	Considered    int // rows after the header
	Imported      int
	MissingFields int // empty code or name
	Promotional   int // name contains "promo"
	BadPrice      int // price missing, unparsable or negative
}

// Dropped returns the number of rows that were filtered out.
func (r ImportReport) Dropped() int {
	return r.MissingFields + r.Promotional + r.BadPrice
}

// Import parses rows into catalog items in their original order.
// Malformed rows are filtered silently; only a missing header is fatal.
func Import(rows []model.Row) ([]model.CatalogItem, error) {
	items, _, err := Parse(rows)
	return items, err
}

// Parse is Import plus a report of the filtered rows.
func Parse(rows []model.Row) ([]model.CatalogItem, ImportReport, error) {
	header := findHeader(rows)
	if header < 0 {
		return nil, ImportReport{HeaderRow: -1}, ErrHeaderNotFound
	}

	report := ImportReport{
		HeaderRow:  header,
		Considered: len(rows) - header - 1,
	}

	items := make([]model.CatalogItem, 0, report.Considered)
	for _, row := range rows[header+1:] {
		code := cellText(cellAt(row, colCode))
		name := cellText(cellAt(row, colName))
		if code == "" || name == "" {
			report.MissingFields++
			continue
		}
		if strings.Contains(strings.ToLower(name), "promo") {
			report.Promotional++
			continue
		}

		price, ok := ParsePrice(cellAt(row, colPrice))
		if !ok {
			report.BadPrice++
			continue
		}

		items = append(items, model.CatalogItem{
			Code:      code,
			Name:      name,
			UnitPrice: price,
		})
	}

	report.Imported = len(items)
	return items, report, nil
}

func findHeader(rows []model.Row) int {
	for i, row := range rows {
		if s, ok := cellAt(row, colCode).(string); ok && s == HeaderMarker {
			return i
		}
	}
	return -1
}

func cellAt(row model.Row, idx int) any {
	if idx < len(row) {
		return row[idx]
	}
	return nil
}

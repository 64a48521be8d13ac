// Package report builds the dated print view of a selection.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/theirongolddev/spesa/internal/model"
)

var supported = []language.Tag{language.Italian, language.English}

var matcher = language.NewMatcher(supported)

var monthNames = map[language.Tag][12]string{
	language.Italian: {
		"Gennaio", "Febbraio", "Marzo", "Aprile", "Maggio", "Giugno",
		"Luglio", "Agosto", "Settembre", "Ottobre", "Novembre", "Dicembre",
	},
	language.English: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
}

type labels struct {
	titleFmt string // month, year
	code     string
	product  string
	qty      string
	total    string
	grand    string
}

var labelSet = map[language.Tag]labels{
	language.Italian: {"Lista di %s %d", "Codice", "Prodotto", "Q.tà", "Totale", "Totale"},
	language.English: {"List of %s %d", "Code", "Product", "Qty", "Total", "Total"},
}

// List is a selection ready to print.
type List struct {
	Title   string
	Lang    language.Tag
	Date    time.Time
	Entries []model.SelectionEntry
	Total   decimal.Decimal
}

// Base returns the supported language closest to tag.
func Base(tag language.Tag) language.Tag {
	_, idx, _ := matcher.Match(tag)
	return supported[idx]
}

// MonthName returns the localized name of m.
func MonthName(tag language.Tag, m time.Month) string {
	return monthNames[Base(tag)][m-1]
}

// Title returns the print heading for the month of now, e.g.
// "Lista di Ottobre 2026".
func Title(tag language.Tag, now time.Time) string {
	return fmt.Sprintf(labelSet[Base(tag)].titleFmt, MonthName(tag, now.Month()), now.Year())
}

// Build assembles a print list from a ledger snapshot and its total.
func Build(entries []model.SelectionEntry, total decimal.Decimal, now time.Time, tag language.Tag) List {
	return List{
		Title:   Title(tag, now),
		Lang:    Base(tag),
		Date:    now,
		Entries: entries,
		Total:   total,
	}
}

// Headers returns the localized column headers.
func (l List) Headers() []string {
	lb := labelSet[Base(l.Lang)]
	return []string{lb.code, lb.product, lb.qty, lb.total}
}

// TotalLabel returns the localized grand total label.
func (l List) TotalLabel() string {
	return labelSet[Base(l.Lang)].grand
}

// FormatAmount renders an amount with two decimals and the euro sign.
func FormatAmount(d decimal.Decimal) string {
	return "€" + d.StringFixed(2)
}

// Rows returns the table cells for each entry.
func (l List) Rows() [][]string {
	rows := make([][]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		rows = append(rows, []string{
			e.Item.Code,
			e.Item.Name,
			strconv.Itoa(e.Quantity),
			FormatAmount(e.LineTotal),
		})
	}
	return rows
}

// WriteCSV exports the list as CSV with a trailing total row.
func (l List) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(l.Headers()); err != nil {
		return err
	}
	for _, e := range l.Entries {
		rec := []string{e.Item.Code, e.Item.Name, strconv.Itoa(e.Quantity), e.LineTotal.StringFixed(2)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"", l.TotalLabel(), "", l.Total.StringFixed(2)}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

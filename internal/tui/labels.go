package tui

import (
	"golang.org/x/text/language"

	"github.com/theirongolddev/spesa/internal/report"
)

// labels holds the user-facing strings of one language.
type labels struct {
	Loading       string
	NoCatalog     string
	NoMatches     string
	EmptySelect   string
	Products      string
	Selection     string
	Search        string
	Quantity      string
	NewRemaining  string
	Total         string
	Remaining     string
	Items         string
	Pieces        string
	Added         string // qty, name
	Removed       string // name
	Reloaded      string // item count
	Exported      string // path
	BadQuantity   string
	OverBudget    string // excess
	DialogHint    string
	CatalogHint   string
	SelectionHint string
	PrintHint     string
}

var italian = labels{
	Loading:       "Caricamento listino...",
	NoCatalog:     "Nessun listino caricato",
	NoMatches:     "Nessun prodotto trovato",
	EmptySelect:   "Nessun prodotto selezionato",
	Products:      "Prodotti",
	Selection:     "Selezione",
	Search:        "Cerca",
	Quantity:      "Quantità",
	NewRemaining:  "Nuova rimanenza",
	Total:         "Totale",
	Remaining:     "Rimanenza",
	Items:         "Articoli",
	Pieces:        "%d pezzi",
	Added:         "Aggiunto %d x %s",
	Removed:       "Rimosso %s",
	Reloaded:      "Listino aggiornato: %d prodotti",
	Exported:      "Esportato in %s",
	BadQuantity:   "Quantità non valida",
	OverBudget:    "Superato il limite di budget di %s",
	DialogHint:    "[a] conferma  [esc] annulla",
	CatalogHint:   "[/] cerca  [enter] quantità  [j/k] scorri",
	SelectionHint: "[d] rimuovi  [j/k] scorri",
	PrintHint:     "[e] esporta CSV",
}

var english = labels{
	Loading:       "Loading catalog...",
	NoCatalog:     "No catalog loaded",
	NoMatches:     "No products found",
	EmptySelect:   "Nothing selected",
	Products:      "Products",
	Selection:     "Selection",
	Search:        "Search",
	Quantity:      "Quantity",
	NewRemaining:  "New remaining",
	Total:         "Total",
	Remaining:     "Remaining",
	Items:         "Items",
	Pieces:        "%d pieces",
	Added:         "Added %d x %s",
	Removed:       "Removed %s",
	Reloaded:      "Catalog updated: %d products",
	Exported:      "Exported to %s",
	BadQuantity:   "Invalid quantity",
	OverBudget:    "Budget limit exceeded by %s",
	DialogHint:    "[a] confirm  [esc] cancel",
	CatalogHint:   "[/] search  [enter] quantity  [j/k] scroll",
	SelectionHint: "[d] remove  [j/k] scroll",
	PrintHint:     "[e] export CSV",
}

func labelsFor(tag language.Tag) labels {
	if report.Base(tag) == language.English {
		return english
	}
	return italian
}

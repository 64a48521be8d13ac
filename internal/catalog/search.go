package catalog

import (
	"strings"

	"github.com/theirongolddev/spesa/internal/model"

	"golang.org/x/text/cases"
)

// Search returns the items whose code, name or price contains query,
// ignoring case. The price matches in its plain form ("12.5") and with two
// decimals as listed, with either separator ("12.50", "12,50"). An empty
// query matches everything.
func Search(items []model.CatalogItem, query string) []model.CatalogItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	fold := cases.Fold()
	needle := fold.String(query)

	var out []model.CatalogItem
	for _, it := range items {
		fixed := it.UnitPrice.StringFixed(2)
		fields := []string{it.Code, it.Name, it.UnitPrice.String(), fixed, strings.Replace(fixed, ".", ",", 1)}
		for _, field := range fields {
			if strings.Contains(fold.String(field), needle) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Lookup returns the first item with the given code. Catalogs may contain
// duplicate codes; the earliest row wins.
func Lookup(items []model.CatalogItem, code string) (model.CatalogItem, bool) {
	for _, it := range items {
		if it.Code == code {
			return it, true
		}
	}
	return model.CatalogItem{}, false
}

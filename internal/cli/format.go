// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatEuro formats an amount with two decimals and the euro sign.
// e.g., 3.5 -> "€3.50", -12 -> "-€12.00"
func FormatEuro(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-€" + d.Neg().StringFixed(2)
	}
	return "€" + d.StringFixed(2)
}

// FormatPrice formats a unit price the way the catalog list shows it.
func FormatPrice(d decimal.Decimal) string {
	return "€ " + d.StringFixed(2)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatAge describes how long ago t was, e.g. "3 minutes ago".
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// FormatBytes formats a file size, e.g. "12 kB".
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// FormatQuantity renders the "qty x name = total" line of the quantity dialog.
func FormatQuantity(qty int, name string, line decimal.Decimal) string {
	return fmt.Sprintf("%d x %s = %s", qty, name, FormatEuro(line))
}

// Truncate shortens s to at most n display columns, adding an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return strings.TrimRight(string(r[:n-1]), " ") + "…"
}

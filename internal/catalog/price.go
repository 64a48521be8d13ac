package catalog

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice derives a unit price from a decoded cell.
//
// Numeric cells are used as they are. Text cells have the euro sign removed
// and the first decimal comma turned into a point, then the longest leading
// number is read, so "€12,50" becomes 12.50 and "3,20 cad." becomes 3.20.
// The second result is false when no leading number exists or the amount is
// not finite and non-negative.
func ParsePrice(cell any) (decimal.Decimal, bool) {
	var d decimal.Decimal
	switch v := cell.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		d = decimal.NewFromFloat(v)
	case string:
		num := leadingNumber(normalizePrice(v))
		if num == "" {
			return decimal.Zero, false
		}
		parsed, err := decimal.NewFromString(num)
		if err != nil {
			return decimal.Zero, false
		}
		d = parsed
	default:
		return decimal.Zero, false
	}

	if d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

func normalizePrice(s string) string {
	s = strings.ReplaceAll(s, "€", "")
	s = strings.Replace(s, ",", ".", 1)
	return strings.TrimSpace(s)
}

// leadingNumber returns the longest prefix of s shaped like
// [sign] digits [. digits] [e [sign] digits], with at least one digit in the
// mantissa. A leading '+' is dropped. Empty when s does not start with a number.
func leadingNumber(s string) string {
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return ""
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}

	num := strings.TrimSuffix(s[start:i], ".")
	if strings.HasPrefix(num, ".") {
		num = "0" + num
	}
	if neg {
		return "-" + num
	}
	return num
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

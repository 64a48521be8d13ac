package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// cellText returns the trimmed display form of a decoded cell.
// Blank and missing cells yield "".
func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case float64:
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return ""
		}
		return strconv.FormatFloat(c, 'f', -1, 64)
	case time.Time:
		if c.IsZero() {
			return ""
		}
		return c.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(c))
	}
}

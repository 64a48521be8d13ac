// Package ledger tracks a selection of catalog items against a budget limit.
//
// All amounts are exact decimals. The budget check compares the unrounded
// projected total with the limit; rounding to cents happens only when
// values are displayed.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/spesa/internal/model"
)

// DefaultLimit is the budget ceiling used when none is configured.
var DefaultLimit = decimal.NewFromInt(260)

var (
	// ErrInvalidQuantity rejects non-numeric or non-positive quantities.
	ErrInvalidQuantity = errors.New("ledger: quantity must be a positive integer")

	// ErrBudgetExceeded matches every *BudgetExceededError via errors.Is.
	ErrBudgetExceeded = errors.New("ledger: budget exceeded")
)

// BudgetExceededError reports an add that would push the total past the limit.
type BudgetExceededError struct {
	Excess decimal.Decimal
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("ledger: budget exceeded by %s", e.Excess.StringFixed(2))
}

// Is lets errors.Is(err, ErrBudgetExceeded) match.
func (e *BudgetExceededError) Is(target error) bool {
	return target == ErrBudgetExceeded
}

// Ledger holds the selected entries in insertion order and their running total.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	id      string
	limit   decimal.Decimal
	entries []model.SelectionEntry
	index   map[string]int // code -> position in entries
	total   decimal.Decimal
}

// New returns an empty ledger with a fixed budget limit.
func New(limit decimal.Decimal) *Ledger {
	return &Ledger{
		id:    uuid.NewString(),
		limit: limit,
		index: make(map[string]int),
		total: decimal.Zero,
	}
}

// ID identifies the ledger in log output.
func (l *Ledger) ID() string { return l.id }

// Limit returns the budget ceiling.
func (l *Ledger) Limit() decimal.Decimal { return l.limit }

// GrandTotal returns the sum of all line totals.
func (l *Ledger) GrandTotal() decimal.Decimal { return l.total }

// Len returns the number of distinct codes selected.
func (l *Ledger) Len() int { return len(l.entries) }

// RemainingBudget returns the limit minus the grand total.
func (l *Ledger) RemainingBudget() decimal.Decimal {
	return l.limit.Sub(l.total)
}

// Add selects quantity units of item. Repeated adds of the same code
// accumulate. The budget is checked before anything changes: a rejected
// add leaves the ledger exactly as it was.
func (l *Ledger) Add(item model.CatalogItem, quantity int) error {
	if quantity <= 0 || l.overflows(item.Code, quantity) {
		return ErrInvalidQuantity
	}

	projected := l.total.Add(lineTotal(l.priced(item), quantity))
	if projected.GreaterThan(l.limit) {
		return &BudgetExceededError{Excess: projected.Sub(l.limit)}
	}

	if i, ok := l.index[item.Code]; ok {
		e := &l.entries[i]
		e.Quantity += quantity
		e.LineTotal = lineTotal(e.Item, e.Quantity)
	} else {
		l.index[item.Code] = len(l.entries)
		l.entries = append(l.entries, model.SelectionEntry{
			Item:      item,
			Quantity:  quantity,
			LineTotal: lineTotal(item, quantity),
		})
	}

	l.total = projected
	return nil
}

// Remove drops the entry for code and reports whether one existed.
func (l *Ledger) Remove(code string) bool {
	i, ok := l.index[code]
	if !ok {
		return false
	}

	l.total = l.total.Sub(l.entries[i].LineTotal)
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	delete(l.index, code)
	for j := i; j < len(l.entries); j++ {
		l.index[l.entries[j].Item.Code] = j
	}
	return true
}

// Snapshot returns a copy of the entries in insertion order.
func (l *Ledger) Snapshot() []model.SelectionEntry {
	out := make([]model.SelectionEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Entry returns the current entry for code.
func (l *Ledger) Entry(code string) (model.SelectionEntry, bool) {
	i, ok := l.index[code]
	if !ok {
		return model.SelectionEntry{}, false
	}
	return l.entries[i], true
}

// Preview is the outcome an Add would have, computed without mutating.
type Preview struct {
	LineTotal      decimal.Decimal
	RemainingAfter decimal.Decimal
	Err            error
}

// Preview reports what Add(item, quantity) would do.
func (l *Ledger) Preview(item model.CatalogItem, quantity int) Preview {
	if quantity <= 0 || l.overflows(item.Code, quantity) {
		return Preview{
			LineTotal:      decimal.Zero,
			RemainingAfter: l.RemainingBudget(),
			Err:            ErrInvalidQuantity,
		}
	}
	line := lineTotal(l.priced(item), quantity)
	p := Preview{
		LineTotal:      line,
		RemainingAfter: l.limit.Sub(l.total.Add(line)),
	}
	if p.RemainingAfter.IsNegative() {
		p.Err = &BudgetExceededError{Excess: p.RemainingAfter.Neg()}
	}
	return p
}

// Stats summarizes the ledger for display.
func (l *Ledger) Stats() model.BudgetStats {
	s := model.BudgetStats{
		Limit:     l.limit,
		Spent:     l.total,
		Remaining: l.RemainingBudget(),
		Entries:   len(l.entries),
	}
	for _, e := range l.entries {
		if e.Quantity > math.MaxInt-s.Units {
			s.Units = math.MaxInt
			break
		}
		s.Units += e.Quantity
	}
	if l.limit.IsPositive() {
		s.UsedPercent = l.total.Div(l.limit).InexactFloat64()
	}
	return s
}

// ParseQuantity converts user input into a quantity for Add.
func ParseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, ErrInvalidQuantity
	}
	return n, nil
}

// overflows reports whether adding quantity to the entry for code would
// exceed the int range. Zero-priced items never hit the budget check, so the
// quantity itself has to be bounded.
func (l *Ledger) overflows(code string, quantity int) bool {
	i, ok := l.index[code]
	return ok && quantity > math.MaxInt-l.entries[i].Quantity
}

// priced returns the item whose price applies to item.Code. Once a code is
// selected, its first price is used for every later add of that code.
func (l *Ledger) priced(item model.CatalogItem) model.CatalogItem {
	if i, ok := l.index[item.Code]; ok {
		return l.entries[i].Item
	}
	return item
}

func lineTotal(item model.CatalogItem, quantity int) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

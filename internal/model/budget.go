package model

import "github.com/shopspring/decimal"

// BudgetStats holds budget tracking data for a selection.
type BudgetStats struct {
	Limit       decimal.Decimal
	Spent       decimal.Decimal
	Remaining   decimal.Decimal
	UsedPercent float64
	Entries     int
	Units       int
}

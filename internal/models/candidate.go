package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candidate is an imported transaction awaiting category assignment and user
// confirmation before it becomes a BudgetRow.
type Candidate struct {
	TempID      string
	Date        time.Time
	Description string
	// Amount is the absolute value of SignedAmount.
	Amount       decimal.Decimal
	SignedAmount decimal.Decimal
	MonthIndex   int
	Year         int
	CategoryID   string
	IsDuplicate  bool
	Selected     bool
	// SourceRow is the 0-based index of the row in the uploaded grid.
	SourceRow int
}

// IsCredit reports whether the imported flow was money coming in.
func (c Candidate) IsCredit() bool {
	return c.SignedAmount.IsPositive()
}

// DateString formats the candidate date as YYYY-MM-DD.
func (c Candidate) DateString() string {
	return c.Date.Format("2006-01-02")
}

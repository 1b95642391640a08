package models

import "github.com/shopspring/decimal"

// BudgetRow is the atomic ledger entry for a category in a given month and year.
type BudgetRow struct {
	ID          string          `yaml:"id" json:"id"`
	CategoryID  string          `yaml:"category_id" json:"categoryId"`
	Description string          `yaml:"description" json:"description"`
	Planned     decimal.Decimal `yaml:"planned" json:"planned"`
	Actual      decimal.Decimal `yaml:"actual" json:"actual"`
	MonthIndex  int             `yaml:"month_index" json:"monthIndex"`
	Year        int             `yaml:"year" json:"year"`
	DebtID      string          `yaml:"debt_id,omitempty" json:"debtId,omitempty"`
}

// Variance is actual minus planned.
func (r BudgetRow) Variance() decimal.Decimal {
	return r.Actual.Sub(r.Planned)
}

// VariancePercent is the variance relative to planned, zero when nothing was planned.
func (r BudgetRow) VariancePercent() decimal.Decimal {
	if r.Planned.IsZero() {
		return decimal.Zero
	}
	return r.Variance().Div(r.Planned)
}

// InPeriod reports whether the row belongs to the given month and year.
func (r BudgetRow) InPeriod(monthIndex, year int) bool {
	return r.MonthIndex == monthIndex && r.Year == year
}

package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetRowBuilder provides a fluent API for constructing budget rows.
type BudgetRowBuilder struct {
	row BudgetRow
	err error
}

// NewBudgetRowBuilder creates a builder with zero planned and actual amounts.
func NewBudgetRowBuilder() *BudgetRowBuilder {
	return &BudgetRowBuilder{
		row: BudgetRow{
			Planned:    decimal.Zero,
			Actual:     decimal.Zero,
			MonthIndex: -1,
		},
	}
}

// WithID sets the row ID. An empty ID is replaced by a generated one on Build.
func (b *BudgetRowBuilder) WithID(id string) *BudgetRowBuilder {
	if b.err != nil {
		return b
	}
	b.row.ID = id
	return b
}

// WithCategory sets the owning category.
func (b *BudgetRowBuilder) WithCategory(categoryID string) *BudgetRowBuilder {
	if b.err != nil {
		return b
	}
	b.row.CategoryID = categoryID
	return b
}

// WithDescription sets the description.
func (b *BudgetRowBuilder) WithDescription(description string) *BudgetRowBuilder {
	if b.err != nil {
		return b
	}
	b.row.Description = description
	return b
}

// WithPlanned sets the planned amount.
func (b *BudgetRowBuilder) WithPlanned(amount decimal.Decimal) *BudgetRowBuilder {
	if b.err != nil {
		return b
	}
	b.row.Planned = amount
	return b
}

// WithActual sets the actual amount.
func (b *BudgetRowBuilder) WithActual(amount decimal.Decimal) *BudgetRowBuilder {
	if b.err != nil {
		return b
	}
	b.row.Actual = amount
	return b
}

// WithPeriod sets the 0-based month index and year.
func (b *BudgetRowBuilder) WithPeriod(monthIndex, year int) *BudgetRowBuilder {
	if b.err != nil {
		return b
	}
	if !ValidMonthIndex(monthIndex) {
		b.err = fmt.Errorf("month index %d out of range 0..11", monthIndex)
		return b
	}
	b.row.MonthIndex = monthIndex
	b.row.Year = year
	return b
}

// WithDebt links the row to a specific debt.
func (b *BudgetRowBuilder) WithDebt(debtID string) *BudgetRowBuilder {
	if b.err != nil {
		return b
	}
	b.row.DebtID = debtID
	return b
}

// Build validates the row and returns it.
func (b *BudgetRowBuilder) Build() (BudgetRow, error) {
	if b.err != nil {
		return BudgetRow{}, b.err
	}
	if strings.TrimSpace(b.row.CategoryID) == "" {
		return BudgetRow{}, errors.New("budget row requires a category")
	}
	if b.row.MonthIndex < 0 {
		return BudgetRow{}, errors.New("budget row requires a period")
	}
	if b.row.ID == "" {
		b.row.ID = uuid.NewString()
	}
	return b.row, nil
}

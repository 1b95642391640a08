package models

import "github.com/shopspring/decimal"

// Recurrence describes how a category or debt repeats inside a budget year.
type Recurrence struct {
	IsRecurring   bool             `yaml:"is_recurring" json:"isRecurring"`
	RecurringDay  int              `yaml:"recurring_day,omitempty" json:"recurringDay,omitempty"`
	Frequency     Frequency        `yaml:"frequency,omitempty" json:"frequency,omitempty"`
	DefaultAmount *decimal.Decimal `yaml:"default_amount,omitempty" json:"defaultAmount,omitempty"`
}

// EffectiveFrequency returns the frequency, treating an empty value as monthly.
func (r Recurrence) EffectiveFrequency() Frequency {
	if r.Frequency == "" {
		return FrequencyMonthly
	}
	return r.Frequency
}

// PlannedAmount returns the default amount or zero when unset.
func (r Recurrence) PlannedAmount() decimal.Decimal {
	if r.DefaultAmount == nil {
		return decimal.Zero
	}
	return *r.DefaultAmount
}

// Category is a user-defined classification of cash flow.
type Category struct {
	ID           string       `yaml:"id" json:"id"`
	Name         string       `yaml:"name" json:"name"`
	Type         CategoryType `yaml:"type" json:"type"`
	SubCategory  string       `yaml:"sub_category,omitempty" json:"subCategory,omitempty"`
	Recurrence   Recurrence   `yaml:"recurrence" json:"recurrence"`
	LinkedDebtID string       `yaml:"linked_debt_id,omitempty" json:"linkedDebtId,omitempty"`
}

// IsLinked reports whether the category represents a Debt.
func (c Category) IsLinked() bool {
	return c.LinkedDebtID != ""
}

// Clone returns a deep copy of the category.
func (c Category) Clone() Category {
	if c.Recurrence.DefaultAmount != nil {
		amount := *c.Recurrence.DefaultAmount
		c.Recurrence.DefaultAmount = &amount
	}
	return c
}

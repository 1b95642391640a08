package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Revenue is a dated income record kept outside the month budget grid.
type Revenue struct {
	ID          string          `yaml:"id" json:"id"`
	Date        time.Time       `yaml:"date" json:"date"`
	Description string          `yaml:"description" json:"description"`
	Source      string          `yaml:"source,omitempty" json:"source,omitempty"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	CategoryID  string          `yaml:"category_id" json:"categoryId"`
	MonthIndex  int             `yaml:"month_index" json:"monthIndex"`
	Year        int             `yaml:"year" json:"year"`
}

// Investment is a dated capital allocation with an optional realized return.
type Investment struct {
	ID           string           `yaml:"id" json:"id"`
	Date         time.Time        `yaml:"date" json:"date"`
	Project      string           `yaml:"project" json:"project"`
	Amount       decimal.Decimal  `yaml:"amount" json:"amount"`
	CategoryID   string           `yaml:"category_id" json:"categoryId"`
	ReturnAmount *decimal.Decimal `yaml:"return_amount,omitempty" json:"returnAmount,omitempty"`
	MonthIndex   int              `yaml:"month_index" json:"monthIndex"`
	Year         int              `yaml:"year" json:"year"`
}

// PeriodOf returns the 0-based month index and year of t.
func PeriodOf(t time.Time) (int, int) {
	return int(t.Month()) - 1, t.Year()
}

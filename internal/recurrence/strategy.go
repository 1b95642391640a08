package recurrence

import (
	"fmt"
	"time"

	"fjacquet/budgetmaster/internal/dateutils"
	"fjacquet/budgetmaster/internal/models"
)

// ExpansionStrategy produces the rows a recurring category contributes to one
// month. Each frequency has its own strategy.
type ExpansionStrategy interface {
	// Expand returns the rows for category in the given month.
	Expand(category models.Category, monthIndex, year int) ([]models.BudgetRow, error)
	Name() string
}

// MonthlyStrategy emits one row per month.
type MonthlyStrategy struct{}

// Expand returns a single planned payment row.
func (MonthlyStrategy) Expand(category models.Category, monthIndex, year int) ([]models.BudgetRow, error) {
	row, err := paymentRow(category, monthIndex, year, "")
	if err != nil {
		return nil, err
	}
	return []models.BudgetRow{row}, nil
}

// Name implements ExpansionStrategy.
func (MonthlyStrategy) Name() string { return string(models.FrequencyMonthly) }

// BimonthlyStrategy emits two rows per month, the second one suffixed " (2)".
type BimonthlyStrategy struct{}

// Expand returns the two planned payment rows of the month.
func (BimonthlyStrategy) Expand(category models.Category, monthIndex, year int) ([]models.BudgetRow, error) {
	rows := make([]models.BudgetRow, 0, 2)
	for _, suffix := range []string{"", " (2)"} {
		row, err := paymentRow(category, monthIndex, year, suffix)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Name implements ExpansionStrategy.
func (BimonthlyStrategy) Name() string { return string(models.FrequencyBimonthly) }

func paymentRow(category models.Category, monthIndex, year int, suffix string) (models.BudgetRow, error) {
	return models.NewBudgetRowBuilder().
		WithCategory(category.ID).
		WithDescription(PaymentDescription(category.Name) + suffix).
		WithPlanned(category.Recurrence.PlannedAmount()).
		WithPeriod(monthIndex, year).
		WithDebt(category.LinkedDebtID).
		Build()
}

// DueDate returns the day a recurring category falls due in a month. The
// recurring day is clamped to the month's length.
func DueDate(category models.Category, monthIndex, year int) (time.Time, bool) {
	if !category.Recurrence.IsRecurring || !models.ValidMonthIndex(monthIndex) {
		return time.Time{}, false
	}
	return dateutils.DayInMonth(year, time.Month(monthIndex+1), category.Recurrence.RecurringDay), true
}

// PaymentDescription is the description given to materialized rows.
func PaymentDescription(categoryName string) string {
	return "Payment " + categoryName
}

// expansionStrategies maps frequencies to their strategy.
var expansionStrategies = map[models.Frequency]ExpansionStrategy{
	models.FrequencyMonthly:   MonthlyStrategy{},
	models.FrequencyBimonthly: BimonthlyStrategy{},
}

// GetExpansionStrategy returns the strategy registered for frequency.
func GetExpansionStrategy(frequency models.Frequency) (ExpansionStrategy, error) {
	strategy, ok := expansionStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unsupported frequency: %q", frequency)
	}
	return strategy, nil
}

// Package recurrence expands recurring categories into the budget rows of a year.
package recurrence

import (
	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"

	"github.com/google/uuid"
)

type periodKey struct {
	categoryID string
	monthIndex int
	year       int
}

// Materializer computes the recurring rows missing from a ledger. It holds no
// state besides its logger and ID source.
type Materializer struct {
	logger logging.Logger
	newID  func() string
}

// NewMaterializer creates a Materializer that assigns uuid identifiers.
func NewMaterializer(logger logging.Logger) *Materializer {
	return &Materializer{logger: logging.OrDefault(logger), newID: uuid.NewString}
}

// Materialize returns the rows that must be added so that every recurring
// category has its instances for each month of year. Existing rows are never
// modified and the returned slice only holds new rows.
//
// Any existing row for a (category, month, year) triple blocks materialization
// for that month, whatever its origin. Running Materialize on its own output
// merged with existing therefore returns nothing.
func (m *Materializer) Materialize(categories []models.Category, existing []models.BudgetRow, year int) []models.BudgetRow {
	present := make(map[periodKey]struct{}, len(existing))
	for _, row := range existing {
		present[periodKey{row.CategoryID, row.MonthIndex, row.Year}] = struct{}{}
	}

	var added []models.BudgetRow
	for _, category := range categories {
		if !category.Recurrence.IsRecurring {
			continue
		}

		strategy, err := GetExpansionStrategy(category.Recurrence.EffectiveFrequency())
		if err != nil {
			m.logger.Warn("Unknown frequency, falling back to monthly",
				logging.F(logging.FieldCategoryID, category.ID),
				logging.F(logging.FieldReason, err.Error()))
			strategy = MonthlyStrategy{}
		}

		for month := 0; month < models.MonthsPerYear; month++ {
			if _, ok := present[periodKey{category.ID, month, year}]; ok {
				continue
			}
			rows, err := strategy.Expand(category, month, year)
			if err != nil {
				m.logger.WithError(err).Warn("Skipping recurring rows",
					logging.F(logging.FieldCategoryID, category.ID))
				continue
			}
			for _, row := range rows {
				row.ID = m.newID()
				added = append(added, row)
			}
			present[periodKey{category.ID, month, year}] = struct{}{}
		}
	}

	if len(added) > 0 {
		m.logger.Debug("Materialized recurring rows",
			logging.F(logging.FieldYear, year),
			logging.F(logging.FieldCount, len(added)))
	}
	return added
}

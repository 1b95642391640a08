package ledger

import (
	"fmt"
	"sort"

	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"
)

func validateRow(next *Snapshot, r models.BudgetRow) error {
	if !models.ValidMonthIndex(r.MonthIndex) {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, r.MonthIndex)
	}
	if r.Year <= 0 {
		return invalid("year must be positive")
	}
	if next.categoryIndex(r.CategoryID) < 0 {
		return fmt.Errorf("category %s: %w", r.CategoryID, ErrNotFound)
	}
	return nil
}

// ListBudgetRows returns every budget row.
func (s *Store) ListBudgetRows() []models.BudgetRow {
	return s.Snapshot().BudgetRows
}

// RowsForPeriod returns the rows of one month ordered by category then description.
func (s *Store) RowsForPeriod(monthIndex, year int) []models.BudgetRow {
	rows := s.Snapshot().RowsInPeriod(monthIndex, year)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CategoryID != rows[j].CategoryID {
			return rows[i].CategoryID < rows[j].CategoryID
		}
		return rows[i].Description < rows[j].Description
	})
	return rows
}

// AddBudgetRow stores a manual budget row. Manual rows may duplicate
// materialized ones freely.
func (s *Store) AddBudgetRow(r models.BudgetRow) (models.BudgetRow, error) {
	added, err := s.AddBudgetRows([]models.BudgetRow{r})
	if err != nil {
		return models.BudgetRow{}, err
	}
	return added[0], nil
}

// AddBudgetRows stores rows in a single mutation. Either every row is added
// or none is.
func (s *Store) AddBudgetRows(rows []models.BudgetRow) ([]models.BudgetRow, error) {
	added := make([]models.BudgetRow, 0, len(rows))
	err := s.mutate("add_budget_rows", func(next *Snapshot) error {
		for _, r := range rows {
			if err := validateRow(next, r); err != nil {
				return err
			}
			r.ID = s.id(r.ID)
			if next.rowIndex(r.ID) >= 0 {
				return invalid("budget row %s already exists", r.ID)
			}
			next.BudgetRows = append(next.BudgetRows, r)
			added = append(added, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Added budget rows", logging.F(logging.FieldCount, len(added)))
	return added, nil
}

// UpdateBudgetRow replaces the row with the same ID.
func (s *Store) UpdateBudgetRow(r models.BudgetRow) error {
	return s.mutate("update_budget_row", func(next *Snapshot) error {
		i := next.rowIndex(r.ID)
		if i < 0 {
			return fmt.Errorf("budget row %s: %w", r.ID, ErrNotFound)
		}
		if err := validateRow(next, r); err != nil {
			return err
		}
		next.BudgetRows[i] = r
		return nil
	})
}

// DeleteBudgetRow removes a row. A deleted materialized row comes back on the
// next reconciliation unless another row of the same category and month exists.
func (s *Store) DeleteBudgetRow(id string) error {
	return s.mutate("delete_budget_row", func(next *Snapshot) error {
		i := next.rowIndex(id)
		if i < 0 {
			return fmt.Errorf("budget row %s: %w", id, ErrNotFound)
		}
		next.BudgetRows = append(next.BudgetRows[:i], next.BudgetRows[i+1:]...)
		return nil
	})
}

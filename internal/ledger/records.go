package ledger

import (
	"fmt"
	"strings"

	"fjacquet/budgetmaster/internal/models"
)

// ListRevenues returns every revenue.
func (s *Store) ListRevenues() []models.Revenue {
	return s.Snapshot().Revenues
}

// AddRevenue stores a revenue. Month and year are derived from Date when it is set.
func (s *Store) AddRevenue(r models.Revenue) (models.Revenue, error) {
	err := s.mutate("add_revenue", func(next *Snapshot) error {
		if strings.TrimSpace(r.Description) == "" {
			return invalid("revenue description is required")
		}
		if !r.Date.IsZero() {
			r.MonthIndex, r.Year = models.PeriodOf(r.Date)
		}
		if !models.ValidMonthIndex(r.MonthIndex) {
			return fmt.Errorf("%w: got %d", ErrInvalidMonth, r.MonthIndex)
		}
		if r.CategoryID != "" && next.categoryIndex(r.CategoryID) < 0 {
			return fmt.Errorf("category %s: %w", r.CategoryID, ErrNotFound)
		}
		r.ID = s.id(r.ID)
		next.Revenues = append(next.Revenues, r)
		return nil
	})
	if err != nil {
		return models.Revenue{}, err
	}
	return r, nil
}

// DeleteRevenue removes a revenue.
func (s *Store) DeleteRevenue(id string) error {
	return s.mutate("delete_revenue", func(next *Snapshot) error {
		for i := range next.Revenues {
			if next.Revenues[i].ID == id {
				next.Revenues = append(next.Revenues[:i], next.Revenues[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("revenue %s: %w", id, ErrNotFound)
	})
}

// ListInvestments returns every investment.
func (s *Store) ListInvestments() []models.Investment {
	return s.Snapshot().Investments
}

// AddInvestment stores an investment. Month and year are derived from Date when it is set.
func (s *Store) AddInvestment(inv models.Investment) (models.Investment, error) {
	err := s.mutate("add_investment", func(next *Snapshot) error {
		if strings.TrimSpace(inv.Project) == "" {
			return invalid("investment project is required")
		}
		if !inv.Date.IsZero() {
			inv.MonthIndex, inv.Year = models.PeriodOf(inv.Date)
		}
		if !models.ValidMonthIndex(inv.MonthIndex) {
			return fmt.Errorf("%w: got %d", ErrInvalidMonth, inv.MonthIndex)
		}
		if inv.CategoryID != "" && next.categoryIndex(inv.CategoryID) < 0 {
			return fmt.Errorf("category %s: %w", inv.CategoryID, ErrNotFound)
		}
		inv.ID = s.id(inv.ID)
		next.Investments = append(next.Investments, inv)
		return nil
	})
	if err != nil {
		return models.Investment{}, err
	}
	return inv, nil
}

// DeleteInvestment removes an investment.
func (s *Store) DeleteInvestment(id string) error {
	return s.mutate("delete_investment", func(next *Snapshot) error {
		for i := range next.Investments {
			if next.Investments[i].ID == id {
				next.Investments = append(next.Investments[:i], next.Investments[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("investment %s: %w", id, ErrNotFound)
	})
}

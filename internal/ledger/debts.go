package ledger

import (
	"fmt"
	"strings"

	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"
)

func validateDebt(d models.Debt) error {
	if strings.TrimSpace(d.Name) == "" {
		return invalid("debt name is required")
	}
	if d.InitialBalance.IsNegative() {
		return invalid("initial balance cannot be negative")
	}
	if d.AnnualRate.IsNegative() {
		return invalid("annual rate cannot be negative")
	}
	if d.MonthlyPayment.IsNegative() {
		return invalid("monthly payment cannot be negative")
	}
	if _, err := models.ParseDebtType(string(d.Type)); err != nil {
		return invalid("%v", err)
	}
	for _, day := range []int{d.StatementDay, d.DueDay, d.Recurrence.RecurringDay} {
		if day < 0 || day > 31 {
			return invalid("day %d is outside 1..31", day)
		}
	}
	return nil
}

// ListDebts returns every debt.
func (s *Store) ListDebts() []models.Debt {
	return s.Snapshot().Debts
}

// GetDebt returns the debt with id.
func (s *Store) GetDebt(id string) (models.Debt, error) {
	snap := s.Snapshot()
	if i := snap.debtIndex(id); i >= 0 {
		return snap.Debts[i], nil
	}
	return models.Debt{}, fmt.Errorf("debt %s: %w", id, ErrNotFound)
}

// AddDebt stores a debt together with the recurring category that budgets its
// payments, then materializes that category for the current year. The debt is
// always recurring.
func (s *Store) AddDebt(d models.Debt) (models.Debt, models.Category, error) {
	var linked models.Category
	err := s.mutate("add_debt", func(next *Snapshot) error {
		if err := validateDebt(d); err != nil {
			return err
		}
		if d.Type == "" {
			d.Type = models.DebtLoan
		}
		d.ID = s.id(d.ID)
		if next.debtIndex(d.ID) >= 0 {
			return invalid("debt %s already exists", d.ID)
		}
		d.Recurrence.IsRecurring = true

		linked = linkedCategoryFor(d, s.newID())
		next.Debts = append(next.Debts, d)
		next.Categories = append(next.Categories, linked)
		s.reconcileLocked(next, next.Year)
		return nil
	})
	if err != nil {
		return models.Debt{}, models.Category{}, err
	}
	s.logger.Info("Added debt with linked category",
		logging.F(logging.FieldDebtID, d.ID),
		logging.F(logging.FieldCategoryID, linked.ID))
	return d, linked, nil
}

func linkedCategoryFor(d models.Debt, id string) models.Category {
	frequency := d.Recurrence.Frequency
	if frequency == "" {
		frequency = models.FrequencyMonthly
	}
	day := d.Recurrence.RecurringDay
	if day == 0 {
		day = 1
	}
	payment := d.MonthlyPayment
	return models.Category{
		ID:          id,
		Name:        d.Name,
		Type:        models.TypeDebt,
		SubCategory: d.LinkedSubCategory(),
		Recurrence: models.Recurrence{
			IsRecurring:   true,
			RecurringDay:  day,
			Frequency:     frequency,
			DefaultAmount: &payment,
		},
		LinkedDebtID: d.ID,
	}
}

// DeleteDebt removes a debt and its linked category in one mutation. Budget
// rows already recorded against the debt are kept.
func (s *Store) DeleteDebt(id string) error {
	err := s.mutate("delete_debt", func(next *Snapshot) error {
		i := next.debtIndex(id)
		if i < 0 {
			return fmt.Errorf("debt %s: %w", id, ErrNotFound)
		}
		next.Debts = append(next.Debts[:i], next.Debts[i+1:]...)

		kept := next.Categories[:0]
		for _, c := range next.Categories {
			if c.LinkedDebtID != id {
				kept = append(kept, c)
			}
		}
		next.Categories = kept
		return nil
	})
	if err == nil {
		s.logger.Info("Deleted debt and linked category", logging.F(logging.FieldDebtID, id))
	}
	return err
}

// RenameLinkedPair renames a debt and its linked category together.
func (s *Store) RenameLinkedPair(debtID, name string) error {
	return s.mutate("rename_linked_pair", func(next *Snapshot) error {
		if strings.TrimSpace(name) == "" {
			return invalid("name is required")
		}
		i := next.debtIndex(debtID)
		if i < 0 {
			return fmt.Errorf("debt %s: %w", debtID, ErrNotFound)
		}
		next.Debts[i].Name = name
		if c := next.linkedCategoryIndex(debtID); c >= 0 {
			next.Categories[c].Name = name
		}
		return nil
	})
}

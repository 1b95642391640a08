package ledger

import (
	"fmt"
	"strings"

	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func validateCategory(c models.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("category name is required")
	}
	if _, err := models.ParseCategoryType(string(c.Type)); err != nil {
		return invalid("%v", err)
	}
	if c.Recurrence.Frequency != "" {
		if _, err := models.ParseFrequency(string(c.Recurrence.Frequency)); err != nil {
			return invalid("%v", err)
		}
	}
	if d := c.Recurrence.RecurringDay; d < 0 || d > 31 {
		return invalid("recurring day %d is outside 1..31", d)
	}
	return nil
}

// ListCategories returns every category.
func (s *Store) ListCategories() []models.Category {
	return s.Snapshot().Categories
}

// GetCategory returns the category with id.
func (s *Store) GetCategory(id string) (models.Category, error) {
	snap := s.Snapshot()
	c, ok := snap.CategoryByID(id)
	if !ok {
		return models.Category{}, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// AddCategory stores a new category and materializes its recurring rows for
// the current year. An empty ID is generated.
func (s *Store) AddCategory(c models.Category) (models.Category, error) {
	err := s.mutate("add_category", func(next *Snapshot) error {
		if err := validateCategory(c); err != nil {
			return err
		}
		c.ID = s.id(c.ID)
		if next.categoryIndex(c.ID) >= 0 {
			return invalid("category %s already exists", c.ID)
		}
		if c.IsLinked() {
			if next.debtIndex(c.LinkedDebtID) < 0 {
				return fmt.Errorf("debt %s: %w", c.LinkedDebtID, ErrNotFound)
			}
			if next.linkedCategoryIndex(c.LinkedDebtID) >= 0 {
				return fmt.Errorf("debt %s: %w", c.LinkedDebtID, ErrDuplicateLink)
			}
		}
		next.Categories = append(next.Categories, c.Clone())
		s.reconcileLocked(next, next.Year)
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}
	s.logger.Info("Added category",
		logging.F(logging.FieldCategoryID, c.ID))
	return c, nil
}

// UpdateCategory replaces a category. When the category is linked to a debt,
// the debt takes the category's new name.
func (s *Store) UpdateCategory(c models.Category) error {
	return s.mutate("update_category", func(next *Snapshot) error {
		i := next.categoryIndex(c.ID)
		if i < 0 {
			return fmt.Errorf("category %s: %w", c.ID, ErrNotFound)
		}
		if err := validateCategory(c); err != nil {
			return err
		}
		prev := next.Categories[i]
		if c.LinkedDebtID != prev.LinkedDebtID {
			return invalid("the debt link of a category cannot be changed")
		}
		next.Categories[i] = c.Clone()
		if c.IsLinked() {
			if d := next.debtIndex(c.LinkedDebtID); d >= 0 {
				next.Debts[d].Name = c.Name
			}
		}
		s.reconcileLocked(next, next.Year)
		return nil
	})
}

// DeleteCategory removes a category. Categories linked to a debt are refused
// with ErrLinkedCategory. Budget rows of the category are kept.
func (s *Store) DeleteCategory(id string) error {
	return s.mutate("delete_category", func(next *Snapshot) error {
		i := next.categoryIndex(id)
		if i < 0 {
			return fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		if next.Categories[i].IsLinked() {
			return fmt.Errorf("category %s: %w", id, ErrLinkedCategory)
		}
		next.Categories = append(next.Categories[:i], next.Categories[i+1:]...)
		return nil
	})
}

package ledger

import "fjacquet/budgetmaster/internal/models"

// Snapshot is a consistent view of the whole ledger. Snapshots handed out by
// the Store are copies and may be modified freely by the caller.
type Snapshot struct {
	Year        int                 `yaml:"year" json:"year"`
	Categories  []models.Category   `yaml:"categories" json:"categories"`
	Debts       []models.Debt       `yaml:"debts" json:"debts"`
	BudgetRows  []models.BudgetRow  `yaml:"budget_rows" json:"budgetRows"`
	Revenues    []models.Revenue    `yaml:"revenues" json:"revenues"`
	Investments []models.Investment `yaml:"investments" json:"investments"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Year:        s.Year,
		Categories:  make([]models.Category, len(s.Categories)),
		Debts:       make([]models.Debt, len(s.Debts)),
		BudgetRows:  append([]models.BudgetRow(nil), s.BudgetRows...),
		Revenues:    append([]models.Revenue(nil), s.Revenues...),
		Investments: make([]models.Investment, len(s.Investments)),
	}
	for i, c := range s.Categories {
		out.Categories[i] = c.Clone()
	}
	for i, d := range s.Debts {
		if d.Recurrence.DefaultAmount != nil {
			v := *d.Recurrence.DefaultAmount
			d.Recurrence.DefaultAmount = &v
		}
		out.Debts[i] = d
	}
	for i, inv := range s.Investments {
		if inv.ReturnAmount != nil {
			v := *inv.ReturnAmount
			inv.ReturnAmount = &v
		}
		out.Investments[i] = inv
	}
	return out
}

func (s *Snapshot) categoryIndex(id string) int {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) debtIndex(id string) int {
	for i := range s.Debts {
		if s.Debts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) rowIndex(id string) int {
	for i := range s.BudgetRows {
		if s.BudgetRows[i].ID == id {
			return i
		}
	}
	return -1
}

// linkedCategoryIndex returns the category linked to debtID, or -1.
func (s *Snapshot) linkedCategoryIndex(debtID string) int {
	for i := range s.Categories {
		if s.Categories[i].LinkedDebtID == debtID {
			return i
		}
	}
	return -1
}

// RowsInPeriod returns the budget rows of one month.
func (s Snapshot) RowsInPeriod(monthIndex, year int) []models.BudgetRow {
	var rows []models.BudgetRow
	for _, r := range s.BudgetRows {
		if r.InPeriod(monthIndex, year) {
			rows = append(rows, r)
		}
	}
	return rows
}

// CategoryByID returns the category with id.
func (s Snapshot) CategoryByID(id string) (models.Category, bool) {
	if i := s.categoryIndex(id); i >= 0 {
		return s.Categories[i], true
	}
	return models.Category{}, false
}

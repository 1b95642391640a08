package ledger

import (
	"time"

	"fjacquet/budgetmaster/internal/models"

	"github.com/shopspring/decimal"
)

func amountPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func recurringEvery(day int, frequency models.Frequency, amount int64) models.Recurrence {
	return models.Recurrence{IsRecurring: true, RecurringDay: day, Frequency: frequency, DefaultAmount: amountPtr(amount)}
}

// Seed replaces the ledger content with a demonstration household budget for
// the current year and materializes it.
func (s *Store) Seed() error {
	return s.mutate("seed", func(next *Snapshot) error {
		year := next.Year
		ids := make(map[string]string)
		id := func(key string) string {
			if _, ok := ids[key]; !ok {
				ids[key] = s.newID()
			}
			return ids[key]
		}

		carLoan := models.Debt{
			ID:             id("car-loan"),
			Name:           "Car loan",
			InitialBalance: decimal.NewFromInt(15000),
			AnnualRate:     decimal.RequireFromString("5.5"),
			MonthlyPayment: decimal.NewFromInt(350),
			StartDate:      time.Date(year-2, time.January, 1, 0, 0, 0, 0, time.UTC),
			Type:           models.DebtLoan,
			Recurrence:     models.Recurrence{IsRecurring: true, RecurringDay: 5, Frequency: models.FrequencyMonthly},
		}

		*next = Snapshot{
			Year: year,
			Categories: []models.Category{
				{ID: id("salary"), Name: "Salary", Type: models.TypeIncome, SubCategory: "Main", Recurrence: recurringEvery(0, "", 4000)},
				{ID: id("freelance"), Name: "Freelance", Type: models.TypeIncome, SubCategory: "Side"},
				{ID: id("rent"), Name: "Rent", Type: models.TypeExpense, SubCategory: "Housing", Recurrence: recurringEvery(1, "", 1200)},
				{ID: id("groceries"), Name: "Groceries", Type: models.TypeExpense, SubCategory: "Food", Recurrence: recurringEvery(0, models.FrequencyBimonthly, 200)},
				{ID: id("power"), Name: "Electricity", Type: models.TypeExpense, SubCategory: "Housing", Recurrence: recurringEvery(15, "", 80)},
				{ID: id("internet"), Name: "Internet", Type: models.TypeExpense, SubCategory: "Services", Recurrence: recurringEvery(20, "", 60)},
				{ID: id("tfsa"), Name: "TFSA", Type: models.TypeSavings, SubCategory: "Retirement", Recurrence: recurringEvery(0, "", 500)},
				{ID: id("stocks"), Name: "Stocks", Type: models.TypeInvestment, SubCategory: "Equities"},
				linkedCategoryFor(carLoan, id("car-loan-category")),
			},
			Debts: []models.Debt{carLoan},
			BudgetRows: []models.BudgetRow{
				{ID: s.newID(), CategoryID: id("rent"), Description: "Rent January", Planned: decimal.NewFromInt(1200), Actual: decimal.NewFromInt(1200), MonthIndex: 0, Year: year},
				{ID: s.newID(), CategoryID: id("groceries"), Description: "Groceries", Planned: decimal.NewFromInt(400), Actual: decimal.NewFromInt(450), MonthIndex: 0, Year: year},
			},
		}
		s.reconcileLocked(next, year)
		return nil
	})
}

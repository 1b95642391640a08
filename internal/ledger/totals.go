package ledger

import (
	"fjacquet/budgetmaster/internal/currencyutils"
	"fjacquet/budgetmaster/internal/models"

	"github.com/shopspring/decimal"
)

// Amounts pairs planned and actual sums.
type Amounts struct {
	Planned decimal.Decimal
	Actual  decimal.Decimal
}

// Totals summarizes one year of the ledger.
type Totals struct {
	Year   int
	ByType map[models.CategoryType]Amounts
	// Income includes actual income rows and standalone revenues.
	Income      decimal.Decimal
	Expenses    decimal.Decimal
	Savings     decimal.Decimal
	DebtPaid    decimal.Decimal
	Invested    decimal.Decimal
	Cashflow    decimal.Decimal
	SavingsRate decimal.Decimal
}

// Totals computes the yearly summary. Rows whose category no longer exists
// are ignored.
func (s *Store) Totals(year int) Totals {
	return ComputeTotals(s.Snapshot(), year)
}

// ComputeTotals computes the yearly summary of snap.
func ComputeTotals(snap Snapshot, year int) Totals {
	t := Totals{Year: year, ByType: make(map[models.CategoryType]Amounts, len(models.CategoryTypes))}
	for _, ct := range models.CategoryTypes {
		t.ByType[ct] = Amounts{}
	}

	types := make(map[string]models.CategoryType, len(snap.Categories))
	for _, c := range snap.Categories {
		types[c.ID] = c.Type
	}

	for _, row := range snap.BudgetRows {
		if row.Year != year {
			continue
		}
		ct, ok := types[row.CategoryID]
		if !ok {
			continue
		}
		a := t.ByType[ct]
		a.Planned = a.Planned.Add(row.Planned)
		a.Actual = a.Actual.Add(row.Actual)
		t.ByType[ct] = a
	}

	t.Income = t.ByType[models.TypeIncome].Actual
	for _, r := range snap.Revenues {
		if r.Year == year {
			t.Income = t.Income.Add(r.Amount)
		}
	}
	for _, inv := range snap.Investments {
		if inv.Year == year {
			t.Invested = t.Invested.Add(inv.Amount)
		}
	}
	t.Expenses = t.ByType[models.TypeExpense].Actual
	t.Savings = t.ByType[models.TypeSavings].Actual
	t.DebtPaid = t.ByType[models.TypeDebt].Actual
	t.Cashflow = t.Income.Sub(t.Expenses).Sub(t.DebtPaid).Sub(t.Savings)
	t.SavingsRate = currencyutils.Percent(t.Savings, t.Income)
	return t
}

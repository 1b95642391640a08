// Package amortization projects the balance of a debt forward under a fixed
// monthly payment.
package amortization

import (
	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultHorizon is the number of months projected when no horizon is given.
const DefaultHorizon = 60

var (
	hundred       = decimal.NewFromInt(100)
	twelve        = decimal.NewFromInt(12)
	displayCutoff = decimal.RequireFromString("0.01")
)

// Project computes the amortization schedule of debt over at most horizonMonths
// payments. A non-positive horizon means DefaultHorizon.
//
// The schedule stops as soon as the balance reaches zero. When the payment does
// not cover the monthly interest, principal is clamped to zero and the schedule
// runs for the full horizon with a constant balance.
func Project(debt models.Debt, horizonMonths int) []models.AmortizationRow {
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizon
	}

	balance := debt.InitialBalance
	monthlyRate := debt.AnnualRate.Div(hundred).Div(twelve)
	cumulative := decimal.Zero
	schedule := make([]models.AmortizationRow, 0, min(horizonMonths, DefaultHorizon))

	for i := 0; i < horizonMonths; i++ {
		if !balance.IsPositive() {
			break
		}

		interest := balance.Mul(monthlyRate)
		principal := debt.MonthlyPayment.Sub(interest)

		// final payment
		if balance.LessThan(principal) {
			principal = balance
		}
		if principal.IsNegative() {
			principal = decimal.Zero
		}

		balance = balance.Sub(principal)
		cumulative = cumulative.Add(interest)

		remaining := balance
		if remaining.LessThan(displayCutoff) {
			remaining = decimal.Zero
		}

		schedule = append(schedule, models.AmortizationRow{
			MonthIndex:         i + 1,
			TotalPayment:       principal.Add(interest),
			InterestPaid:       interest,
			PrincipalPaid:      principal,
			RemainingBalance:   remaining,
			CumulativeInterest: cumulative,
		})
	}

	return schedule
}

// Summary aggregates a schedule.
type Summary struct {
	Months        int
	TotalInterest decimal.Decimal
	TotalPaid     decimal.Decimal
	FinalBalance  decimal.Decimal
	// PaidOff is false when the debt outlives the projection window.
	PaidOff bool
}

// Summarize aggregates rows produced by Project.
func Summarize(rows []models.AmortizationRow) Summary {
	s := Summary{PaidOff: true}
	for _, row := range rows {
		s.TotalInterest = s.TotalInterest.Add(row.InterestPaid)
		s.TotalPaid = s.TotalPaid.Add(row.TotalPayment)
	}
	s.Months = len(rows)
	if s.Months > 0 {
		s.FinalBalance = rows[s.Months-1].RemainingBalance
		s.PaidOff = s.FinalBalance.IsZero()
	}
	return s
}

// Progress compares what was actually paid on a debt against its initial balance.
type Progress struct {
	Initial   decimal.Decimal
	Paid      decimal.Decimal
	Remaining decimal.Decimal
	Percent   decimal.Decimal
}

// ProgressOf sums the actual amounts of the budget rows linked to debt.
func ProgressOf(debt models.Debt, rows []models.BudgetRow) Progress {
	paid := decimal.Zero
	for _, row := range rows {
		if row.DebtID == debt.ID {
			paid = paid.Add(row.Actual)
		}
	}

	remaining := debt.InitialBalance.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	percent := decimal.Zero
	if debt.InitialBalance.IsPositive() {
		percent = paid.Div(debt.InitialBalance).Mul(hundred).Round(2)
	}

	return Progress{Initial: debt.InitialBalance, Paid: paid, Remaining: remaining, Percent: percent}
}

// Calculator binds a configured horizon and a logger to Project.
type Calculator struct {
	horizon int
	logger  logging.Logger
}

// NewCalculator creates a Calculator. A non-positive horizon means DefaultHorizon.
func NewCalculator(horizon int, logger logging.Logger) *Calculator {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	return &Calculator{horizon: horizon, logger: logging.OrDefault(logger)}
}

// Horizon returns the configured projection window.
func (c *Calculator) Horizon() int {
	return c.horizon
}

// Schedule projects debt over the configured horizon.
func (c *Calculator) Schedule(debt models.Debt) ([]models.AmortizationRow, Summary) {
	rows := Project(debt, c.horizon)
	summary := Summarize(rows)

	if !summary.PaidOff {
		c.logger.Warn("Debt is not paid off within the projection window",
			logging.F(logging.FieldDebtID, debt.ID),
			logging.F(logging.FieldCount, c.horizon))
	}
	c.logger.Debug("Projected amortization schedule",
		logging.F(logging.FieldDebtID, debt.ID),
		logging.F(logging.FieldCount, summary.Months))

	return rows, summary
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt is a loan or credit line projected with a fixed monthly payment.
type Debt struct {
	ID             string          `yaml:"id" json:"id"`
	Name           string          `yaml:"name" json:"name"`
	InitialBalance decimal.Decimal `yaml:"initial_balance" json:"initialBalance"`
	// AnnualRate is a percentage, 5.5 meaning 5.5 %.
	AnnualRate     decimal.Decimal `yaml:"annual_rate" json:"annualRate"`
	MonthlyPayment decimal.Decimal `yaml:"monthly_payment" json:"monthlyPayment"`
	StartDate      time.Time       `yaml:"start_date" json:"startDate"`
	Type           DebtType        `yaml:"type,omitempty" json:"type,omitempty"`
	StatementDay   int             `yaml:"statement_day,omitempty" json:"statementDay,omitempty"`
	DueDay         int             `yaml:"due_day,omitempty" json:"dueDay,omitempty"`
	Recurrence     Recurrence      `yaml:"recurrence" json:"recurrence"`
}

// LinkedSubCategory is the sub-category label given to the category generated for
// this debt.
func (d Debt) LinkedSubCategory() string {
	if d.Type == DebtCreditCard {
		return "Credit card"
	}
	return "Loan"
}

// AmortizationRow is one projected month of a debt schedule.
type AmortizationRow struct {
	// MonthIndex is 1-based and relative to the first projected payment.
	MonthIndex         int             `csv:"Month" json:"monthIndex"`
	TotalPayment       decimal.Decimal `csv:"Total Payment" json:"totalPayment"`
	InterestPaid       decimal.Decimal `csv:"Interest" json:"interestPaid"`
	PrincipalPaid      decimal.Decimal `csv:"Principal" json:"principalPaid"`
	RemainingBalance   decimal.Decimal `csv:"Remaining Balance" json:"remainingBalance"`
	CumulativeInterest decimal.Decimal `csv:"Cumulative Interest" json:"cumulativeInterest"`
}

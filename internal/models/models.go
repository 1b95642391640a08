// Package models provides the data structures shared by the ledger components.
package models

import (
	"fmt"
	"strings"
)

// CategoryType classifies the cash flow a Category represents.
type CategoryType string

const (
	TypeIncome     CategoryType = "Income"
	TypeExpense    CategoryType = "Expense"
	TypeSavings    CategoryType = "Savings"
	TypeInvestment CategoryType = "Investment"
	TypeDebt       CategoryType = "Debt"
)

// CategoryTypes lists every valid CategoryType in display order.
var CategoryTypes = []CategoryType{TypeIncome, TypeExpense, TypeSavings, TypeInvestment, TypeDebt}

// categoryTypeAliases maps lower-cased labels, including the French labels found in
// older ledgers, to their CategoryType.
var categoryTypeAliases = map[string]CategoryType{
	"income":         TypeIncome,
	"revenu":         TypeIncome,
	"expense":        TypeExpense,
	"dépense":        TypeExpense,
	"depense":        TypeExpense,
	"savings":        TypeSavings,
	"épargne":        TypeSavings,
	"epargne":        TypeSavings,
	"investment":     TypeInvestment,
	"investissement": TypeInvestment,
	"debt":           TypeDebt,
	"dette":          TypeDebt,
}

// ParseCategoryType resolves a label case-insensitively.
func ParseCategoryType(s string) (CategoryType, error) {
	if t, ok := categoryTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown category type %q", s)
}

// Frequency is the cadence of a recurring category.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyBimonthly Frequency = "bimonthly"
)

// ParseFrequency resolves a frequency label; an empty label means monthly.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FrequencyMonthly):
		return FrequencyMonthly, nil
	case string(FrequencyBimonthly):
		return FrequencyBimonthly, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// DebtType distinguishes amortized loans from revolving credit.
type DebtType string

const (
	DebtLoan       DebtType = "loan"
	DebtCreditCard DebtType = "credit_card"
)

// ParseDebtType resolves a debt type label; an empty label means loan.
func ParseDebtType(s string) (DebtType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(DebtLoan):
		return DebtLoan, nil
	case string(DebtCreditCard), "credit-card", "creditcard":
		return DebtCreditCard, nil
	}
	return "", fmt.Errorf("unknown debt type %q", s)
}

// MonthsPerYear is the width of the budget grid.
const MonthsPerYear = 12

// Months holds the month labels used for sheet names and reports.
var Months = [MonthsPerYear]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// ValidMonthIndex reports whether m is a 0-based month index.
func ValidMonthIndex(m int) bool {
	return m >= 0 && m < MonthsPerYear
}

// File permissions
const (
	PermissionDataFile  = 0600
	PermissionDirectory = 0750
)

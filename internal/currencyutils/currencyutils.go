// Package currencyutils provides common currency and decimal operations used throughout the application.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencySymbolRe = regexp.MustCompile(`[€$£¥₣₤₹₺₽₩฿₫₴₸₪\s\x{00a0}]|CHF`)
	looseStripRe     = regexp.MustCompile(`[\s\x{00a0}$€£]`)
	nonNumericRe     = regexp.MustCompile(`[^0-9.\-]`)
	numericPrefixRe  = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)`)
)

// ParseAmount parses a string representation of an amount into a decimal value
// It handles various formats like "1,234.56", "1.234,56", "1234.56", "1234,56"
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	standardized := StandardizeAmount(amountStr)

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// StandardizeAmount converts various currency string formats to a standard format that can be parsed by decimal.NewFromString
// Handles patterns like "CHF 1'234.56", "€1.234,56", "$1,234.56", "1 234,56", etc.
func StandardizeAmount(amountStr string) string {
	amountStr = currencySymbolRe.ReplaceAllString(amountStr, "")
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	hasComma := strings.Contains(amountStr, ",")
	hasDot := strings.Contains(amountStr, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// European format (1.234,56)
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case hasComma:
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			amountStr = strings.Replace(amountStr, ",", ".", 1)
		} else {
			// thousand separator (1,234)
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	return amountStr
}

// ParseLooseAmount is the forgiving parser used for bank-export cells. It never
// fails: anything that does not yield a number becomes zero.
//
// Whitespace (including non-breaking spaces) and the $ € £ symbols are removed.
// A lone comma is the decimal mark. When both marks are present the rightmost
// one is the decimal mark and the other is a thousands separator. Remaining
// characters other than digits, '.' and '-' are dropped and the longest numeric
// prefix is kept.
func ParseLooseAmount(raw string) decimal.Decimal {
	clean := looseStripRe.ReplaceAllString(strings.TrimSpace(raw), "")

	hasComma := strings.Contains(clean, ",")
	hasDot := strings.Contains(clean, ".")
	switch {
	case hasComma && !hasDot:
		clean = strings.Replace(clean, ",", ".", 1)
	case hasComma && hasDot:
		if strings.LastIndex(clean, ",") > strings.LastIndex(clean, ".") {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	}

	clean = nonNumericRe.ReplaceAllString(clean, "")
	prefix := numericPrefixRe.FindString(clean)
	if prefix == "" {
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(strings.TrimSuffix(prefix, "."))
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// FormatAmount formats a decimal amount to a consistent display format with the specified currency.
// The amount is formatted with two decimal places without inserting thousands separators.
// Returns strings like "CHF 1234.56" or "€1234.56"
func FormatAmount(amount decimal.Decimal, currency string) string {
	formattedAmount := amount.StringFixed(2)

	if currency != "" {
		switch strings.ToUpper(currency) {
		case "EUR":
			return "€" + formattedAmount
		case "USD":
			return "$" + formattedAmount
		case "GBP":
			return "£" + formattedAmount
		case "CHF":
			return "CHF " + formattedAmount
		default:
			return currency + " " + formattedAmount
		}
	}

	return formattedAmount
}

// WithinTolerance reports whether |a - b| <= tolerance.
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// Percent returns part / whole * 100 rounded to two places, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}

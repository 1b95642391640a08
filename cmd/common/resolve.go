package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fjacquet/budgetmaster/internal/currencyutils"
	"fjacquet/budgetmaster/internal/dateutils"
	"fjacquet/budgetmaster/internal/ledger"
	"fjacquet/budgetmaster/internal/models"

	"github.com/shopspring/decimal"
)

// ErrAmbiguous is returned when a reference matches more than one entity.
var ErrAmbiguous = errors.New("ambiguous reference")

// resolve finds the single entry whose ID equals ref, starts with ref, or whose
// name equals ref case-insensitively, in that order of preference.
func resolve(kind, ref string, ids, names []string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, fmt.Errorf("%s reference is empty", kind)
	}
	for i, id := range ids {
		if id == ref {
			return i, nil
		}
	}

	match := -1
	for i, id := range ids {
		if strings.HasPrefix(id, ref) {
			if match >= 0 {
				return -1, fmt.Errorf("%s %q: %w", kind, ref, ErrAmbiguous)
			}
			match = i
		}
	}
	if match >= 0 {
		return match, nil
	}

	for i, name := range names {
		if name != "" && strings.EqualFold(name, ref) {
			if match >= 0 {
				return -1, fmt.Errorf("%s %q: %w", kind, ref, ErrAmbiguous)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%s %q: %w", kind, ref, ledger.ErrNotFound)
	}
	return match, nil
}

// ResolveCategory finds a category by ID, ID prefix or name.
func ResolveCategory(categories []models.Category, ref string) (models.Category, error) {
	ids := make([]string, len(categories))
	names := make([]string, len(categories))
	for i, c := range categories {
		ids[i], names[i] = c.ID, c.Name
	}
	i, err := resolve("category", ref, ids, names)
	if err != nil {
		return models.Category{}, err
	}
	return categories[i], nil
}

// ResolveDebt finds a debt by ID, ID prefix or name.
func ResolveDebt(debts []models.Debt, ref string) (models.Debt, error) {
	ids := make([]string, len(debts))
	names := make([]string, len(debts))
	for i, d := range debts {
		ids[i], names[i] = d.ID, d.Name
	}
	i, err := resolve("debt", ref, ids, names)
	if err != nil {
		return models.Debt{}, err
	}
	return debts[i], nil
}

// ResolveID finds an ID by exact value or unique prefix.
func ResolveID(kind string, ids []string, ref string) (string, error) {
	i, err := resolve(kind, ref, ids, nil)
	if err != nil {
		return "", err
	}
	return ids[i], nil
}

// ParseAmount parses a user-typed amount such as "1'234.50" or "1 234,50".
func ParseAmount(s string) (decimal.Decimal, error) {
	return currencyutils.ParseAmount(s)
}

// ParseDate parses a user-typed date. Slash and dot dates are read day first,
// like imported statements.
func ParseDate(s string) (time.Time, error) {
	if t, ok := dateutils.NormalizeImportDate(s); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseMonth accepts a month number from 1 to 12 or a month name and returns
// the 0-based month index.
func ParseMonth(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > models.MonthsPerYear {
			return 0, fmt.Errorf("month must be between 1 and 12, got %d", n)
		}
		return n - 1, nil
	}
	for i, name := range models.Months {
		if strings.EqualFold(name, s) {
			return i, nil
		}
	}
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), s) || strings.EqualFold(m.String()[:3], s) {
			return int(m) - 1, nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", s)
}

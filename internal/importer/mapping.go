package importer

import (
	"fmt"
	"strings"
)

// Role is the meaning a column plays during import.
type Role string

const (
	RoleDate        Role = "date"
	RoleDescription Role = "description"
	// RolePositive holds credit or income-like amounts.
	RolePositive Role = "credit"
	// RoleNegative holds debit or expense-like amounts.
	RoleNegative Role = "debit"
)

// Roles lists every role in display order.
var Roles = []Role{RoleDate, RoleDescription, RolePositive, RoleNegative}

// ParseRole accepts a role name as typed on the command line.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date":
		return RoleDate, nil
	case "description", "desc":
		return RoleDescription, nil
	case "credit", "positive", "income":
		return RolePositive, nil
	case "debit", "negative", "expense":
		return RoleNegative, nil
	}
	return "", fmt.Errorf("unknown column role %q", s)
}

var roleKeywords = map[Role][]string{
	RoleDate:        {"date"},
	RoleDescription: {"desc", "libell", "marchand", "détails", "details", "label"},
	RolePositive:    {"crédit", "credit", "income", "revenu", "montant", "amount", "solde"},
	RoleNegative:    {"débit", "debit", "dépense", "expense", "paiement"},
}

// Mapping assigns a column index to each role. Unmapped roles are absent.
type Mapping map[Role]int

// Column returns the column mapped to role.
func (m Mapping) Column(role Role) (int, bool) {
	col, ok := m[role]
	return col, ok
}

// Clone returns a copy of m.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for role, col := range m {
		out[role] = col
	}
	return out
}

// assign maps role to column and releases the column from any other role.
func (m Mapping) assign(role Role, column int) {
	for other, col := range m {
		if other != role && col == column {
			delete(m, other)
		}
	}
	m[role] = column
}

// missing lists the requirements the mapping does not meet yet.
func (m Mapping) missing() []string {
	var out []string
	if _, ok := m[RoleDate]; !ok {
		out = append(out, "Date")
	}
	if _, ok := m[RoleDescription]; !ok {
		out = append(out, "Description")
	}
	_, pos := m[RolePositive]
	_, neg := m[RoleNegative]
	if !pos && !neg {
		out = append(out, "Amount")
	}
	return out
}

// SuggestMapping guesses column roles from header labels. The first column
// whose lower-cased label contains one of a role's keywords wins. The negative
// amount role is left unmapped when it would reuse the positive amount column.
func SuggestMapping(header []string) Mapping {
	lowered := make([]string, len(header))
	for i, h := range header {
		lowered[i] = strings.ToLower(h)
	}

	find := func(role Role) int {
		for i, h := range lowered {
			for _, keyword := range roleKeywords[role] {
				if strings.Contains(h, keyword) {
					return i
				}
			}
		}
		return -1
	}

	m := Mapping{}
	for _, role := range []Role{RoleDate, RoleDescription, RolePositive} {
		if col := find(role); col >= 0 {
			m[role] = col
		}
	}
	if neg := find(RoleNegative); neg >= 0 {
		if pos, ok := m[RolePositive]; !ok || pos != neg {
			m[RoleNegative] = neg
		}
	}
	return m
}

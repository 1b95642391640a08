package models

// Rule directions restrict a keyword rule to money coming in or going out.
const (
	DirectionAny    = ""
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// CategoryRule maps description keywords to a category name.
type CategoryRule struct {
	Category  string   `yaml:"category"`
	Keywords  []string `yaml:"keywords"`
	Direction string   `yaml:"direction,omitempty"`
}

// Applies reports whether the rule covers a flow of the given direction.
func (r CategoryRule) Applies(isCredit bool) bool {
	switch r.Direction {
	case DirectionCredit:
		return isCredit
	case DirectionDebit:
		return !isCredit
	}
	return true
}

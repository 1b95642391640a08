package categorizer

import (
	"context"
	"strings"
)

// NameMatchStrategy picks the category whose name appears in the description.
// The longest matching name wins so "Car insurance" beats "Car".
type NameMatchStrategy struct{}

// Name returns the name of this strategy for logging and debugging.
func (NameMatchStrategy) Name() string {
	return "NameMatch"
}

// Categorize implements CategorizationStrategy.
func (NameMatchStrategy) Categorize(_ context.Context, tx Transaction) (string, bool, error) {
	description := normalizeKey(tx.Description)
	if description == "" {
		return "", false, nil
	}

	best := ""
	for _, name := range tx.CategoryNames {
		key := normalizeKey(name)
		if len(key) < 3 || !strings.Contains(description, key) {
			continue
		}
		if len(key) > len(normalizeKey(best)) {
			best = name
		}
	}
	return best, best != "", nil
}

package categorizer

import "context"

// CategorizationStrategy defines a method for categorizing transactions.
// Each strategy implements a specific approach (learned mapping, keywords, category names).
type CategorizationStrategy interface {
	// Categorize returns the name of the matching category and whether a match
	// was found.
	Categorize(ctx context.Context, tx Transaction) (string, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}

// Package categorizer suggests ledger categories for imported transactions.
// Strategies run in order until one matches:
// 1. Learned description-to-category mappings from earlier imports
// 2. Keyword rules from the rules file
// 3. Category names appearing in the description
package categorizer

import (
	"context"
	"strings"
	"sync"

	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"

	"github.com/shopspring/decimal"
)

// Transaction represents an imported transaction to be categorized.
type Transaction struct {
	Description string
	Amount      decimal.Decimal
	IsCredit    bool
	// CategoryNames lists the names of the categories the ledger currently holds.
	CategoryNames []string
}

// Suggestion is the outcome of Suggest for one transaction.
type Suggestion struct {
	CategoryID string
	Category   string
	Strategy   string
}

// Categorizer orchestrates categorization strategies and manages the learned
// mappings.
type Categorizer struct {
	strategies    []CategorizationStrategy
	directMapping *DirectMappingStrategy
	store         RuleStoreInterface
	logger        logging.Logger
	autoLearn     bool

	mu            sync.Mutex
	isDirtyCredit bool
	isDirtyDebit  bool
}

// NewCategorizer creates a categorizer backed by store. When autoLearn is set,
// every confirmed assignment passed to Learn is persisted by Save.
func NewCategorizer(store RuleStoreInterface, autoLearn bool, logger logging.Logger) *Categorizer {
	logger = logging.OrDefault(logger)
	direct := NewDirectMappingStrategy(store, logger)
	keyword := NewKeywordStrategy(store, logger)
	return &Categorizer{
		strategies:    []CategorizationStrategy{direct, keyword, NameMatchStrategy{}},
		directMapping: direct,
		store:         store,
		logger:        logger,
		autoLearn:     autoLearn,
	}
}

// Categorize runs the strategies in order and returns the first category name
// found together with the strategy that produced it.
func (c *Categorizer) Categorize(ctx context.Context, tx Transaction) (string, string, bool, error) {
	if strings.TrimSpace(tx.Description) == "" {
		return "", "", false, nil
	}
	for _, strategy := range c.strategies {
		if err := ctx.Err(); err != nil {
			return "", "", false, err
		}
		category, found, err := strategy.Categorize(ctx, tx)
		if err != nil {
			c.logger.WithError(err).WithField(logging.FieldStrategy, strategy.Name()).
				Warn("Categorization strategy failed")
			continue
		}
		if found && category != "" {
			return category, strategy.Name(), true, nil
		}
	}
	return "", "", false, nil
}

// Suggest categorizes tx and resolves the category name against categories.
// A name that matches no ledger category is not a suggestion.
func (c *Categorizer) Suggest(ctx context.Context, tx Transaction, categories []models.Category) (Suggestion, bool, error) {
	if tx.CategoryNames == nil {
		tx.CategoryNames = make([]string, 0, len(categories))
		for _, cat := range categories {
			tx.CategoryNames = append(tx.CategoryNames, cat.Name)
		}
	}

	name, strategy, found, err := c.Categorize(ctx, tx)
	if err != nil || !found {
		return Suggestion{}, false, err
	}
	for _, cat := range categories {
		if strings.EqualFold(strings.TrimSpace(cat.Name), strings.TrimSpace(name)) {
			return Suggestion{CategoryID: cat.ID, Category: cat.Name, Strategy: strategy}, true, nil
		}
	}
	c.logger.WithFields(
		logging.F(logging.FieldStrategy, strategy),
		logging.F("category", name),
	).Debug("Suggested category does not exist in the ledger")
	return Suggestion{}, false, nil
}

// Learn records that description belongs to categoryName.
func (c *Categorizer) Learn(tx Transaction, categoryName string) {
	if strings.TrimSpace(tx.Description) == "" || categoryName == "" {
		return
	}
	c.directMapping.Learn(tx.Description, categoryName, tx.IsCredit)

	c.mu.Lock()
	defer c.mu.Unlock()
	if tx.IsCredit {
		c.isDirtyCredit = true
	} else {
		c.isDirtyDebit = true
	}
}

// AutoLearn reports whether confirmed assignments should be persisted.
func (c *Categorizer) AutoLearn() bool {
	return c.autoLearn
}

// Save writes modified learned mappings back to the store.
func (c *Categorizer) Save() error {
	if c.store == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	credits, debits := c.directMapping.Mappings()
	if c.isDirtyCredit {
		if err := c.store.SaveCreditMappings(credits); err != nil {
			return err
		}
		c.isDirtyCredit = false
	}
	if c.isDirtyDebit {
		if err := c.store.SaveDebitMappings(debits); err != nil {
			return err
		}
		c.isDirtyDebit = false
	}
	return nil
}


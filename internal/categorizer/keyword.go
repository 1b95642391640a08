package categorizer

import (
	"context"
	"strings"

	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"
)

// KeywordStrategy implements categorization using keyword rules loaded from
// the rules file. Rules are evaluated in file order and the first hit wins.
type KeywordStrategy struct {
	rules  []models.CategoryRule
	store  RuleStoreInterface
	logger logging.Logger
}

// NewKeywordStrategy creates a new KeywordStrategy instance.
func NewKeywordStrategy(store RuleStoreInterface, logger logging.Logger) *KeywordStrategy {
	strategy := &KeywordStrategy{
		store:  store,
		logger: logging.OrDefault(logger),
	}
	strategy.loadRules()
	return strategy
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Categorize matches rule keywords against the description, case-insensitively.
func (s *KeywordStrategy) Categorize(_ context.Context, tx Transaction) (string, bool, error) {
	description := strings.ToUpper(tx.Description)
	if strings.TrimSpace(description) == "" {
		return "", false, nil
	}

	for _, rule := range s.rules {
		if !rule.Applies(tx.IsCredit) {
			continue
		}
		for _, keyword := range rule.Keywords {
			keyword = strings.ToUpper(strings.TrimSpace(keyword))
			if keyword == "" || !strings.Contains(description, keyword) {
				continue
			}
			s.logger.WithFields(
				logging.F(logging.FieldStrategy, s.Name()),
				logging.F("keyword", keyword),
				logging.F("category", rule.Category),
			).Debug("Transaction categorized using keyword matching")
			return rule.Category, true, nil
		}
	}
	return "", false, nil
}

func (s *KeywordStrategy) loadRules() {
	if s.store == nil {
		return
	}
	rules, err := s.store.LoadRules()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load keyword rules")
		return
	}
	s.rules = rules
	s.logger.WithField("count", len(rules)).Debug("Loaded keyword rules")
}


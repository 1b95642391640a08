package categorizer

import (
	"context"
	"strings"
	"sync"

	"fjacquet/budgetmaster/internal/logging"
)

// normalizeKey lower-cases and trims a description so lookups ignore case
// and surrounding whitespace.
func normalizeKey(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// DirectMappingStrategy categorizes descriptions that were confirmed before.
// Credits and debits are learned separately so a refund does not inherit the
// category of the purchase.
type DirectMappingStrategy struct {
	creditMappings map[string]string
	debitMappings  map[string]string
	store          RuleStoreInterface
	logger         logging.Logger
	mu             sync.RWMutex
}

// NewDirectMappingStrategy creates a new DirectMappingStrategy and loads the
// learned mappings from store.
func NewDirectMappingStrategy(store RuleStoreInterface, logger logging.Logger) *DirectMappingStrategy {
	strategy := &DirectMappingStrategy{
		creditMappings: make(map[string]string),
		debitMappings:  make(map[string]string),
		store:          store,
		logger:         logging.OrDefault(logger),
	}
	strategy.loadMappings()
	return strategy
}

// Name returns the name of this strategy for logging and debugging.
func (s *DirectMappingStrategy) Name() string {
	return "DirectMapping"
}

// Categorize looks the description up in the mapping of its direction.
func (s *DirectMappingStrategy) Categorize(_ context.Context, tx Transaction) (string, bool, error) {
	key := normalizeKey(tx.Description)
	if key == "" {
		return "", false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	mappings := s.debitMappings
	if tx.IsCredit {
		mappings = s.creditMappings
	}
	category, found := mappings[key]
	if found {
		s.logger.WithFields(
			logging.F(logging.FieldStrategy, s.Name()),
			logging.F("description", tx.Description),
			logging.F("category", category),
		).Debug("Transaction categorized using learned mapping")
	}
	return category, found, nil
}

func (s *DirectMappingStrategy) loadMappings() {
	if s.store == nil {
		return
	}

	credits, err := s.store.LoadCreditMappings()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load credit mappings")
	}
	debits, err := s.store.LoadDebitMappings()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to load debit mappings")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range credits {
		s.creditMappings[normalizeKey(key)] = value
	}
	for key, value := range debits {
		s.debitMappings[normalizeKey(key)] = value
	}
	s.logger.WithFields(
		logging.F("credits", len(s.creditMappings)),
		logging.F("debits", len(s.debitMappings)),
	).Debug("Loaded learned mappings")
}

// Learn adds or updates the mapping of description for its direction.
func (s *DirectMappingStrategy) Learn(description, category string, isCredit bool) {
	key := normalizeKey(description)
	if key == "" || category == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if isCredit {
		s.creditMappings[key] = category
	} else {
		s.debitMappings[key] = category
	}
}

// Mappings returns copies of the credit and debit mappings.
func (s *DirectMappingStrategy) Mappings() (map[string]string, map[string]string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	credits := make(map[string]string, len(s.creditMappings))
	for k, v := range s.creditMappings {
		credits[k] = v
	}
	debits := make(map[string]string, len(s.debitMappings))
	for k, v := range s.debitMappings {
		debits[k] = v
	}
	return credits, debits
}

package categorizer

import "fjacquet/budgetmaster/internal/models"

// RuleStoreInterface defines the persistence the categorizer relies on.
// This allows for dependency injection and easier testing.
type RuleStoreInterface interface {
	LoadRules() ([]models.CategoryRule, error)
	LoadCreditMappings() (map[string]string, error)
	LoadDebitMappings() (map[string]string, error)
	SaveCreditMappings(mappings map[string]string) error
	SaveDebitMappings(mappings map[string]string) error
}

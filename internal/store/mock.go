package store

import (
	"fjacquet/budgetmaster/internal/ledger"
	"fjacquet/budgetmaster/internal/models"
)

// MockStore is an in-memory implementation of FileStore for testing.
type MockStore struct {
	Snapshot       *ledger.Snapshot
	Rules          []models.CategoryRule
	CreditMappings map[string]string
	DebitMappings  map[string]string
	Saves          int

	// Error flags for testing error conditions
	LoadSnapshotError       error
	SaveSnapshotError       error
	LoadRulesError          error
	LoadCreditMappingsError error
	LoadDebitMappingsError  error
	SaveCreditMappingsError error
	SaveDebitMappingsError  error
}

// LoadSnapshot returns the stored snapshot, or ErrNoLedger when none was saved.
func (m *MockStore) LoadSnapshot() (ledger.Snapshot, error) {
	if m.LoadSnapshotError != nil {
		return ledger.Snapshot{}, m.LoadSnapshotError
	}
	if m.Snapshot == nil {
		return ledger.Snapshot{}, ErrNoLedger
	}
	return m.Snapshot.Clone(), nil
}

// SaveSnapshot keeps a copy of snap.
func (m *MockStore) SaveSnapshot(snap ledger.Snapshot) error {
	if m.SaveSnapshotError != nil {
		return m.SaveSnapshotError
	}
	clone := snap.Clone()
	m.Snapshot = &clone
	m.Saves++
	return nil
}

// LoadRules returns the mock rules.
func (m *MockStore) LoadRules() ([]models.CategoryRule, error) {
	if m.LoadRulesError != nil {
		return nil, m.LoadRulesError
	}
	return m.Rules, nil
}

// LoadCreditMappings returns a copy of the mock credit mappings.
func (m *MockStore) LoadCreditMappings() (map[string]string, error) {
	if m.LoadCreditMappingsError != nil {
		return nil, m.LoadCreditMappingsError
	}
	return copyMappings(m.CreditMappings), nil
}

// LoadDebitMappings returns a copy of the mock debit mappings.
func (m *MockStore) LoadDebitMappings() (map[string]string, error) {
	if m.LoadDebitMappingsError != nil {
		return nil, m.LoadDebitMappingsError
	}
	return copyMappings(m.DebitMappings), nil
}

// SaveCreditMappings replaces the mock credit mappings.
func (m *MockStore) SaveCreditMappings(mappings map[string]string) error {
	if m.SaveCreditMappingsError != nil {
		return m.SaveCreditMappingsError
	}
	m.CreditMappings = copyMappings(mappings)
	return nil
}

// SaveDebitMappings replaces the mock debit mappings.
func (m *MockStore) SaveDebitMappings(mappings map[string]string) error {
	if m.SaveDebitMappingsError != nil {
		return m.SaveDebitMappingsError
	}
	m.DebitMappings = copyMappings(mappings)
	return nil
}

func copyMappings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

package categorizer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectMappingStrategy_Name(t *testing.T) {
	strategy := &DirectMappingStrategy{}
	assert.Equal(t, "DirectMapping", strategy.Name())
}

func TestDirectMappingStrategy_Categorize(t *testing.T) {
	tests := []struct {
		name             string
		transaction      Transaction
		creditMappings   map[string]string
		debitMappings    map[string]string
		expectedCategory string
		expectedFound    bool
	}{
		{
			name:             "debit mapping found",
			transaction:      Transaction{Description: "COOP Basel"},
			debitMappings:    map[string]string{"coop basel": "Groceries"},
			expectedCategory: "Groceries",
			expectedFound:    true,
		},
		{
			name:             "credit mapping found",
			transaction:      Transaction{Description: "ACME Payroll", IsCredit: true},
			creditMappings:   map[string]string{"acme payroll": "Salary"},
			expectedCategory: "Salary",
			expectedFound:    true,
		},
		{
			name:             "stored keys are normalized",
			transaction:      Transaction{Description: "  migros  "},
			debitMappings:    map[string]string{"MIGROS": "Groceries"},
			expectedCategory: "Groceries",
			expectedFound:    true,
		},
		{
			name:           "direction matters",
			transaction:    Transaction{Description: "COOP Basel", IsCredit: true},
			debitMappings:  map[string]string{"coop basel": "Groceries"},
			creditMappings: map[string]string{},
			expectedFound:  false,
		},
		{
			name:          "no mapping found",
			transaction:   Transaction{Description: "Unknown Store"},
			debitMappings: map[string]string{"coop": "Groceries"},
			expectedFound: false,
		},
		{
			name:          "empty description",
			transaction:   Transaction{Description: "   "},
			debitMappings: map[string]string{"": "Groceries"},
			expectedFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := &store.MockStore{
				CreditMappings: tt.creditMappings,
				DebitMappings:  tt.debitMappings,
			}
			strategy := NewDirectMappingStrategy(mockStore, logging.NewMockLogger())

			category, found, err := strategy.Categorize(context.Background(), tt.transaction)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedFound, found)
			assert.Equal(t, tt.expectedCategory, category)
		})
	}
}

func TestDirectMappingStrategy_LoadErrors(t *testing.T) {
	mockStore := &store.MockStore{
		LoadCreditMappingsError: errors.New("boom"),
		DebitMappings:           map[string]string{"coop": "Groceries"},
	}
	logger := logging.NewMockLogger()
	strategy := NewDirectMappingStrategy(mockStore, logger)

	assert.True(t, logger.HasEntry("WARN", "Failed to load credit mappings"))
	category, found, err := strategy.Categorize(context.Background(), Transaction{Description: "coop"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Groceries", category)
}

func TestDirectMappingStrategy_Learn(t *testing.T) {
	mockStore := &store.MockStore{}
	strategy := NewDirectMappingStrategy(mockStore, logging.NewMockLogger())

	strategy.Learn("Landlord AG", "Rent", false)
	strategy.Learn("", "Rent", false)
	strategy.Learn("Landlord AG", "", false)

	category, found, _ := strategy.Categorize(context.Background(), Transaction{Description: "LANDLORD AG"})
	assert.True(t, found)
	assert.Equal(t, "Rent", category)

	credits, debits := strategy.Mappings()
	assert.Empty(t, credits)
	assert.Equal(t, map[string]string{"landlord ag": "Rent"}, debits)
}

func TestDirectMappingStrategy_ConcurrentAccess(t *testing.T) {
	strategy := NewDirectMappingStrategy(&store.MockStore{}, logging.NewMockLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			strategy.Learn("coop", "Groceries", false)
		}()
		go func() {
			defer wg.Done()
			_, _, _ = strategy.Categorize(context.Background(), Transaction{Description: "coop"})
		}()
	}
	wg.Wait()

	category, found, _ := strategy.Categorize(context.Background(), Transaction{Description: "coop"})
	assert.True(t, found)
	assert.Equal(t, "Groceries", category)
}

package categorizer

import (
	"context"
	"errors"
	"testing"

	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"
	"fjacquet/budgetmaster/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCategories() []models.Category {
	return []models.Category{
		{ID: "c-salary", Name: "Salary", Type: models.TypeIncome},
		{ID: "c-groceries", Name: "Groceries", Type: models.TypeExpense},
		{ID: "c-car", Name: "Car", Type: models.TypeExpense},
		{ID: "c-car-ins", Name: "Car insurance", Type: models.TypeExpense},
	}
}

func TestCategorizer_Suggest(t *testing.T) {
	mockStore := &store.MockStore{
		Rules:          []models.CategoryRule{{Category: "groceries", Keywords: []string{"MIGROS"}}},
		CreditMappings: map[string]string{"acme sa": "Salary"},
		DebitMappings:  map[string]string{"migros online": "Car"},
	}
	c := NewCategorizer(mockStore, true, logging.NewMockLogger())

	tests := []struct {
		name         string
		transaction  Transaction
		expectedID   string
		expectedFrom string
		expectFound  bool
	}{
		{
			name:         "learned mapping beats keywords",
			transaction:  Transaction{Description: "Migros Online", Amount: decimal.NewFromInt(-30)},
			expectedID:   "c-car",
			expectedFrom: "DirectMapping",
			expectFound:  true,
		},
		{
			name:         "keyword rule resolves name case-insensitively",
			transaction:  Transaction{Description: "MIGROS GENEVE", Amount: decimal.NewFromInt(-12)},
			expectedID:   "c-groceries",
			expectedFrom: "Keyword",
			expectFound:  true,
		},
		{
			name:         "credit mapping",
			transaction:  Transaction{Description: "ACME SA", IsCredit: true},
			expectedID:   "c-salary",
			expectedFrom: "DirectMapping",
			expectFound:  true,
		},
		{
			name:         "longest category name in description wins",
			transaction:  Transaction{Description: "Payment car insurance 2025"},
			expectedID:   "c-car-ins",
			expectedFrom: "NameMatch",
			expectFound:  true,
		},
		{
			name:        "no match",
			transaction: Transaction{Description: "Lottery"},
			expectFound: false,
		},
		{
			name:        "empty description",
			transaction: Transaction{Description: ""},
			expectFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestion, found, err := c.Suggest(context.Background(), tt.transaction, testCategories())
			require.NoError(t, err)
			assert.Equal(t, tt.expectFound, found)
			assert.Equal(t, tt.expectedID, suggestion.CategoryID)
			assert.Equal(t, tt.expectedFrom, suggestion.Strategy)
		})
	}
}

func TestCategorizer_SuggestUnknownCategory(t *testing.T) {
	mockStore := &store.MockStore{
		Rules: []models.CategoryRule{{Category: "Holidays", Keywords: []string{"HOTEL"}}},
	}
	logger := logging.NewMockLogger()
	c := NewCategorizer(mockStore, true, logger)

	_, found, err := c.Suggest(context.Background(), Transaction{Description: "Hotel Bern"}, testCategories())
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, logger.HasEntry("DEBUG", "Suggested category does not exist in the ledger"))
}

func TestCategorizer_CancelledContext(t *testing.T) {
	c := NewCategorizer(&store.MockStore{}, false, logging.NewMockLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, found, err := c.Suggest(ctx, Transaction{Description: "Groceries"}, testCategories())
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, found)
}

func TestCategorizer_LearnAndSave(t *testing.T) {
	mockStore := &store.MockStore{}
	c := NewCategorizer(mockStore, true, logging.NewMockLogger())
	assert.True(t, c.AutoLearn())

	c.Learn(Transaction{Description: "Landlord AG"}, "Car")
	c.Learn(Transaction{Description: "ACME", IsCredit: true}, "Salary")
	c.Learn(Transaction{Description: ""}, "Salary")

	suggestion, found, err := c.Suggest(context.Background(), Transaction{Description: "landlord ag"}, testCategories())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "c-car", suggestion.CategoryID)

	require.NoError(t, c.Save())
	assert.Equal(t, map[string]string{"landlord ag": "Car"}, mockStore.DebitMappings)
	assert.Equal(t, map[string]string{"acme": "Salary"}, mockStore.CreditMappings)

	// Nothing dirty: a failing store is not touched.
	mockStore.SaveDebitMappingsError = errors.New("disk full")
	assert.NoError(t, c.Save())

	c.Learn(Transaction{Description: "Garage"}, "Car")
	assert.EqualError(t, c.Save(), "disk full")
}

func TestCategorizer_Reload(t *testing.T) {
	mockStore := &store.MockStore{}
	c := NewCategorizer(mockStore, false, logging.NewMockLogger())

	mockStore.Rules = []models.CategoryRule{{Category: "Salary", Keywords: []string{"PAYROLL"}}}
	c.Reload()

	suggestion, found, err := c.Suggest(context.Background(), Transaction{Description: "payroll", IsCredit: true}, testCategories())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Keyword", suggestion.Strategy)
}

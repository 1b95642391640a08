package recurrence

import (
	"fmt"
	"testing"
	"time"

	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func recurring(id, name string, freq models.Frequency, def *decimal.Decimal) models.Category {
	return models.Category{
		ID:   id,
		Name: name,
		Type: models.TypeExpense,
		Recurrence: models.Recurrence{
			IsRecurring:   true,
			Frequency:     freq,
			DefaultAmount: def,
		},
	}
}

func newTestMaterializer() *Materializer {
	m := NewMaterializer(logging.NewMockLogger())
	n := 0
	m.newID = func() string {
		n++
		return fmt.Sprintf("row-%d", n)
	}
	return m
}

func TestMaterialize_Monthly(t *testing.T) {
	m := newTestMaterializer()
	cats := []models.Category{recurring("rent", "Rent", models.FrequencyMonthly, amount("1200"))}

	rows := m.Materialize(cats, nil, 2025)

	require.Len(t, rows, 12)
	for i, row := range rows {
		assert.Equal(t, i, row.MonthIndex)
		assert.Equal(t, 2025, row.Year)
		assert.Equal(t, "rent", row.CategoryID)
		assert.Equal(t, "Payment Rent", row.Description)
		assert.True(t, decimal.NewFromInt(1200).Equal(row.Planned))
		assert.True(t, row.Actual.IsZero())
		assert.NotEmpty(t, row.ID)
	}
}

func TestMaterialize_Bimonthly(t *testing.T) {
	m := newTestMaterializer()
	cats := []models.Category{recurring("food", "Groceries", models.FrequencyBimonthly, amount("200"))}

	rows := m.Materialize(cats, nil, 2025)

	require.Len(t, rows, 24)
	perMonth := map[int][]string{}
	for _, row := range rows {
		perMonth[row.MonthIndex] = append(perMonth[row.MonthIndex], row.Description)
	}
	for month := 0; month < 12; month++ {
		assert.Equal(t, []string{"Payment Groceries", "Payment Groceries (2)"}, perMonth[month])
	}
}

func TestMaterialize_Idempotent(t *testing.T) {
	m := newTestMaterializer()
	cats := []models.Category{
		recurring("rent", "Rent", "", amount("1200")),
		recurring("food", "Groceries", models.FrequencyBimonthly, nil),
	}

	first := m.Materialize(cats, nil, 2025)
	require.Len(t, first, 36)

	second := m.Materialize(cats, first, 2025)
	assert.Empty(t, second)

	// another year is independent
	assert.Len(t, m.Materialize(cats, first, 2026), 36)
}

func TestMaterialize_ExistingRowBlocks(t *testing.T) {
	m := newTestMaterializer()
	cats := []models.Category{recurring("food", "Groceries", models.FrequencyBimonthly, nil)}
	existing := []models.BudgetRow{
		// a single manual row blocks both bimonthly instances of March
		{ID: "manual", CategoryID: "food", Description: "Market", MonthIndex: 2, Year: 2025},
	}

	rows := m.Materialize(cats, existing, 2025)

	assert.Len(t, rows, 22)
	for _, row := range rows {
		assert.NotEqual(t, 2, row.MonthIndex)
	}
}

func TestMaterialize_SkipsNonRecurringAndDefaults(t *testing.T) {
	m := newTestMaterializer()
	oneOff := models.Category{ID: "gift", Name: "Gift", Type: models.TypeExpense}
	noAmount := recurring("gym", "Gym", models.FrequencyMonthly, nil)

	rows := m.Materialize([]models.Category{oneOff, noAmount}, nil, 2025)

	require.Len(t, rows, 12)
	for _, row := range rows {
		assert.Equal(t, "gym", row.CategoryID)
		assert.True(t, row.Planned.IsZero())
	}
}

func TestMaterialize_LinkedDebt(t *testing.T) {
	m := newTestMaterializer()
	cat := recurring("car", "Car loan", models.FrequencyMonthly, amount("350"))
	cat.LinkedDebtID = "d1"

	rows := m.Materialize([]models.Category{cat}, nil, 2025)

	require.Len(t, rows, 12)
	for _, row := range rows {
		assert.Equal(t, "d1", row.DebtID)
	}
}

func TestMaterialize_UnknownFrequencyFallsBack(t *testing.T) {
	logger := logging.NewMockLogger()
	m := NewMaterializer(logger)

	rows := m.Materialize([]models.Category{recurring("x", "X", "weekly", nil)}, nil, 2025)

	assert.Len(t, rows, 12)
	assert.True(t, logger.HasEntry("WARN", "Unknown frequency, falling back to monthly"))
}

func TestGetExpansionStrategy(t *testing.T) {
	tests := []struct {
		frequency models.Frequency
		expected  string
		wantErr   bool
	}{
		{models.FrequencyMonthly, "monthly", false},
		{models.FrequencyBimonthly, "bimonthly", false},
		{"yearly", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			s, err := GetExpansionStrategy(tt.frequency)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s.Name())
		})
	}
}

func TestMaterialize_InvalidRowsAreSkipped(t *testing.T) {
	logger := logging.NewMockLogger()
	m := NewMaterializer(logger)

	rows := m.Materialize([]models.Category{recurring("", "Nameless", models.FrequencyMonthly, nil)}, nil, 2025)

	assert.Empty(t, rows)
	assert.True(t, logger.HasEntry("WARN", "Skipping recurring rows"))
}

func TestExpand_RejectsMonthOutOfRange(t *testing.T) {
	cat := recurring("rent", "Rent", models.FrequencyBimonthly, amount("1200"))

	for _, strategy := range []ExpansionStrategy{MonthlyStrategy{}, BimonthlyStrategy{}} {
		t.Run(strategy.Name(), func(t *testing.T) {
			_, err := strategy.Expand(cat, 12, 2025)
			assert.Error(t, err)

			rows, err := strategy.Expand(cat, 11, 2025)
			require.NoError(t, err)
			assert.Equal(t, 11, rows[0].MonthIndex)
			assert.Equal(t, "Payment Rent", rows[0].Description)
		})
	}
}

func TestDueDate(t *testing.T) {
	cat := recurring("rent", "Rent", models.FrequencyMonthly, nil)
	cat.Recurrence.RecurringDay = 31

	tests := []struct {
		name     string
		category models.Category
		month    int
		expected time.Time
		ok       bool
	}{
		{"clamped to april", cat, 3, time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC), true},
		{"full month", cat, 0, time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), true},
		{"month out of range", cat, 12, time.Time{}, false},
		{"one-off category", models.Category{ID: "x", Name: "X"}, 0, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due, ok := DueDate(tt.category, tt.month, 2025)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, due)
		})
	}
}

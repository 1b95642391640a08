package container

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/budgetmaster/internal/config"
	"fjacquet/budgetmaster/internal/importer"
	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Log:    config.LogConfig{Level: "info", Format: "text"},
		Ledger: config.LedgerConfig{File: filepath.Join(dir, "ledger.yaml"), Year: 2025},
		Import: config.ImportConfig{Delimiter: "auto", Encoding: "auto", DuplicateTolerance: 0.001},
		Amortization: config.AmortizationConfig{HorizonMonths: 60},
		Categorization: config.CategorizationConfig{
			RulesFile:   filepath.Join(dir, "rules.yaml"),
			LearnedFile: filepath.Join(dir, "learned.yaml"),
			AutoLearn:   true,
		},
		Export: config.ExportConfig{Directory: dir, Delimiter: ","},
	}
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      func(dir string) *config.Config
		expectError bool
		errorMsg    string
		seeded      bool
	}{
		{
			name:        "nil config",
			config:      func(string) *config.Config { return nil },
			expectError: true,
			errorMsg:    "configuration cannot be nil",
		},
		{
			name:   "missing ledger starts empty",
			config: testConfig,
		},
		{
			name: "missing ledger is seeded",
			config: func(dir string) *config.Config {
				cfg := testConfig(dir)
				cfg.Ledger.Seed = true
				return cfg
			},
			seeded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainer(tt.config(t.TempDir()), WithLogger(logging.NewMockLogger()))
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			defer func() { _ = c.Close() }()

			assert.NotNil(t, c.GetLedger())
			assert.NotNil(t, c.GetStore())
			assert.NotNil(t, c.GetCategorizer())
			assert.NotNil(t, c.GetExporter())
			assert.NotNil(t, c.GetMaterializer())
			assert.Equal(t, 60, c.GetCalculator().Horizon())
			assert.Equal(t, 2025, c.GetLedger().Year())
			assert.Equal(t, tt.seeded, c.Seeded())
			assert.Equal(t, tt.seeded, len(c.GetLedger().ListCategories()) > 0)
		})
	}
}

func TestContainer_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Ledger.Seed = true

	c, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	rows := len(c.GetLedger().ListBudgetRows())
	require.NoError(t, c.Save())

	cfg.Ledger.Seed = false
	reloaded, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	assert.False(t, reloaded.Seeded())
	assert.Len(t, reloaded.GetLedger().ListBudgetRows(), rows, "reload reconciles nothing new")

	cfg.Ledger.Year = 2026
	nextYear, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	assert.Equal(t, 2026, nextYear.GetLedger().Year())
	assert.Greater(t, len(nextYear.GetLedger().ListBudgetRows()), rows, "recurring rows are materialized for the new year")
}

func TestContainer_MalformedLedger(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	require.NoError(t, os.WriteFile(cfg.Ledger.File, []byte("categories: {broken"), 0600))

	_, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load ledger")
}

func TestContainer_ImportLearnsMappings(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	c, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)

	cat, err := c.GetLedger().AddCategory(models.Category{Name: "Groceries", Type: models.TypeExpense})
	require.NoError(t, err)

	p := c.NewPipeline()
	_, err = p.SubmitFile("bank.csv", strings.NewReader("Date,Description,Amount\n2025-02-03,Migros Basel,-20.00\n"))
	require.NoError(t, err)
	candidates, err := p.ConfirmMapping()
	require.NoError(t, err)
	require.NoError(t, p.AssignCategory(candidates[0].TempID, cat.ID))
	summary, err := p.FinalizeSelection()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, importer.StageSuccess, p.Stage())

	learned, err := os.ReadFile(cfg.Categorization.LearnedFile)
	require.NoError(t, err)
	assert.Contains(t, string(learned), "migros basel: Groceries")
}

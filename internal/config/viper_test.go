package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalDir))
	})
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "ledger.yaml", config.Ledger.File)
	assert.False(t, config.Ledger.Seed)
	assert.Equal(t, 0, config.Ledger.Year)
	assert.Equal(t, "auto", config.Import.Delimiter)
	assert.Equal(t, "auto", config.Import.Encoding)
	assert.Equal(t, 0.001, config.Import.DuplicateTolerance)
	assert.Equal(t, 60, config.Amortization.HorizonMonths)
	assert.Equal(t, "rules.yaml", config.Categorization.RulesFile)
	assert.Equal(t, "learned.yaml", config.Categorization.LearnedFile)
	assert.True(t, config.Categorization.AutoLearn)
	assert.Equal(t, ".", config.Export.Directory)
	assert.Equal(t, ',', config.ExportDelimiter())
	assert.True(t, config.DuplicateTolerance().Equal(decimal.RequireFromString("0.001")))
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	testEnvVars := map[string]string{
		"BUDGET_LOG_LEVEL":                   "debug",
		"BUDGET_LOG_FORMAT":                  "json",
		"BUDGET_LEDGER_FILE":                 "/tmp/household.yaml",
		"BUDGET_LEDGER_YEAR":                 "2024",
		"BUDGET_IMPORT_DELIMITER":            ";",
		"BUDGET_IMPORT_DUPLICATE_TOLERANCE":  "0.01",
		"BUDGET_AMORTIZATION_HORIZON_MONTHS": "120",
		"BUDGET_CATEGORIZATION_AUTO_LEARN":   "false",
		"BUDGET_EXPORT_DELIMITER":            ";",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "/tmp/household.yaml", config.Ledger.File)
	assert.Equal(t, 2024, config.Ledger.Year)
	assert.Equal(t, ";", config.Import.Delimiter)
	assert.Equal(t, 0.01, config.Import.DuplicateTolerance)
	assert.Equal(t, 120, config.Amortization.HorizonMonths)
	assert.False(t, config.Categorization.AutoLearn)
	assert.Equal(t, ';', config.ExportDelimiter())
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()

	configContent := `
log:
  level: "warn"
  format: "json"
ledger:
  file: "family.yaml"
  seed: true
import:
  delimiter: "|"
  encoding: "windows-1252"
categorization:
  auto_learn: false
  rules_file: "my-rules.yaml"
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600))
	chdir(t, tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "family.yaml", config.Ledger.File)
	assert.True(t, config.Ledger.Seed)
	assert.Equal(t, "|", config.Import.Delimiter)
	assert.Equal(t, "windows-1252", config.Import.Encoding)
	assert.False(t, config.Categorization.AutoLearn)
	assert.Equal(t, "my-rules.yaml", config.Categorization.RulesFile)
	assert.Equal(t, "learned.yaml", config.Categorization.LearnedFile)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()

	configContent := `
log:
  level: "warn"
import:
  delimiter: "|"
amortization:
  horizon_months: 24
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600))

	t.Setenv("BUDGET_LOG_LEVEL", "error")
	t.Setenv("BUDGET_AMORTIZATION_HORIZON_MONTHS", "36")
	chdir(t, tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)                // env var wins
	assert.Equal(t, "|", config.Import.Delimiter)             // config file value
	assert.Equal(t, 36, config.Amortization.HorizonMonths)    // env var wins
	assert.Equal(t, "ledger.yaml", config.Ledger.File)        // default
}

func TestLoad_ExplicitFile(t *testing.T) {
	clearTestEnvVars(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ledger:\n  year: 2023\n"), 0600))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2023, config.Ledger.Year)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func validConfig() *Config {
	return &Config{
		Log:            LogConfig{Level: "info", Format: "text"},
		Ledger:         LedgerConfig{File: "ledger.yaml"},
		Import:         ImportConfig{Delimiter: "auto", Encoding: "auto", DuplicateTolerance: 0.001},
		Amortization:   AmortizationConfig{HorizonMonths: 60},
		Categorization: CategorizationConfig{AutoLearn: true},
		Export:         ExportConfig{Directory: ".", Delimiter: ","},
	}
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "invalid" },
			expectError:  "invalid log format",
		},
		{
			name:         "empty ledger file",
			modifyConfig: func(c *Config) { c.Ledger.File = " " },
			expectError:  "ledger.file must not be empty",
		},
		{
			name:         "negative year",
			modifyConfig: func(c *Config) { c.Ledger.Year = -1 },
			expectError:  "ledger.year must be between 0 and 9999",
		},
		{
			name:         "invalid import delimiter",
			modifyConfig: func(c *Config) { c.Import.Delimiter = "abc" },
			expectError:  "import delimiter must be 'auto' or a single character",
		},
		{
			name:         "invalid encoding",
			modifyConfig: func(c *Config) { c.Import.Encoding = "ebcdic" },
			expectError:  "import.encoding must be auto, utf-8 or windows-1252",
		},
		{
			name:         "negative tolerance",
			modifyConfig: func(c *Config) { c.Import.DuplicateTolerance = -0.1 },
			expectError:  "import.duplicate_tolerance must be between 0 and 1",
		},
		{
			name:         "horizon out of range",
			modifyConfig: func(c *Config) { c.Amortization.HorizonMonths = 0 },
			expectError:  "amortization.horizon_months must be between 1 and 1200",
		},
		{
			name:         "invalid export delimiter",
			modifyConfig: func(c *Config) { c.Export.Delimiter = ";;" },
			expectError:  "export delimiter must be a single character",
		},
	}

	require.NoError(t, validateConfig(validConfig()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	tests := []struct {
		name          string
		log           LogConfig
		expectedLevel logrus.Level
		json          bool
	}{
		{name: "text format info level", log: LogConfig{Level: "info", Format: "text"}, expectedLevel: logrus.InfoLevel},
		{name: "json format debug level", log: LogConfig{Level: "debug", Format: "json"}, expectedLevel: logrus.DebugLevel, json: true},
		{name: "invalid level falls back to info", log: LogConfig{Level: "loud", Format: "text"}, expectedLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := ConfigureLoggingFromConfig(&Config{Log: tt.log})
			require.NotNil(t, logger)
			assert.Equal(t, tt.expectedLevel, logger.GetLevel())
			_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.json, isJSON)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	clearTestEnvVars(t)
	dir := t.TempDir()
	chdir(t, dir)

	path, err := LoadEnv()
	require.NoError(t, err)
	assert.Empty(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BUDGET_LOG_LEVEL=warn\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("BUDGET_LOG_LEVEL") })

	path, err = LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", path)
	assert.Equal(t, "warn", GetEnv("BUDGET_LOG_LEVEL", "info"))
	assert.Equal(t, "fallback", GetEnv("BUDGET_NOT_SET", "fallback"))
}

// clearTestEnvVars unsets every variable the tests may set.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	envVars := []string{
		"BUDGET_LOG_LEVEL",
		"BUDGET_LOG_FORMAT",
		"BUDGET_LEDGER_FILE",
		"BUDGET_LEDGER_SEED",
		"BUDGET_LEDGER_YEAR",
		"BUDGET_IMPORT_DELIMITER",
		"BUDGET_IMPORT_ENCODING",
		"BUDGET_IMPORT_DUPLICATE_TOLERANCE",
		"BUDGET_AMORTIZATION_HORIZON_MONTHS",
		"BUDGET_CATEGORIZATION_RULES_FILE",
		"BUDGET_CATEGORIZATION_LEARNED_FILE",
		"BUDGET_CATEGORIZATION_AUTO_LEARN",
		"BUDGET_EXPORT_DIRECTORY",
		"BUDGET_EXPORT_DELIMITER",
	}
	for _, envVar := range envVars {
		// t.Setenv restores the previous value when the test ends.
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
}

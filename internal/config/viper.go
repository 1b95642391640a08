// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "BUDGET"

// Config represents the complete application configuration
type Config struct {
	Log            LogConfig            `mapstructure:"log" yaml:"log"`
	Ledger         LedgerConfig         `mapstructure:"ledger" yaml:"ledger"`
	Import         ImportConfig         `mapstructure:"import" yaml:"import"`
	Amortization   AmortizationConfig   `mapstructure:"amortization" yaml:"amortization"`
	Categorization CategorizationConfig `mapstructure:"categorization" yaml:"categorization"`
	Export         ExportConfig         `mapstructure:"export" yaml:"export"`
}

// LogConfig configures the logrus logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// LedgerConfig locates the ledger snapshot.
type LedgerConfig struct {
	File string `mapstructure:"file" yaml:"file"`
	// Seed fills a missing ledger with demonstration data.
	Seed bool `mapstructure:"seed" yaml:"seed"`
	// Year selects the budget year; 0 keeps the year stored in the ledger.
	Year int `mapstructure:"year" yaml:"year"`
}

// ImportConfig tunes file parsing and duplicate detection.
type ImportConfig struct {
	Delimiter          string  `mapstructure:"delimiter" yaml:"delimiter"`
	Encoding           string  `mapstructure:"encoding" yaml:"encoding"`
	DuplicateTolerance float64 `mapstructure:"duplicate_tolerance" yaml:"duplicate_tolerance"`
}

// AmortizationConfig sets the projection window.
type AmortizationConfig struct {
	HorizonMonths int `mapstructure:"horizon_months" yaml:"horizon_months"`
}

// CategorizationConfig locates the categorizer files.
type CategorizationConfig struct {
	RulesFile   string `mapstructure:"rules_file" yaml:"rules_file"`
	LearnedFile string `mapstructure:"learned_file" yaml:"learned_file"`
	AutoLearn   bool   `mapstructure:"auto_learn" yaml:"auto_learn"`
}

// ExportConfig configures generated files.
type ExportConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load reads configuration from configFile, or from the standard locations when
// configFile is empty, then applies environment overrides.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.budgetmaster")
		v.AddConfigPath(".budgetmaster")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configFile != "":
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		case !errors.As(err, &notFound):
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ledger.file", "ledger.yaml")
	v.SetDefault("ledger.seed", false)
	v.SetDefault("ledger.year", 0)

	v.SetDefault("import.delimiter", "auto")
	v.SetDefault("import.encoding", "auto")
	v.SetDefault("import.duplicate_tolerance", 0.001)

	v.SetDefault("amortization.horizon_months", 60)

	v.SetDefault("categorization.rules_file", "rules.yaml")
	v.SetDefault("categorization.learned_file", "learned.yaml")
	v.SetDefault("categorization.auto_learn", true)

	v.SetDefault("export.directory", ".")
	v.SetDefault("export.delimiter", ",")
}

var validEncodings = map[string]bool{"auto": true, "utf-8": true, "utf8": true, "windows-1252": true, "cp1252": true}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if strings.TrimSpace(config.Ledger.File) == "" {
		return fmt.Errorf("ledger.file must not be empty")
	}

	if config.Ledger.Year < 0 || config.Ledger.Year > 9999 {
		return fmt.Errorf("ledger.year must be between 0 and 9999, got: %d", config.Ledger.Year)
	}

	if d := config.Import.Delimiter; d != "auto" && d != "" && len([]rune(d)) != 1 {
		return fmt.Errorf("import delimiter must be 'auto' or a single character, got: %s", d)
	}

	if !validEncodings[strings.ToLower(config.Import.Encoding)] && config.Import.Encoding != "" {
		return fmt.Errorf("import.encoding must be auto, utf-8 or windows-1252, got: %s", config.Import.Encoding)
	}

	if config.Import.DuplicateTolerance < 0 || config.Import.DuplicateTolerance >= 1 {
		return fmt.Errorf("import.duplicate_tolerance must be between 0 and 1, got: %f", config.Import.DuplicateTolerance)
	}

	if config.Amortization.HorizonMonths < 1 || config.Amortization.HorizonMonths > 1200 {
		return fmt.Errorf("amortization.horizon_months must be between 1 and 1200, got: %d", config.Amortization.HorizonMonths)
	}

	if len([]rune(config.Export.Delimiter)) != 1 {
		return fmt.Errorf("export delimiter must be a single character, got: %s", config.Export.Delimiter)
	}

	return nil
}

// DuplicateTolerance returns the import tolerance as a decimal.
func (c *Config) DuplicateTolerance() decimal.Decimal {
	return decimal.NewFromFloat(c.Import.DuplicateTolerance)
}

// ExportDelimiter returns the export delimiter rune, a comma when unset.
func (c *Config) ExportDelimiter() rune {
	if r := []rune(c.Export.Delimiter); len(r) == 1 {
		return r[0]
	}
	return ','
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// Package store persists the ledger snapshot and the categorizer's rule and
// learned-mapping files as YAML.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/budgetmaster/internal/fileutils"
	"fjacquet/budgetmaster/internal/ledger"
	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"

	"gopkg.in/yaml.v3"
)

// Default file names used when a path is left empty.
const (
	DefaultLedgerFile  = "ledger.yaml"
	DefaultRulesFile   = "rules.yaml"
	DefaultLearnedFile = "learned.yaml"
)

// ErrNoLedger is returned by LoadSnapshot when the ledger file does not exist yet.
var ErrNoLedger = errors.New("ledger file not found")

// FileStore manages loading and saving of ledger data and categorization files.
type FileStore struct {
	LedgerFile  string
	RulesFile   string
	LearnedFile string
	logger      logging.Logger
}

// rulesFile is the on-disk layout of the keyword rules.
type rulesFile struct {
	Rules []models.CategoryRule `yaml:"rules"`
}

// learnedFile is the on-disk layout of the learned description mappings.
type learnedFile struct {
	Credits map[string]string `yaml:"credits"`
	Debits  map[string]string `yaml:"debits"`
}

// NewFileStore creates a new store for the given files.
func NewFileStore(ledgerFile, rulesFile, learnedFile string, logger logging.Logger) *FileStore {
	if ledgerFile == "" {
		ledgerFile = DefaultLedgerFile
	}
	if rulesFile == "" {
		rulesFile = DefaultRulesFile
	}
	if learnedFile == "" {
		learnedFile = DefaultLearnedFile
	}
	return &FileStore{
		LedgerFile:  ledgerFile,
		RulesFile:   rulesFile,
		LearnedFile: learnedFile,
		logger:      logging.OrDefault(logger),
	}
}

// FindConfigFile looks for a data file in standard locations
func (s *FileStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}

	// Fall back to the per-user directory
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".budgetmaster", filename)
		if fileutils.FileExists(configPath) {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// writePath returns where filename should be written: its existing location
// or, for a new file, the name as given.
func (s *FileStore) writePath(filename string) string {
	if path, err := s.FindConfigFile(filename); err == nil {
		return path
	}
	return filename
}

func (s *FileStore) writeYAML(filename string, value interface{}) (string, error) {
	path := s.writePath(filename)
	if dir := filepath.Dir(path); dir != "." {
		if err := fileutils.EnsureDirectoryExists(dir); err != nil {
			return "", fmt.Errorf("error creating directory: %w", err)
		}
	}
	data, err := yaml.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("error marshaling %s: %w", filename, err)
	}
	if err := fileutils.WriteFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("error writing %s: %w", path, err)
	}
	return path, nil
}

// readYAML decodes filename into value. It reports false when the file does not exist.
func (s *FileStore) readYAML(filename string, value interface{}) (string, bool, error) {
	path, err := s.FindConfigFile(filename)
	if err != nil {
		return "", false, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-selected data file
	if err != nil {
		return path, false, fmt.Errorf("error reading %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return path, true, nil
	}
	if err := yaml.Unmarshal(data, value); err != nil {
		return path, false, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return path, true, nil
}

// LoadSnapshot reads the ledger file. It returns ErrNoLedger when the file does not exist.
func (s *FileStore) LoadSnapshot() (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	path, found, err := s.readYAML(s.LedgerFile, &snap)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	if !found {
		return ledger.Snapshot{}, ErrNoLedger
	}
	s.logger.WithFields(
		logging.F(logging.FieldFile, path),
		logging.F("categories", len(snap.Categories)),
		logging.F("rows", len(snap.BudgetRows)),
	).Debug("Loaded ledger snapshot")
	return snap, nil
}

// SaveSnapshot writes snap to the ledger file, replacing it atomically.
func (s *FileStore) SaveSnapshot(snap ledger.Snapshot) error {
	path, err := s.writeYAML(s.LedgerFile, snap)
	if err != nil {
		return err
	}
	s.logger.WithField(logging.FieldFile, path).Debug("Saved ledger snapshot")
	return nil
}

// LoadRules loads keyword rules. A missing file yields no rules.
func (s *FileStore) LoadRules() ([]models.CategoryRule, error) {
	var file rulesFile
	path, found, err := s.readYAML(s.RulesFile, &file)
	if err != nil {
		return nil, err
	}
	if !found {
		s.logger.WithField(logging.FieldFile, s.RulesFile).Debug("Rules file not found")
		return []models.CategoryRule{}, nil
	}
	s.logger.WithFields(
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(file.Rules)),
	).Debug("Loaded keyword rules")
	return file.Rules, nil
}

// SaveRules writes the keyword rules file.
func (s *FileStore) SaveRules(rules []models.CategoryRule) error {
	_, err := s.writeYAML(s.RulesFile, rulesFile{Rules: rules})
	return err
}

func (s *FileStore) loadLearned() (learnedFile, error) {
	var file learnedFile
	if _, _, err := s.readYAML(s.LearnedFile, &file); err != nil {
		return learnedFile{}, err
	}
	if file.Credits == nil {
		file.Credits = map[string]string{}
	}
	if file.Debits == nil {
		file.Debits = map[string]string{}
	}
	return file, nil
}

// LoadCreditMappings loads learned mappings for incoming money.
func (s *FileStore) LoadCreditMappings() (map[string]string, error) {
	file, err := s.loadLearned()
	if err != nil {
		return nil, err
	}
	return file.Credits, nil
}

// LoadDebitMappings loads learned mappings for outgoing money.
func (s *FileStore) LoadDebitMappings() (map[string]string, error) {
	file, err := s.loadLearned()
	if err != nil {
		return nil, err
	}
	return file.Debits, nil
}

// SaveCreditMappings replaces the credit mappings, keeping the debit ones.
func (s *FileStore) SaveCreditMappings(mappings map[string]string) error {
	file, err := s.loadLearned()
	if err != nil {
		return err
	}
	file.Credits = mappings
	return s.saveLearned(file)
}

// SaveDebitMappings replaces the debit mappings, keeping the credit ones.
func (s *FileStore) SaveDebitMappings(mappings map[string]string) error {
	file, err := s.loadLearned()
	if err != nil {
		return err
	}
	file.Debits = mappings
	return s.saveLearned(file)
}

func (s *FileStore) saveLearned(file learnedFile) error {
	path, err := s.writeYAML(s.LearnedFile, file)
	if err != nil {
		return err
	}
	s.logger.WithFields(
		logging.F(logging.FieldFile, path),
		logging.F("credits", len(file.Credits)),
		logging.F("debits", len(file.Debits)),
	).Debug("Saved learned mappings")
	return nil
}

// SortedKeys returns the keys of mappings in ascending order.
func SortedKeys(mappings map[string]string) []string {
	keys := make([]string, 0, len(mappings))
	for k := range mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

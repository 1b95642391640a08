// Package container provides dependency injection for the budgetmaster application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"errors"
	"fmt"

	"fjacquet/budgetmaster/internal/amortization"
	"fjacquet/budgetmaster/internal/categorizer"
	"fjacquet/budgetmaster/internal/config"
	"fjacquet/budgetmaster/internal/export"
	"fjacquet/budgetmaster/internal/importer"
	"fjacquet/budgetmaster/internal/ledger"
	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/recurrence"
	"fjacquet/budgetmaster/internal/store"
	"fjacquet/budgetmaster/internal/tabular"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger       logging.Logger
	config       *config.Config
	store        *store.FileStore
	ledger       *ledger.Store
	materializer *recurrence.Materializer
	calculator   *amortization.Calculator
	categorizer  *categorizer.Categorizer
	exporter     *export.Exporter
	seeded       bool
}

// Option customizes NewContainer.
type Option func(*options)

type options struct {
	logger logging.Logger
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewContainer creates and wires all application dependencies and loads the
// ledger. A missing ledger file starts an empty ledger, or the demonstration
// ledger when ledger.seed is set.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	}

	fileStore := store.NewFileStore(
		cfg.Ledger.File,
		cfg.Categorization.RulesFile,
		cfg.Categorization.LearnedFile,
		logger,
	)
	materializer := recurrence.NewMaterializer(logger)
	ledgerStore := ledger.NewStore(cfg.Ledger.Year, materializer, logger)
	calculator := amortization.NewCalculator(cfg.Amortization.HorizonMonths, logger)
	cat := categorizer.NewCategorizer(fileStore, cfg.Categorization.AutoLearn, logger)
	exporter := export.NewExporter(calculator, cfg.ExportDelimiter(), logger)

	c := &Container{
		logger:       logger,
		config:       cfg,
		store:        fileStore,
		ledger:       ledgerStore,
		materializer: materializer,
		calculator:   calculator,
		categorizer:  cat,
		exporter:     exporter,
	}
	if err := c.load(); err != nil {
		return nil, err
	}

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldFile, cfg.Ledger.File),
		logging.F(logging.FieldYear, ledgerStore.Year()))
	return c, nil
}

func (c *Container) load() error {
	snap, err := c.store.LoadSnapshot()
	switch {
	case errors.Is(err, store.ErrNoLedger):
		if !c.config.Ledger.Seed {
			c.logger.Info("No ledger found, starting empty", logging.F(logging.FieldFile, c.config.Ledger.File))
			_, err := c.ledger.Reconcile(c.ledger.Year())
			return err
		}
		if err := c.ledger.Seed(); err != nil {
			return fmt.Errorf("failed to seed ledger: %w", err)
		}
		c.seeded = true
		c.logger.Info("Seeded demonstration ledger", logging.F(logging.FieldFile, c.config.Ledger.File))
		return nil
	case err != nil:
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	if c.config.Ledger.Year != 0 {
		snap.Year = c.config.Ledger.Year
	}
	if err := c.ledger.Restore(snap); err != nil {
		return fmt.Errorf("failed to restore ledger: %w", err)
	}
	return nil
}

// NewPipeline returns a fresh import pipeline bound to the ledger and the
// categorizer, configured from the import settings.
func (c *Container) NewPipeline() *importer.Pipeline {
	opts := importer.Options{
		Tabular: tabular.Options{
			Delimiter: c.config.Import.Delimiter,
			Encoding:  c.config.Import.Encoding,
		},
		DuplicateTolerance: c.config.DuplicateTolerance(),
	}
	return importer.NewPipeline(c.ledger, c.categorizer, opts, c.logger)
}

// Save writes the current ledger snapshot to the ledger file.
func (c *Container) Save() error {
	return c.store.SaveSnapshot(c.ledger.Snapshot())
}

// Seeded reports whether the ledger was seeded while loading.
func (c *Container) Seeded() bool {
	return c.seeded
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLedger returns the ledger store.
func (c *Container) GetLedger() *ledger.Store {
	return c.ledger
}

// GetStore returns the file store.
func (c *Container) GetStore() *store.FileStore {
	return c.store
}

// GetMaterializer returns the recurrence materializer shared with the ledger.
func (c *Container) GetMaterializer() *recurrence.Materializer {
	return c.materializer
}

// GetCalculator returns the amortization calculator.
func (c *Container) GetCalculator() *amortization.Calculator {
	return c.calculator
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetExporter returns the exporter.
func (c *Container) GetExporter() *export.Exporter {
	return c.exporter
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}

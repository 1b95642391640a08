// Package root contains the root command for the application
package root

import (
	"errors"
	"fmt"

	"fjacquet/budgetmaster/internal/config"
	"fjacquet/budgetmaster/internal/container"
	"fjacquet/budgetmaster/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GlobalFlags holds the flags shared by every command.
type GlobalFlags struct {
	ConfigFile string
	LedgerFile string
	Year       int
	Seed       bool
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the configuration resolved by PersistentPreRunE.
	AppConfig *config.Config

	// Flags holds the global flag values
	Flags = GlobalFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "budgetmaster",
		Short: "A household budget ledger with recurring categories, debts and bank imports.",
		Long: `budgetmaster keeps a yearly household budget in a YAML ledger.
Recurring categories are expanded into monthly budget rows, debts are projected
with an amortization schedule and bank statements (CSV, XLSX, CAMT.053, OFX)
can be imported and reconciled against the ledger.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initialize,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	Cmd.PersistentFlags().StringVar(&Flags.ConfigFile, "config", "", "Config file (default: $HOME/.budgetmaster/config.yaml)")
	Cmd.PersistentFlags().StringVarP(&Flags.LedgerFile, "ledger", "l", "", "Ledger file")
	Cmd.PersistentFlags().IntVarP(&Flags.Year, "year", "y", 0, "Budget year (default: current year)")
	Cmd.PersistentFlags().BoolVar(&Flags.Seed, "seed", false, "Start from the demonstration ledger when the ledger file does not exist")
}

// initialize loads .env, resolves the configuration and configures logging.
func initialize(cmd *cobra.Command, args []string) error {
	if _, err := config.LoadEnv(); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.Load(Flags.ConfigFile)
	if err != nil {
		return err
	}
	if Flags.LedgerFile != "" {
		cfg.Ledger.File = Flags.LedgerFile
	}
	if Flags.Year != 0 {
		cfg.Ledger.Year = Flags.Year
	}
	if Flags.Seed {
		cfg.Ledger.Seed = true
	}

	AppConfig = cfg
	Log = config.ConfigureLoggingFromConfig(cfg)
	Log.SetOutput(cmd.ErrOrStderr())
	return nil
}

// Open wires the application for the current invocation and loads the ledger.
func Open() (*container.Container, error) {
	if AppConfig == nil {
		return nil, errors.New("configuration not initialized")
	}
	return container.NewContainer(AppConfig, container.WithLogger(logging.NewLogrusAdapterFromLogger(Log)))
}

// WithContainer opens the application, runs fn and closes it.
func WithContainer(fn func(c *container.Container) error) error {
	c, err := Open()
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			Log.WithError(err).Warn("Failed to close container")
		}
	}()
	return fn(c)
}

// Mutate opens the application, runs fn and saves the ledger when fn succeeds.
func Mutate(fn func(c *container.Container) error) error {
	return WithContainer(func(c *container.Container) error {
		if err := fn(c); err != nil {
			return err
		}
		if err := c.Save(); err != nil {
			return fmt.Errorf("failed to save ledger: %w", err)
		}
		Log.WithField(logging.FieldFile, AppConfig.Ledger.File).Debug("Ledger saved")
		return nil
	})
}

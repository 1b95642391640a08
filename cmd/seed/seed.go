// Package seed fills the ledger with demonstration data
package seed

import (
	"errors"

	"fjacquet/budgetmaster/cmd/common"
	"fjacquet/budgetmaster/cmd/root"
	"fjacquet/budgetmaster/internal/container"

	"github.com/spf13/cobra"
)

var (
	force bool

	// Cmd represents the seed command
	Cmd = &cobra.Command{
		Use:   "seed",
		Short: "Replace the ledger with demonstration data",
		Long:  `Replace the ledger with a demonstration household budget: salary, housing costs, groceries, savings and a car loan, materialized for the year.`,
		Args:  cobra.NoArgs,
		RunE:  seedFunc,
	}
)

func init() {
	Cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite a ledger that already holds data")
}

func seedFunc(cmd *cobra.Command, args []string) error {
	return root.Mutate(func(c *container.Container) error {
		store := c.GetLedger()
		if c.Seeded() {
			common.Success(cmd.OutOrStdout(), "Seeded %d", store.Year())
			return nil
		}
		snap := store.Snapshot()
		if !force && (len(snap.Categories) > 0 || len(snap.BudgetRows) > 0) {
			return errors.New("the ledger already holds data, use --force to replace it")
		}
		if err := store.Seed(); err != nil {
			return err
		}
		common.Success(cmd.OutOrStdout(), "Seeded %d", store.Year())
		return nil
	})
}

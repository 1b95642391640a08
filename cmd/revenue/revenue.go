// Package revenue manages dated income records
package revenue

import (
	"fmt"

	"fjacquet/budgetmaster/cmd/common"
	"fjacquet/budgetmaster/cmd/root"
	"fjacquet/budgetmaster/internal/container"
	"fjacquet/budgetmaster/internal/models"

	"github.com/spf13/cobra"
)

var (
	date     string
	desc     string
	source   string
	amount   string
	category string

	// Cmd represents the revenue command
	Cmd = &cobra.Command{
		Use:     "revenue",
		Aliases: []string{"revenues"},
		Short:   "Manage revenues",
		Long:    `List, add and delete dated income records such as salaries, bonuses or rental income.`,
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the revenues of the year",
		Args:  cobra.NoArgs,
		RunE:  listFunc,
	}

	addCmd = &cobra.Command{
		Use:   "add",
		Short: "Add a revenue",
		Args:  cobra.NoArgs,
		RunE:  addFunc,
	}

	deleteCmd = &cobra.Command{
		Use:   "delete <revenue>",
		Short: "Delete a revenue",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteFunc,
	}
)

func init() {
	addCmd.Flags().StringVarP(&date, "date", "t", "", "Date of the revenue")
	addCmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	addCmd.Flags().StringVarP(&source, "source", "s", "", "Source (employer, tenant...)")
	addCmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount")
	addCmd.Flags().StringVarP(&category, "category", "c", "", "Category ID, ID prefix or name")
	_ = addCmd.MarkFlagRequired("date")
	_ = addCmd.MarkFlagRequired("desc")
	_ = addCmd.MarkFlagRequired("amount")

	Cmd.AddCommand(listCmd, addCmd, deleteCmd)
}

func listFunc(cmd *cobra.Command, args []string) error {
	return root.WithContainer(func(c *container.Container) error {
		snap := c.GetLedger().Snapshot()
		out := cmd.OutOrStdout()

		table := common.NewTable(out, "ID", "Date", "Description", "Source", "Category", "Amount")
		n := 0
		for _, r := range snap.Revenues {
			if r.Year != snap.Year {
				continue
			}
			name := ""
			if cat, ok := snap.CategoryByID(r.CategoryID); ok {
				name = cat.Name
			}
			table.Row(common.ShortID(r.ID), r.Date.Format("2006-01-02"), r.Description, r.Source, name, common.Money(r.Amount))
			n++
		}
		if n == 0 {
			common.Info(out, "No revenues for %d.", snap.Year)
			return nil
		}
		return table.Flush()
	})
}

func addFunc(cmd *cobra.Command, args []string) error {
	return root.Mutate(func(c *container.Container) error {
		store := c.GetLedger()
		r := models.Revenue{Description: desc, Source: source}
		var err error
		if r.Date, err = common.ParseDate(date); err != nil {
			return err
		}
		if r.Amount, err = common.ParseAmount(amount); err != nil {
			return err
		}
		if category != "" {
			cat, err := common.ResolveCategory(store.ListCategories(), category)
			if err != nil {
				return err
			}
			r.CategoryID = cat.ID
		}
		added, err := store.AddRevenue(r)
		if err != nil {
			return fmt.Errorf("failed to add revenue: %w", err)
		}
		common.Success(cmd.OutOrStdout(), "Added revenue %s (%s)", added.Description, common.ShortID(added.ID))
		return nil
	})
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	return root.Mutate(func(c *container.Container) error {
		store := c.GetLedger()
		revenues := store.ListRevenues()
		ids := make([]string, len(revenues))
		for i, r := range revenues {
			ids[i] = r.ID
		}
		id, err := common.ResolveID("revenue", ids, args[0])
		if err != nil {
			return err
		}
		if err := store.DeleteRevenue(id); err != nil {
			return fmt.Errorf("failed to delete revenue: %w", err)
		}
		common.Success(cmd.OutOrStdout(), "Deleted revenue %s", common.ShortID(id))
		return nil
	})
}

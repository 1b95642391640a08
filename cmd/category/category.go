// Package category manages budget categories
package category

import (
	"fmt"

	"fjacquet/budgetmaster/cmd/common"
	"fjacquet/budgetmaster/cmd/root"
	"fjacquet/budgetmaster/internal/container"
	"fjacquet/budgetmaster/internal/models"

	"github.com/spf13/cobra"
)

type categoryFlags struct {
	name      string
	catType   string
	sub       string
	recurring bool
	day       int
	frequency string
	amount    string
}

var (
	addFlags    categoryFlags
	updateFlags categoryFlags

	// Cmd represents the category command
	Cmd = &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Manage budget categories",
		Long:    `List, add, update and delete the categories that classify cash flows. Recurring categories are expanded into monthly budget rows.`,
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE:  listFunc,
	}

	addCmd = &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE:  addFunc,
	}

	updateCmd = &cobra.Command{
		Use:   "update <category>",
		Short: "Update a category",
		Long:  `Update the fields given as flags. Renaming a debt's category renames the debt too.`,
		Args:  cobra.ExactArgs(1),
		RunE:  updateFunc,
	}

	deleteCmd = &cobra.Command{
		Use:   "delete <category>",
		Short: "Delete a category",
		Long:  `Delete a category. Categories linked to a debt are removed by deleting the debt.`,
		Args:  cobra.ExactArgs(1),
		RunE:  deleteFunc,
	}
)

func registerFlags(cmd *cobra.Command, f *categoryFlags) {
	cmd.Flags().StringVarP(&f.catType, "type", "t", "", "Category type (Income, Expense, Savings, Investment, Debt)")
	cmd.Flags().StringVarP(&f.sub, "sub", "s", "", "Sub-category")
	cmd.Flags().BoolVarP(&f.recurring, "recurring", "r", false, "Expand the category into monthly rows")
	cmd.Flags().IntVarP(&f.day, "day", "d", 1, "Day of month of the recurring payment")
	cmd.Flags().StringVarP(&f.frequency, "frequency", "f", "monthly", "Recurrence frequency (monthly, bimonthly)")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "Default planned amount of each recurring row")
}

func init() {
	registerFlags(addCmd, &addFlags)
	registerFlags(updateCmd, &updateFlags)
	updateCmd.Flags().StringVarP(&updateFlags.name, "name", "n", "", "New name")
	_ = addCmd.MarkFlagRequired("type")

	Cmd.AddCommand(listCmd, addCmd, updateCmd, deleteCmd)
}

// apply copies the flags that were set on cmd onto c.
func apply(cmd *cobra.Command, f *categoryFlags, c *models.Category) error {
	changed := cmd.Flags().Changed
	if changed("name") {
		c.Name = f.name
	}
	if changed("type") {
		t, err := models.ParseCategoryType(f.catType)
		if err != nil {
			return err
		}
		c.Type = t
	}
	if changed("sub") {
		c.SubCategory = f.sub
	}
	if changed("recurring") {
		c.Recurrence.IsRecurring = f.recurring
	}
	if changed("day") || (c.Recurrence.IsRecurring && c.Recurrence.RecurringDay == 0) {
		c.Recurrence.RecurringDay = f.day
	}
	if changed("frequency") || (c.Recurrence.IsRecurring && c.Recurrence.Frequency == "") {
		freq, err := models.ParseFrequency(f.frequency)
		if err != nil {
			return err
		}
		c.Recurrence.Frequency = freq
	}
	if changed("amount") {
		amount, err := common.ParseAmount(f.amount)
		if err != nil {
			return err
		}
		c.Recurrence.DefaultAmount = &amount
	}
	return nil
}

func recurrenceLabel(r models.Recurrence) string {
	if !r.IsRecurring {
		return common.SubtleStyle.Render("one-off")
	}
	return fmt.Sprintf("%s, day %d, %s", r.EffectiveFrequency(), r.RecurringDay, common.Money(r.PlannedAmount()))
}

func listFunc(cmd *cobra.Command, args []string) error {
	return root.WithContainer(func(c *container.Container) error {
		categories := c.GetLedger().ListCategories()
		out := cmd.OutOrStdout()
		if len(categories) == 0 {
			common.Info(out, "No categories found. Use 'budgetmaster category add' to create one.")
			return nil
		}

		table := common.NewTable(out, "ID", "Name", "Type", "Sub-category", "Recurrence", "Debt")
		for _, cat := range categories {
			debt := ""
			if cat.IsLinked() {
				debt = common.ShortID(cat.LinkedDebtID)
			}
			table.Row(common.ShortID(cat.ID), cat.Name, cat.Type, cat.SubCategory, recurrenceLabel(cat.Recurrence), debt)
		}
		return table.Flush()
	})
}

func addFunc(cmd *cobra.Command, args []string) error {
	return root.Mutate(func(c *container.Container) error {
		cat := models.Category{Name: args[0]}
		if err := apply(cmd, &addFlags, &cat); err != nil {
			return err
		}
		added, err := c.GetLedger().AddCategory(cat)
		if err != nil {
			return fmt.Errorf("failed to add category: %w", err)
		}
		common.Success(cmd.OutOrStdout(), "Added category %s (%s)", added.Name, common.ShortID(added.ID))
		return nil
	})
}

func updateFunc(cmd *cobra.Command, args []string) error {
	return root.Mutate(func(c *container.Container) error {
		store := c.GetLedger()
		cat, err := common.ResolveCategory(store.ListCategories(), args[0])
		if err != nil {
			return err
		}
		if err := apply(cmd, &updateFlags, &cat); err != nil {
			return err
		}
		if err := store.UpdateCategory(cat); err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}
		common.Success(cmd.OutOrStdout(), "Updated category %s", cat.Name)
		return nil
	})
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	return root.Mutate(func(c *container.Container) error {
		store := c.GetLedger()
		cat, err := common.ResolveCategory(store.ListCategories(), args[0])
		if err != nil {
			return err
		}
		if err := store.DeleteCategory(cat.ID); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		common.Success(cmd.OutOrStdout(), "Deleted category %s", cat.Name)
		return nil
	})
}

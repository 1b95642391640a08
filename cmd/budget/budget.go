// Package budget manages the monthly budget rows of the ledger
package budget

import (
	"fmt"
	"sort"

	"fjacquet/budgetmaster/cmd/common"
	"fjacquet/budgetmaster/cmd/root"
	"fjacquet/budgetmaster/internal/container"
	"fjacquet/budgetmaster/internal/dateutils"
	"fjacquet/budgetmaster/internal/ledger"
	"fjacquet/budgetmaster/internal/models"
	"fjacquet/budgetmaster/internal/recurrence"

	"github.com/spf13/cobra"
)

type rowFlags struct {
	category    string
	month       string
	description string
	planned     string
	actual      string
}

var (
	listMonth   string
	addFlags    rowFlags
	updateFlags rowFlags

	// Cmd represents the budget command
	Cmd = &cobra.Command{
		Use:   "budget",
		Short: "Manage budget rows",
		Long:  `List, add, update and delete the planned and actual amounts of each category per month.`,
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the budget rows of the year",
		Args:  cobra.NoArgs,
		RunE:  listFunc,
	}

	addCmd = &cobra.Command{
		Use:   "add",
		Short: "Add a budget row",
		Args:  cobra.NoArgs,
		RunE:  addFunc,
	}

	updateCmd = &cobra.Command{
		Use:   "update <row>",
		Short: "Update a budget row",
		Args:  cobra.ExactArgs(1),
		RunE:  updateFunc,
	}

	deleteCmd = &cobra.Command{
		Use:   "delete <row>",
		Short: "Delete a budget row",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteFunc,
	}

	reconcileCmd = &cobra.Command{
		Use:   "reconcile",
		Short: "Create the missing rows of recurring categories for the year",
		Args:  cobra.NoArgs,
		RunE:  reconcileFunc,
	}

	summaryCmd = &cobra.Command{
		Use:   "summary",
		Short: "Show planned and actual totals per category type",
		Args:  cobra.NoArgs,
		RunE:  summaryFunc,
	}
)

func registerFlags(cmd *cobra.Command, f *rowFlags) {
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category ID, ID prefix or name")
	cmd.Flags().StringVarP(&f.month, "month", "m", "", "Month number (1-12) or name")
	cmd.Flags().StringVarP(&f.description, "desc", "d", "", "Description")
	cmd.Flags().StringVarP(&f.planned, "planned", "p", "", "Planned amount")
	cmd.Flags().StringVarP(&f.actual, "actual", "a", "", "Actual amount")
}

func init() {
	listCmd.Flags().StringVarP(&listMonth, "month", "m", "", "Only show this month (1-12 or name)")
	registerFlags(addCmd, &addFlags)
	registerFlags(updateCmd, &updateFlags)
	_ = addCmd.MarkFlagRequired("category")
	_ = addCmd.MarkFlagRequired("month")

	Cmd.AddCommand(listCmd, addCmd, updateCmd, deleteCmd, reconcileCmd, summaryCmd)
}

// apply copies the flags that were set on cmd onto r.
func apply(cmd *cobra.Command, f *rowFlags, categories []models.Category, r *models.BudgetRow) error {
	changed := cmd.Flags().Changed
	if changed("category") {
		cat, err := common.ResolveCategory(categories, f.category)
		if err != nil {
			return err
		}
		r.CategoryID = cat.ID
		r.DebtID = cat.LinkedDebtID
	}
	if changed("month") {
		m, err := common.ParseMonth(f.month)
		if err != nil {
			return err
		}
		r.MonthIndex = m
	}
	if changed("desc") {
		r.Description = f.description
	}
	if changed("planned") {
		amount, err := common.ParseAmount(f.planned)
		if err != nil {
			return err
		}
		r.Planned = amount
	}
	if changed("actual") {
		amount, err := common.ParseAmount(f.actual)
		if err != nil {
			return err
		}
		r.Actual = amount
	}
	return nil
}

func rowIDs(rows []models.BudgetRow) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func listFunc(cmd *cobra.Command, args []string) error {
	return root.WithContainer(func(c *container.Container) error {
		snap := c.GetLedger().Snapshot()
		month := -1
		if listMonth != "" {
			m, err := common.ParseMonth(listMonth)
			if err != nil {
				return err
			}
			month = m
		}

		var rows []models.BudgetRow
		for _, r := range snap.BudgetRows {
			if r.Year == snap.Year && (month < 0 || r.MonthIndex == month) {
				rows = append(rows, r)
			}
		}
		out := cmd.OutOrStdout()
		if len(rows) == 0 {
			common.Info(out, "No budget rows for %d.", snap.Year)
			return nil
		}
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].MonthIndex < rows[j].MonthIndex })

		table := common.NewTable(out, "ID", "Month", "Due", "Category", "Description", "Planned", "Actual", "Variance")
		for _, r := range rows {
			name, due := "?", ""
			if cat, ok := snap.CategoryByID(r.CategoryID); ok {
				name = cat.Name
				if d, ok := recurrence.DueDate(cat, r.MonthIndex, r.Year); ok {
					due = dateutils.FormatDate(d, dateutils.DateLayoutEuropean)
				}
			}
			table.Row(common.ShortID(r.ID), models.Months[r.MonthIndex], due, name, r.Description,
				common.Money(r.Planned), common.Money(r.Actual), common.Money(r.Variance()))
		}
		return table.Flush()
	})
}

func addFunc(cmd *cobra.Command, args []string) error {
	return root.Mutate(func(c *container.Container) error {
		store := c.GetLedger()
		r := models.BudgetRow{Year: store.Year()}
		if err := apply(cmd, &addFlags, store.ListCategories(), &r); err != nil {
			return err
		}
		added, err := store.AddBudgetRow(r)
		if err != nil {
			return fmt.Errorf("failed to add budget row: %w", err)
		}
		common.Success(cmd.OutOrStdout(), "Added budget row %s", common.ShortID(added.ID))
		return nil
	})
}

func updateFunc(cmd *cobra.Command, args []string) error {
	return root.Mutate(func(c *container.Container) error {
		store := c.GetLedger()
		rows := store.ListBudgetRows()
		id, err := common.ResolveID("budget row", rowIDs(rows), args[0])
		if err != nil {
			return err
		}
		var r models.BudgetRow
		for _, row := range rows {
			if row.ID == id {
				r = row
			}
		}
		if err := apply(cmd, &updateFlags, store.ListCategories(), &r); err != nil {
			return err
		}
		if err := store.UpdateBudgetRow(r); err != nil {
			return fmt.Errorf("failed to update budget row: %w", err)
		}
		common.Success(cmd.OutOrStdout(), "Updated budget row %s", common.ShortID(id))
		return nil
	})
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	return root.Mutate(func(c *container.Container) error {
		store := c.GetLedger()
		id, err := common.ResolveID("budget row", rowIDs(store.ListBudgetRows()), args[0])
		if err != nil {
			return err
		}
		if err := store.DeleteBudgetRow(id); err != nil {
			return fmt.Errorf("failed to delete budget row: %w", err)
		}
		common.Success(cmd.OutOrStdout(), "Deleted budget row %s", common.ShortID(id))
		return nil
	})
}

func reconcileFunc(cmd *cobra.Command, args []string) error {
	return root.Mutate(func(c *container.Container) error {
		store := c.GetLedger()
		added, err := store.Reconcile(store.Year())
		if err != nil {
			return err
		}
		common.Success(cmd.OutOrStdout(), "Reconciled %d: %d rows added", store.Year(), len(added))
		return nil
	})
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	return root.WithContainer(func(c *container.Container) error {
		totals := c.GetLedger().Totals(c.GetLedger().Year())
		out := cmd.OutOrStdout()
		table := common.NewTable(out, "Type", "Planned", "Actual")
		for _, ct := range models.CategoryTypes {
			amounts := totals.ByType[ct]
			table.Row(ct, common.Money(amounts.Planned), common.Money(amounts.Actual))
		}
		if err := table.Flush(); err != nil {
			return err
		}
		printTotals(cmd, totals)
		return nil
	})
}

func printTotals(cmd *cobra.Command, t ledger.Totals) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Income      %s\n", common.Money(t.Income))
	fmt.Fprintf(out, "Expenses    %s\n", common.Money(t.Expenses))
	fmt.Fprintf(out, "Debt paid   %s\n", common.Money(t.DebtPaid))
	fmt.Fprintf(out, "Savings     %s\n", common.Money(t.Savings))
	fmt.Fprintf(out, "Invested    %s\n", common.Money(t.Invested))
	fmt.Fprintf(out, "Cashflow    %s\n", common.Money(t.Cashflow))
	fmt.Fprintf(out, "Savings rate %s%%\n", t.SavingsRate.StringFixed(1))
}

// Package investment manages dated capital allocations
package investment

import (
	"fmt"

	"fjacquet/budgetmaster/cmd/common"
	"fjacquet/budgetmaster/cmd/root"
	"fjacquet/budgetmaster/internal/container"
	"fjacquet/budgetmaster/internal/currencyutils"
	"fjacquet/budgetmaster/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	date      string
	project   string
	amount    string
	returnAmt string
	category  string

	// Cmd represents the investment command
	Cmd = &cobra.Command{
		Use:     "investment",
		Aliases: []string{"investments"},
		Short:   "Manage investments",
		Long:    `List, add and delete investments and their realized returns.`,
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the investments of the year",
		Args:  cobra.NoArgs,
		RunE:  listFunc,
	}

	addCmd = &cobra.Command{
		Use:   "add",
		Short: "Add an investment",
		Args:  cobra.NoArgs,
		RunE:  addFunc,
	}

	deleteCmd = &cobra.Command{
		Use:   "delete <investment>",
		Short: "Delete an investment",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteFunc,
	}
)

func init() {
	addCmd.Flags().StringVarP(&date, "date", "t", "", "Date of the investment")
	addCmd.Flags().StringVarP(&project, "project", "p", "", "Project or asset name")
	addCmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount invested")
	addCmd.Flags().StringVarP(&returnAmt, "return", "r", "", "Realized return")
	addCmd.Flags().StringVarP(&category, "category", "c", "", "Category ID, ID prefix or name")
	_ = addCmd.MarkFlagRequired("date")
	_ = addCmd.MarkFlagRequired("project")
	_ = addCmd.MarkFlagRequired("amount")

	Cmd.AddCommand(listCmd, addCmd, deleteCmd)
}

func returnLabel(inv models.Investment) string {
	if inv.ReturnAmount == nil {
		return common.SubtleStyle.Render("-")
	}
	pct := currencyutils.Percent(*inv.ReturnAmount, inv.Amount)
	return fmt.Sprintf("%s (%s%%)", common.Money(*inv.ReturnAmount), pct.StringFixed(1))
}

func listFunc(cmd *cobra.Command, args []string) error {
	return root.WithContainer(func(c *container.Container) error {
		snap := c.GetLedger().Snapshot()
		out := cmd.OutOrStdout()

		table := common.NewTable(out, "ID", "Date", "Project", "Category", "Amount", "Return")
		total := decimal.Zero
		n := 0
		for _, inv := range snap.Investments {
			if inv.Year != snap.Year {
				continue
			}
			name := ""
			if cat, ok := snap.CategoryByID(inv.CategoryID); ok {
				name = cat.Name
			}
			table.Row(common.ShortID(inv.ID), inv.Date.Format("2006-01-02"), inv.Project, name, common.Money(inv.Amount), returnLabel(inv))
			total = total.Add(inv.Amount)
			n++
		}
		if n == 0 {
			common.Info(out, "No investments for %d.", snap.Year)
			return nil
		}
		if err := table.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nTotal invested %s\n", common.Money(total))
		return nil
	})
}

func addFunc(cmd *cobra.Command, args []string) error {
	return root.Mutate(func(c *container.Container) error {
		store := c.GetLedger()
		inv := models.Investment{Project: project}
		var err error
		if inv.Date, err = common.ParseDate(date); err != nil {
			return err
		}
		if inv.Amount, err = common.ParseAmount(amount); err != nil {
			return err
		}
		if returnAmt != "" {
			ret, err := common.ParseAmount(returnAmt)
			if err != nil {
				return err
			}
			inv.ReturnAmount = &ret
		}
		if category != "" {
			cat, err := common.ResolveCategory(store.ListCategories(), category)
			if err != nil {
				return err
			}
			inv.CategoryID = cat.ID
		}
		added, err := store.AddInvestment(inv)
		if err != nil {
			return fmt.Errorf("failed to add investment: %w", err)
		}
		common.Success(cmd.OutOrStdout(), "Added investment %s (%s)", added.Project, common.ShortID(added.ID))
		return nil
	})
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	return root.Mutate(func(c *container.Container) error {
		store := c.GetLedger()
		investments := store.ListInvestments()
		ids := make([]string, len(investments))
		for i, inv := range investments {
			ids[i] = inv.ID
		}
		id, err := common.ResolveID("investment", ids, args[0])
		if err != nil {
			return err
		}
		if err := store.DeleteInvestment(id); err != nil {
			return fmt.Errorf("failed to delete investment: %w", err)
		}
		common.Success(cmd.OutOrStdout(), "Deleted investment %s", common.ShortID(id))
		return nil
	})
}

// Package debt manages loans and credit lines and their amortization schedules
package debt

import (
	"fmt"
	"time"

	"fjacquet/budgetmaster/cmd/common"
	"fjacquet/budgetmaster/cmd/root"
	"fjacquet/budgetmaster/internal/amortization"
	"fjacquet/budgetmaster/internal/container"
	"fjacquet/budgetmaster/internal/fileutils"
	"fjacquet/budgetmaster/internal/models"

	"github.com/spf13/cobra"
)

var (
	balance      string
	rate         string
	payment      string
	startDate    string
	debtType     string
	statementDay int
	dueDay       int
	day          int
	frequency    string
	scheduleCSV  string

	// Cmd represents the debt command
	Cmd = &cobra.Command{
		Use:     "debt",
		Aliases: []string{"debts"},
		Short:   "Manage debts",
		Long:    `List, add and delete debts. Each debt owns a recurring category that budgets its monthly payment.`,
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List debts with their repayment progress",
		Args:  cobra.NoArgs,
		RunE:  listFunc,
	}

	addCmd = &cobra.Command{
		Use:   "add <name>",
		Short: "Add a debt and its linked category",
		Args:  cobra.ExactArgs(1),
		RunE:  addFunc,
	}

	deleteCmd = &cobra.Command{
		Use:   "delete <debt>",
		Short: "Delete a debt and its linked category",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteFunc,
	}

	scheduleCmd = &cobra.Command{
		Use:   "schedule <debt>",
		Short: "Project the amortization schedule of a debt",
		Args:  cobra.ExactArgs(1),
		RunE:  scheduleFunc,
	}
)

func init() {
	addCmd.Flags().StringVarP(&balance, "balance", "b", "", "Initial balance")
	addCmd.Flags().StringVarP(&rate, "rate", "r", "0", "Annual interest rate in percent")
	addCmd.Flags().StringVarP(&payment, "payment", "p", "", "Monthly payment")
	addCmd.Flags().StringVarP(&startDate, "start", "s", "", "Start date (default: today)")
	addCmd.Flags().StringVarP(&debtType, "type", "t", "loan", "Debt type (loan, credit_card)")
	addCmd.Flags().IntVar(&statementDay, "statement-day", 0, "Statement day of a credit card")
	addCmd.Flags().IntVar(&dueDay, "due-day", 0, "Due day of a credit card")
	addCmd.Flags().IntVarP(&day, "day", "d", 1, "Day of month of the payment row")
	addCmd.Flags().StringVarP(&frequency, "frequency", "f", "monthly", "Payment frequency (monthly, bimonthly)")
	_ = addCmd.MarkFlagRequired("balance")
	_ = addCmd.MarkFlagRequired("payment")

	scheduleCmd.Flags().StringVarP(&scheduleCSV, "csv", "o", "", "Write the schedule as CSV to this file")

	Cmd.AddCommand(listCmd, addCmd, deleteCmd, scheduleCmd)
}

func listFunc(cmd *cobra.Command, args []string) error {
	return root.WithContainer(func(c *container.Container) error {
		debts := c.GetLedger().ListDebts()
		out := cmd.OutOrStdout()
		if len(debts) == 0 {
			common.Info(out, "No debts found. Use 'budgetmaster debt add' to create one.")
			return nil
		}

		rows := c.GetLedger().ListBudgetRows()
		table := common.NewTable(out, "ID", "Name", "Type", "Balance", "Rate", "Payment", "Start", "Paid", "Remaining", "Progress")
		for _, d := range debts {
			progress := amortization.ProgressOf(d, rows)
			table.Row(
				common.ShortID(d.ID), d.Name, d.Type,
				common.Money(d.InitialBalance), d.AnnualRate.String()+"%", common.Money(d.MonthlyPayment),
				d.StartDate.Format("2006-01-02"),
				common.Money(progress.Paid), common.Money(progress.Remaining), progress.Percent.StringFixed(1)+"%",
			)
		}
		return table.Flush()
	})
}

func buildDebt(name string) (models.Debt, error) {
	d := models.Debt{Name: name, StatementDay: statementDay, DueDay: dueDay}
	var err error
	if d.InitialBalance, err = common.ParseAmount(balance); err != nil {
		return d, fmt.Errorf("invalid balance: %w", err)
	}
	if d.AnnualRate, err = common.ParseAmount(rate); err != nil {
		return d, fmt.Errorf("invalid rate: %w", err)
	}
	if d.MonthlyPayment, err = common.ParseAmount(payment); err != nil {
		return d, fmt.Errorf("invalid payment: %w", err)
	}
	d.StartDate = time.Now().UTC().Truncate(24 * time.Hour)
	if startDate != "" {
		if d.StartDate, err = common.ParseDate(startDate); err != nil {
			return d, err
		}
	}
	if d.Type, err = models.ParseDebtType(debtType); err != nil {
		return d, err
	}
	freq, err := models.ParseFrequency(frequency)
	if err != nil {
		return d, err
	}
	d.Recurrence = models.Recurrence{IsRecurring: true, RecurringDay: day, Frequency: freq}
	return d, nil
}

func addFunc(cmd *cobra.Command, args []string) error {
	d, err := buildDebt(args[0])
	if err != nil {
		return err
	}
	return root.Mutate(func(c *container.Container) error {
		added, linked, err := c.GetLedger().AddDebt(d)
		if err != nil {
			return fmt.Errorf("failed to add debt: %w", err)
		}
		common.Success(cmd.OutOrStdout(), "Added debt %s (%s) with category %s (%s)",
			added.Name, common.ShortID(added.ID), linked.Name, common.ShortID(linked.ID))
		return nil
	})
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	return root.Mutate(func(c *container.Container) error {
		store := c.GetLedger()
		d, err := common.ResolveDebt(store.ListDebts(), args[0])
		if err != nil {
			return err
		}
		if err := store.DeleteDebt(d.ID); err != nil {
			return fmt.Errorf("failed to delete debt: %w", err)
		}
		common.Success(cmd.OutOrStdout(), "Deleted debt %s", d.Name)
		return nil
	})
}

func scheduleFunc(cmd *cobra.Command, args []string) error {
	return root.WithContainer(func(c *container.Container) error {
		d, err := common.ResolveDebt(c.GetLedger().ListDebts(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if scheduleCSV != "" {
			f, err := fileutils.CreateFile(scheduleCSV)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := c.GetExporter().ScheduleCSV(f, d); err != nil {
				return err
			}
			common.Success(out, "Schedule of %s written to %s", d.Name, scheduleCSV)
			return nil
		}

		rows, summary := c.GetCalculator().Schedule(d)
		table := common.NewTable(out, "Month", "Payment", "Interest", "Principal", "Balance", "Cumulative interest")
		for _, r := range rows {
			table.Row(r.MonthIndex, common.Money(r.TotalPayment), common.Money(r.InterestPaid),
				common.Money(r.PrincipalPaid), common.Money(r.RemainingBalance), common.Money(r.CumulativeInterest))
		}
		if err := table.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\n%d payments, %s paid, %s interest\n",
			summary.Months, common.Money(summary.TotalPaid), common.Money(summary.TotalInterest))
		if !summary.PaidOff {
			common.Warning(out, "Not paid off within %d months, %s remaining",
				c.GetCalculator().Horizon(), common.Money(summary.FinalBalance))
		}
		return nil
	})
}

package main

import (
	"fmt"
	"os"

	"fjacquet/budgetmaster/cmd/budget"
	"fjacquet/budgetmaster/cmd/category"
	"fjacquet/budgetmaster/cmd/debt"
	"fjacquet/budgetmaster/cmd/export"
	importcmd "fjacquet/budgetmaster/cmd/import"
	"fjacquet/budgetmaster/cmd/investment"
	"fjacquet/budgetmaster/cmd/revenue"
	"fjacquet/budgetmaster/cmd/root"
	"fjacquet/budgetmaster/cmd/seed"
)

func init() {
	root.Cmd.AddCommand(category.Cmd)
	root.Cmd.AddCommand(debt.Cmd)
	root.Cmd.AddCommand(budget.Cmd)
	root.Cmd.AddCommand(revenue.Cmd)
	root.Cmd.AddCommand(investment.Cmd)
	root.Cmd.AddCommand(importcmd.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(seed.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

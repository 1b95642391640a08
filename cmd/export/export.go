// Package export writes the ledger to CSV or to an Excel workbook
package export

import (
	"fmt"
	"io"
	"path/filepath"

	"fjacquet/budgetmaster/cmd/common"
	"fjacquet/budgetmaster/cmd/root"
	"fjacquet/budgetmaster/internal/container"
	"fjacquet/budgetmaster/internal/fileutils"

	"github.com/spf13/cobra"
)

var (
	output string

	// Cmd represents the export command
	Cmd = &cobra.Command{
		Use:   "export",
		Short: "Export the budget of the year",
		Long:  `Export the budget rows of the year as CSV, or the whole ledger as an Excel workbook with a dashboard and one sheet per month.`,
	}

	csvCmd = &cobra.Command{
		Use:   "csv",
		Short: "Export the budget rows as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportTo(cmd, "csv", func(c *container.Container, w io.Writer) error {
				return c.GetExporter().BudgetCSV(w, c.GetLedger().Snapshot(), c.GetLedger().Year())
			})
		},
	}

	xlsxCmd = &cobra.Command{
		Use:   "xlsx",
		Short: "Export the ledger as an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportTo(cmd, "xlsx", func(c *container.Container, w io.Writer) error {
				return c.GetExporter().Workbook(w, c.GetLedger().Snapshot(), c.GetLedger().Year())
			})
		},
	}
)

func init() {
	Cmd.PersistentFlags().StringVarP(&output, "output", "o", "", `Output file, "-" for stdout (default: budget-<year>.<ext> in the export directory)`)
	Cmd.AddCommand(csvCmd, xlsxCmd)
}

// outputPath returns the file an export is written to.
func outputPath(dir string, year int, ext string) string {
	if output != "" {
		return output
	}
	return filepath.Join(dir, fmt.Sprintf("budget-%d.%s", year, ext))
}

func exportTo(cmd *cobra.Command, ext string, write func(c *container.Container, w io.Writer) error) error {
	return root.WithContainer(func(c *container.Container) error {
		if output == "-" {
			return write(c, cmd.OutOrStdout())
		}

		path := outputPath(c.GetConfig().Export.Directory, c.GetLedger().Year(), ext)
		f, err := fileutils.CreateFile(path)
		if err != nil {
			return err
		}
		if err := write(c, f); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to export %s: %w", ext, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		common.Success(cmd.OutOrStdout(), "Exported %d to %s", c.GetLedger().Year(), path)
		return nil
	})
}

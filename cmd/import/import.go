// Package importcmd imports bank statements into the ledger
package importcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"fjacquet/budgetmaster/cmd/common"
	"fjacquet/budgetmaster/cmd/root"
	"fjacquet/budgetmaster/internal/container"
	"fjacquet/budgetmaster/internal/fileutils"
	"fjacquet/budgetmaster/internal/importer"
	"fjacquet/budgetmaster/internal/models"
	"fjacquet/budgetmaster/internal/parsererror"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// ImportFlags holds the import command options.
type ImportFlags struct {
	Date              string
	Description       string
	Credit            string
	Debit             string
	Category          string
	Suggest           bool
	DryRun            bool
	IncludeDuplicates bool
	NoProgress        bool
	Preview           int
}

var (
	flags ImportFlags

	// Cmd represents the import command
	Cmd = &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement into the ledger",
		Long: `Import a bank statement (CSV, XLSX, CAMT.053 XML or OFX) as actual amounts.

Columns are mapped from the header automatically. Override the mapping with
--date, --desc, --credit and --debit, giving a header label or a 1-based column
number ("none" leaves a role unmapped). Rows already present in the ledger for
the same month are flagged as duplicates and left out unless
--include-duplicates is set. Every imported row needs a category: give one with
--category, let --suggest use keyword rules and learned descriptions, or both.
--preview N prints the first N raw rows of the file before they are mapped.`,
		Args: cobra.ExactArgs(1),
		RunE: importFunc,
	}
)

func init() {
	Cmd.Flags().StringVar(&flags.Date, "date", "", "Date column")
	Cmd.Flags().StringVar(&flags.Description, "desc", "", "Description column")
	Cmd.Flags().StringVar(&flags.Credit, "credit", "", "Credit (money in) column, or a signed amount column")
	Cmd.Flags().StringVar(&flags.Debit, "debit", "", "Debit (money out) column")
	Cmd.Flags().StringVarP(&flags.Category, "category", "c", "", "Category for every row left uncategorized")
	Cmd.Flags().BoolVarP(&flags.Suggest, "suggest", "s", false, "Suggest categories from rules and learned descriptions")
	Cmd.Flags().BoolVarP(&flags.DryRun, "dry-run", "n", false, "Show the rows that would be imported without saving")
	Cmd.Flags().BoolVar(&flags.IncludeDuplicates, "include-duplicates", false, "Import rows flagged as duplicates")
	Cmd.Flags().BoolVarP(&flags.NoProgress, "no-progress", "q", false, "Hide the progress bar")
	Cmd.Flags().IntVarP(&flags.Preview, "preview", "p", 0, "Print the first N raw rows before mapping")
}

// resolveColumn finds a column by 1-based number or header label. "none"
// returns -1.
func resolveColumn(header []string, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if strings.EqualFold(ref, "none") || ref == "-" {
		return -1, nil
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(header) {
			return 0, fmt.Errorf("%w: column %d, the file has %d columns", importer.ErrInvalidColumn, n, len(header))
		}
		return n - 1, nil
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), ref) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no column named %q", importer.ErrInvalidColumn, ref)
}

// applyMapping overrides the suggested mapping with the column flags.
func applyMapping(p *importer.Pipeline, f ImportFlags) error {
	overrides := []struct {
		role importer.Role
		ref  string
	}{
		{importer.RoleDate, f.Date},
		{importer.RoleDescription, f.Description},
		{importer.RolePositive, f.Credit},
		{importer.RoleNegative, f.Debit},
	}
	header := p.Header()
	for _, o := range overrides {
		if o.ref == "" {
			continue
		}
		col, err := resolveColumn(header, o.ref)
		if err != nil {
			return fmt.Errorf("--%s: %w", o.role, err)
		}
		if col < 0 {
			err = p.ClearRole(o.role)
		} else {
			err = p.SetRole(o.role, col)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func describeMapping(out io.Writer, p *importer.Pipeline) {
	header := p.Header()
	mapping := p.Mapping()
	parts := make([]string, 0, len(importer.Roles))
	for _, role := range importer.Roles {
		label := common.SubtleStyle.Render("none")
		if col, ok := mapping.Column(role); ok {
			label = fmt.Sprintf("%q", header[col])
		}
		parts = append(parts, fmt.Sprintf("%s=%s", role, label))
	}
	common.Info(out, "Format %s, mapping %s", p.Format(), strings.Join(parts, " "))
}

// printPreview shows the raw rows under their file header, padded to the
// header width.
func printPreview(out io.Writer, p *importer.Pipeline, n int) error {
	header := p.Header()
	table := common.NewTable(out, header...)
	for _, row := range p.Preview(n) {
		cells := make([]interface{}, len(header))
		for i := range cells {
			cells[i] = ""
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		table.Row(cells...)
	}
	return table.Flush()
}

func newProgressBar(out io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Reading rows...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(out)
		}),
	)
}

func printCandidates(out io.Writer, candidates []models.Candidate, categories []models.Category) error {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	table := common.NewTable(out, "Date", "Description", "Amount", "Category", "Status")
	for _, c := range candidates {
		status := common.SuccessStyle.Render("import")
		switch {
		case c.IsDuplicate && !c.Selected:
			status = common.SubtleStyle.Render("duplicate")
		case c.IsDuplicate:
			status = common.WarningStyle.Render("duplicate, import")
		case !c.Selected:
			status = common.SubtleStyle.Render("skip")
		}
		category := names[c.CategoryID]
		if category == "" && c.Selected {
			category = common.WarningStyle.Render("(none)")
		}
		table.Row(c.DateString(), c.Description, common.Money(c.SignedAmount), category, status)
	}
	return table.Flush()
}

func importFunc(cmd *cobra.Command, args []string) error {
	run := root.Mutate
	if flags.DryRun {
		run = root.WithContainer
	}
	return run(func(c *container.Container) error {
		return runImport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), c, args[0], flags)
	})
}

func runImport(ctx context.Context, out, progressOut io.Writer, c *container.Container, path string, f ImportFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p := c.NewPipeline()
	if !f.NoProgress {
		var bar *progressbar.ProgressBar
		p.SetProgress(func(done, total int) {
			if bar == nil {
				bar = newProgressBar(progressOut, total)
			}
			_ = bar.Set(done)
		})
	}

	file, err := fileutils.OpenFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := p.SubmitFile(filepath.Base(path), file); err != nil {
		return err
	}
	if f.Preview > 0 {
		if err := printPreview(out, p, f.Preview); err != nil {
			return err
		}
	}
	if err := applyMapping(p, f); err != nil {
		return err
	}
	describeMapping(out, p)

	candidates, err := p.ConfirmMapping()
	if err != nil {
		return err
	}
	for _, skip := range p.Skips() {
		common.Warning(out, "%s", skip.Error())
	}

	if f.IncludeDuplicates {
		for _, cand := range candidates {
			if cand.IsDuplicate {
				if err := p.SetSelected(cand.TempID, true); err != nil {
					return err
				}
			}
		}
	}

	categories := c.GetLedger().ListCategories()
	if f.Suggest {
		n, err := p.SuggestCategories(ctx)
		if err != nil {
			return fmt.Errorf("failed to suggest categories: %w", err)
		}
		common.Info(out, "Suggested a category for %d rows", n)
	}
	if f.Category != "" {
		cat, err := common.ResolveCategory(categories, f.Category)
		if err != nil {
			return err
		}
		if _, err := p.AssignAll(cat.ID); err != nil {
			return err
		}
	}

	if err := printCandidates(out, p.Candidates(), categories); err != nil {
		return err
	}
	if f.DryRun {
		common.Info(out, "Dry run, nothing imported")
		return nil
	}

	summary, err := p.FinalizeSelection()
	if err != nil {
		var incomplete *parsererror.CategorizationIncompleteError
		if errors.As(err, &incomplete) && !incomplete.NothingSelected {
			return fmt.Errorf("%w (use --category or --suggest)", err)
		}
		return err
	}
	common.Success(out, "Imported %d of %d rows (%d duplicates, %d skipped)",
		summary.Added, summary.Total, summary.Duplicates, summary.Skipped)
	return nil
}

package export

import (
	"fmt"
	"io"

	"fjacquet/budgetmaster/internal/dateutils"
	"fjacquet/budgetmaster/internal/ledger"
	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook, before the twelve month sheets.
const (
	SheetDashboard    = "Dashboard"
	SheetCategories   = "Categories"
	SheetRevenues     = "Revenues"
	SheetAmortization = "Debts_Amortization"
	SheetInvestments  = "Investments"
)

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

type sheetWriter struct {
	file *excelize.File
	err  error
}

func (s *sheetWriter) sheet(name string, header []interface{}, rows [][]interface{}) {
	if s.err != nil {
		return
	}
	if _, err := s.file.NewSheet(name); err != nil {
		s.err = fmt.Errorf("create sheet %s: %w", name, err)
		return
	}
	all := append([][]interface{}{header}, rows...)
	for i, row := range all {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			s.err = err
			return
		}
		if err := s.file.SetSheetRow(name, cellName, &row); err != nil {
			s.err = fmt.Errorf("write sheet %s: %w", name, err)
			return
		}
	}
}

// Workbook writes the whole ledger for year as an XLSX workbook: a dashboard,
// reference sheets and one sheet per month.
func (e *Exporter) Workbook(w io.Writer, snap ledger.Snapshot, year int) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	categories := make(map[string]models.Category, len(snap.Categories))
	for _, c := range snap.Categories {
		categories[c.ID] = c
	}
	categoryName := func(id string) string {
		if c, ok := categories[id]; ok {
			return c.Name
		}
		return "Unknown"
	}

	sw := &sheetWriter{file: f}

	totals := ledger.ComputeTotals(snap, year)
	dashboard := [][]interface{}{
		{"Income", num(totals.Income)},
		{"Expenses", num(totals.Expenses)},
		{"Savings", num(totals.Savings)},
		{"Debt paid", num(totals.DebtPaid)},
		{"Invested", num(totals.Invested)},
		{"Cashflow", num(totals.Cashflow)},
		{"Savings rate %", num(totals.SavingsRate)},
	}
	sw.sheet(SheetDashboard, []interface{}{fmt.Sprintf("Indicator %d", year), "Value"}, dashboard)

	var catRows [][]interface{}
	for _, c := range snap.Categories {
		catRows = append(catRows, []interface{}{c.Name, string(c.Type), c.SubCategory})
	}
	sw.sheet(SheetCategories, []interface{}{"Category", "Type", "Sub-category"}, catRows)

	var revRows [][]interface{}
	for _, r := range snap.Revenues {
		if r.Year != year {
			continue
		}
		revRows = append(revRows, []interface{}{
			dateutils.ToISODate(r.Date), r.Description, r.Source, num(r.Amount),
			categoryName(r.CategoryID), models.Months[r.MonthIndex],
		})
	}
	sw.sheet(SheetRevenues, []interface{}{"Date", "Description", "Source", "Amount", "Category", "Month"}, revRows)

	var debtRows [][]interface{}
	for _, d := range snap.Debts {
		schedule, _ := e.calculator.Schedule(d)
		for _, row := range schedule {
			debtRows = append(debtRows, []interface{}{
				d.Name, row.MonthIndex, num(row.TotalPayment), num(row.InterestPaid),
				num(row.PrincipalPaid), num(row.RemainingBalance),
			})
		}
	}
	sw.sheet(SheetAmortization, []interface{}{"Debt", "Month #", "Total payment", "Interest", "Principal", "Remaining balance"}, debtRows)

	var invRows [][]interface{}
	for _, inv := range snap.Investments {
		if inv.Year != year {
			continue
		}
		ret := decimal.Zero
		if inv.ReturnAmount != nil {
			ret = *inv.ReturnAmount
		}
		invRows = append(invRows, []interface{}{
			dateutils.ToISODate(inv.Date), inv.Project, num(inv.Amount),
			categoryName(inv.CategoryID), num(ret), models.Months[inv.MonthIndex],
		})
	}
	sw.sheet(SheetInvestments, []interface{}{"Date", "Project", "Amount", "Category", "Return", "Month"}, invRows)

	monthHeader := []interface{}{"Category", "Sub-category", "Description", "Planned", "Actual", "Variance", "% Variance", "Type"}
	for month, name := range models.Months {
		var rows [][]interface{}
		for _, r := range snap.RowsInPeriod(month, year) {
			cat, ok := categories[r.CategoryID]
			label := cat.Name
			if !ok {
				label = "?"
			}
			rows = append(rows, []interface{}{
				label, cat.SubCategory, r.Description, num(r.Planned), num(r.Actual),
				num(r.Variance()), num(r.VariancePercent()), string(cat.Type),
			})
		}
		sw.sheet(name, monthHeader, rows)
	}

	if sw.err != nil {
		return sw.err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	e.logger.Info("Exported workbook",
		logging.F(logging.FieldYear, year),
		logging.F("sheets", len(f.GetSheetList())))
	return nil
}

// Package export writes the ledger to CSV files and to an XLSX workbook with one
// sheet per month.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"fjacquet/budgetmaster/internal/amortization"
	"fjacquet/budgetmaster/internal/ledger"
	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// BudgetRecord is one exported budget row.
type BudgetRecord struct {
	Year        int             `csv:"Year"`
	Month       string          `csv:"Month"`
	Category    string          `csv:"Category"`
	Type        string          `csv:"Type"`
	SubCategory string          `csv:"Sub-category"`
	Description string          `csv:"Description"`
	Planned     decimal.Decimal `csv:"Planned"`
	Actual      decimal.Decimal `csv:"Actual"`
	Variance    decimal.Decimal `csv:"Variance"`
	Debt        string          `csv:"Debt"`
}

// Exporter renders ledger snapshots.
type Exporter struct {
	calculator *amortization.Calculator
	delimiter  rune
	logger     logging.Logger
}

// NewExporter creates an Exporter. A zero delimiter means a comma.
func NewExporter(calculator *amortization.Calculator, delimiter rune, logger logging.Logger) *Exporter {
	logger = logging.OrDefault(logger)
	if calculator == nil {
		calculator = amortization.NewCalculator(amortization.DefaultHorizon, logger)
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &Exporter{calculator: calculator, delimiter: delimiter, logger: logger}
}

// BudgetRecords flattens the budget rows of year, ordered by month then category.
func BudgetRecords(snap ledger.Snapshot, year int) []BudgetRecord {
	categories := make(map[string]models.Category, len(snap.Categories))
	for _, c := range snap.Categories {
		categories[c.ID] = c
	}
	debts := make(map[string]string, len(snap.Debts))
	for _, d := range snap.Debts {
		debts[d.ID] = d.Name
	}

	var rows []models.BudgetRow
	for _, r := range snap.BudgetRows {
		if r.Year == year {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].MonthIndex != rows[j].MonthIndex {
			return rows[i].MonthIndex < rows[j].MonthIndex
		}
		return categories[rows[i].CategoryID].Name < categories[rows[j].CategoryID].Name
	})

	records := make([]BudgetRecord, 0, len(rows))
	for _, r := range rows {
		cat, ok := categories[r.CategoryID]
		name := cat.Name
		if !ok {
			name = "?"
		}
		records = append(records, BudgetRecord{
			Year:        r.Year,
			Month:       models.Months[r.MonthIndex],
			Category:    name,
			Type:        string(cat.Type),
			SubCategory: cat.SubCategory,
			Description: r.Description,
			Planned:     r.Planned,
			Actual:      r.Actual,
			Variance:    r.Variance(),
			Debt:        debts[r.DebtID],
		})
	}
	return records
}

func (e *Exporter) marshal(w io.Writer, records interface{}) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.delimiter
	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// BudgetCSV writes the budget rows of year as CSV.
func (e *Exporter) BudgetCSV(w io.Writer, snap ledger.Snapshot, year int) error {
	records := BudgetRecords(snap, year)
	if err := e.marshal(w, &records); err != nil {
		e.logger.WithError(err).Error("Failed to export budget rows")
		return err
	}
	e.logger.Info("Exported budget rows to CSV",
		logging.F(logging.FieldYear, year),
		logging.F(logging.FieldCount, len(records)))
	return nil
}

// ScheduleCSV writes the amortization schedule of debt as CSV.
func (e *Exporter) ScheduleCSV(w io.Writer, debt models.Debt) error {
	rows, _ := e.calculator.Schedule(debt)
	if err := e.marshal(w, &rows); err != nil {
		e.logger.WithError(err).Error("Failed to export amortization schedule")
		return err
	}
	e.logger.Info("Exported amortization schedule to CSV",
		logging.F(logging.FieldDebtID, debt.ID),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}

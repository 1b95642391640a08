package tabular

import (
	"fmt"
	"io"

	"fjacquet/budgetmaster/internal/logging"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads the first sheet of a workbook. Cells are returned as raw
// values so dates stay spreadsheet serial numbers.
type XLSXReader struct {
	logger logging.Logger
}

// NewXLSXReader returns an XLSXReader.
func NewXLSXReader(logger logging.Logger) *XLSXReader {
	return &XLSXReader{logger: logging.OrDefault(logger)}
}

// Format implements Reader.
func (r *XLSXReader) Format() Format { return FormatXLSX }

// Read implements Reader.
func (r *XLSXReader) Read(in io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(in)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", sheets[0], err)
	}

	r.logger.Debug("Read workbook sheet",
		logging.F("sheet", sheets[0]),
		logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

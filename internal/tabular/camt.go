package tabular

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/budgetmaster/internal/logging"

	"gopkg.in/xmlpath.v2"
)

// CAMTHeader is the header of grids produced from CAMT.053 statements.
var CAMTHeader = []string{"Date", "Description", "Credit", "Debit"}

var (
	camtEntryPath = xmlpath.MustCompile("//BkToCstmrStmt/Stmt/Ntry")
	camtAmount    = xmlpath.MustCompile("Amt")
	camtIndicator = xmlpath.MustCompile("CdtDbtInd")
	camtDates     = []*xmlpath.Path{
		xmlpath.MustCompile("BookgDt/Dt"),
		xmlpath.MustCompile("BookgDt/DtTm"),
		xmlpath.MustCompile("ValDt/Dt"),
	}
	// first non-empty wins
	camtDescriptions = []*xmlpath.Path{
		xmlpath.MustCompile("NtryDtls/TxDtls/RmtInf/Ustrd"),
		xmlpath.MustCompile("AddtlNtryInf"),
		xmlpath.MustCompile("NtryDtls/TxDtls/AddtlTxInf"),
		xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/Cdtr/Nm"),
		xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/Dbtr/Nm"),
	}
)

// CAMTReader flattens ISO 20022 CAMT.053 statement entries into a grid.
type CAMTReader struct {
	logger logging.Logger
}

// NewCAMTReader returns a CAMTReader.
func NewCAMTReader(logger logging.Logger) *CAMTReader {
	return &CAMTReader{logger: logging.OrDefault(logger)}
}

// Format implements Reader.
func (r *CAMTReader) Format() Format { return FormatCAMT }

// Read implements Reader.
func (r *CAMTReader) Read(in io.Reader) ([][]string, error) {
	root, err := xmlpath.Parse(in)
	if err != nil {
		return nil, fmt.Errorf("error parsing XML: %w", err)
	}

	grid := [][]string{append([]string(nil), CAMTHeader...)}
	iter := camtEntryPath.Iter(root)
	for iter.Next() {
		entry := iter.Node()

		amount := first(entry, camtAmount)
		credit, debit := amount, ""
		if strings.EqualFold(first(entry, camtIndicator), "DBIT") {
			credit, debit = "", amount
		}

		grid = append(grid, []string{
			firstOf(entry, camtDates),
			cleanText(firstOf(entry, camtDescriptions)),
			credit,
			debit,
		})
	}

	r.logger.Debug("Read CAMT.053 entries", logging.F(logging.FieldCount, len(grid)-1))
	return grid, nil
}

func first(node *xmlpath.Node, path *xmlpath.Path) string {
	if value, ok := path.String(node); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func firstOf(node *xmlpath.Node, paths []*xmlpath.Path) string {
	for _, p := range paths {
		if v := first(node, p); v != "" {
			return v
		}
	}
	return ""
}

// cleanText collapses the whitespace and line breaks found in remittance text.
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

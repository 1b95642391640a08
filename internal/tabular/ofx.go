package tabular

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"fjacquet/budgetmaster/internal/dateutils"
	"fjacquet/budgetmaster/internal/logging"

	"github.com/aclindsa/ofxgo"
)

// OFXHeader is the header of grids produced from OFX/QFX statements.
var OFXHeader = []string{"Date", "Description", "Amount"}

var (
	ofxSeverityRe = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)`)
	ofxOpenTagRe  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// OFXReader reads bank and credit card statements from OFX/QFX files.
type OFXReader struct {
	logger logging.Logger
}

// NewOFXReader returns an OFXReader.
func NewOFXReader(logger logging.Logger) *OFXReader {
	return &OFXReader{logger: logging.OrDefault(logger)}
}

// Format implements Reader.
func (r *OFXReader) Format() Format { return FormatOFX }

// preprocess fixes formatting issues common in bank-generated OFX files.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = ofxSeverityRe.ReplaceAllStringFunc(content, strings.ToUpper)
	return ofxOpenTagRe.ReplaceAllString(content, "$1>")
}

// Read implements Reader.
func (r *OFXReader) Read(in io.Reader) ([][]string, error) {
	content, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("error reading OFX data: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("error parsing OFX data: %w", err)
	}

	grid := [][]string{append([]string(nil), OFXHeader...)}
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			grid = appendOFXTransactions(grid, stmt.BankTranList.Transactions)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			grid = appendOFXTransactions(grid, stmt.BankTranList.Transactions)
		}
	}

	r.logger.Debug("Read OFX transactions", logging.F(logging.FieldCount, len(grid)-1))
	return grid, nil
}

func appendOFXTransactions(grid [][]string, txs []ofxgo.Transaction) [][]string {
	for _, tx := range txs {
		grid = append(grid, []string{
			dateutils.ToISODate(tx.DtPosted.Time.UTC()),
			ofxDescription(tx),
			tx.TrnAmt.FloatString(2),
		})
	}
	return grid
}

// ofxDescription prefers the payee, then NAME, then MEMO.
func ofxDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}
	if name := strings.TrimSpace(string(tx.Name)); name != "" {
		return name
	}
	return strings.TrimSpace(string(tx.Memo))
}

package tabular

import (
	"bytes"
	"strings"
	"testing"

	"fjacquet/budgetmaster/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		head     string
		expected Format
	}{
		{"csv extension", "bank.CSV", "", FormatCSV},
		{"xlsx extension", "bank.xlsx", "", FormatXLSX},
		{"qfx extension", "bank.qfx", "", FormatOFX},
		{"xml extension", "statement.xml", "", FormatCAMT},
		{"zip magic", "upload", "PK\x03\x04rest", FormatXLSX},
		{"ofx header", "upload", "\r\nOFXHEADER:100", FormatOFX},
		{"xml prolog", "upload", "<?xml version=\"1.0\"?><Document>", FormatCAMT},
		{"plain text", "upload", "Date,Amount", FormatCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Detect(tt.file, []byte(tt.head)))
		})
	}
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		input    string
		expected rune
	}{
		{"Date,Description,Amount\n1,2,3", ','},
		{"Date;Libellé;Montant\n", ';'},
		{"Date\tDesc\tAmount", '\t'},
		{"Date|Desc|Amount", '|'},
		{`"a;b;c",d,e` + "\n", ','},
		{"single", ','},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SniffDelimiter([]byte(tt.input)))
		})
	}
}

func TestCSVReader(t *testing.T) {
	input := "\xEF\xBB\xBFDate;Libellé;Débit;Crédit\n26/11/2025;Épicerie;45,00;\n27/11/2025;\"Salaire; novembre\";;4000\n"

	r, err := NewCSVReader(Options{Delimiter: "auto"}, logging.NewMockLogger())
	require.NoError(t, err)

	grid, err := r.Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, grid, 3)
	assert.Equal(t, []string{"Date", "Libellé", "Débit", "Crédit"}, grid[0])
	assert.Equal(t, "Salaire; novembre", grid[2][1])
}

func TestCSVReader_Windows1252(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("Date,Libellé\n2025-11-26,Café\n")
	require.NoError(t, err)

	r, err := NewCSVReader(Options{}, nil)
	require.NoError(t, err)
	grid, err := r.Read(strings.NewReader(encoded))
	require.NoError(t, err)

	assert.Equal(t, "Libellé", grid[0][1])
	assert.Equal(t, "Café", grid[1][1])
}

func TestCSVReader_Options(t *testing.T) {
	_, err := NewCSVReader(Options{Delimiter: ";;"}, nil)
	assert.Error(t, err)
	_, err = NewCSVReader(Options{Encoding: "ebcdic"}, nil)
	assert.Error(t, err)

	r, err := NewCSVReader(Options{Delimiter: "|"}, nil)
	require.NoError(t, err)
	grid, err := r.Read(strings.NewReader("a,b|c\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a,b", "c"}, grid[0])
}

func TestXLSXReader(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Date", "Description", "Amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{45986, "Grocery", -45.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"2025-11-27", "Salary"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	grid, format, err := ReadNamed("export.xlsx", bytes.NewReader(buf.Bytes()), Options{}, logging.NewMockLogger())
	require.NoError(t, err)

	assert.Equal(t, FormatXLSX, format)
	require.Len(t, grid, 3)
	assert.Equal(t, []string{"45986", "Grocery", "-45.5"}, grid[1])
	// padded to the header width
	assert.Equal(t, []string{"2025-11-27", "Salary", ""}, grid[2])
}

const sampleCAMT = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Id>STMT-1</Id>
      <Ntry>
        <Amt Ccy="CHF">45.00</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <BookgDt><Dt>2025-11-26</Dt></BookgDt>
        <NtryDtls><TxDtls><RmtInf><Ustrd>Grocery
          store</Ustrd></RmtInf></TxDtls></NtryDtls>
      </Ntry>
      <Ntry>
        <Amt Ccy="CHF">4000.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <ValDt><Dt>2025-11-25</Dt></ValDt>
        <AddtlNtryInf>Salary November</AddtlNtryInf>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

func TestCAMTReader(t *testing.T) {
	grid, format, err := ReadNamed("statement", strings.NewReader(sampleCAMT), Options{}, logging.NewMockLogger())
	require.NoError(t, err)

	assert.Equal(t, FormatCAMT, format)
	require.Len(t, grid, 3)
	assert.Equal(t, CAMTHeader, grid[0])
	assert.Equal(t, []string{"2025-11-26", "Grocery store", "", "45.00"}, grid[1])
	assert.Equal(t, []string{"2025-11-25", "Salary November", "4000.00", ""}, grid[2])
}

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20251130120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>CAD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20251101120000[0:GMT]
<DTEND>20251130120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20251126120000[0:GMT]
<TRNAMT>-45.00
<FITID>2025112601
<NAME>GROCERY STORE
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20251127120000[0:GMT]
<TRNAMT>4000.00
<FITID>2025112701
<NAME>PAYROLL
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20251130120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestOFXReader(t *testing.T) {
	grid, format, err := ReadNamed("bank.ofx", strings.NewReader(sampleOFX), Options{}, logging.NewMockLogger())
	require.NoError(t, err)

	assert.Equal(t, FormatOFX, format)
	require.Len(t, grid, 3)
	assert.Equal(t, OFXHeader, grid[0])
	assert.Equal(t, []string{"2025-11-26", "GROCERY STORE", "-45.00"}, grid[1])
	assert.Equal(t, []string{"2025-11-27", "PAYROLL", "4000.00"}, grid[2])
}

func TestOFXReader_Invalid(t *testing.T) {
	_, err := NewOFXReader(nil).Read(strings.NewReader("not ofx"))
	assert.Error(t, err)
}

func TestPad(t *testing.T) {
	grid := Pad([][]string{{"a", "b", "c"}, {"1"}, {"", " "}})
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"1", "", ""}}, grid)
	assert.Empty(t, Pad(nil))
}

func TestNewReader_Unsupported(t *testing.T) {
	_, err := NewReader("pdf", Options{}, nil)
	assert.Error(t, err)
}

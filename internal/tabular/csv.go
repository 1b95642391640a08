package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"fjacquet/budgetmaster/internal/logging"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// delimiterCandidates are tried, in order of preference, when sniffing.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// CSVReader reads delimited text exports.
type CSVReader struct {
	delimiter rune
	encoding  string
	logger    logging.Logger
}

// NewCSVReader validates opts and returns a CSVReader.
func NewCSVReader(opts Options, logger logging.Logger) (*CSVReader, error) {
	r := &CSVReader{encoding: opts.Encoding, logger: logging.OrDefault(logger)}
	switch opts.Delimiter {
	case "", "auto":
	case `\t`, "tab":
		r.delimiter = '\t'
	default:
		runes := []rune(opts.Delimiter)
		if len(runes) != 1 {
			return nil, fmt.Errorf("delimiter must be a single character, got %q", opts.Delimiter)
		}
		r.delimiter = runes[0]
	}
	switch r.encoding {
	case "", "auto", "utf-8", "utf8", "windows-1252", "cp1252":
	default:
		return nil, fmt.Errorf("unsupported encoding %q", opts.Encoding)
	}
	return r, nil
}

// Format implements Reader.
func (r *CSVReader) Format() Format { return FormatCSV }

// Read decodes the whole input and splits it into records.
func (r *CSVReader) Read(in io.Reader) ([][]string, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("error reading CSV data: %w", err)
	}
	data, err = r.decode(data)
	if err != nil {
		return nil, err
	}

	delimiter := r.delimiter
	if delimiter == 0 {
		delimiter = SniffDelimiter(data)
	}

	reader := gocsv.LazyCSVReader(bytes.NewReader(data))
	if cr, ok := reader.(*csv.Reader); ok {
		cr.Comma = delimiter
		cr.FieldsPerRecord = -1
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}

	r.logger.Debug("Read delimited text",
		logging.F(logging.FieldDelimiter, string(delimiter)),
		logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

func (r *CSVReader) decode(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	switch r.encoding {
	case "utf-8", "utf8":
		return data, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Bytes(data)
	}
	if utf8.Valid(data) {
		return data, nil
	}
	r.logger.Debug("Input is not valid UTF-8, decoding as Windows-1252")
	return charmap.Windows1252.NewDecoder().Bytes(data)
}

// SniffDelimiter returns the candidate delimiter occurring most often outside
// quotes on the first line, or ',' when none occurs.
func SniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}

	counts := make(map[rune]int, len(delimiterCandidates))
	inQuotes := false
	for _, c := range string(line) {
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[c]++
		}
	}

	best, bestCount := ',', 0
	for _, candidate := range delimiterCandidates {
		if counts[candidate] > bestCount {
			best, bestCount = candidate, counts[candidate]
		}
	}
	return best
}

// Package tabular turns bank exports into a rectangular grid of strings. The
// first row of every grid is the header.
package tabular

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fjacquet/budgetmaster/internal/fileutils"
	"fjacquet/budgetmaster/internal/logging"
)

// Format identifies a supported export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatCAMT Format = "camt"
	FormatOFX  Format = "ofx"
)

// sniffSize is how many leading bytes are inspected to detect the format.
const sniffSize = 4096

// Reader converts a whole export into a grid.
type Reader interface {
	Read(r io.Reader) ([][]string, error)
	Format() Format
}

// Options tune the delimited-text reader.
type Options struct {
	// Delimiter is a single character, or "auto" / "" to sniff it.
	Delimiter string
	// Encoding is "utf-8", "windows-1252", or "auto" / "" to fall back to
	// Windows-1252 when the input is not valid UTF-8.
	Encoding string
}

// Detect picks a format from the file extension, then from the content when
// the extension is unknown.
func Detect(name string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".ofx", ".qfx":
		return FormatOFX
	case ".xml", ".camt", ".053":
		return FormatCAMT
	case ".csv", ".tsv", ".txt":
		return FormatCSV
	}

	trimmed := bytes.TrimLeft(bytes.TrimPrefix(head, utf8BOM), " \t\r\n")
	switch {
	case bytes.HasPrefix(head, []byte("PK\x03\x04")):
		return FormatXLSX
	case bytes.HasPrefix(trimmed, []byte("OFXHEADER")) || bytes.Contains(bytes.ToUpper(trimmed), []byte("<OFX>")):
		return FormatOFX
	case bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<Document")):
		return FormatCAMT
	}
	return FormatCSV
}

// NewReader returns the reader for format.
func NewReader(format Format, opts Options, logger logging.Logger) (Reader, error) {
	logger = logging.OrDefault(logger)
	switch format {
	case FormatCSV:
		return NewCSVReader(opts, logger)
	case FormatXLSX:
		return NewXLSXReader(logger), nil
	case FormatCAMT:
		return NewCAMTReader(logger), nil
	case FormatOFX:
		return NewOFXReader(logger), nil
	}
	return nil, fmt.Errorf("unsupported format: %q", format)
}

// ReadNamed detects the format of r and reads it into a padded grid.
func ReadNamed(name string, r io.Reader, opts Options, logger logging.Logger) ([][]string, Format, error) {
	head, replay, err := fileutils.ReadHead(r, sniffSize)
	if err != nil {
		return nil, "", err
	}
	format := Detect(name, head)

	reader, err := NewReader(format, opts, logger)
	if err != nil {
		return nil, format, err
	}
	grid, err := reader.Read(replay)
	if err != nil {
		return nil, format, err
	}
	return Pad(grid), format, nil
}

// Pad drops fully empty trailing rows and right-pads every row to the width of
// the widest one.
func Pad(grid [][]string) [][]string {
	for len(grid) > 0 && isBlank(grid[len(grid)-1]) {
		grid = grid[:len(grid)-1]
	}
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	out := make([][]string, len(grid))
	for i, row := range grid {
		padded := make([]string, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fjacquet/budgetmaster/internal/currencyutils"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	SubtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Table renders aligned columns with a styled header.
type Table struct {
	w *tabwriter.Writer
}

// NewTable writes the header row and its underline.
func NewTable(out io.Writer, headers ...string) *Table {
	t := &Table{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
	styled := make([]string, len(headers))
	rules := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = HeaderStyle.Render(h)
		rules[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(t.w, strings.Join(styled, "\t"))
	fmt.Fprintln(t.w, strings.Join(rules, "\t"))
	return t
}

// Row appends a row. Values are formatted with %v.
func (t *Table) Row(values ...interface{}) {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = fmt.Sprint(v)
	}
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

// Flush writes the buffered table.
func (t *Table) Flush() error {
	return t.w.Flush()
}

// Money formats an amount with two decimals and no currency.
func Money(d decimal.Decimal) string {
	return currencyutils.FormatAmount(d, "")
}

// ShortID truncates an identifier for display. Any unique prefix is accepted
// back on the command line.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Success prints a confirmation line.
func Success(out io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

// Warning prints a warning line.
func Warning(out io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(out, WarningStyle.Render(fmt.Sprintf(format, args...)))
}

// Info prints an informational line.
func Info(out io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(out, InfoStyle.Render(fmt.Sprintf(format, args...)))
}

// Package parsererror defines the typed errors raised by the import pipeline.
// Every error here is recoverable: the pipeline keeps its current stage and the
// caller may correct the input and retry.
package parsererror

import (
	"fmt"
	"strings"
)

// FileFormatError is returned when an uploaded file cannot be read as a grid or
// holds fewer than two rows (a header plus at least one data row).
type FileFormatError struct {
	FilePath string
	Format   string
	Rows     int
	Msg      string
	Err      error
}

func (e *FileFormatError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid file '%s'", e.FilePath)
	if e.Format != "" {
		fmt.Fprintf(&b, " (%s)", e.Format)
	}
	fmt.Fprintf(&b, ": %s", e.Msg)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *FileFormatError) Unwrap() error {
	return e.Err
}

// MappingIncompleteError is returned when a required column role is unmapped.
type MappingIncompleteError struct {
	Missing []string
}

func (e *MappingIncompleteError) Error() string {
	return fmt.Sprintf("column mapping incomplete: missing %s", strings.Join(e.Missing, ", "))
}

// NoValidRowsError is returned when no data row survived normalization.
type NoValidRowsError struct {
	Rows    int
	Skipped int
}

func (e *NoValidRowsError) Error() string {
	return fmt.Sprintf("no valid transactions found with the current mapping (%d rows read, %d skipped)",
		e.Rows, e.Skipped)
}

// CategorizationIncompleteError is returned when finalizing while a selected
// candidate has no category, or when nothing is selected at all.
type CategorizationIncompleteError struct {
	Missing         int
	Example         string
	NothingSelected bool
}

func (e *CategorizationIncompleteError) Error() string {
	if e.NothingSelected {
		return "no transaction selected for import"
	}
	if e.Example != "" {
		return fmt.Sprintf("%d selected transaction(s) have no category, e.g. '%s'", e.Missing, e.Example)
	}
	return fmt.Sprintf("%d selected transaction(s) have no category", e.Missing)
}

// ParseSkip records a non-fatal per-row condition. Skipped rows are excluded from
// the candidate set rather than surfaced as an error.
type ParseSkip struct {
	Row    int
	Field  string
	Value  string
	Reason string
}

func (e *ParseSkip) Error() string {
	return fmt.Sprintf("row %d skipped: cannot parse %s='%s': %s", e.Row, e.Field, e.Value, e.Reason)
}

// StateError is returned when an operation is invoked from the wrong stage.
type StateError struct {
	Op    string
	State string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s is not allowed in the %s stage", e.Op, e.State)
}

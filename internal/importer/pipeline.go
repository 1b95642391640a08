// Package importer implements the four-stage import pipeline that turns a bank
// export into budget rows: upload, column mapping, categorization, success.
//
// Each operation either advances the pipeline or returns a typed error from
// parsererror and leaves the current stage untouched.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/budgetmaster/internal/categorizer"
	"fjacquet/budgetmaster/internal/currencyutils"
	"fjacquet/budgetmaster/internal/dateutils"
	"fjacquet/budgetmaster/internal/logging"
	"fjacquet/budgetmaster/internal/models"
	"fjacquet/budgetmaster/internal/parsererror"
	"fjacquet/budgetmaster/internal/tabular"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultDuplicateTolerance is the absolute amount difference under which an
// imported amount equals an existing one.
var DefaultDuplicateTolerance = decimal.RequireFromString("0.001")

// NoDescription replaces blank descriptions.
const NoDescription = "No description"

var (
	// ErrUnknownCandidate is returned for a temp ID that is not in the candidate set.
	ErrUnknownCandidate = errors.New("unknown candidate")
	// ErrUnknownCategory is returned when assigning a category the ledger does not hold.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidColumn is returned when mapping a role to a column outside the grid.
	ErrInvalidColumn = errors.New("invalid column")
)

// Ledger is the part of the ledger store the pipeline reads and writes.
type Ledger interface {
	ListCategories() []models.Category
	RowsForPeriod(monthIndex, year int) []models.BudgetRow
	AddBudgetRows(rows []models.BudgetRow) ([]models.BudgetRow, error)
}

// Suggester proposes categories for candidates and learns confirmed choices.
type Suggester interface {
	Suggest(ctx context.Context, tx categorizer.Transaction, categories []models.Category) (categorizer.Suggestion, bool, error)
	Learn(tx categorizer.Transaction, categoryName string)
	AutoLearn() bool
	Save() error
}

// Options tune parsing and duplicate detection.
type Options struct {
	Tabular            tabular.Options
	DuplicateTolerance decimal.Decimal
}

// DefaultOptions returns auto-detecting options with the default tolerance.
func DefaultOptions() Options {
	return Options{
		Tabular:            tabular.Options{Delimiter: "auto", Encoding: "auto"},
		DuplicateTolerance: DefaultDuplicateTolerance,
	}
}

// Summary reports the outcome of FinalizeSelection.
type Summary struct {
	Total      int
	Added      int
	Duplicates int
	Skipped    int
	Rows       []models.BudgetRow
}

// Pipeline holds the state of one import.
type Pipeline struct {
	ledger    Ledger
	suggester Suggester
	opts      Options
	logger    logging.Logger
	newID     func() string
	progress  func(done, total int)

	stage      Stage
	fileName   string
	format     tabular.Format
	grid       [][]string
	mapping    Mapping
	candidates []models.Candidate
	skips      []parsererror.ParseSkip
	summary    Summary
}

// NewPipeline creates a pipeline in the upload stage. suggester may be nil.
func NewPipeline(ledger Ledger, suggester Suggester, opts Options, logger logging.Logger) *Pipeline {
	if opts.DuplicateTolerance.IsZero() {
		opts.DuplicateTolerance = DefaultDuplicateTolerance
	}
	return &Pipeline{
		ledger:    ledger,
		suggester: suggester,
		opts:      opts,
		logger:    logging.OrDefault(logger),
		newID:     uuid.NewString,
		stage:     StageUpload,
	}
}

// SetProgress installs a callback invoked after each data row is normalized.
func (p *Pipeline) SetProgress(fn func(done, total int)) {
	p.progress = fn
}

// Stage returns the current stage.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

func (p *Pipeline) require(op string, stage Stage) error {
	if p.stage != stage {
		return &parsererror.StateError{Op: op, State: p.stage.String()}
	}
	return nil
}

// SubmitFile reads a bank export and moves to the mapping stage with a
// suggested column mapping.
func (p *Pipeline) SubmitFile(name string, r io.Reader) (Mapping, error) {
	if err := p.require("submit file", StageUpload); err != nil {
		return nil, err
	}
	grid, format, err := tabular.ReadNamed(name, r, p.opts.Tabular, p.logger)
	if err != nil {
		return nil, &parsererror.FileFormatError{FilePath: name, Format: string(format), Msg: "cannot read file", Err: err}
	}
	return p.accept(name, format, grid)
}

// SubmitGrid accepts an already parsed grid whose first row is the header.
func (p *Pipeline) SubmitGrid(rows [][]string) (Mapping, error) {
	if err := p.require("submit grid", StageUpload); err != nil {
		return nil, err
	}
	return p.accept("", "", tabular.Pad(rows))
}

func (p *Pipeline) accept(name string, format tabular.Format, grid [][]string) (Mapping, error) {
	if len(grid) < 2 {
		return nil, &parsererror.FileFormatError{
			FilePath: name,
			Format:   string(format),
			Rows:     len(grid),
			Msg:      "the file is empty or holds no data rows",
		}
	}
	p.fileName = name
	p.format = format
	p.grid = grid
	p.mapping = SuggestMapping(grid[0])
	p.stage = StageMapping

	p.logger.WithFields(
		logging.F(logging.FieldFile, name),
		logging.F(logging.FieldFormat, string(format)),
		logging.F(logging.FieldCount, len(grid)-1),
	).Info("File accepted for import")
	return p.mapping.Clone(), nil
}

// Header returns the header row of the submitted grid.
func (p *Pipeline) Header() []string {
	if len(p.grid) == 0 {
		return nil
	}
	return append([]string(nil), p.grid[0]...)
}

// Preview returns up to n data rows of the submitted grid.
func (p *Pipeline) Preview(n int) [][]string {
	if len(p.grid) < 2 {
		return nil
	}
	rows := p.grid[1:]
	if n >= 0 && n < len(rows) {
		rows = rows[:n]
	}
	preview := make([][]string, len(rows))
	for i, row := range rows {
		preview[i] = append([]string(nil), row...)
	}
	return preview
}

// Format returns the detected format of the submitted file.
func (p *Pipeline) Format() tabular.Format {
	return p.format
}

// Mapping returns a copy of the current column mapping.
func (p *Pipeline) Mapping() Mapping {
	return p.mapping.Clone()
}

// SetRole assigns column to role. The column is released from any other role.
func (p *Pipeline) SetRole(role Role, column int) error {
	if err := p.require("set role", StageMapping); err != nil {
		return err
	}
	if _, ok := roleKeywords[role]; !ok {
		return fmt.Errorf("unknown column role %q", role)
	}
	if column < 0 || column >= len(p.grid[0]) {
		return fmt.Errorf("%w: %d", ErrInvalidColumn, column)
	}
	p.mapping.assign(role, column)
	return nil
}

// ClearRole sets role to ignored.
func (p *Pipeline) ClearRole(role Role) error {
	if err := p.require("clear role", StageMapping); err != nil {
		return err
	}
	delete(p.mapping, role)
	return nil
}

// ConfirmMapping normalizes every data row into a candidate and moves to the
// categorize stage.
func (p *Pipeline) ConfirmMapping() ([]models.Candidate, error) {
	if err := p.require("confirm mapping", StageMapping); err != nil {
		return nil, err
	}
	if missing := p.mapping.missing(); len(missing) > 0 {
		return nil, &parsererror.MappingIncompleteError{Missing: missing}
	}

	candidates, skips := p.buildCandidates()
	if len(candidates) == 0 {
		return nil, &parsererror.NoValidRowsError{Rows: len(p.grid) - 1, Skipped: len(skips)}
	}

	p.candidates = candidates
	p.skips = skips
	p.stage = StageCategorize

	duplicates := 0
	for _, c := range candidates {
		if c.IsDuplicate {
			duplicates++
		}
	}
	p.logger.WithFields(
		logging.F(logging.FieldCount, len(candidates)),
		logging.F("duplicates", duplicates),
		logging.F("skipped", len(skips)),
	).Info("Mapping confirmed")
	return p.Candidates(), nil
}

func (p *Pipeline) buildCandidates() ([]models.Candidate, []parsererror.ParseSkip) {
	dateCol, _ := p.mapping.Column(RoleDate)
	descCol, _ := p.mapping.Column(RoleDescription)
	posCol, hasPos := p.mapping.Column(RolePositive)
	negCol, hasNeg := p.mapping.Column(RoleNegative)

	rows := p.grid[1:]
	existing := make(map[[2]int][]models.BudgetRow)
	var candidates []models.Candidate
	var skips []parsererror.ParseSkip

	for i, row := range rows {
		if p.progress != nil {
			p.progress(i+1, len(rows))
		}
		if isBlankRow(row) {
			continue
		}
		sourceRow := i + 1

		rawDate := cell(row, dateCol)
		date, ok := dateutils.NormalizeImportDate(rawDate)
		if !ok {
			skip := parsererror.ParseSkip{Row: sourceRow, Field: "date", Value: rawDate, Reason: "unrecognized date"}
			p.logger.WithFields(
				logging.F(logging.FieldRow, sourceRow),
				logging.F(logging.FieldReason, skip.Reason),
			).Warn("Row skipped")
			skips = append(skips, skip)
			continue
		}

		description := strings.TrimSpace(cell(row, descCol))
		if description == "" {
			description = NoDescription
		}

		var signed decimal.Decimal
		switch {
		case hasPos && hasNeg:
			pos := currencyutils.ParseLooseAmount(cell(row, posCol))
			neg := currencyutils.ParseLooseAmount(cell(row, negCol))
			signed = pos.Abs().Sub(neg.Abs())
		case hasPos:
			signed = currencyutils.ParseLooseAmount(cell(row, posCol))
		case hasNeg:
			signed = currencyutils.ParseLooseAmount(cell(row, negCol)).Abs().Neg()
		}

		monthIndex, year := models.PeriodOf(date)
		key := [2]int{monthIndex, year}
		if _, ok := existing[key]; !ok {
			existing[key] = p.ledger.RowsForPeriod(monthIndex, year)
		}
		duplicate := IsDuplicate(signed, description, existing[key], p.opts.DuplicateTolerance)

		candidates = append(candidates, models.Candidate{
			TempID:       p.newID(),
			Date:         date,
			Description:  description,
			Amount:       signed.Abs(),
			SignedAmount: signed,
			MonthIndex:   monthIndex,
			Year:         year,
			IsDuplicate:  duplicate,
			Selected:     !duplicate,
			SourceRow:    sourceRow,
		})
	}
	return candidates, skips
}

// IsDuplicate reports whether an existing row has the same absolute amount,
// within tolerance, and a description contained in the candidate's or
// containing it. Descriptions are compared trimmed and lower-cased.
func IsDuplicate(amount decimal.Decimal, description string, existing []models.BudgetRow, tolerance decimal.Decimal) bool {
	target := strings.ToLower(strings.TrimSpace(description))
	for _, row := range existing {
		if !currencyutils.WithinTolerance(row.Actual.Abs(), amount.Abs(), tolerance) {
			continue
		}
		rowDesc := strings.ToLower(strings.TrimSpace(row.Description))
		if strings.Contains(rowDesc, target) || strings.Contains(target, rowDesc) {
			return true
		}
	}
	return false
}

// Skips returns the rows dropped during the last ConfirmMapping.
func (p *Pipeline) Skips() []parsererror.ParseSkip {
	return append([]parsererror.ParseSkip(nil), p.skips...)
}

// Candidates returns a copy of the candidate set.
func (p *Pipeline) Candidates() []models.Candidate {
	return append([]models.Candidate(nil), p.candidates...)
}

func (p *Pipeline) candidateIndex(tempID string) (int, error) {
	for i := range p.candidates {
		if p.candidates[i].TempID == tempID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownCandidate, tempID)
}

// Toggle flips the selection of a candidate.
func (p *Pipeline) Toggle(tempID string) error {
	if err := p.require("toggle", StageCategorize); err != nil {
		return err
	}
	i, err := p.candidateIndex(tempID)
	if err != nil {
		return err
	}
	p.candidates[i].Selected = !p.candidates[i].Selected
	return nil
}

// SetSelected sets the selection of a candidate.
func (p *Pipeline) SetSelected(tempID string, selected bool) error {
	if err := p.require("select", StageCategorize); err != nil {
		return err
	}
	i, err := p.candidateIndex(tempID)
	if err != nil {
		return err
	}
	p.candidates[i].Selected = selected
	return nil
}

func (p *Pipeline) category(id string) (models.Category, error) {
	for _, c := range p.ledger.ListCategories() {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Category{}, fmt.Errorf("%w: %s", ErrUnknownCategory, id)
}

// AssignCategory sets the category of a candidate. An empty categoryID clears it.
func (p *Pipeline) AssignCategory(tempID, categoryID string) error {
	if err := p.require("assign category", StageCategorize); err != nil {
		return err
	}
	i, err := p.candidateIndex(tempID)
	if err != nil {
		return err
	}
	if categoryID != "" {
		if _, err := p.category(categoryID); err != nil {
			return err
		}
	}
	p.candidates[i].CategoryID = categoryID
	return nil
}

// AssignAll gives categoryID to every selected candidate without a category
// and returns how many were assigned.
func (p *Pipeline) AssignAll(categoryID string) (int, error) {
	if err := p.require("assign all", StageCategorize); err != nil {
		return 0, err
	}
	if _, err := p.category(categoryID); err != nil {
		return 0, err
	}
	n := 0
	for i := range p.candidates {
		if p.candidates[i].Selected && p.candidates[i].CategoryID == "" {
			p.candidates[i].CategoryID = categoryID
			n++
		}
	}
	return n, nil
}

func transactionOf(c models.Candidate) categorizer.Transaction {
	return categorizer.Transaction{
		Description: c.Description,
		Amount:      c.SignedAmount,
		IsCredit:    c.IsCredit(),
	}
}

// SuggestCategories fills the category of unassigned candidates from the
// suggester and returns how many were filled.
func (p *Pipeline) SuggestCategories(ctx context.Context) (int, error) {
	if err := p.require("suggest categories", StageCategorize); err != nil {
		return 0, err
	}
	if p.suggester == nil {
		return 0, nil
	}
	categories := p.ledger.ListCategories()
	n := 0
	for i := range p.candidates {
		if p.candidates[i].CategoryID != "" {
			continue
		}
		suggestion, found, err := p.suggester.Suggest(ctx, transactionOf(p.candidates[i]), categories)
		if err != nil {
			return n, err
		}
		if found {
			p.candidates[i].CategoryID = suggestion.CategoryID
			n++
		}
	}
	p.logger.WithField(logging.FieldCount, n).Debug("Categories suggested")
	return n, nil
}

// FinalizeSelection turns the selected candidates into budget rows, adds them
// to the ledger in one mutation and moves to the success stage.
func (p *Pipeline) FinalizeSelection() (Summary, error) {
	if err := p.require("finalize", StageCategorize); err != nil {
		return Summary{}, err
	}

	var selected []models.Candidate
	missing := 0
	example := ""
	duplicates := 0
	for _, c := range p.candidates {
		if c.IsDuplicate {
			duplicates++
		}
		if !c.Selected {
			continue
		}
		selected = append(selected, c)
		if c.CategoryID == "" {
			if missing == 0 {
				example = c.Description
			}
			missing++
		}
	}
	if missing > 0 {
		return Summary{}, &parsererror.CategorizationIncompleteError{Missing: missing, Example: example}
	}
	if len(selected) == 0 {
		return Summary{}, &parsererror.CategorizationIncompleteError{NothingSelected: true}
	}

	categories := make(map[string]models.Category)
	for _, c := range p.ledger.ListCategories() {
		categories[c.ID] = c
	}

	rows := make([]models.BudgetRow, 0, len(selected))
	for _, c := range selected {
		cat, ok := categories[c.CategoryID]
		if !ok {
			return Summary{}, fmt.Errorf("%w: %s", ErrUnknownCategory, c.CategoryID)
		}
		row, err := models.NewBudgetRowBuilder().
			WithCategory(c.CategoryID).
			WithDescription(c.Description).
			WithActual(c.Amount).
			WithPeriod(c.MonthIndex, c.Year).
			WithDebt(cat.LinkedDebtID).
			Build()
		if err != nil {
			return Summary{}, fmt.Errorf("invalid imported row %q: %w", c.Description, err)
		}
		rows = append(rows, row)
	}

	added, err := p.ledger.AddBudgetRows(rows)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to add imported rows: %w", err)
	}

	p.learn(selected, categories)

	p.summary = Summary{
		Total:      len(p.candidates),
		Added:      len(added),
		Duplicates: duplicates,
		Skipped:    len(p.skips),
		Rows:       added,
	}
	p.stage = StageSuccess
	p.logger.WithFields(
		logging.F(logging.FieldFile, p.fileName),
		logging.F("total", p.summary.Total),
		logging.F("added", p.summary.Added),
	).Info("Import finalized")
	return p.summary, nil
}

func (p *Pipeline) learn(selected []models.Candidate, categories map[string]models.Category) {
	if p.suggester == nil {
		return
	}
	for _, c := range selected {
		p.suggester.Learn(transactionOf(c), categories[c.CategoryID].Name)
	}
	if !p.suggester.AutoLearn() {
		return
	}
	if err := p.suggester.Save(); err != nil {
		p.logger.WithError(err).Warn("Failed to save learned mappings")
	}
}

// Summary returns the outcome of the last successful finalization.
func (p *Pipeline) Summary() Summary {
	return p.summary
}

// Back returns to the previous stage. Only mapping and categorize can go back.
func (p *Pipeline) Back() error {
	switch p.stage {
	case StageMapping:
		p.grid = nil
		p.mapping = nil
		p.fileName = ""
		p.format = ""
		p.stage = StageUpload
	case StageCategorize:
		p.candidates = nil
		p.skips = nil
		p.stage = StageMapping
	default:
		return &parsererror.StateError{Op: "back", State: p.stage.String()}
	}
	p.logger.WithField(logging.FieldStage, p.stage.String()).Debug("Moved back")
	return nil
}

// Reset discards everything and returns to the upload stage.
func (p *Pipeline) Reset() {
	p.stage = StageUpload
	p.fileName = ""
	p.format = ""
	p.grid = nil
	p.mapping = nil
	p.candidates = nil
	p.skips = nil
	p.summary = Summary{}
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldFormat     = "format"
	FieldCount      = "count"
	FieldDelimiter  = "delimiter"
	FieldOperation  = "operation"
	FieldStage      = "stage"
	FieldRow        = "row"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldCategoryID = "category_id"
	FieldDebtID     = "debt_id"
	FieldRowID      = "row_id"
	FieldStrategy   = "strategy"
	FieldReason     = "reason"
	FieldError      = "error"
)

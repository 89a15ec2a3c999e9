package logging

// Standardized field names for structured logging.
const (
	FieldComponent   = "component"
	FieldHouseholdID = "household_id"
	FieldFeeID       = "fee_id"
	FieldPaymentID   = "payment_id"
	FieldPeriod      = "period"
	FieldWindow      = "window"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldFile        = "file_path"
	FieldRow         = "row"
	FieldBackend     = "backend"
	FieldFormat      = "format"
)

// Component names
const (
	ComponentResolver   = "fee_status"
	ComponentAggregator = "revenue"
	ComponentDashboard  = "dashboard"
	ComponentStore      = "store"
	ComponentImporter   = "importer"
	ComponentService    = "service"
)

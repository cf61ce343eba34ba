package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldPlanID     = "plan_id"
	FieldStrategy   = "strategy"
	FieldDays       = "days"
	FieldCategories = "categories"
	FieldResolution = "resolution"
	FieldRemainder  = "remainder_hours"
	FieldSheetsRef  = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentRender  = "render"
)

// Operations defines standard operation names
const (
	OpAllocate = "allocate"
	OpSave     = "save"
	OpList     = "list"
	OpAppend   = "append"
	OpSync     = "sync"
	OpValidate = "validate"
	OpRender   = "render"
	OpExport   = "export"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

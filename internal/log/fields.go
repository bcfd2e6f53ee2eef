package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldDurationHuman = "duration_human"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldAmountCents   = "amount_cents"
	FieldCategory      = "category"
	FieldEventKind     = "event_kind"
	FieldSheetRef      = "sheet_ref"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentHTTP        = "http"
	ComponentTransaction = "transaction"
	ComponentStorage     = "storage"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentExport      = "export"
	ComponentCache       = "cache"
	ComponentClient      = "client"
	ComponentRateLimit   = "rate_limit"
	ComponentTrace       = "trace"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpList     = "list"
	OpDelete   = "delete"
	OpRefresh  = "refresh"
	OpValidate = "validate"
	OpAppend   = "append"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldAccountID     = "account_id"
	FieldAccountName   = "account_name"
	FieldTransactionID = "transaction_id"
	FieldType          = "transaction_type"
	FieldCategory      = "category"
	FieldAmountCents   = "amount_cents"
	FieldBalanceCents  = "balance_cents"
	FieldBudgetCents   = "budget_cents"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSuggest = "suggest"
	ComponentSheets  = "sheets"
)

// Operations defines standard operation names
const (
	OpCreate = "create"
	OpEdit   = "edit"
	OpDelete = "delete"
	OpQuery  = "query"
	OpSync   = "sync"
	OpExport = "export"
)

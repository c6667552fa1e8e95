package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldBackend    = "backend"
	FieldCurrency   = "currency"
	FieldTxID       = "transaction_id"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentHTTP   = "http"
	ComponentLedger = "ledger"
	ComponentKV     = "kv"
	ComponentRates  = "rates"
	ComponentEvents = "events"
	ComponentMirror = "mirror"
	ComponentWorker = "worker"
)

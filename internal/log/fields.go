package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldMonth       = "month"
	FieldTxID        = "transaction_id"
	FieldTxType      = "transaction_type"
	FieldGoalID      = "goal_id"
	FieldGoalName    = "goal_name"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldDigestRef   = "digest_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentEngine  = "insights"
	ComponentStorage = "storage"
	ComponentEvent   = "event"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
	ComponentAdvisor = "advisor"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpDerive   = "derive"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpExport   = "export"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds transaction-related fields
func (f LogFields) WithTransaction(id string, txType string, amountCents int64, category string) LogFields {
	f[FieldTxID] = id
	f[FieldTxType] = txType
	f[FieldAmountCents] = amountCents
	f[FieldCategory] = category
	return f
}

// WithGoal adds goal-related fields
func (f LogFields) WithGoal(id, name string) LogFields {
	f[FieldGoalID] = id
	f[FieldGoalName] = name
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}

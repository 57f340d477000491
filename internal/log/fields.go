package log

import "github.com/shopspring/decimal"

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldEntity     = "entity"
	FieldEntityID   = "entity_id"
	FieldAmount     = "amount"
	FieldCategory   = "category"
	FieldEvent      = "event"
	FieldCount      = "count"
	FieldBackend    = "backend"
	FieldJob        = "job"
	FieldSchedule   = "schedule"
	FieldWorkbook   = "workbook"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStore    = "store"
	ComponentStorage  = "storage"
	ComponentBackend  = "backend"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSheets   = "sheets"
	ComponentExport   = "export"
	ComponentServices = "services"
	ComponentTrace    = "trace"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpLoad     = "load"
	OpPersist  = "persist"
	OpPublish  = "publish"
	OpAdjust   = "adjust"
	OpPay      = "pay"
	OpRollover = "rollover"
	OpRemind   = "remind"
	OpExport   = "export"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithEntity adds the entity kind and id a mutation touched.
func (f LogFields) WithEntity(kind, id string) LogFields {
	f[FieldEntity] = kind
	if id != "" {
		f[FieldEntityID] = id
	}
	return f
}

// WithMoney adds amount and category fields.
func (f LogFields) WithMoney(amount decimal.Decimal, category string) LogFields {
	f[FieldAmount] = amount.String()
	if category != "" {
		f[FieldCategory] = category
	}
	return f
}

func (f LogFields) WithHTTPRequest(method, path, clientIP string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldClientIP] = clientIP
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
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

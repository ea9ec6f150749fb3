package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldIntent      = "intent"
	FieldVersion     = "version"
	FieldBackend     = "backend"
	FieldPath        = "path"
	FieldBytes       = "bytes"
	FieldFingerprint = "fingerprint"
	FieldCount       = "count"
	FieldCurrency    = "currency"
	FieldDuration    = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentStore     = "store"
	ComponentStorage   = "storage"
	ComponentCache     = "cache"
	ComponentRates     = "rates"
	ComponentValidator = "validator"
	ComponentMCP       = "mcp"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpMigrate  = "migrate"
	OpDispatch = "dispatch"
	OpCompute  = "compute"
	OpFetch    = "fetch"
	OpValidate = "validate"
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

// WithIntent adds the intent name and resulting state version
func (f LogFields) WithIntent(intent string, version uint64) LogFields {
	f[FieldIntent] = intent
	f[FieldVersion] = version
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

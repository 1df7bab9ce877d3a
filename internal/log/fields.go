package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldTable      = "table"
	FieldRowID      = "row_id"
	FieldBackend    = "backend"
	FieldTotal      = "total"
	FieldAccountID  = "account_id"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentRows    = "rows"
	ComponentDash    = "dash"
	ComponentTrips   = "trips"
	ComponentUsers   = "users"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentProfile = "profile"
	ComponentBackend = "backend"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpList      = "list"
	OpGet       = "get"
	OpCreate    = "create"
	OpUpdate    = "update"
	OpAggregate = "aggregate"
	OpMirror    = "mirror"
	OpPublish   = "publish"
	OpConsume   = "consume"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)

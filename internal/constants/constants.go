package constants

// Pagination defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Password policy
const MinPasswordLength = 8

// Context keys
const (
	ContextKeyIdentity  = "identity"
	ContextKeyTodo      = "todo"
	ContextKeyRequestID = "request_id"
)

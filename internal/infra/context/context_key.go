package context

type contextKey string

const (
	contextKeyTraceID = contextKey("traceID")
	contextKeySession = contextKey("session")
)

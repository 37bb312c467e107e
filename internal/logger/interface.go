package logger

// Fields are structured key/value pairs attached to a log line.
type Fields map[string]interface{}

// Logger provides structured logging with context
type Logger interface {
	Info(component, message string, fields Fields)
	Error(component string, err error, fields Fields)
	Warning(component, message string, fields Fields)
	Debug(component, message string, fields Fields)

	// With returns a logger that adds fields to every line it writes.
	With(fields Fields) Logger
}

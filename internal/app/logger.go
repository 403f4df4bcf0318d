package app

// Logger records service activity. It matches the signature of *log.Logger
// and logging.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

// Printf does nothing.
func (NopLogger) Printf(string, ...any) {}

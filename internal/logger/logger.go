package logger

import (
	"log/slog"
	"os"
)

// Logger is the slog-backed logger shared by the services, repositories
// and HTTP layer of the authorization server.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing text records to stdout at the given slog
// level.
func New(level int) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// Fatal logs at error level and exits the process. Reserved for startup
// failures before the server is serving.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}

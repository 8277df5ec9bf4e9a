package logger

import (
	"io"
	"sync"
)

// Log levels accepted in the log.level setting.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// globalLogger holds the singleton logger instance.
	globalLogger *Logger
	once         sync.Once
)

// Get returns a singleton logger configured with the provided level.
// The first call initializes the logger; subsequent calls ignore the level
// and return the already initialized instance.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level, nil)
	})
	return globalLogger
}

// New builds a standalone logger writing to w, stdout when w is nil.
// Tests use it to capture output without touching the singleton.
func New(level string, w io.Writer) *Logger {
	return newZapLogger(level, w)
}

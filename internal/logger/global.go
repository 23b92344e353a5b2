package logger

import (
	"sync"
)

var (
	globalLogger   Logger
	globalLoggerMu sync.Mutex
)

// SetGlobal sets the global logger instance.
// This should be called once during application startup after loading configuration.
func SetGlobal(l Logger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = l
}

// Global returns the global logger instance.
// If no logger has been set via SetGlobal, it returns a console logger at info level.
func Global() Logger {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()

	if globalLogger == nil {
		globalLogger = NewConsoleLogger("", LogLevelInfo)
	}
	return globalLogger
}

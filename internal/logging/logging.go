package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

var (
	mu          sync.RWMutex
	current     LogLevel
	initialized bool
)

// ParseLevel maps a level name to a LogLevel. Unknown names yield LevelInfo
// and false.
func ParseLevel(name string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// levelFromEnv resolves the level from DEBUG and LOG_LEVEL.
func levelFromEnv() LogLevel {
	switch strings.ToLower(os.Getenv("DEBUG")) {
	case "1", "true", "yes", "on":
		return LevelDebug
	}
	level, _ := ParseLevel(os.Getenv("LOG_LEVEL"))
	return level
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	mu.RLock()
	if initialized {
		defer mu.RUnlock()
		return current
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if !initialized {
		current = levelFromEnv()
		initialized = true
	}
	return current
}

// SetLevel overrides the level read from the environment.
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	current = level
	initialized = true
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

// Debug logs a debug message (only if DEBUG=true or LOG_LEVEL=debug)
func Debug(format string, args ...interface{}) {
	if GetLevel() <= LevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	if GetLevel() <= LevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	if GetLevel() <= LevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	if GetLevel() <= LevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

// Fatal logs an error message and exits
func Fatal(format string, args ...interface{}) {
	log.Fatalf("[FATAL] "+format, args...)
}

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

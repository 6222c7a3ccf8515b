package logger

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelStrings = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// Logger provides structured leveled logging with timestamp and caller name
type Logger struct {
	minLevel LogLevel
}

// NewLogger creates a new logger instance
func NewLogger(minLevel LogLevel) *Logger {
	return &Logger{minLevel: minLevel}
}

// Default logger instance (INFO level)
var defaultLogger = NewLogger(INFO)

// callerName extracts the calling function name
func callerName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}

	name := runtime.FuncForPC(pc).Name()
	if idx := strings.LastIndex(name, "."); idx != -1 {
		name = name[idx+1:]
	}
	return name
}

// formatMessage creates the log line with timestamp, caller, and sorted
// key=value context pairs
func formatMessage(level LogLevel, caller, message string, context map[string]interface{}) string {
	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	var contextStr string
	if len(context) > 0 {
		keys := make([]string, 0, len(context))
		for k := range context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%v", k, context[k])
		}
		contextStr = " | " + strings.Join(pairs, " ")
	}

	return fmt.Sprintf("[%s] [%s] %s: %s%s",
		timestamp, caller, levelStrings[level], message, contextStr)
}

func (l *Logger) log(level LogLevel, message string, context map[string]interface{}) {
	if level < l.minLevel {
		return
	}

	// Skip: log -> Debug/Info/Warn/Error -> actual caller
	msg := formatMessage(level, callerName(3), message, context)

	if level >= ERROR {
		fmt.Fprintln(os.Stderr, msg)
	} else {
		fmt.Fprintln(os.Stdout, msg)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(message string, context ...map[string]interface{}) {
	l.log(DEBUG, message, first(context))
}

// Info logs an info message
func (l *Logger) Info(message string, context ...map[string]interface{}) {
	l.log(INFO, message, first(context))
}

// Warn logs a warning message
func (l *Logger) Warn(message string, context ...map[string]interface{}) {
	l.log(WARN, message, first(context))
}

// Error logs an error message
func (l *Logger) Error(message string, context ...map[string]interface{}) {
	l.log(ERROR, message, first(context))
}

func first(context []map[string]interface{}) map[string]interface{} {
	if len(context) > 0 {
		return context[0]
	}
	return nil
}

// Package-level convenience functions using the default logger

func Debug(message string, context ...map[string]interface{}) {
	defaultLogger.log(DEBUG, message, first(context))
}

func Info(message string, context ...map[string]interface{}) {
	defaultLogger.log(INFO, message, first(context))
}

func Warn(message string, context ...map[string]interface{}) {
	defaultLogger.log(WARN, message, first(context))
}

func Error(message string, context ...map[string]interface{}) {
	defaultLogger.log(ERROR, message, first(context))
}

// SetMinLevel sets the minimum log level for the default logger
func SetMinLevel(level LogLevel) {
	defaultLogger.minLevel = level
}

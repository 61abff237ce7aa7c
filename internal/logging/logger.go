package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

var Logger *log.Logger

// LogLevel represents available log levels
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// InitLogger initializes the global logger with configuration from environment variables
func InitLogger() {
	Logger = log.New(os.Stderr)

	// Set log level from environment variable (default: info)
	logLevel := ParseLevel(os.Getenv("LOG_LEVEL"))
	SetLevel(Logger, logLevel)

	Logger.SetReportTimestamp(true)
	Logger.SetReportCaller(false)

	Logger.Debug("Logger initialized successfully", "level", logLevel)
}

// Configure replaces the global logger with one writing to w at the given level.
// Commands call this once after loading config.
func Configure(w io.Writer, level string, pretty bool, prefix string) *log.Logger {
	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    pretty,
		Prefix:          prefix,
	})
	SetLevel(Logger, ParseLevel(level))
	return Logger
}

// ParseLevel maps a level name onto a LogLevel, defaulting to info
func ParseLevel(value string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// SetLevel configures the logger with the specified level
func SetLevel(logger *log.Logger, level LogLevel) {
	switch level {
	case DebugLevel:
		logger.SetLevel(log.DebugLevel)
	case InfoLevel:
		logger.SetLevel(log.InfoLevel)
	case WarnLevel:
		logger.SetLevel(log.WarnLevel)
	case ErrorLevel:
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

// GetLogger returns the global logger instance
func GetLogger() *log.Logger {
	if Logger == nil {
		InitLogger()
	}
	return Logger
}

// WithFields creates a logger with contextual fields
func WithFields(fields ...interface{}) *log.Logger {
	return GetLogger().With(fields...)
}

// WithWorldID creates a logger with world_id context
func WithWorldID(worldID string) *log.Logger {
	return WithFields("world_id", worldID)
}

// WithStage creates a logger tagged with a generation pipeline stage
func WithStage(stage string) *log.Logger {
	return WithFields("stage", stage)
}

// WithCoords creates a logger with coordinate context
func WithCoords(x, y int) *log.Logger {
	return WithFields("x", x, "y", y)
}

// WithDuration creates a logger with duration context (for performance logging)
func WithDuration(operation string, duration interface{}) *log.Logger {
	return WithFields("operation", operation, "duration", duration)
}

// Package logging provides structured logging using Go's slog package.
package logging

import (
	"log/slog"
	"os"
	"time"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
)

func init() {
	// Initialize with a default logger (JSON format, Info level)
	InitLogger(LevelInfo, FormatJSON)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// InitLogger initializes the global logger with the specified level and format.
func InitLogger(level Level, format Format) {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Customize timestamp format
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// Helper functions for common logging patterns

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// BookLoad logs book loading events with common fields.
func BookLoad(bookCode, path string, lineCount int, duration time.Duration, args ...any) {
	allArgs := []any{
		"book", bookCode,
		"path", path,
		"line_count", lineCount,
		"duration_ms", duration.Milliseconds(),
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("book_load", allArgs...)
}

// BookCheck logs the outcome of running the validators over a book.
func BookCheck(bookCode string, lineCount, errorCount int, duration time.Duration, args ...any) {
	allArgs := []any{
		"book", bookCode,
		"line_count", lineCount,
		"error_count", errorCount,
		"duration_ms", duration.Milliseconds(),
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("book_check", allArgs...)
}

// FixError logs text repair errors found while normalizing a line.
func FixError(bookCode, chapter, verse, message string, args ...any) {
	allArgs := []any{
		"book", bookCode,
		"chapter", chapter,
		"verse", verse,
		"message", message,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Error("fix_error", allArgs...)
}

// ExportEvent logs report export events.
func ExportEvent(format, path string, byteCount int, args ...any) {
	allArgs := []any{
		"format", format,
		"path", path,
		"byte_count", byteCount,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("export", allArgs...)
}

// LexiconEvent logs lexicon conversion events.
func LexiconEvent(event, path string, entryCount int, args ...any) {
	allArgs := []any{
		"event", event,
		"path", path,
		"entry_count", entryCount,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("lexicon", allArgs...)
}

package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	JSONLoggingFormat = "json"

	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
	LogLevelFatal   = "fatal"
	LogLevelPanic   = "panic"

	// ContextKeyChangeID carries the unique identifier of the change
	// record currently being processed.
	ContextKeyChangeID contextKey = "changeID"
	// ContextKeyObjectClass carries the record's LDAP object class.
	ContextKeyObjectClass contextKey = "objectClass"
)

type Logger struct {
	zerolog.Logger
}

func New(level, format string) Logger {
	return NewWithWriter(level, format, os.Stdout)
}

func NewWithWriter(level, format string, w io.Writer) Logger {
	var logLevel zerolog.Level

	switch strings.ToLower(level) {
	case LogLevelDebug:
		logLevel = zerolog.DebugLevel
	case LogLevelInfo:
		logLevel = zerolog.InfoLevel
	case LogLevelWarn, LogLevelWarning:
		logLevel = zerolog.WarnLevel
	case LogLevelError:
		logLevel = zerolog.ErrorLevel
	case LogLevelFatal:
		logLevel = zerolog.FatalLevel
	case LogLevelPanic:
		logLevel = zerolog.PanicLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})

	if format == JSONLoggingFormat {
		logger = zerolog.New(w)
	}

	logger = logger.With().Timestamp().Logger()

	return Logger{
		Logger: logger,
	}
}

func (l Logger) WithContext(ctx context.Context) zerolog.Logger {
	logger := l.Logger

	if changeID, ok := ctx.Value(ContextKeyChangeID).(string); ok && changeID != "" {
		logger = logger.With().Str("change_id", changeID).Logger()
	}

	if objectClass, ok := ctx.Value(ContextKeyObjectClass).(string); ok && objectClass != "" {
		logger = logger.With().Str("object_class", objectClass).Logger()
	}

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		logger = logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return logger
}


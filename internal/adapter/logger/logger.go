package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sm8ta/bike_inventory_service/internal/core/ports"
)

type ctxKey struct{}

// ContextWithRequestID returns a copy of ctx carrying the request id that
// WithContext attaches to log entries.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type LoggerAdapter struct {
	entry *logrus.Entry
}

var _ ports.LoggerPort = (*LoggerAdapter)(nil)

// NewLoggerAdapter logs JSON in production and text everywhere else.
func NewLoggerAdapter(env, level string) *LoggerAdapter {
	return newLoggerAdapter(os.Stdout, env, level)
}

// NewDiscardLogger returns a logger that writes nowhere, for tests.
func NewDiscardLogger() *LoggerAdapter {
	return newLoggerAdapter(io.Discard, "test", "debug")
}

func newLoggerAdapter(out io.Writer, env, level string) *LoggerAdapter {
	l := logrus.New()
	l.SetOutput(out)

	if env == "production" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return &LoggerAdapter{entry: logrus.NewEntry(l)}
}

func (l *LoggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Debug(msg)
}

func (l *LoggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Info(msg)
}

func (l *LoggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Warn(msg)
}

func (l *LoggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Error(msg)
}

func (l *LoggerAdapter) WithContext(ctx context.Context) ports.LoggerPort {
	id := RequestIDFromContext(ctx)
	if id == "" {
		return l
	}
	return &LoggerAdapter{entry: l.entry.WithField("request_id", id)}
}

// Package logging builds the process logger and carries request-scoped entries.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// New builds a logger writing to stderr. format is "text" or "json".
func New(level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		lvl = parsed
	}
	logger.SetLevel(lvl)

	switch format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return logger, nil
}

// Discard returns a logger that drops everything. Used as the default for
// components built without one.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Into stores logger on ctx for WithContext.
func Into(ctx context.Context, logger logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// WithContext returns the logger stored on ctx, tagged with chi's request id
// when one is present.
func WithContext(ctx context.Context) logrus.FieldLogger {
	logger, ok := ctx.Value(ctxKey{}).(logrus.FieldLogger)
	if !ok {
		logger = logrus.StandardLogger()
	}
	if id := middleware.GetReqID(ctx); id != "" {
		return logger.WithField("request_id", id)
	}
	return logger
}

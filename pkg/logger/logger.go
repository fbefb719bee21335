// Package logger holds the process-wide zerolog logger and hands out
// request-scoped children through context.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(io.Discard)

type ctxKey struct{}

// Init configures the process logger. Development environments get a
// human-readable console writer, everything else JSON lines on stdout.
func Init(env, logLevel, service string) {
	var out io.Writer = os.Stdout
	if isDevelopment(env) {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}
	configure(out, logLevel, service)
}

func configure(out io.Writer, logLevel, service string) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := zerolog.New(out).With().Timestamp().Caller()
	if service != "" {
		ctx = ctx.Str("service", service)
	}
	log = ctx.Logger()
}

func isDevelopment(env string) bool {
	switch env {
	case "", "dev", "development", "local":
		return true
	}
	return false
}

// Get returns the process logger.
func Get() *zerolog.Logger {
	return &log
}

// WithContext returns the request-scoped logger if one was attached, else the global one.
func WithContext(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
		return l
	}
	return &log
}

// NewContext attaches l to ctx for WithContext to find.
func NewContext(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// ForRequest derives the per-request logger. traceID is omitted when empty.
func ForRequest(requestID, traceID string) zerolog.Logger {
	ctx := log.With().Str("request_id", requestID)
	if traceID != "" {
		ctx = ctx.Str("trace_id", traceID)
	}
	return ctx.Logger()
}

func ServiceStart(version, port string) {
	log.Info().Str("version", version).Str("port", port).Msg("Service started")
}

func ServiceStop() {
	log.Info().Msg("Service stopped")
}

// Package logging configures the process-wide zerolog logger and attaches
// correlation ids to context-scoped loggers.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	ctx = logging.WithCorrelationID(ctx)
//	logging.Ctx(ctx).Info().Str("image", path).Msg("recommend")
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error or disabled.
	Level string
	// Format is json or console.
	Format string
	// Caller adds file:line to every event.
	Caller bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init reconfigures the global logger. It may be called more than once.
func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}
	builder := zerolog.New(out).With().Timestamp()
	if cfg.Caller {
		builder = builder.Caller()
	}

	mu.Lock()
	log = builder.Logger()
	mu.Unlock()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug starts a debug event on the global logger.
func Debug() *zerolog.Event { l := Logger(); return l.Debug() }

// Info starts an info event on the global logger.
func Info() *zerolog.Event { l := Logger(); return l.Info() }

// Warn starts a warn event on the global logger.
func Warn() *zerolog.Event { l := Logger(); return l.Warn() }

// Error starts an error event on the global logger.
func Error() *zerolog.Event { l := Logger(); return l.Error() }

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// NewCorrelationID returns a short random id.
func NewCorrelationID() string {
	return uuid.New().String()[:8]
}

// WithCorrelationID returns ctx carrying a fresh correlation id, unless it
// already has one.
func WithCorrelationID(ctx context.Context) context.Context {
	if CorrelationID(ctx) != "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey, NewCorrelationID())
}

// CorrelationID returns the id stored in ctx, if any.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// Ctx returns the global logger enriched with the correlation id of ctx.
func Ctx(ctx context.Context) *zerolog.Logger {
	l := Logger()
	if id := CorrelationID(ctx); id != "" {
		l = l.With().Str("correlation_id", id).Logger()
	}
	return &l
}

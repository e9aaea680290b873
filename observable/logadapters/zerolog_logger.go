// Package logadapters provides zerolog implementations of observable.Logger and observable.ContextualLogger.
package logadapters

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable"
)

const (
	consoleTimeFormat = "2006-01-02 15:04:05"
	defaultLevel      = "info"
)

// ErrUnknownLogLevel is returned when a level name cannot be parsed.
var ErrUnknownLogLevel = errors.New("unknown log level")

// ZerologLogger implements observable.Logger and observable.ContextualLogger with a zerolog.Logger.
// Arguments are slog-style key/value pairs.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps an existing zerolog.Logger.
func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger}
}

// NewConsoleLogger creates a human-readable, timestamped logger writing to out.
// level is one of debug, info, warn, error; an empty level means info.
func NewConsoleLogger(out io.Writer, level string) (*ZerologLogger, error) {
	if level == "" {
		level = defaultLevel
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return nil, errors.Join(ErrUnknownLogLevel, errors.New(level))
	}

	consoleWriter := zerolog.ConsoleWriter{Out: out, TimeFormat: consoleTimeFormat}
	logger := zerolog.New(consoleWriter).Level(lvl).With().Timestamp().Logger()

	return &ZerologLogger{logger: logger}, nil
}

// Zerolog returns the underlying zerolog.Logger.
func (l *ZerologLogger) Zerolog() zerolog.Logger {
	return l.logger
}

func (l *ZerologLogger) Debug(msg string, args ...any) { l.logger.Debug().Fields(args).Msg(msg) }
func (l *ZerologLogger) Info(msg string, args ...any)  { l.logger.Info().Fields(args).Msg(msg) }
func (l *ZerologLogger) Warn(msg string, args ...any)  { l.logger.Warn().Fields(args).Msg(msg) }
func (l *ZerologLogger) Error(msg string, args ...any) { l.logger.Error().Fields(args).Msg(msg) }

func (l *ZerologLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.Debug().Ctx(ctx).Fields(args).Msg(msg)
}

func (l *ZerologLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.Info().Ctx(ctx).Fields(args).Msg(msg)
}

func (l *ZerologLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.Warn().Ctx(ctx).Fields(args).Msg(msg)
}

func (l *ZerologLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.Error().Ctx(ctx).Fields(args).Msg(msg)
}

var (
	_ observable.Logger           = (*ZerologLogger)(nil)
	_ observable.ContextualLogger = (*ZerologLogger)(nil)
)

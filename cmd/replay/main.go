// Command replay streams the events of a PostgreSQL events table to the console.
//
// Usage:
//
//	DB_ADAPTER=pgx DATABASE_URL=postgres://... replay -event-types BookCopyLentToReader -limit 100
//
// DB_ADAPTER selects the connection type: pgx (default), sql, or sqlx.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/dynamic-streams-observable-go/eventsource"
	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable/logadapters"
	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable/oteladapters"
)

const instrumentationName = "github.com/AntonStoeckl/dynamic-streams-observable-go/cmd/replay"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := parseConfig(args, os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger, err := logadapters.NewConsoleLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(logMsgAdapterInUse, "adapter", cfg.Adapter, "table", cfg.TableName)

	source, closeDB, err := openSource(ctx, cfg, sourceOptions(cfg, logger)...)
	if err != nil {
		logger.Error("failed to open event source", "error", err.Error())
		return 1
	}
	defer closeDB()

	stream, err := source.Stream(ctx, cfg.filter())
	if err != nil {
		logger.Error("failed to build event stream", "error", err.Error())
		return 1
	}

	result := replay(stream, cfg.Limit, logger.Zerolog())
	if result.Err != nil {
		logger.Error("replay failed", "error", result.Err.Error(), "events", result.Events)
		return 1
	}

	logger.Info("replay finished",
		"events", result.Events,
		"last_sequence_number", result.LastSeq,
		"completed", result.Completed,
		"limit_reached", result.LimitHit,
	)

	return 0
}

func sourceOptions(cfg Config, logger *logadapters.ZerologLogger) []eventsource.Option {
	options := []eventsource.Option{
		eventsource.WithTableName(cfg.TableName),
		eventsource.WithLogger(logger),
	}

	if cfg.OTelEnabled {
		options = append(options,
			eventsource.WithContextualLogger(oteladapters.NewSlogBridgeLogger(instrumentationName)),
			eventsource.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))),
			eventsource.WithTracing(oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))),
		)
	}

	return options
}

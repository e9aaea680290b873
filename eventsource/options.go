package eventsource

import "github.com/AntonStoeckl/dynamic-streams-observable-go/observable"

// Option defines a functional option for configuring a Source.
type Option func(*Source) error

// WithTableName sets the events table the Source reads from. Defaults to "events".
func WithTableName(tableName string) Option {
	return func(s *Source) error {
		if tableName == "" {
			return ErrEmptyEventsTableName
		}

		s.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Source and the streams it creates.
//
// Debug level: SQL queries with execution timing
// Info level: streams that read to the end, with event counts and durations
// Warn level: failures closing database rows
// Error level: failures delivered to the subscriber as Error notifications.
func WithLogger(logger observable.Logger) Option {
	return func(s *Source) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Source and the streams it creates.
func WithContextualLogger(logger observable.ContextualLogger) Option {
	return func(s *Source) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the streams the Source creates.
// Besides the observable_* metrics it receives eventsource_queries_total and eventsource_query_duration_seconds.
func WithMetrics(collector observable.MetricsCollector) Option {
	return func(s *Source) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the streams the Source creates.
func WithTracing(collector observable.TracingCollector) Option {
	return func(s *Source) error {
		s.tracingCollector = collector
		return nil
	}
}

package eventsource

import (
	"context"
	"math"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable"
)

const (
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgBuildStoredEventFailed = "failed to build stored event from database row"
	logMsgIteratingRowsFailed    = "database rows iteration failed"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgStreamCompleted        = "stream completed"
	logMsgSQLExecuted            = "executed sql for: stream"
	logMsgOperation              = "eventsource operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrTable                 = "table"
	logAttrEventType             = "event_type"
	logAttrEventCount            = "event_count"
	logAttrDurationMS            = "duration_ms"
	metricQueriesTotal           = "eventsource_queries_total"
	metricQueryDuration          = "eventsource_query_duration_seconds"
	labelTable                   = "table"
	labelStatus                  = "status"
	statusSuccess                = "success"
	statusError                  = "error"
	statusCanceled               = "canceled"
)

func (s Source) logQueryWithDuration(ctx context.Context, sqlQuery string, duration time.Duration) {
	s.logDebug(ctx, logMsgSQLExecuted, logAttrQuery, sqlQuery, logAttrDurationMS, toMilliseconds(duration))
}

// recordQuery records the outcome of one stream query with the metrics collector, if any.
func (s Source) recordQuery(ctx context.Context, status string, duration time.Duration) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{labelTable: s.eventTableName, labelStatus: status}

	if contextualCollector, ok := s.metricsCollector.(observable.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricQueriesTotal, labels)
		contextualCollector.RecordDurationContext(ctx, metricQueryDuration, duration, labels)

		return
	}

	s.metricsCollector.IncrementCounter(metricQueriesTotal, labels)
	s.metricsCollector.RecordDuration(metricQueryDuration, duration, labels)
}

func (s Source) logDebug(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, msg, args...)
	}
}

func (s Source) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+msg, args...)
	}
}

func (s Source) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, msg, args...)
	}
}

func (s Source) logError(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, msg, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

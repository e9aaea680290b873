package observable

import (
	"context"
	"math"
	"strconv"
	"sync/atomic"
	"time"
)

const (
	logMsgOperation            = "observable operation: "
	logMsgSubscribed           = "subscribed"
	logMsgTerminated           = "subscription terminated"
	logMsgDropped              = "notification dropped"
	logMsgTeardown             = "teardown"
	logAttrObservable          = "observable"
	logAttrSubscriptionID      = "subscription_id"
	logAttrStatus              = "status"
	logAttrKind                = "kind"
	logAttrNotificationCount   = "notification_count"
	logAttrDurationMS          = "duration_ms"
	logAttrSource              = "source"
	metricSubscriptions        = "observable_subscriptions_total"
	metricNotifications        = "observable_notifications_total"
	metricSubscriptionDuration = "observable_subscription_duration_seconds"
	spanNameSubscription       = "observable.subscription"
	spanAttrObservable         = "observable"
	spanAttrSubscriptionID     = "subscription_id"
	spanAttrNotificationCount  = "notification_count"
	spanAttrDurationMS         = "duration_ms"
	statusCompleted            = "completed"
	statusError                = "error"
	statusCanceled             = "canceled"
)

// subscriptionState carries the observability data of one subscription from subscribe to teardown.
// status and notifications are written by the producer's goroutine and read by the teardown,
// which may run on the goroutine calling Unsubscribe.
type subscriptionState struct {
	ctx           context.Context
	span          SpanContext
	id            string
	start         time.Time
	status        atomic.Value
	notifications atomic.Int64
}

func newSubscriptionState(id string) *subscriptionState {
	state := &subscriptionState{
		id:    id,
		start: time.Now(),
	}
	state.status.Store(statusCanceled)

	return state
}

func (s *subscriptionState) currentStatus() string {
	status, _ := s.status.Load().(string)

	return status
}

// instrumentHandlers wraps normalized handlers so that every delivered notification is counted
// and the terminal status is recorded before the consumer's handler runs.
func instrumentHandlers[T, E any](s *settings, state *subscriptionState, handlers Handlers[T, E]) Handlers[T, E] {
	h := handlers.normalize()

	return Handlers[T, E]{
		Start: h.Start,
		Next: func(value T) {
			s.recordNotification(state, KindNext)
			h.Next(value)
		},
		Error: func(err E) {
			state.status.Store(statusError)
			s.recordNotification(state, KindError)
			h.Error(err)
		},
		Complete: func() {
			state.status.Store(statusCompleted)
			s.recordNotification(state, KindComplete)
			h.Complete()
		},
	}
}

func (s *settings) recordSubscribed(state *subscriptionState) {
	s.logDebug(state.ctx, logMsgOperation+logMsgSubscribed,
		logAttrObservable, s.name,
		logAttrSubscriptionID, state.id,
	)

	s.incrementCounter(state.ctx, metricSubscriptions, map[string]string{logAttrObservable: s.name})
}

func (s *settings) recordNotification(state *subscriptionState, kind Kind) {
	state.notifications.Add(1)

	s.incrementCounter(state.ctx, metricNotifications, map[string]string{
		logAttrObservable: s.name,
		logAttrKind:       kind.String(),
	})
}

func (s *settings) recordTerminated(state *subscriptionState) {
	duration := time.Since(state.start)
	status := state.currentStatus()
	notifications := state.notifications.Load()

	s.logInfo(state.ctx, logMsgOperation+logMsgTerminated,
		logAttrObservable, s.name,
		logAttrSubscriptionID, state.id,
		logAttrStatus, status,
		logAttrNotificationCount, notifications,
		logAttrDurationMS, toMilliseconds(duration),
	)

	s.recordDuration(state.ctx, metricSubscriptionDuration, duration, map[string]string{
		logAttrObservable: s.name,
		logAttrStatus:     status,
	})

	s.finishSubscriptionSpan(state, status, notifications, duration)
}

func (s *settings) logDropped(state *subscriptionState, kind Kind) {
	s.logDebug(state.ctx, logMsgOperation+logMsgDropped,
		logAttrObservable, s.name,
		logAttrSubscriptionID, state.id,
		logAttrKind, kind.String(),
	)
}

// teardownLogger returns a Teardown that only records that teardown occurred.
func (s *settings) teardownLogger(source string) Teardown {
	return func() {
		s.logDebug(context.Background(), logMsgOperation+logMsgTeardown,
			logAttrObservable, s.name,
			logAttrSource, source,
		)
	}
}

func (s *settings) startSubscriptionSpan(ctx context.Context, subscriptionID string) (context.Context, SpanContext) {
	if s.tracingCollector == nil {
		return ctx, nil
	}

	return s.tracingCollector.StartSpan(ctx, spanNameSubscription, map[string]string{
		spanAttrObservable:     s.name,
		spanAttrSubscriptionID: subscriptionID,
	})
}

func (s *settings) finishSubscriptionSpan(state *subscriptionState, status string, notifications int64, duration time.Duration) {
	if s.tracingCollector == nil || state.span == nil {
		return
	}

	state.span.SetStatus(status)

	s.tracingCollector.FinishSpan(state.span, status, map[string]string{
		spanAttrNotificationCount: strconv.FormatInt(notifications, 10),
		spanAttrDurationMS:        strconv.FormatFloat(toMilliseconds(duration), 'f', 3, 64),
	})
}

// incrementCounter uses the context-aware method if the collector supports it.
func (s *settings) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := s.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metric, labels)
}

// recordDuration uses the context-aware method if the collector supports it.
func (s *settings) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if s.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := s.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(metric, duration, labels)
}

func (s *settings) logDebug(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, msg, args...)
	}
}

func (s *settings) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, msg, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

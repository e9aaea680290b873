package observable

const defaultObservableName = "observable"

// settings holds the observability configuration shared by all subscriptions of one Observable.
type settings struct {
	name             string
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// Option defines a functional option for configuring an Observable.
type Option func(*settings) error

// WithName sets the name used in log records, metric labels and span attributes.
func WithName(name string) Option {
	return func(s *settings) error {
		if name == "" {
			return ErrEmptyObservableName
		}

		s.name = name

		return nil
	}
}

// WithLogger sets the logger for the Observable.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: subscriptions, teardowns, notifications dropped after the subscription was closed
// Info level: subscription termination with status, notification count and duration.
func WithLogger(logger Logger) Option {
	return func(s *settings) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Observable.
// It receives the same messages as the Logger, together with the context passed to SubscribeContext.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(s *settings) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Observable.
// The collector receives subscription counts, notification counts per kind, and subscription durations.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *settings) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Observable.
// One span per subscription is started on subscribe and finished when the teardown runs.
func WithTracing(collector TracingCollector) Option {
	return func(s *settings) error {
		s.tracingCollector = collector
		return nil
	}
}

func buildSettings(options []Option) (settings, error) {
	s := settings{name: defaultObservableName}

	for _, option := range options {
		if option == nil {
			continue
		}

		if err := option(&s); err != nil {
			return settings{}, err
		}
	}

	return s, nil
}

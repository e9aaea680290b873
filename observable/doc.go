// Package observable provides a minimal, synchronous push-based notification primitive.
//
// An Observable describes how to produce a sequence of notifications for a subscriber.
// Subscribing runs the producer synchronously: it pushes zero or more values through
// Observer.Next, followed by at most one terminal notification (Observer.Error or
// Observer.Complete). The returned Subscription can be unsubscribed at any time,
// including from inside a handler, which stops further delivery and runs the producer's
// Teardown exactly once.
//
// Guarantees per subscription:
//   - at most one terminal notification, never both Error and Complete
//   - no notification reaches the handlers after the subscription is closed
//   - Unsubscribe is idempotent, the Teardown runs at most once
//   - a terminal notification unsubscribes automatically
//
// Observable and Observer are parametrized over the value type T and the error payload type E.
// Handler panics are not recovered; they propagate to the caller of Subscribe.
//
// Common usage pattern:
//
//	numbers, err := observable.From[int, error]([]int{1, 2, 3})
//	if err != nil {
//		// handle error
//	}
//
//	var log []string
//	numbers.Subscribe(observable.Handlers[int, error]{
//		Next:     func(n int) { log = append(log, strconv.Itoa(n)) },
//		Complete: func() { log = append(log, "done") },
//	})
//	// log == ["1", "2", "3", "done"]
//
// Observability is injected with the functional options WithLogger, WithContextualLogger,
// WithMetrics and WithTracing, using the dependency-free interfaces declared in this package.
package observable

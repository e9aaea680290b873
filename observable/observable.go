package observable

import (
	"context"

	"github.com/google/uuid"
)

// SubscribeFunc describes how to produce notifications for one Observer.
// It runs synchronously inside Subscribe and returns the Teardown for this subscription, which may be nil.
type SubscribeFunc[T, E any] func(observer *Observer[T, E]) Teardown

// Observable is a reusable description of how to produce a notification sequence.
// It is immutable and may be subscribed to any number of times; every subscription is independent.
//
// The zero value never emits: subscribing to it returns an already closed Subscription.
type Observable[T, E any] struct {
	subscribe SubscribeFunc[T, E]
	settings  settings
}

// New creates an Observable from a SubscribeFunc with optional configuration.
func New[T, E any](subscribe SubscribeFunc[T, E], options ...Option) (Observable[T, E], error) {
	if subscribe == nil {
		return Observable[T, E]{}, ErrNilSubscribeFunc
	}

	s, err := buildSettings(options)
	if err != nil {
		return Observable[T, E]{}, err
	}

	return Observable[T, E]{subscribe: subscribe, settings: s}, nil
}

// Name returns the name configured with WithName.
func (o Observable[T, E]) Name() string {
	return o.settings.name
}

// Subscribe is SubscribeContext with context.Background().
func (o Observable[T, E]) Subscribe(handlers Handlers[T, E]) Subscription {
	return o.SubscribeContext(context.Background(), handlers)
}

// SubscribeContext creates a new Observer from handlers, hands the Subscription to handlers.Start,
// and runs the SubscribeFunc with the Observer.
// All notifications the producer emits synchronously are delivered before SubscribeContext returns.
//
// The Teardown returned by the producer is attached to the Observer afterward. If the subscription
// was already closed while the producer ran (terminal notification or Unsubscribe from a handler),
// the Teardown runs before SubscribeContext returns.
//
// The context is only used for observability: contextual logging, metrics, and tracing.
func (o Observable[T, E]) SubscribeContext(ctx context.Context, handlers Handlers[T, E]) Subscription {
	if o.subscribe == nil {
		return Subscription{}
	}

	state := newSubscriptionState(uuid.NewString())
	state.ctx, state.span = o.settings.startSubscriptionSpan(ctx, state.id)

	h := handlers.normalize()
	observer := newObserver(instrumentHandlers(&o.settings, state, h))
	observer.dropped = func(kind Kind) {
		o.settings.logDropped(state, kind)
	}
	subscription := Subscription{id: state.id, target: observer}

	o.settings.recordSubscribed(state)
	h.Start(subscription)

	teardown := o.subscribe(observer)

	observer.attachTeardown(func() {
		if teardown != nil {
			teardown()
		}

		o.settings.recordTerminated(state)
	})

	return subscription
}

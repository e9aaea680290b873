package observable

import (
	"sync"
	"sync/atomic"
)

// Teardown is the cleanup procedure returned by a producer. It runs exactly once per subscription,
// after a terminal notification or on the first Unsubscribe, whichever comes first.
type Teardown func()

// Handlers is the set of consumer callbacks for one subscription.
// Every field is optional; a missing handler turns the corresponding notification into a silent state transition.
//
// Start receives the Subscription before the producer runs. Since a synchronous producer emits everything
// before Subscribe returns, it is the only way for handlers to unsubscribe in the middle of an emission.
type Handlers[T, E any] struct {
	Start    func(subscription Subscription)
	Next     func(value T)
	Error    func(err E)
	Complete func()
}

// normalize returns a copy of h in which every callback is non-nil.
func (h Handlers[T, E]) normalize() Handlers[T, E] {
	if h.Start == nil {
		h.Start = func(Subscription) {}
	}

	if h.Next == nil {
		h.Next = func(T) {}
	}

	if h.Error == nil {
		h.Error = func(E) {}
	}

	if h.Complete == nil {
		h.Complete = func() {}
	}

	return h
}

// Observer is the per-subscription recipient of notifications.
//
// Producers receive it as the argument of their SubscribeFunc and push notifications into it.
// It delivers at most one terminal notification, stays silent once closed, and runs the
// attached Teardown exactly once.
//
// Notification delivery must be serialized by the producer.
// IsUnsubscribed and Unsubscribe may be called from any goroutine.
type Observer[T, E any] struct {
	handlers Handlers[T, E]
	closed   atomic.Bool
	dropped  func(kind Kind)

	mu       sync.Mutex
	teardown Teardown
	attached bool
	tornDown bool
}

func newObserver[T, E any](handlers Handlers[T, E]) *Observer[T, E] {
	return &Observer[T, E]{handlers: handlers.normalize()}
}

// Next delivers value to the Next handler unless the Observer is closed.
func (o *Observer[T, E]) Next(value T) {
	if o.closed.Load() {
		o.drop(KindNext)
		return
	}

	o.handlers.Next(value)
}

// Error delivers err to the Error handler and unsubscribes. It is a no-op once the Observer is closed.
func (o *Observer[T, E]) Error(err E) {
	if !o.closed.CompareAndSwap(false, true) {
		o.drop(KindError)
		return
	}

	o.handlers.Error(err)
	o.runTeardown()
}

// Complete invokes the Complete handler and unsubscribes. It is a no-op once the Observer is closed.
func (o *Observer[T, E]) Complete() {
	if !o.closed.CompareAndSwap(false, true) {
		o.drop(KindComplete)
		return
	}

	o.handlers.Complete()
	o.runTeardown()
}

// Notify dispatches a materialized notification.
func (o *Observer[T, E]) Notify(n Notification[T, E]) {
	switch n.Kind() {
	case KindNext:
		o.Next(n.Value())
	case KindError:
		o.Error(n.Err())
	case KindComplete:
		o.Complete()
	}
}

// Unsubscribe closes the Observer and runs the Teardown if it is attached and has not run yet.
// It is idempotent and safe to call from inside a handler or from the Teardown itself.
func (o *Observer[T, E]) Unsubscribe() {
	o.closed.Store(true)
	o.runTeardown()
}

// IsUnsubscribed reports whether the Observer is closed, either by a terminal notification or by Unsubscribe.
// Producers emitting in a loop check it before each emission.
func (o *Observer[T, E]) IsUnsubscribed() bool {
	return o.closed.Load()
}

// attachTeardown sets the Teardown once. If the Observer was closed while the producer was still
// running, the Teardown runs right away.
func (o *Observer[T, E]) attachTeardown(teardown Teardown) {
	o.mu.Lock()
	if o.attached {
		o.mu.Unlock()
		return
	}
	o.attached = true
	o.teardown = teardown
	o.mu.Unlock()

	if o.closed.Load() {
		o.runTeardown()
	}
}

func (o *Observer[T, E]) runTeardown() {
	o.mu.Lock()
	if !o.attached || o.tornDown {
		o.mu.Unlock()
		return
	}
	o.tornDown = true
	teardown := o.teardown
	o.mu.Unlock()

	if teardown != nil {
		teardown()
	}
}

func (o *Observer[T, E]) drop(kind Kind) {
	if o.dropped != nil {
		o.dropped(kind)
	}
}

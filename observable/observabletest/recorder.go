// Package observabletest provides helpers for testing producers and consumers of observable.Observable.
package observabletest

import (
	"sync"

	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable"
)

// Recorder records every notification it receives, in delivery order.
//
// Recorder is safe for concurrent reads while a subscription delivers notifications.
type Recorder[T, E any] struct {
	notifications []observable.Notification[T, E]
	mu            sync.Mutex
}

// NewRecorder constructs a Recorder.
func NewRecorder[T, E any]() *Recorder[T, E] {
	return &Recorder[T, E]{}
}

// Handlers returns handlers that append to the recorder.
func (r *Recorder[T, E]) Handlers() observable.Handlers[T, E] {
	return observable.Handlers[T, E]{
		Next:     func(value T) { r.record(observable.NextNotification[T, E](value)) },
		Error:    func(err E) { r.record(observable.ErrorNotification[T](err)) },
		Complete: func() { r.record(observable.CompleteNotification[T, E]()) },
	}
}

func (r *Recorder[T, E]) record(n observable.Notification[T, E]) {
	r.mu.Lock()
	r.notifications = append(r.notifications, n)
	r.mu.Unlock()
}

// Notifications returns a snapshot copy of all recorded notifications.
func (r *Recorder[T, E]) Notifications() []observable.Notification[T, E] {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := make([]observable.Notification[T, E], len(r.notifications))
	copy(cp, r.notifications)

	return cp
}

// Kinds returns the kinds of all recorded notifications, in order.
func (r *Recorder[T, E]) Kinds() []observable.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]observable.Kind, 0, len(r.notifications))
	for _, n := range r.notifications {
		kinds = append(kinds, n.Kind())
	}

	return kinds
}

// Values returns the payloads of all recorded Next notifications, in order.
func (r *Recorder[T, E]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]T, 0, len(r.notifications))
	for _, n := range r.notifications {
		if n.Kind() == observable.KindNext {
			values = append(values, n.Value())
		}
	}

	return values
}

// Errors returns the payloads of all recorded Error notifications.
func (r *Recorder[T, E]) Errors() []E {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []E
	for _, n := range r.notifications {
		if n.Kind() == observable.KindError {
			errs = append(errs, n.Err())
		}
	}

	return errs
}

// Completions returns the number of recorded Complete notifications.
func (r *Recorder[T, E]) Completions() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, n := range r.notifications {
		if n.Kind() == observable.KindComplete {
			count++
		}
	}

	return count
}

package observable

import (
	"iter"
	"slices"
)

const (
	sourceFrom  = "from"
	sourceSeq   = "seq"
	sourceEmpty = "empty"
	sourceThrow = "throw"
)

// From returns an Observable that emits every element of seq in order and then completes.
//
// The elements are copied, later changes to seq are not observed.
// Emission stops immediately, without Complete, when the subscription is closed from inside a handler.
// The Teardown only records that teardown occurred. From never calls Error.
func From[T, E any](seq []T, options ...Option) (Observable[T, E], error) {
	s, err := buildSettings(options)
	if err != nil {
		return Observable[T, E]{}, err
	}

	values := slices.Clone(seq)

	subscribe := func(observer *Observer[T, E]) Teardown {
		for _, value := range values {
			if observer.IsUnsubscribed() {
				return s.teardownLogger(sourceFrom)
			}

			observer.Next(value)
		}

		observer.Complete()

		return s.teardownLogger(sourceFrom)
	}

	return Observable[T, E]{subscribe: subscribe, settings: s}, nil
}

// Of is From for a variadic list of values.
func Of[T, E any](values ...T) (Observable[T, E], error) {
	return From[T, E](values)
}

// FromSeq returns an Observable that ranges over seq on every subscription and then completes.
// The iteration is stopped as soon as the subscription is closed.
func FromSeq[T, E any](seq iter.Seq[T], options ...Option) (Observable[T, E], error) {
	if seq == nil {
		return Observable[T, E]{}, ErrNilSequence
	}

	s, err := buildSettings(options)
	if err != nil {
		return Observable[T, E]{}, err
	}

	subscribe := func(observer *Observer[T, E]) Teardown {
		for value := range seq {
			if observer.IsUnsubscribed() {
				return s.teardownLogger(sourceSeq)
			}

			observer.Next(value)
		}

		observer.Complete()

		return s.teardownLogger(sourceSeq)
	}

	return Observable[T, E]{subscribe: subscribe, settings: s}, nil
}

// Empty returns an Observable that completes immediately without emitting values.
func Empty[T, E any](options ...Option) (Observable[T, E], error) {
	s, err := buildSettings(options)
	if err != nil {
		return Observable[T, E]{}, err
	}

	subscribe := func(observer *Observer[T, E]) Teardown {
		observer.Complete()

		return s.teardownLogger(sourceEmpty)
	}

	return Observable[T, E]{subscribe: subscribe, settings: s}, nil
}

// Throw returns an Observable that delivers err as its only notification.
func Throw[T, E any](err E, options ...Option) (Observable[T, E], error) {
	s, buildErr := buildSettings(options)
	if buildErr != nil {
		return Observable[T, E]{}, buildErr
	}

	subscribe := func(observer *Observer[T, E]) Teardown {
		observer.Error(err)

		return s.teardownLogger(sourceThrow)
	}

	return Observable[T, E]{subscribe: subscribe, settings: s}, nil
}

package observable

// Kind identifies the type of a Notification.
type Kind uint8

const (
	KindNext Kind = iota + 1
	KindError
	KindComplete
)

func (k Kind) String() string {
	switch k {
	case KindNext:
		return "next"
	case KindError:
		return "error"
	case KindComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the kind ends a subscription.
func (k Kind) IsTerminal() bool {
	return k == KindError || k == KindComplete
}

// Notification is a materialized Next, Error or Complete call.
//
// It should only be constructed with the supplied factory functions:
//   - NextNotification
//   - ErrorNotification
//   - CompleteNotification
type Notification[T, E any] struct {
	kind  Kind
	value T
	err   E
}

// NextNotification materializes Observer.Next(value).
func NextNotification[T, E any](value T) Notification[T, E] {
	return Notification[T, E]{kind: KindNext, value: value}
}

// ErrorNotification materializes Observer.Error(err).
func ErrorNotification[T, E any](err E) Notification[T, E] {
	return Notification[T, E]{kind: KindError, err: err}
}

// CompleteNotification materializes Observer.Complete().
func CompleteNotification[T, E any]() Notification[T, E] {
	return Notification[T, E]{kind: KindComplete}
}

func (n Notification[T, E]) Kind() Kind {
	return n.kind
}

// Value returns the payload of a Next notification, the zero value otherwise.
func (n Notification[T, E]) Value() T {
	return n.value
}

// Err returns the payload of an Error notification, the zero value otherwise.
func (n Notification[T, E]) Err() E {
	return n.err
}

package observable

type unsubscriber interface {
	Unsubscribe()
	IsUnsubscribed() bool
}

// Subscription is the handle returned by Subscribe. It closes over exactly one Observer.
//
// The zero value is an already closed Subscription.
type Subscription struct {
	id     string
	target unsubscriber
}

// Unsubscribe stops further delivery and runs the producer's Teardown if it has not run yet.
// Calling it multiple times has no further effect.
func (s Subscription) Unsubscribe() {
	if s.target == nil {
		return
	}

	s.target.Unsubscribe()
}

// IsUnsubscribed reports whether the subscription is closed, either by Unsubscribe or by a terminal notification.
func (s Subscription) IsUnsubscribed() bool {
	if s.target == nil {
		return true
	}

	return s.target.IsUnsubscribed()
}

// ID returns the unique id of this subscription, as used in log records and span attributes.
func (s Subscription) ID() string {
	return s.id
}

package eventsource

import (
	"cmp"
	"slices"
	"time"
)

// Predicate matches events whose JSON payload contains key with the string value val.
type Predicate struct {
	key string
	val string
}

// P creates a Predicate.
func P(key, val string) Predicate {
	return Predicate{key: key, val: val}
}

func (p Predicate) Key() string { return p.key }
func (p Predicate) Val() string { return p.val }

// Filter selects the rows a stream emits. The zero Filter matches every event.
//
// The conditions combine as:
//
//	(eventType OR eventType...) AND (predicate OR|AND predicate...)
//	AND occurred_at >= from AND occurred_at <= until AND sequence_number > after
//
// Conditions that were not set are left out.
type Filter struct {
	eventTypes             []string
	predicates             []Predicate
	allPredicatesMustMatch bool
	occurredFrom           time.Time
	occurredUntil          time.Time
	afterSequenceNumber    uint64
}

func (f Filter) EventTypes() []string         { return f.eventTypes }
func (f Filter) Predicates() []Predicate      { return f.predicates }
func (f Filter) AllPredicatesMustMatch() bool { return f.allPredicatesMustMatch }
func (f Filter) OccurredFrom() time.Time      { return f.occurredFrom }
func (f Filter) OccurredUntil() time.Time     { return f.occurredUntil }
func (f Filter) AfterSequenceNumber() uint64  { return f.afterSequenceNumber }
func (f Filter) MatchesAnyEvent() bool        { return f.isEmpty() }

func (f Filter) isEmpty() bool {
	return len(f.eventTypes) == 0 &&
		len(f.predicates) == 0 &&
		f.occurredFrom.IsZero() &&
		f.occurredUntil.IsZero() &&
		f.afterSequenceNumber == 0
}

// FilterBuilder builds a Filter. Every method returns the builder for chaining.
type FilterBuilder struct {
	filter Filter
}

// BuildFilter starts a new FilterBuilder.
func BuildFilter() *FilterBuilder {
	return &FilterBuilder{}
}

// AnyEventTypeOf adds event types, of which one must match.
//
// It sanitizes the input:
//   - removing empty event types ("")
//   - sorting the event types
//   - removing duplicate event types
func (b *FilterBuilder) AnyEventTypeOf(eventTypes ...string) *FilterBuilder {
	b.filter.eventTypes = sanitizeEventTypes(append(b.filter.eventTypes, eventTypes...))

	return b
}

// AnyPredicateOf adds predicates, of which one must match.
// It sanitizes the input the same way as AnyEventTypeOf; partial predicates (empty key or val) are removed.
func (b *FilterBuilder) AnyPredicateOf(predicates ...Predicate) *FilterBuilder {
	b.filter.predicates = sanitizePredicates(append(b.filter.predicates, predicates...))
	b.filter.allPredicatesMustMatch = false

	return b
}

// AllPredicatesOf adds predicates which must all match.
func (b *FilterBuilder) AllPredicatesOf(predicates ...Predicate) *FilterBuilder {
	b.filter.predicates = sanitizePredicates(append(b.filter.predicates, predicates...))
	b.filter.allPredicatesMustMatch = true

	return b
}

// OccurredFrom sets the inclusive lower bound of occurred_at.
func (b *FilterBuilder) OccurredFrom(from time.Time) *FilterBuilder {
	b.filter.occurredFrom = from

	return b
}

// OccurredUntil sets the inclusive upper bound of occurred_at.
func (b *FilterBuilder) OccurredUntil(until time.Time) *FilterBuilder {
	b.filter.occurredUntil = until

	return b
}

// FromSequenceNumber restricts the stream to events after sequenceNumber, e.g. the last one a projection has seen.
func (b *FilterBuilder) FromSequenceNumber(sequenceNumber uint64) *FilterBuilder {
	b.filter.afterSequenceNumber = sequenceNumber

	return b
}

// Finalize returns the Filter.
func (b *FilterBuilder) Finalize() Filter {
	f := b.filter
	f.eventTypes = slices.Clone(f.eventTypes)
	f.predicates = slices.Clone(f.predicates)

	return f
}

func sanitizeEventTypes(eventTypes []string) []string {
	eventTypes = slices.DeleteFunc(eventTypes, func(eventType string) bool { return eventType == "" })
	slices.Sort(eventTypes)

	return slices.Compact(eventTypes)
}

func sanitizePredicates(predicates []Predicate) []Predicate {
	predicates = slices.DeleteFunc(predicates, func(p Predicate) bool { return p.key == "" || p.val == "" })
	slices.SortFunc(predicates, func(a, b Predicate) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}

		return cmp.Compare(a.val, b.val)
	})

	return slices.Compact(predicates)
}

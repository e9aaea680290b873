package main

import (
	"github.com/rs/zerolog"

	"github.com/AntonStoeckl/dynamic-streams-observable-go/eventsource"
	"github.com/AntonStoeckl/dynamic-streams-observable-go/observable"
)

// replayResult summarizes one replay subscription.
type replayResult struct {
	Events    int
	LastSeq   uint64
	Completed bool
	LimitHit  bool
	Err       error
}

// replay subscribes to stream and writes every event to logger.
// With a positive limit it unsubscribes from inside Next once limit events were written.
func replay(stream observable.Observable[eventsource.StoredEvent, error], limit int, logger zerolog.Logger) replayResult {
	var (
		result replayResult
		sub    observable.Subscription
	)

	stream.Subscribe(observable.Handlers[eventsource.StoredEvent, error]{
		Start: func(s observable.Subscription) { sub = s },
		Next: func(event eventsource.StoredEvent) {
			result.Events++
			result.LastSeq = event.SequenceNumber

			logger.Info().
				Uint64("sequence_number", event.SequenceNumber).
				Str("event_type", event.EventType).
				Time("occurred_at", event.OccurredAt).
				RawJSON("payload", event.PayloadJSON).
				Msg("event")

			if limit > 0 && result.Events >= limit {
				result.LimitHit = true
				sub.Unsubscribe()
			}
		},
		Error: func(err error) {
			result.Err = err
		},
		Complete: func() {
			result.Completed = true
		},
	})

	return result
}
